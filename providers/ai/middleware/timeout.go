package middleware

import (
	"context"
	"time"

	"github.com/leofalp/nodeflow/providers/ai"
)

// WithTimeout wraps client so every call carries a deadline of at most
// timeout. If the caller's context already has a shorter deadline, the
// shorter one wins as per normal context semantics.
func WithTimeout(client ai.Client, timeout time.Duration) ai.Client {
	t := &timeouter{next: client, timeout: timeout}
	if vision, ok := client.(ai.VisionClient); ok {
		return &visionTimeouter{timeouter: t, vision: vision}
	}
	return t
}

type timeouter struct {
	next    ai.Client
	timeout time.Duration
}

func (t *timeouter) SendMessage(ctx context.Context, request ai.ChatRequest) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.next.SendMessage(ctx, request)
}

type visionTimeouter struct {
	*timeouter
	vision ai.VisionClient
}

func (t *visionTimeouter) SendVisionMessage(ctx context.Context, request ai.ChatRequest, imagePaths []string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.vision.SendVisionMessage(ctx, request, imagePaths)
}
