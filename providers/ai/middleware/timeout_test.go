package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leofalp/nodeflow/providers/ai"
)

// slowClient blocks until its delay elapses or the context expires.
type slowClient struct {
	delay time.Duration
}

func (s *slowClient) SendMessage(ctx context.Context, _ ai.ChatRequest) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
		return "done", nil
	}
}

// deadlineCapture records the deadline visible to the wrapped client.
type deadlineCapture struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineCapture) SendMessage(ctx context.Context, _ ai.ChatRequest) (any, error) {
	d.deadline, d.ok = ctx.Deadline()
	return "ok", nil
}

func TestWithTimeout_DeadlineEnforced(t *testing.T) {
	client := WithTimeout(&slowClient{delay: time.Minute}, 10*time.Millisecond)

	_, err := client.SendMessage(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestWithTimeout_FastCallSucceeds(t *testing.T) {
	client := WithTimeout(&slowClient{delay: time.Millisecond}, time.Second)

	response, err := client.SendMessage(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response != "done" {
		t.Errorf("response = %v, want %q", response, "done")
	}
}

func TestWithTimeout_AppliesDeadline(t *testing.T) {
	capture := &deadlineCapture{}
	client := WithTimeout(capture, time.Hour)

	if _, err := client.SendMessage(context.Background(), ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !capture.ok {
		t.Fatal("wrapped client saw no deadline")
	}
	remaining := time.Until(capture.deadline)
	if remaining < 59*time.Minute || remaining > 61*time.Minute {
		t.Errorf("deadline %v from now, want ~1h", remaining)
	}
}

func TestWithTimeout_ShorterCallerDeadlineWins(t *testing.T) {
	capture := &deadlineCapture{}
	client := WithTimeout(capture, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.SendMessage(ctx, ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(capture.deadline) > time.Minute {
		t.Errorf("deadline %v from now, want the caller's shorter deadline", time.Until(capture.deadline))
	}
}

func TestWithTimeout_PreservesVisionCapability(t *testing.T) {
	stub := &stubVisionClient{}
	client := WithTimeout(stub, time.Second)

	vision, ok := client.(ai.VisionClient)
	if !ok {
		t.Fatal("wrapped client lost the vision capability")
	}

	response, err := vision.SendVisionMessage(context.Background(), ai.ChatRequest{}, []string{"a.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response != "vision ok" {
		t.Errorf("response = %v", response)
	}
	if stub.visionCalls != 1 {
		t.Errorf("visionCalls = %d, want 1", stub.visionCalls)
	}
}

func TestWithTimeout_PlainClientGainsNoVision(t *testing.T) {
	client := WithTimeout(&slowClient{}, time.Second)

	if _, ok := client.(ai.VisionClient); ok {
		t.Error("plain client gained a vision capability through wrapping")
	}
}
