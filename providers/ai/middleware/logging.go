package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leofalp/nodeflow/providers/ai"
	"github.com/leofalp/nodeflow/providers/observability"
)

// LogLevel controls how much detail the logging decorator emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs only the call kind, duration, and outcome. Use
	// this for lightweight audit trails without noise.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard logs everything in Minimal plus the message count and
	// format hint. This is the recommended default.
	LogLevelStandard

	// LogLevelVerbose logs everything in Standard plus the last message
	// content and the response, each truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. It logs raw prompt
	// and response text, which may contain sensitive user data or PII. It is
	// intended solely for local debugging.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// WithLogging wraps client so every call emits structured slog entries on
// the way in and out. The logger must not be nil; use slog.Default() if no
// custom logger is configured.
func WithLogging(client ai.Client, logger *slog.Logger, level LogLevel) ai.Client {
	l := &logging{next: client, logger: logger, level: level}
	if vision, ok := client.(ai.VisionClient); ok {
		return &visionLogging{logging: l, vision: vision}
	}
	return l
}

type logging struct {
	next   ai.Client
	logger *slog.Logger
	level  LogLevel
}

func (l *logging) SendMessage(ctx context.Context, request ai.ChatRequest) (any, error) {
	l.logger.InfoContext(ctx, "model call", l.requestAttrs("send", request)...)

	start := time.Now()
	response, err := l.next.SendMessage(ctx, request)
	elapsed := time.Since(start)

	if err != nil {
		l.logger.ErrorContext(ctx, "model call failed",
			slog.String("kind", "send"),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	l.logger.InfoContext(ctx, "model call completed", l.responseAttrs("send", response, elapsed)...)
	return response, nil
}

// requestAttrs returns slog attributes for an outgoing request, expanding
// detail according to the verbosity level.
func (l *logging) requestAttrs(kind string, request ai.ChatRequest) []any {
	attrs := []any{
		slog.String("kind", kind),
	}

	if l.level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("message_count", len(request.Messages)))
		if request.Format != "" {
			attrs = append(attrs, slog.String("format", request.Format))
		}
	}

	if l.level >= LogLevelVerbose && len(request.Messages) > 0 {
		last := request.Messages[len(request.Messages)-1]
		attrs = append(attrs,
			slog.String("last_message_role", string(last.Role)),
			slog.String("last_message_content", observability.TruncateString(last.Content, truncateLen)),
		)
	}

	return attrs
}

// responseAttrs returns slog attributes for a completed call, expanding
// detail according to the verbosity level.
func (l *logging) responseAttrs(kind string, response any, elapsed time.Duration) []any {
	attrs := []any{
		slog.String("kind", kind),
		slog.Duration("duration", elapsed),
	}

	if l.level >= LogLevelVerbose {
		content, ok := response.(string)
		if !ok {
			content = fmt.Sprintf("%v", response)
		}
		attrs = append(attrs, slog.String("response_content", observability.TruncateString(content, truncateLen)))
	}

	return attrs
}

type visionLogging struct {
	*logging
	vision ai.VisionClient
}

func (l *visionLogging) SendVisionMessage(ctx context.Context, request ai.ChatRequest, imagePaths []string) (any, error) {
	attrs := append(l.requestAttrs("vision", request), slog.Int("image_count", len(imagePaths)))
	l.logger.InfoContext(ctx, "model call", attrs...)

	start := time.Now()
	response, err := l.vision.SendVisionMessage(ctx, request, imagePaths)
	elapsed := time.Since(start)

	if err != nil {
		l.logger.ErrorContext(ctx, "model call failed",
			slog.String("kind", "vision"),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	l.logger.InfoContext(ctx, "model call completed", l.responseAttrs("vision", response, elapsed)...)
	return response, nil
}
