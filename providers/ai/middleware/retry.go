package middleware

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/leofalp/nodeflow/providers/ai"
)

// RetryConfig holds the tuning parameters for [WithRetry]. Zero values are
// replaced with the defaults documented below.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first
	// failure. A value of 3 means the client is called at most 4 times.
	// Default: 3.
	MaxRetries int

	// InitialBackoff is the wait duration before the first retry attempt.
	// Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier applied on
	// successive retries (backoff = min(InitialBackoff * BackoffFactor^attempt,
	// MaxBackoff)). Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds random noise to the computed backoff in the range
	// [0, JitterFraction * backoff] to avoid thundering-herd problems.
	// Default: 0.1.
	JitterFraction float64

	// RetryableFunc reports whether an error should trigger a retry. The
	// default retries on HTTP status codes 429, 500, 502, 503, and 529 by
	// matching the error message.
	RetryableFunc func(error) bool
}

// defaultRetryableFunc returns true for transient HTTP errors. It inspects
// the error string because provider errors carry status codes as text.
func defaultRetryableFunc(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, code := range []string{"429", "500", "502", "503", "529"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}
	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}
	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}
	if config.RetryableFunc == nil {
		config.RetryableFunc = defaultRetryableFunc
	}
}

// computeBackoff returns the backoff duration for the given attempt
// (0-indexed): min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) + jitter.
func computeBackoff(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}
	jitter := base * config.JitterFraction * rand.Float64()
	return time.Duration(base + jitter)
}

// WithRetry wraps client so failed calls are retried according to config.
// Zero-valued config fields are replaced with safe defaults. On exhaustion
// the returned error wraps both [ErrRetryExhausted] and the last client
// error. Context cancellation is respected between attempts.
func WithRetry(client ai.Client, config RetryConfig) ai.Client {
	applyRetryDefaults(&config)
	r := &retrier{next: client, config: config}
	if vision, ok := client.(ai.VisionClient); ok {
		return &visionRetrier{retrier: r, vision: vision}
	}
	return r
}

type retrier struct {
	next   ai.Client
	config RetryConfig
}

func (r *retrier) SendMessage(ctx context.Context, request ai.ChatRequest) (any, error) {
	return r.do(ctx, func(ctx context.Context) (any, error) {
		return r.next.SendMessage(ctx, request)
	})
}

func (r *retrier) do(ctx context.Context, call func(context.Context) (any, error)) (any, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := computeBackoff(r.config, attempt-1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		response, err := call(ctx)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !r.config.RetryableFunc(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, r.config.MaxRetries, lastErr)
}

type visionRetrier struct {
	*retrier
	vision ai.VisionClient
}

func (r *visionRetrier) SendVisionMessage(ctx context.Context, request ai.ChatRequest, imagePaths []string) (any, error) {
	return r.do(ctx, func(ctx context.Context) (any, error) {
		return r.vision.SendVisionMessage(ctx, request, imagePaths)
	})
}
