// Package middleware provides decorators for [ai.Client] implementations.
// Each With* function wraps a client and returns a new one with the added
// behavior; a wrapped [ai.VisionClient] keeps its vision capability, so
// decorated clients still work with image-accepting nodes.
//
// # Available decorators
//
//   - [WithRetry]: retries failed calls with exponential backoff and jitter.
//     Useful for transient HTTP 429 / 5xx errors.
//
//   - [WithTimeout]: adds a per-call deadline via context.WithTimeout, so a
//     stalled model call does not block the invocation indefinitely.
//
//   - [WithLogging]: emits structured slog entries before and after every
//     call, with three verbosity levels (Minimal, Standard, Verbose).
//
// # Usage
//
//	client := middleware.WithTimeout(
//	    middleware.WithRetry(openai.New(), middleware.RetryConfig{MaxRetries: 3}),
//	    30*time.Second,
//	)
//
// Decorators apply innermost-last: in the example above a call travels
// Timeout → Retry → provider, so each retry attempt runs under the same
// overall deadline.
package middleware
