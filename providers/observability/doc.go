// Package observability defines the interfaces used for tracing, metrics,
// and structured logging throughout the nodeflow library.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. The node engine and the
// model providers read their observer from the context: attach one with
// [ContextWithObserver] and retrieve it with [ObserverFromContext]. Spans
// propagate the same way via [ContextWithSpan] and [SpanFromContext].
//
// A nil [Provider] is always valid and disables observability entirely; see
// the slogobs subpackage for a standard-library backed implementation.
package observability
