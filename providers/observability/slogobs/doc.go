// Package slogobs provides an observability.Provider backed by the standard
// library's log/slog. Spans, metrics, and log records all flow through one
// slog.Logger, so a single handler configuration controls everything the
// node engine emits.
//
// The main entry point is [New]; tune it with [WithLogger], [WithLevel], and
// [WithOutput], or set NODEFLOW_LOG_LEVEL in the environment.
package slogobs
