package observability

import (
	"context"
	"fmt"
	"time"
)

// Provider bundles the three observability concerns (tracing, metrics,
// structured logging) behind one interface. Engine and provider code accept
// a Provider and must tolerate a nil value: a nil Provider disables
// observability with zero overhead.
type Provider interface {
	Tracer
	Metrics
	Logger
}

// --- TRACING ---

// Tracer starts spans around units of work.
type Tracer interface {
	// StartSpan opens a named span and returns it together with the
	// (possibly derived) context to use for the enclosed work.
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span is a single traced unit of work.
type Span interface {
	// End completes the span.
	End()
	// SetAttributes attaches additional attributes to the span.
	SetAttributes(attrs ...Attribute)
	// RecordError records an error against the span.
	RecordError(err error)
	// AddEvent appends a named point-in-time event to the span.
	AddEvent(name string, attrs ...Attribute)
}

// --- METRICS ---

// Metrics creates or retrieves named instruments. Implementations return the
// same instrument for repeated calls with the same name, so callers fetch on
// every use instead of caching.
type Metrics interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// Counter is a monotonically increasing metric.
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records a distribution of observed values.
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

// --- LOGGING ---

// Logger emits levelled structured log records. Trace sits below Debug and
// is expected to be filtered out unless explicitly enabled.
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// --- ATTRIBUTES ---

// Attribute is a key-value pair attached to spans, metrics, and log records.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// StringSlice creates an attribute holding an ordered list of strings.
func StringSlice(key string, value []string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an attribute from an error. A nil error yields an empty
// value so callers can pass err unconditionally.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: ""}
	}
	return Attribute{Key: "error", Value: err.Error()}
}

// --- UTILITIES ---

// DefaultMaxStringLength is the truncation limit applied by TruncateString
// when the caller passes a non-positive maximum.
const DefaultMaxStringLength = 500

// TruncateString caps s at maxLen characters, appending a suffix that
// reports the original length. Use it to keep prompts and responses from
// bloating span attributes.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}
