package slogobs

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/leofalp/nodeflow/providers/observability"
)

// LevelTrace sits below slog.LevelDebug and is filtered out unless the
// handler level is lowered explicitly (for example via WithLevel or
// NODEFLOW_LOG_LEVEL=trace).
const LevelTrace = slog.LevelDebug - 4

// Observer implements observability.Provider on top of log/slog. Spans and
// metrics are rendered as structured log records, which keeps the module
// free of tracing backends while still giving a complete execution trail.
type Observer struct {
	logger  *slog.Logger
	metrics *metricsStore
}

var _ observability.Provider = (*Observer)(nil)

// Option configures an Observer.
type Option func(*config)

type config struct {
	logger *slog.Logger
	level  slog.Leveler
	output *os.File
}

// WithLogger uses an existing slog.Logger instead of constructing one.
// It takes precedence over WithLevel and WithOutput.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithLevel sets the minimum level for the built-in handler.
func WithLevel(level slog.Leveler) Option {
	return func(cfg *config) { cfg.level = level }
}

// WithOutput redirects the built-in handler's output (default os.Stderr).
func WithOutput(output *os.File) Option {
	return func(cfg *config) { cfg.output = output }
}

// New creates an slog-backed observer. Without options the level comes from
// NODEFLOW_LOG_LEVEL (trace, debug, info, warn, error; default info) and
// records go to stderr as text.
//
// Example:
//
//	observer := slogobs.New(slogobs.WithLevel(slog.LevelDebug))
//	ctx := observability.ContextWithObserver(context.Background(), observer)
//	result, err := summarizer.Invoke(ctx, s, client)
func New(opts ...Option) *Observer {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		level := cfg.level
		if level == nil {
			level = levelFromEnv()
		}
		output := cfg.output
		if output == nil {
			output = os.Stderr
		}
		logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
	}

	return &Observer{logger: logger, metrics: newMetricsStore()}
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("NODEFLOW_LOG_LEVEL"))) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --- TRACING ---

// StartSpan opens a named span and logs its start at debug level. The span's
// End logs the elapsed duration together with all accumulated attributes.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		name:    name,
		started: time.Now(),
		logger:  o.logger,
		attrs:   attrs,
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "span started", span.logAttrs("span.start")...)
	return ctx, span
}

type slogSpan struct {
	name    string
	started time.Time
	logger  *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
}

func (s *slogSpan) logAttrs(event string, extra ...slog.Attr) []slog.Attr {
	out := []slog.Attr{
		slog.String("span", s.name),
		slog.String("event", event),
	}
	out = append(out, extra...)
	for _, attr := range s.attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	return out
}

// End logs the span end event with the elapsed duration.
func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "span ended",
		s.logAttrs("span.end", slog.Duration("duration", time.Since(s.started)))...)
}

// SetAttributes appends attributes reported by later span events and End.
func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

// RecordError attaches the error to the span and logs it at error level.
func (s *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.Error(err))
	s.logger.LogAttrs(context.Background(), slog.LevelError, "span error",
		slog.String("span", s.name),
		slog.String("error", err.Error()))
}

// AddEvent logs a named point-in-time event at debug level.
func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []slog.Attr{
		slog.String("span", s.name),
		slog.String("event", name),
	}
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "span event", out...)
}

// --- METRICS ---

// Counter returns the named counter, creating it on first use. Repeated
// calls with the same name return the same instance.
func (o *Observer) Counter(name string) observability.Counter {
	return o.metrics.counter(name, o.logger)
}

// Histogram returns the named histogram, creating it on first use.
func (o *Observer) Histogram(name string) observability.Histogram {
	return o.metrics.histogram(name, o.logger)
}

// metricsStore keeps instruments in memory, keyed by name.
type metricsStore struct {
	mu         sync.RWMutex
	counters   map[string]*slogCounter
	histograms map[string]*slogHistogram
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		counters:   make(map[string]*slogCounter),
		histograms: make(map[string]*slogHistogram),
	}
}

func (m *metricsStore) counter(name string, logger *slog.Logger) *slogCounter {
	m.mu.RLock()
	counter, exists := m.counters[name]
	m.mu.RUnlock()
	if exists {
		return counter
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-check after acquiring the write lock.
	if counter, exists := m.counters[name]; exists {
		return counter
	}
	counter = &slogCounter{name: name, logger: logger}
	m.counters[name] = counter
	return counter
}

func (m *metricsStore) histogram(name string, logger *slog.Logger) *slogHistogram {
	m.mu.RLock()
	histogram, exists := m.histograms[name]
	m.mu.RUnlock()
	if exists {
		return histogram
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}
	histogram = &slogHistogram{name: name, logger: logger}
	m.histograms[name] = histogram
	return histogram
}

type slogCounter struct {
	name   string
	logger *slog.Logger

	mu    sync.Mutex
	value int64
}

// Add increments the counter and logs the delta and running total.
func (c *slogCounter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	total := c.value
	c.mu.Unlock()

	out := []slog.Attr{
		slog.String("metric", c.name),
		slog.String("type", "counter"),
		slog.Int64("value", total),
		slog.Int64("delta", value),
	}
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "counter", out...)
}

// Value returns the current counter total.
func (c *slogCounter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

type slogHistogram struct {
	name   string
	logger *slog.Logger
}

// Record logs a single histogram observation.
func (h *slogHistogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	out := []slog.Attr{
		slog.String("metric", h.name),
		slog.String("type", "histogram"),
		slog.Float64("value", value),
	}
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	h.logger.LogAttrs(ctx, slog.LevelDebug, "histogram", out...)
}

// --- LOGGING ---

// Trace logs at LevelTrace, below debug.
func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, LevelTrace, msg, attrs...)
}

// Debug logs at debug level.
func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs at info level.
func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs...)
}

// Warn logs at warn level.
func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs...)
}

// Error logs at error level.
func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs...)
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs ...observability.Attribute) {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	o.logger.LogAttrs(ctx, level, msg, out...)
}
