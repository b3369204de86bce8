package node

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/nodeflow/core/state"
	"github.com/leofalp/nodeflow/providers/observability"
	"github.com/leofalp/nodeflow/providers/observability/slogobs"
)

func observedContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	observer := slogobs.New(slogobs.WithLogger(logger))
	return observability.ContextWithObserver(context.Background(), observer), &buf
}

func TestInvoke_EmitsSpanAndMetrics(t *testing.T) {
	ctx, buf := observedContext(t)
	n := mustNode(New("observed_node", "Test {input}", WithSink("output")))

	_, err := n.Invoke(ctx, newTestState(), &mockClient{response: "response"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "node.invoke") {
		t.Error("expected span name in output")
	}
	if !strings.Contains(output, "span.start") || !strings.Contains(output, "span.end") {
		t.Error("expected span start and end events")
	}
	if !strings.Contains(output, "nodeflow.node.invocations") {
		t.Error("expected invocation counter")
	}
	if !strings.Contains(output, "nodeflow.node.invocation.duration") {
		t.Error("expected duration histogram")
	}
	if !strings.Contains(output, "node invocation completed") {
		t.Error("expected completion log message")
	}
	if !strings.Contains(output, "observed_node") {
		t.Error("expected node name attribute")
	}
}

func TestInvoke_MissingSinkLogsWarning(t *testing.T) {
	ctx, buf := observedContext(t)
	n := mustNode(New("observed_node", "Test {input}"))

	_, err := n.Invoke(ctx, newTestState(), &mockClient{response: "response"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "no sink configured") {
		t.Error("expected sink warning in output")
	}
	if !strings.Contains(output, "level=WARN") {
		t.Error("expected the warning at warn level")
	}
}

func TestInvoke_RecordsStartedMessageInLog(t *testing.T) {
	ctx, buf := observedContext(t)
	n := mustNode(New("observed_node", "Test {input}", WithSink("output")))

	_, err := n.Invoke(ctx, newTestState(), &mockClient{response: "response"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "message recorded") {
		t.Error("expected recorded message log line")
	}
	if !strings.Contains(output, "observed_node started.") {
		t.Error("expected started message content")
	}
	if !strings.Contains(output, "green") {
		t.Error("expected the tag attribute")
	}
}

// capturingObserver verifies engine calls without parsing log output.
type capturingObserver struct {
	spanStarted   bool
	spanEnded     bool
	errorRecorded bool
	errorLogged   bool
	warnings      []string
	counterAdds   int64
}

var _ observability.Provider = (*capturingObserver)(nil)

func (o *capturingObserver) StartSpan(ctx context.Context, _ string, _ ...observability.Attribute) (context.Context, observability.Span) {
	o.spanStarted = true
	return ctx, &capturingSpan{observer: o}
}

func (o *capturingObserver) Counter(string) observability.Counter     { return &capturingCounter{observer: o} }
func (o *capturingObserver) Histogram(string) observability.Histogram { return noopInstrument{} }

func (o *capturingObserver) Trace(context.Context, string, ...observability.Attribute) {}
func (o *capturingObserver) Debug(context.Context, string, ...observability.Attribute) {}
func (o *capturingObserver) Info(context.Context, string, ...observability.Attribute)  {}

func (o *capturingObserver) Warn(_ context.Context, msg string, _ ...observability.Attribute) {
	o.warnings = append(o.warnings, msg)
}

func (o *capturingObserver) Error(context.Context, string, ...observability.Attribute) {
	o.errorLogged = true
}

type capturingSpan struct {
	observer *capturingObserver
}

func (s *capturingSpan) End()                                     { s.observer.spanEnded = true }
func (s *capturingSpan) SetAttributes(...observability.Attribute) {}
func (s *capturingSpan) RecordError(error)                        { s.observer.errorRecorded = true }
func (s *capturingSpan) AddEvent(string, ...observability.Attribute) {
}

type capturingCounter struct {
	observer *capturingObserver
}

func (c *capturingCounter) Add(_ context.Context, value int64, _ ...observability.Attribute) {
	c.observer.counterAdds += value
}

func TestInvoke_ObserverCalledOnSuccess(t *testing.T) {
	observer := &capturingObserver{}
	ctx := observability.ContextWithObserver(context.Background(), observer)
	n := mustNode(New("observed_node", "Test {input}", WithSink("output")))

	_, err := n.Invoke(ctx, newTestState(), &mockClient{response: "response"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if !observer.spanStarted || !observer.spanEnded {
		t.Error("span was not started and ended")
	}
	if observer.counterAdds == 0 {
		t.Error("invocation counter was not incremented")
	}
	if observer.errorRecorded || observer.errorLogged {
		t.Error("error telemetry emitted on success")
	}
}

func TestInvoke_ObserverCalledOnError(t *testing.T) {
	observer := &capturingObserver{}
	ctx := observability.ContextWithObserver(context.Background(), observer)
	n := mustNode(New("observed_node", "Test {input}", WithSink("output")))

	_, err := n.Invoke(ctx, newTestState(), &mockClient{err: errors.New("boom")})
	if err == nil {
		t.Fatal("expected an error")
	}

	if !observer.errorRecorded {
		t.Error("error was not recorded on the span")
	}
	if !observer.errorLogged {
		t.Error("error was not logged")
	}
	if !observer.spanEnded {
		t.Error("span was not ended on the error path")
	}
}

func TestInvoke_NoObserverNoPanic(t *testing.T) {
	n := mustNode(New("plain_node", "Test {input}", WithSink("output")))

	result, err := n.Invoke(context.Background(), newTestState(), &mockClient{response: "response"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result["output"] != "response" {
		t.Errorf("output = %v", result["output"])
	}
}

func TestInvoke_EmptySinkWarningViaObserver(t *testing.T) {
	observer := &capturingObserver{}
	ctx := observability.ContextWithObserver(context.Background(), observer)
	n := mustNode(New("observed_node", "Test {input}", WithSink("output")))

	s := state.New()
	s[state.KeyInput] = "value"

	_, err := n.Invoke(ctx, s, &mockClient{response: "response"}, WithSinkOverride())
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if len(observer.warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(observer.warnings))
	}
	if !strings.Contains(observer.warnings[0], "no sink") {
		t.Errorf("warning = %q", observer.warnings[0])
	}
}
