package node

import (
	"context"

	"github.com/leofalp/nodeflow/providers/observability"
)

// Span, attribute, and metric names emitted by node invocations.
const (
	spanNodeInvoke = "node.invoke"

	attrNodeName         = "node.name"
	attrNodeKind         = "node.kind"
	attrNodeInvocationID = "node.invocation_id"
	attrNodeSinkKeys     = "node.sink_keys"
	attrNodeRequiredKeys = "node.required_keys"
	attrMessageRole      = "message.role"
	attrMessageTag       = "message.tag"
	attrMessageContent   = "message.content"
	attrDuration         = "duration"
	attrStatus           = "status"

	metricInvocations        = "nodeflow.node.invocations"
	metricInvocationDuration = "nodeflow.node.invocation.duration"
)

// observerFrom returns the provider carried by ctx, or a no-op provider so
// engine code can log and measure unconditionally.
func observerFrom(ctx context.Context) observability.Provider {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		return observer
	}
	return noopObserver{}
}

// noopObserver discards all telemetry. It stands in when the caller did not
// attach a provider to the context.
type noopObserver struct{}

var _ observability.Provider = noopObserver{}

func (noopObserver) StartSpan(ctx context.Context, _ string, _ ...observability.Attribute) (context.Context, observability.Span) {
	return ctx, noopSpan{}
}

func (noopObserver) Counter(string) observability.Counter     { return noopInstrument{} }
func (noopObserver) Histogram(string) observability.Histogram { return noopInstrument{} }

func (noopObserver) Trace(context.Context, string, ...observability.Attribute) {}
func (noopObserver) Debug(context.Context, string, ...observability.Attribute) {}
func (noopObserver) Info(context.Context, string, ...observability.Attribute)  {}
func (noopObserver) Warn(context.Context, string, ...observability.Attribute)  {}
func (noopObserver) Error(context.Context, string, ...observability.Attribute) {}

type noopSpan struct{}

func (noopSpan) End()                                        {}
func (noopSpan) SetAttributes(...observability.Attribute)    {}
func (noopSpan) RecordError(error)                           {}
func (noopSpan) AddEvent(string, ...observability.Attribute) {}

type noopInstrument struct{}

func (noopInstrument) Add(context.Context, int64, ...observability.Attribute)      {}
func (noopInstrument) Record(context.Context, float64, ...observability.Attribute) {}
