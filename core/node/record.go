package node

import (
	"context"

	"github.com/leofalp/nodeflow/core/state"
	"github.com/leofalp/nodeflow/providers/ai"
	"github.com/leofalp/nodeflow/providers/observability"
)

// Record is one conversation entry to append to a state's message log. Tag
// labels the emitted log line only; it is never stored in state.
type Record struct {
	Role    ai.Role
	Content string
	Tag     string
}

// RecordMessages appends the given records to the message log in s, creating
// the log when absent, and emits one log line per record through the
// observer carried by ctx. It returns s for chaining. Hooks use this to
// narrate workflow progress into the conversation.
func RecordMessages(ctx context.Context, s state.State, records ...Record) state.State {
	if s == nil {
		s = state.New()
	}
	observer := observerFrom(ctx)

	for _, record := range records {
		s.AppendMessage(ai.Message{Role: record.Role, Content: record.Content})

		attrs := []observability.Attribute{
			observability.String(attrMessageRole, string(record.Role)),
			observability.String(attrMessageContent, observability.TruncateString(record.Content, 0)),
		}
		if record.Tag != "" {
			attrs = append(attrs, observability.String(attrMessageTag, record.Tag))
		}
		observer.Info(ctx, "message recorded", attrs...)
	}

	return s
}
