package state

import (
	"fmt"

	"github.com/leofalp/nodeflow/core/parse"
	"github.com/leofalp/nodeflow/providers/ai"
)

// Reserved bookkeeping keys. The first three are written by the node engine
// on every invocation; the rest are conventional names shared by prebuilt
// nodes and callers, not enforced anywhere.
const (
	KeyCurrentNodeType  = "current_node_type"
	KeyPreviousNodeType = "previous_node_type"
	KeyMessages         = "messages"
	KeyHumanInput       = "human_input"
	KeyInput            = "input"
	KeyOutput           = "output"
)

// State is the shared mutable container a workflow threads through its
// nodes: a plain map from string keys to values of any type. Nodes read
// their inputs from it and write their results back into it in place; keys a
// node does not touch are never altered, and nothing ever deletes a key.
//
// A State is not safe for concurrent use. One invocation owns it for the
// duration of the call, matching the engine's synchronous contract.
type State map[string]any

// New returns an empty State.
func New() State {
	return make(State)
}

// Clone returns an independent copy. The copy is shallow except for the
// message log, which is duplicated so appends on one copy never leak into
// the other.
func (s State) Clone() State {
	cloned := make(State, len(s))
	for key, value := range s {
		cloned[key] = value
	}
	if messages, ok := s[KeyMessages].([]ai.Message); ok {
		copied := make([]ai.Message, len(messages))
		copy(copied, messages)
		cloned[KeyMessages] = copied
	}
	return cloned
}

// Has reports whether key is present.
func (s State) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// String returns the value at key when it holds a string, or "" when the
// key is absent or holds another type.
func (s State) String(key string) string {
	value, _ := s[key].(string)
	return value
}

// Messages returns the message log, or nil when absent.
func (s State) Messages() []ai.Message {
	messages, _ := s[KeyMessages].([]ai.Message)
	return messages
}

// AppendMessage appends entries to the message log, creating it when
// absent. The log is engine-managed: a messages value of any other type is
// replaced by a fresh log holding only the appended entries.
func (s State) AppendMessage(messages ...ai.Message) {
	log, _ := s[KeyMessages].([]ai.Message)
	s[KeyMessages] = append(log, messages...)
}

// ValueAs reads the value at key as type T. A value already of type T is
// returned directly; a string value is parsed with parse.StringAs, so raw
// model output written by a node can be read back typed:
//
//	review, err := state.ValueAs[Review](s, "review")
func ValueAs[T any](s State, key string) (T, error) {
	var zero T
	value, ok := s[key]
	if !ok {
		return zero, fmt.Errorf("state: key %q not present", key)
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}
	if text, ok := value.(string); ok {
		parsed, err := parse.StringAs[T](text)
		if err != nil {
			return zero, fmt.Errorf("state: parsing key %q: %w", key, err)
		}
		return parsed, nil
	}
	return zero, fmt.Errorf("state: key %q holds %T, not %T", key, value, zero)
}
