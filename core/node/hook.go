package node

import (
	"context"

	"github.com/leofalp/nodeflow/core/state"
	"github.com/leofalp/nodeflow/providers/ai"
)

// Hook runs immediately before or after a node's main action. It receives
// the working state, the client the node was invoked with, and any extra
// invocation arguments. A hook decides how the invocation proceeds by
// returning [Continue] or [Halt]; any error aborts the invocation.
//
// Hooks may block, for example while waiting on human input. The engine
// imposes no timeout of its own; use the context for cancellation.
type Hook func(ctx context.Context, s state.State, client ai.Client, args Args) (HookResult, error)

// HookResult is a hook's verdict on the invocation. Construct one with
// [Continue] or [Halt]; the zero value behaves like Continue(nil).
type HookResult struct {
	state state.State
	halt  bool
}

// Continue resumes the invocation. When s is non-nil it replaces the working
// state; passing nil keeps the state the hook received.
func Continue(s state.State) HookResult {
	return HookResult{state: s}
}

// Halt stops the invocation immediately: for a pre-hook nothing else runs,
// not even the main action, and the returned state is the invocation's final
// result. When s is nil the state the hook received is returned instead.
func Halt(s state.State) HookResult {
	return HookResult{state: s, halt: true}
}
