package node

import (
	"github.com/leofalp/nodeflow/core/state"
	"github.com/leofalp/nodeflow/providers/ai"
)

// Parameter names the engine treats specially: they never become required
// keys, and actions declaring them receive the live state and client.
const (
	paramState  = "state"
	paramClient = "client"
)

// Args holds the arguments of one node invocation, keyed by parameter name.
// Values keep whatever type they had in state, so actions use the typed
// getters for the common cases and index the map directly for the rest.
type Args map[string]any

// String returns the value for key as a string, or "" when the key is
// absent or holds a different type.
func (a Args) String(key string) string {
	value, _ := a[key].(string)
	return value
}

// Int returns the value for key as an int. Numbers decoded from JSON arrive
// as float64, so those are converted. Returns 0 for anything else.
func (a Args) Int(key string) int {
	switch value := a[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	}
	return 0
}

// Float64 returns the value for key as a float64, converting integer values.
// Returns 0 for anything else.
func (a Args) Float64(key string) float64 {
	switch value := a[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	}
	return 0
}

// Bool returns the value for key as a bool, or false when the key is absent
// or holds a different type.
func (a Args) Bool(key string) bool {
	value, _ := a[key].(bool)
	return value
}

// State returns the workflow state injected for an action that declared a
// "state" parameter, or nil when none was injected.
func (a Args) State() state.State {
	value, _ := a[paramState].(state.State)
	return value
}

// Client returns the model client injected for an action that declared a
// "client" parameter, or nil when none was injected.
func (a Args) Client() ai.Client {
	value, _ := a[paramClient].(ai.Client)
	return value
}
