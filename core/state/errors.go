package state

import "errors"

// ErrConfiguration marks malformed type spellings and malformed state
// definitions: unknown type names, unbalanced brackets, wrong Dict/Union
// arity, definitions missing required fields, unknown registry references.
//
// Match it with errors.Is:
//
//	if _, err := state.ResolveType("List[str"); errors.Is(err, state.ErrConfiguration) {
//	    // reject the schema
//	}
var ErrConfiguration = errors.New("nodeflow: invalid configuration")
