package node

import "errors"

// Sentinel errors returned by node construction and invocation. Invocation
// errors are wrapped with the node name and the offending key or path, so
// test with [errors.Is] rather than string comparison:
//
//	_, err := n.Invoke(ctx, s, client)
//	if errors.Is(err, node.ErrValidation) {
//		// a required input was missing or malformed
//	}
var (
	// ErrConfiguration reports an invalid node declaration: an empty name or
	// template, a nil action, a malformed placeholder, or a bad parameter list.
	ErrConfiguration = errors.New("nodeflow: invalid node configuration")

	// ErrValidation reports invalid invocation inputs or outputs: a missing
	// required key, a broken source mapping, a missing image argument, or a
	// result whose shape does not match the sink keys.
	ErrValidation = errors.New("nodeflow: validation failed")

	// ErrCapability reports a client that lacks a capability the node needs,
	// such as image input.
	ErrCapability = errors.New("nodeflow: client capability missing")

	// ErrResourceNotFound reports a referenced file that does not exist.
	ErrResourceNotFound = errors.New("nodeflow: resource not found")
)
