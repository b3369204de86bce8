package node

import (
	"context"
	"fmt"
	"slices"
)

// ActionFunc is a custom action executed in place of a model call. It
// receives the resolved arguments, including the injected state and client
// when those parameters were declared, and returns the raw result written
// to the node's sink.
type ActionFunc func(ctx context.Context, args Args) (any, error)

// Param declares one parameter of a custom action. Construct with
// [Required] or [Optional].
type Param struct {
	name       string
	def        any
	hasDefault bool
}

// Required declares a parameter that must resolve from state or invocation
// arguments. Parameters named "state" or "client" are filled by the engine
// instead.
func Required(name string) Param {
	return Param{name: name}
}

// Optional declares a parameter with a default value, used whenever the
// invocation does not resolve it.
func Optional(name string, def any) Param {
	return Param{name: name, def: def, hasDefault: true}
}

// Node is an immutable description of one workflow step: either a prompt
// template rendered and sent to a model client, or a custom action. A Node
// owns no state and can be invoked concurrently against independent states.
type Node struct {
	name         string
	template     string
	action       ActionFunc
	params       []Param
	requiredKeys []string
	sink         []string
	format       string
	imageKeys    []string
	preHook      Hook
	postHook     Hook
}

// New creates a prompt node. The template's distinct placeholder names, in
// order of first appearance, become the node's required keys. Returns
// [ErrConfiguration] for an empty name or template or a malformed template.
func New(name, template string, opts ...Option) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("node name must not be empty: %w", ErrConfiguration)
	}
	if template == "" {
		return nil, fmt.Errorf("node %q: template must not be empty: %w", name, ErrConfiguration)
	}

	keys, err := extractPlaceholders(template)
	if err != nil {
		return nil, fmt.Errorf("node %q: invalid template (%v): %w", name, err, ErrConfiguration)
	}

	n := &Node{name: name, template: template, requiredKeys: keys}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// NewFunc creates a node around a custom action. Parameters without a
// default, except those named "state" or "client", become the node's
// required keys in declaration order. Returns [ErrConfiguration] for an
// empty name, a nil action, or an invalid parameter list.
func NewFunc(name string, action ActionFunc, params []Param, opts ...Option) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("node name must not be empty: %w", ErrConfiguration)
	}
	if action == nil {
		return nil, fmt.Errorf("node %q: action must not be nil: %w", name, ErrConfiguration)
	}

	seen := make(map[string]bool, len(params))
	required := make([]string, 0, len(params))
	for _, param := range params {
		if param.name == "" {
			return nil, fmt.Errorf("node %q: parameter name must not be empty: %w", name, ErrConfiguration)
		}
		if seen[param.name] {
			return nil, fmt.Errorf("node %q: duplicate parameter %q: %w", name, param.name, ErrConfiguration)
		}
		seen[param.name] = true

		if param.hasDefault || param.name == paramState || param.name == paramClient {
			continue
		}
		required = append(required, param.name)
	}

	n := &Node{
		name:         name,
		action:       action,
		params:       slices.Clone(params),
		requiredKeys: required,
	}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Name returns the node's identifier.
func (n *Node) Name() string {
	return n.name
}

// RequiredKeys returns the input names the node resolves before acting, in
// declaration order. The returned slice is a copy.
func (n *Node) RequiredKeys() []string {
	return slices.Clone(n.requiredKeys)
}

// Sink returns the state keys the node writes its result to. The returned
// slice is a copy.
func (n *Node) Sink() []string {
	return slices.Clone(n.sink)
}

// kind labels the node for telemetry.
func (n *Node) kind() string {
	if n.action != nil {
		return "function"
	}
	return "prompt"
}

func (n *Node) declaresParam(name string) bool {
	for _, param := range n.params {
		if param.name == name {
			return true
		}
	}
	return false
}
