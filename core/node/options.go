package node

// Option configures a node at construction time.
type Option func(*Node)

// WithSink sets the state keys the node's result is written to. One key
// stores the whole result; several keys require the result to be a sequence
// of matching length, distributed in order. Without a sink the result is
// discarded with a warning.
func WithSink(keys ...string) Option {
	return func(n *Node) {
		n.sink = keys
	}
}

// WithFormat sets a format hint, such as "json", passed through to the model
// client. Its semantics belong to the client.
func WithFormat(format string) Option {
	return func(n *Node) {
		n.format = format
	}
}

// WithImageKeys declares the invocation argument names that hold image file
// paths. A node with image keys requires an [ai.VisionClient] and at least
// one of the named arguments at invocation time.
func WithImageKeys(keys ...string) Option {
	return func(n *Node) {
		n.imageKeys = keys
	}
}

// WithPreHook sets a hook that runs before input resolution. When no
// pre-hook is set, the engine records a "<name> started." assistant message
// instead.
func WithPreHook(hook Hook) Option {
	return func(n *Node) {
		n.preHook = hook
	}
}

// WithPostHook sets a hook that runs after the result is written.
func WithPostHook(hook Hook) Option {
	return func(n *Node) {
		n.postHook = hook
	}
}

// sourceKeyName is the required key a plain string source binds, so that
// WithSourceKey("other") reads the template's {source} placeholder from
// state["other"].
const sourceKeyName = "source"

// InvokeOption adjusts a single invocation without touching the node.
type InvokeOption func(*invokeConfig)

type invokeConfig struct {
	sink    []string
	sinkSet bool
	source  map[string]string
	args    Args
}

func applyInvokeOptions(opts []InvokeOption) invokeConfig {
	var cfg invokeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithSinkOverride replaces the node's configured sink for this invocation.
// Calling it with no keys discards the result, with a warning, even when the
// node declares a sink.
func WithSinkOverride(keys ...string) InvokeOption {
	return func(cfg *invokeConfig) {
		cfg.sink = keys
		cfg.sinkSet = true
	}
}

// WithSource renames which state keys satisfy required keys for this
// invocation: a mapping entry {required: other} resolves the required key
// from state[other]. A mapped key missing from state fails the invocation.
func WithSource(mapping map[string]string) InvokeOption {
	return func(cfg *invokeConfig) {
		cfg.source = mapping
	}
}

// WithSourceKey is shorthand for WithSource(map[string]string{"source": key}),
// the common case of a template reading one renamed input through a {source}
// placeholder.
func WithSourceKey(key string) InvokeOption {
	return func(cfg *invokeConfig) {
		cfg.source = map[string]string{sourceKeyName: key}
	}
}

// WithArgs supplies extra invocation arguments. They satisfy required keys
// that state does not provide, supply image paths, and are passed to hooks.
func WithArgs(args map[string]any) InvokeOption {
	return func(cfg *invokeConfig) {
		if cfg.args == nil {
			cfg.args = make(Args, len(args))
		}
		for key, value := range args {
			cfg.args[key] = value
		}
	}
}

// WithArg supplies one extra invocation argument. See [WithArgs].
func WithArg(key string, value any) InvokeOption {
	return func(cfg *invokeConfig) {
		if cfg.args == nil {
			cfg.args = make(Args, 1)
		}
		cfg.args[key] = value
	}
}
