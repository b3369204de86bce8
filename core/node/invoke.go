package node

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/google/uuid"

	"github.com/leofalp/nodeflow/core/state"
	"github.com/leofalp/nodeflow/internal/utils"
	"github.com/leofalp/nodeflow/providers/ai"
	"github.com/leofalp/nodeflow/providers/observability"
)

// Invoke runs the node against s and returns the resulting state.
//
// The invocation proceeds in fixed stages: record the node-type chain in s,
// run the pre-hook (or record a "<name> started." message when none is set),
// resolve the required keys from source mappings, state, and extra
// arguments, execute the custom action or the templated model call, write
// the result to the effective sink, and run the post-hook. Either hook can
// stop the invocation early via [Halt].
//
// Results are written into s in place and s is returned, unless a hook
// substitutes a different state. The client may be nil only for custom
// actions that never use it. Classify failures with [errors.Is] against the
// package sentinels.
func (n *Node) Invoke(ctx context.Context, s state.State, client ai.Client, opts ...InvokeOption) (state.State, error) {
	cfg := applyInvokeOptions(opts)
	observer := observerFrom(ctx)

	ctx, span := observer.StartSpan(ctx, spanNodeInvoke,
		observability.String(attrNodeName, n.name),
		observability.String(attrNodeKind, n.kind()),
		observability.String(attrNodeInvocationID, uuid.NewString()),
		observability.StringSlice(attrNodeSinkKeys, n.sink),
	)
	ctx = observability.ContextWithSpan(ctx, span)
	ctx = observability.ContextWithObserver(ctx, observer)

	observer.Debug(ctx, "node invocation started",
		observability.String(attrNodeName, n.name),
		observability.String(attrNodeKind, n.kind()),
		observability.StringSlice(attrNodeRequiredKeys, n.requiredKeys),
	)

	timer := utils.NewTimer()
	result, err := n.invoke(ctx, s, client, cfg, observer)
	timer.Stop()

	if err != nil {
		span.RecordError(err)
		span.End()

		observer.Error(ctx, "node invocation failed",
			observability.Error(err),
			observability.String(attrNodeName, n.name),
			observability.Duration(attrDuration, timer.GetDuration()),
		)
		observer.Counter(metricInvocations).Add(ctx, 1,
			observability.String(attrNodeName, n.name),
			observability.String(attrStatus, "error"),
		)

		return nil, err
	}

	observer.Histogram(metricInvocationDuration).Record(ctx, timer.GetDuration().Seconds(),
		observability.String(attrNodeName, n.name),
	)
	observer.Counter(metricInvocations).Add(ctx, 1,
		observability.String(attrNodeName, n.name),
		observability.String(attrStatus, "success"),
	)
	observer.Info(ctx, "node invocation completed",
		observability.String(attrNodeName, n.name),
		observability.Duration(attrDuration, timer.GetDuration()),
	)
	span.End()

	return result, nil
}

func (n *Node) invoke(ctx context.Context, s state.State, client ai.Client, cfg invokeConfig, observer observability.Provider) (state.State, error) {
	if s == nil {
		s = state.New()
	}

	s[state.KeyPreviousNodeType] = s.String(state.KeyCurrentNodeType)
	s[state.KeyCurrentNodeType] = n.name

	if n.preHook != nil {
		outcome, err := n.preHook(ctx, s, client, cfg.args)
		if err != nil {
			return nil, fmt.Errorf("node %q pre-hook: %w", n.name, err)
		}
		if outcome.state != nil {
			s = outcome.state
		}
		if outcome.halt {
			return s, nil
		}
	} else {
		RecordMessages(ctx, s, Record{Role: ai.RoleAssistant, Content: n.name + " started.", Tag: "green"})
	}

	args, err := n.resolveArgs(s, cfg)
	if err != nil {
		return nil, err
	}

	var result any
	if n.action != nil {
		result, err = n.callAction(ctx, s, client, args)
	} else {
		result, err = n.callModel(ctx, client, args, cfg)
	}
	if err != nil {
		return nil, err
	}

	sink := n.sink
	if cfg.sinkSet {
		sink = cfg.sink
	}
	if len(sink) == 0 {
		observer.Warn(ctx, "no sink configured, result discarded",
			observability.String(attrNodeName, n.name),
		)
		return s, nil
	}
	if err := n.writeSink(s, sink, result); err != nil {
		return nil, err
	}

	if n.postHook != nil {
		outcome, err := n.postHook(ctx, s, client, cfg.args)
		if err != nil {
			return nil, fmt.Errorf("node %q post-hook: %w", n.name, err)
		}
		if outcome.state != nil {
			s = outcome.state
		}
	}

	return s, nil
}

// resolveArgs builds the action's arguments by resolving every required key,
// in declaration order, from the source mapping first, then state, then the
// extra invocation arguments.
func (n *Node) resolveArgs(s state.State, cfg invokeConfig) (Args, error) {
	args := make(Args, len(n.requiredKeys))

	for _, key := range n.requiredKeys {
		if sourceKey, mapped := cfg.source[key]; mapped {
			value, found := s[sourceKey]
			if !found {
				return nil, fmt.Errorf("node %q: source mapping key %q not found in state: %w", n.name, sourceKey, ErrValidation)
			}
			args[key] = value
			continue
		}
		if value, found := s[key]; found {
			args[key] = value
			continue
		}
		if value, found := cfg.args[key]; found {
			args[key] = value
			continue
		}
		return nil, fmt.Errorf("node %q: required key %q not found in state or arguments: %w", n.name, key, ErrValidation)
	}

	return args, nil
}

// callAction fills in declared defaults for parameters the resolution step
// left unset, injects the state and client for actions that declare them,
// and runs the custom action.
func (n *Node) callAction(ctx context.Context, s state.State, client ai.Client, args Args) (any, error) {
	callArgs := make(Args, len(n.params))
	for key, value := range args {
		callArgs[key] = value
	}
	for _, param := range n.params {
		if param.hasDefault {
			if _, ok := callArgs[param.name]; !ok {
				callArgs[param.name] = param.def
			}
		}
	}
	if n.declaresParam(paramState) {
		if _, ok := callArgs[paramState]; !ok {
			callArgs[paramState] = s
		}
	}
	if n.declaresParam(paramClient) {
		if _, ok := callArgs[paramClient]; !ok {
			callArgs[paramClient] = client
		}
	}

	result, err := n.action(ctx, callArgs)
	if err != nil {
		return nil, fmt.Errorf("node %q action: %w", n.name, err)
	}

	return result, nil
}

// callModel renders the template and sends it to the client, routing through
// the vision entry point when the node declares image keys.
func (n *Node) callModel(ctx context.Context, client ai.Client, args Args, cfg invokeConfig) (any, error) {
	prompt, err := renderTemplate(n.template, args)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.name, err)
	}
	request := ai.ChatRequest{Messages: ai.UserMessage(prompt), Format: n.format}

	if len(n.imageKeys) == 0 {
		result, err := client.SendMessage(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.name, err)
		}
		return result, nil
	}

	vision, ok := client.(ai.VisionClient)
	if !ok {
		return nil, fmt.Errorf("node %q: image keys declared but client does not accept images: %w", n.name, ErrCapability)
	}
	paths, err := n.collectImagePaths(cfg.args)
	if err != nil {
		return nil, err
	}

	result, err := vision.SendVisionMessage(ctx, request, paths)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.name, err)
	}
	return result, nil
}

// collectImagePaths gathers image file paths from the extra invocation
// arguments, in declared image-key order, verifying each path exists.
func (n *Node) collectImagePaths(extra Args) ([]string, error) {
	paths := make([]string, 0, len(n.imageKeys))

	for _, key := range n.imageKeys {
		value, ok := extra[key]
		if !ok {
			continue
		}
		path, isString := value.(string)
		if !isString {
			return nil, fmt.Errorf("node %q: image argument %q must be a file path string: %w", n.name, key, ErrValidation)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("node %q: image file %q: %w", n.name, path, ErrResourceNotFound)
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("node %q: at least one image argument of %v must be provided: %w", n.name, n.imageKeys, ErrValidation)
	}

	return paths, nil
}

// writeSink distributes result across the sink keys. A single key stores the
// whole result; several keys require a sequence of exactly matching length.
// Raw string results of model calls are stripped of code fences on the way
// in, per element for multi-key sinks.
func (n *Node) writeSink(s state.State, sink []string, result any) error {
	fromModel := n.action == nil

	if len(sink) == 1 {
		if fromModel {
			s[sink[0]] = cleanResult(result)
		} else {
			s[sink[0]] = result
		}
		return nil
	}

	if fromModel {
		switch values := result.(type) {
		case []string:
			if len(values) != len(sink) {
				return n.arityError(len(values), len(sink))
			}
			for i, key := range sink {
				s[key] = StripCodeFences(values[i])
			}
		case []any:
			if len(values) != len(sink) {
				return n.arityError(len(values), len(sink))
			}
			for i, key := range sink {
				s[key] = cleanResult(values[i])
			}
		default:
			return fmt.Errorf("node %q: expected %d results for %d sink keys, got a single value: %w", n.name, len(sink), len(sink), ErrValidation)
		}
		return nil
	}

	values := reflect.ValueOf(result)
	if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
		return fmt.Errorf("node %q: expected %d results for %d sink keys, got a single value: %w", n.name, len(sink), len(sink), ErrValidation)
	}
	if values.Len() != len(sink) {
		return n.arityError(values.Len(), len(sink))
	}
	for i, key := range sink {
		s[key] = values.Index(i).Interface()
	}

	return nil
}

func (n *Node) arityError(got, want int) error {
	return fmt.Errorf("node %q: result count %d does not match sink key count %d: %w", n.name, got, want, ErrValidation)
}

// cleanResult strips code fences from string values and leaves every other
// type untouched.
func cleanResult(value any) any {
	if text, ok := value.(string); ok {
		return StripCodeFences(text)
	}
	return value
}
