// Package node implements the execution unit of a workflow: a reusable
// description of one processing step that either renders a prompt template
// and sends it to a model client, or runs a custom Go function. Invoking a
// node resolves its required inputs from the shared state (with optional
// per-invocation renaming and extra arguments), performs the action, and
// distributes the result into the state keys named by the node's sink.
//
// Create prompt nodes with [New] and function nodes with [NewFunc], then run
// them with [Node.Invoke]. Pre and post hooks observe and transform the
// state around the main action and can stop an invocation early, which is
// how interactive workflows wait for human input between model calls.
package node
