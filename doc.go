// Package nodeflow is a small core for building LLM-driven workflows in Go.
//
// A workflow is a sequence of nodes operating on a shared state. Each node
// either renders a prompt template and sends it to a model, or runs a plain
// Go function; either way the result lands back in the state under the keys
// the node declares. The packages compose bottom-up:
//
//   - core/state holds the shared workflow state, its type registry, and
//     typed access helpers.
//   - core/node defines nodes, their hooks, and the invocation engine.
//   - core/parse converts model output strings into Go values, repairing
//     malformed JSON when needed.
//   - providers/ai declares the minimal model client contract, with an
//     OpenAI-compatible implementation under providers/ai/openai and
//     composable client decorators under providers/ai/middleware.
//   - providers/observability carries optional tracing, metrics, and
//     logging through the context; slogobs is the slog-backed reference
//     implementation.
//   - prebuilt ships ready-made nodes: a conversation summarizer, a
//     human-in-the-loop survey, and a web page reader.
//
// Runnable programs under examples/ show the pieces working together.
package nodeflow
