// Package ai defines the model-client contract the node engine depends on:
// conversation [Message] values, the [ChatRequest] payload, and the [Client]
// interface with its optional [VisionClient] capability extension.
//
// Implementations live in subpackages (see openai); tests and callers are
// free to supply their own, since any type with a SendMessage method
// satisfying [Client] plugs into the engine.
package ai
