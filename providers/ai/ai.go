package ai

import "context"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation. The same type serves both the
// request payload sent to a client and the message log a state accumulates
// under its messages key.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries everything a node invocation hands to a model client.
type ChatRequest struct {
	// Messages is the ordered conversation to complete. The node engine
	// sends a single user message holding the rendered template.
	Messages []Message `json:"messages"`

	// Format is an opaque output-format hint (for example "json"). Its
	// semantics belong entirely to the client implementation; the engine
	// passes it through unchanged.
	Format string `json:"format,omitempty"`
}

// Client is the synchronous completion contract the node engine calls.
//
// The returned value is a string for ordinary completions, or an ordered
// sequence of strings ([]string, or []any whose elements are strings) when a
// client intentionally produces several outputs for a multi-sink node. The
// engine validates sequence arity against the node's sink; anything else is
// written to a scalar sink as-is.
type Client interface {
	SendMessage(ctx context.Context, request ChatRequest) (any, error)
}

// VisionClient is an optional interface for clients that accept image
// inputs. The engine detects the capability by type assertion,
// client.(VisionClient), and fails a vision node's invocation with a
// capability error when the assertion does not hold.
type VisionClient interface {
	Client

	// SendVisionMessage behaves like SendMessage with an ordered list of
	// image file paths attached to the request. Paths are verified to
	// exist by the engine before the call.
	SendVisionMessage(ctx context.Context, request ChatRequest, imagePaths []string) (any, error)
}

// UserMessage is a convenience constructor for the single-message requests
// the engine issues.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
