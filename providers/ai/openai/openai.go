package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/leofalp/nodeflow/internal/utils"
	"github.com/leofalp/nodeflow/providers/ai"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	chatCompletionsEndpoint = "/chat/completions"

	// formatJSON is the request format hint that maps to the API's
	// json_object response format.
	formatJSON = "json"
)

// Provider is an [ai.Client] backed by the OpenAI chat completions API. Any
// server exposing the same surface works too (Azure OpenAI, OpenRouter,
// Ollama, vLLM) by pointing the base URL at it.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

var (
	_ ai.Client       = (*Provider)(nil)
	_ ai.VisionClient = (*Provider)(nil)
)

// New creates a provider configured from the environment: OPENAI_API_KEY,
// OPENAI_BASE_URL and OPENAI_MODEL. Unset values fall back to the public
// OpenAI endpoint and a default model.
func New() *Provider {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Provider{
		apiKey:     os.Getenv("OPENAI_API_KEY"),
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{},
	}
}

// WithAPIKey sets the API key.
func (p *Provider) WithAPIKey(apiKey string) *Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the API base URL, without a trailing slash.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = baseURL
	return p
}

// WithModel sets the model requested for completions.
func (p *Provider) WithModel(model string) *Provider {
	p.model = model
	return p
}

// WithHTTPClient sets a custom HTTP client.
func (p *Provider) WithHTTPClient(httpClient *http.Client) *Provider {
	p.httpClient = httpClient
	return p
}

// SendMessage posts the conversation to the chat completions endpoint and
// returns the first choice's content.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (any, error) {
	return p.complete(ctx, buildMessages(request.Messages), request.Format)
}

func (p *Provider) complete(ctx context.Context, messages []chatMessage, format string) (any, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openai: API key is not set")
	}

	request := chatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if format == formatJSON {
		request.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	response, err := utils.PostJSON[chatCompletionResponse](ctx, p.httpClient, p.baseURL+chatCompletionsEndpoint, p.apiKey, request)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("openai: response %q contains no choices", response.ID)
	}

	return response.Choices[0].Message.Content, nil
}

/*
	CHAT COMPLETIONS API
*/

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatMessage content is a plain string for text messages and a list of
// content parts for multimodal ones.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"` // "text", "json_object"
}

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "content_filter"
}

type chatResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Refusal string `json:"refusal,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func buildMessages(messages []ai.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		out = append(out, chatMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}
	return out
}
