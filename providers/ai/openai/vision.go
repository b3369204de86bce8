package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leofalp/nodeflow/providers/ai"
)

// contentPart is one entry of a multimodal message.
type contentPart struct {
	Type     string            `json:"type"` // "text", "image_url"
	Text     string            `json:"text,omitempty"`
	ImageURL *contentPartImage `json:"image_url,omitempty"`
}

type contentPartImage struct {
	URL string `json:"url"`
}

// SendVisionMessage behaves like SendMessage with the given image files
// attached to the final message as base64 data URLs. Images keep their
// argument order, after the message text.
func (p *Provider) SendVisionMessage(ctx context.Context, request ai.ChatRequest, imagePaths []string) (any, error) {
	messages := buildMessages(request.Messages)
	if len(messages) == 0 {
		return nil, fmt.Errorf("openai: vision request has no messages")
	}

	last := &messages[len(messages)-1]
	text, _ := last.Content.(string)
	parts := []contentPart{{Type: "text", Text: text}}
	for _, path := range imagePaths {
		dataURL, err := encodeImageFile(path)
		if err != nil {
			return nil, fmt.Errorf("openai: %w", err)
		}
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &contentPartImage{URL: dataURL}})
	}
	last.Content = parts

	return p.complete(ctx, messages, request.Format)
}

// encodeImageFile reads the file and wraps it into a data URL with a MIME
// type inferred from the file extension.
func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image %q: %w", path, err)
	}
	return "data:" + imageMIMEType(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// imageMIMEType maps a file extension to its MIME type, defaulting to JPEG
// for unknown extensions.
func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}
