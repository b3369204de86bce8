package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leofalp/nodeflow/providers/observability"
)

// PostJSON performs a synchronous HTTP POST with a JSON body and decodes the
// JSON response into Output. It propagates context cancellation, attaches a
// Bearer authorization header when apiKey is non-empty, and reports request
// lifecycle events on the span found in ctx, if any.
//
// Non-2xx responses return an error carrying the status and response body.
// Decode failures include a truncated body preview for debugging.
func PostJSON[Output any](ctx context.Context, client *http.Client, url, apiKey string, body any) (*Output, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String("http.method", http.MethodPost),
			observability.String("http.url", url),
			observability.Int("http.request.body_size", len(payload)),
		)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+apiKey)
	}

	started := time.Now()
	response, err := httpClient.Do(request)
	elapsed := time.Since(started)
	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", elapsed),
			)
		}
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer CloseWithLog(response.Body)

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int("http.status_code", response.StatusCode),
			observability.Int("http.response.body_size", len(responseBody)),
			observability.Duration("http.request.duration", elapsed),
		)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("non-2xx status %d: %s", response.StatusCode, string(responseBody))
	}

	var decoded Output
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w, body preview: %s",
			response.StatusCode, err, observability.TruncateString(string(responseBody), 500))
	}

	return &decoded, nil
}
