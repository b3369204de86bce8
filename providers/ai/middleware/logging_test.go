package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/nodeflow/providers/ai"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestWithLogging_LogsCallAndCompletion(t *testing.T) {
	var buf bytes.Buffer
	client := WithLogging(&stubClient{responses: []any{"hi"}}, testLogger(&buf), LogLevelStandard)

	request := ai.ChatRequest{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: "be brief"},
			{Role: ai.RoleUser, Content: "hello"},
		},
		Format: "json",
	}
	response, err := client.SendMessage(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response != "hi" {
		t.Errorf("response = %v, want %q", response, "hi")
	}

	output := buf.String()
	for _, want := range []string{
		`msg="model call"`,
		`msg="model call completed"`,
		"kind=send",
		"message_count=2",
		"format=json",
		"duration=",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("log output missing %q:\n%s", want, output)
		}
	}
}

func TestWithLogging_MinimalOmitsDetail(t *testing.T) {
	var buf bytes.Buffer
	client := WithLogging(&stubClient{}, testLogger(&buf), LogLevelMinimal)

	request := ai.ChatRequest{Messages: ai.UserMessage("hello"), Format: "json"}
	if _, err := client.SendMessage(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "message_count") {
		t.Errorf("minimal level leaked message_count:\n%s", output)
	}
	if strings.Contains(output, "format=") {
		t.Errorf("minimal level leaked format:\n%s", output)
	}
	if !strings.Contains(output, "kind=send") {
		t.Errorf("log output missing kind:\n%s", output)
	}
}

func TestWithLogging_ErrorPath(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	client := WithLogging(&stubClient{errors: []error{boom}}, testLogger(&buf), LogLevelStandard)

	_, err := client.SendMessage(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want the client error", err)
	}

	output := buf.String()
	if !strings.Contains(output, `msg="model call failed"`) {
		t.Errorf("log output missing failure entry:\n%s", output)
	}
	if !strings.Contains(output, "error=boom") {
		t.Errorf("log output missing error attribute:\n%s", output)
	}
	if strings.Contains(output, "model call completed") {
		t.Errorf("failed call logged as completed:\n%s", output)
	}
}

func TestWithLogging_VerboseTruncatesContent(t *testing.T) {
	var buf bytes.Buffer
	longPrompt := strings.Repeat("a", 600)
	client := WithLogging(&stubClient{responses: []any{"short answer"}}, testLogger(&buf), LogLevelVerbose)

	request := ai.ChatRequest{Messages: ai.UserMessage(longPrompt)}
	if _, err := client.SendMessage(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "last_message_role=user") {
		t.Errorf("log output missing last message role:\n%s", output)
	}
	if strings.Contains(output, longPrompt) {
		t.Error("verbose log contains the untruncated prompt")
	}
	if !strings.Contains(output, "total: 600 chars") {
		t.Errorf("log output missing truncation note:\n%s", output)
	}
	if !strings.Contains(output, "response_content=") {
		t.Errorf("log output missing response content:\n%s", output)
	}
}

func TestWithLogging_StandardOmitsContent(t *testing.T) {
	var buf bytes.Buffer
	client := WithLogging(&stubClient{}, testLogger(&buf), LogLevelStandard)

	request := ai.ChatRequest{Messages: ai.UserMessage("secret prompt")}
	if _, err := client.SendMessage(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "secret prompt") {
		t.Errorf("standard level leaked message content:\n%s", output)
	}
	if strings.Contains(output, "response_content") {
		t.Errorf("standard level leaked response content:\n%s", output)
	}
}

func TestWithLogging_VisionLogsImageCount(t *testing.T) {
	var buf bytes.Buffer
	client := WithLogging(&stubVisionClient{}, testLogger(&buf), LogLevelStandard)

	vision, ok := client.(ai.VisionClient)
	if !ok {
		t.Fatal("wrapped client lost the vision capability")
	}

	paths := []string{"a.png", "b.png", "c.png"}
	if _, err := vision.SendVisionMessage(context.Background(), ai.ChatRequest{}, paths); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "image_count=3") {
		t.Errorf("log output missing image count:\n%s", output)
	}
	if !strings.Contains(output, "kind=vision") {
		t.Errorf("log output missing vision kind:\n%s", output)
	}
}
