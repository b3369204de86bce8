package prebuilt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/nodeflow/core/node"
	"github.com/leofalp/nodeflow/core/state"
)

var surveyQuestions = []string{
	"What is your name?",
	"What is your quest?",
	"What is your favorite color?",
}

func newSurvey(t *testing.T) *node.Node {
	t.Helper()
	survey, err := Survey(surveyQuestions)
	if err != nil {
		t.Fatalf("Survey failed: %v", err)
	}
	return survey
}

func TestSurvey_RequiresQuestions(t *testing.T) {
	_, err := Survey(nil)
	if err == nil {
		t.Fatal("expected an error for an empty question list")
	}
	if !errors.Is(err, node.ErrConfiguration) {
		t.Errorf("error does not match ErrConfiguration: %v", err)
	}
}

func TestSurvey_FirstEntryAsksOpeningQuestion(t *testing.T) {
	survey := newSurvey(t)
	client := &scriptedClient{responses: []any{"What is your name?"}}

	result, err := survey.Invoke(context.Background(), state.New(), client)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if result[KeySurveyResponse] != "What is your name?" {
		t.Errorf("survey response = %v", result[KeySurveyResponse])
	}
	if result[KeySurveyComplete] != false {
		t.Errorf("survey_complete = %v, want false", result[KeySurveyComplete])
	}
	if result[KeyConversation] != "assistant: What is your name?" {
		t.Errorf("transcript = %q", result[KeyConversation])
	}

	messages := result.Messages()
	if len(messages) != 3 {
		t.Fatalf("message log has %d entries, want intro, hint and question", len(messages))
	}
	if messages[0].Content != surveyIntro {
		t.Errorf("message 0 = %q", messages[0].Content)
	}
	if messages[1].Content != surveyEscapeHint {
		t.Errorf("message 1 = %q", messages[1].Content)
	}
	if messages[2].Content != "What is your name?" {
		t.Errorf("message 2 = %q", messages[2].Content)
	}
}

func TestSurvey_PromptCarriesNumberedQuestions(t *testing.T) {
	survey := newSurvey(t)
	client := &scriptedClient{responses: []any{"What is your name?"}}

	_, err := survey.Invoke(context.Background(), state.New(), client)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	prompt := client.lastPrompt(t)
	for _, want := range []string{
		"1. What is your name?",
		"2. What is your quest?",
		"3. What is your favorite color?",
		CollectComplete,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not contain %q:\n%s", want, prompt)
		}
	}
}

func TestSurvey_HaltsWhileAwaitingAnswer(t *testing.T) {
	survey := newSurvey(t)
	client := &scriptedClient{}

	s := state.New()
	s[KeyConversation] = "assistant: What is your name?"

	result, err := survey.Invoke(context.Background(), s, client)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if len(client.requests) != 0 {
		t.Errorf("client received %d requests, want none while waiting", len(client.requests))
	}
	if result[KeyConversation] != "assistant: What is your name?" {
		t.Errorf("transcript changed while waiting: %q", result[KeyConversation])
	}
	if result.Has(KeySurveyResponse) {
		t.Error("survey response was written while waiting")
	}
}

func TestSurvey_ConsumesAnswerAndAsksNext(t *testing.T) {
	survey := newSurvey(t)
	client := &scriptedClient{responses: []any{"What is your quest?"}}

	s := state.New()
	s[KeyConversation] = "assistant: What is your name?"
	s[state.KeyHumanInput] = "Alice"

	result, err := survey.Invoke(context.Background(), s, client)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	want := "assistant: What is your name?\nuser: Alice\nassistant: What is your quest?"
	if result[KeyConversation] != want {
		t.Errorf("transcript = %q, want %q", result[KeyConversation], want)
	}
	if result[state.KeyHumanInput] != "" {
		t.Errorf("human input was not consumed: %v", result[state.KeyHumanInput])
	}

	prompt := client.lastPrompt(t)
	if !strings.Contains(prompt, "user: Alice") {
		t.Errorf("prompt does not carry the answer:\n%s", prompt)
	}
}

func TestSurvey_CompletionThanksAndSummarizes(t *testing.T) {
	survey := newSurvey(t)
	client := &scriptedClient{responses: []any{
		CollectComplete,
		"- Alice seeks the grail and likes blue.",
	}}

	s := state.New()
	s[KeyConversation] = "assistant: What is your favorite color?"
	s[state.KeyHumanInput] = "Blue"

	result, err := survey.Invoke(context.Background(), s, client)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if result[KeySurveyComplete] != true {
		t.Errorf("survey_complete = %v, want true", result[KeySurveyComplete])
	}
	if result[KeyConversationSummary] != "- Alice seeks the grail and likes blue." {
		t.Errorf("summary = %v", result[KeyConversationSummary])
	}
	if result[KeyConversation] != "" {
		t.Errorf("transcript = %q, want it cleared after summarizing", result[KeyConversation])
	}
	if len(client.requests) != 2 {
		t.Fatalf("client received %d requests, want survey + summarizer", len(client.requests))
	}

	summaryPrompt := client.requests[1].Messages[0].Content
	if !strings.Contains(summaryPrompt, "user: Blue") {
		t.Errorf("summary prompt does not carry the transcript:\n%s", summaryPrompt)
	}
	if !strings.Contains(summaryPrompt, surveyThanks) {
		t.Errorf("summary prompt does not carry the closing message:\n%s", summaryPrompt)
	}

	var sawThanks bool
	for _, message := range result.Messages() {
		if message.Content == surveyThanks {
			sawThanks = true
		}
	}
	if !sawThanks {
		t.Error("closing message was not recorded")
	}
}

func TestSurvey_SecondRoundDoesNotReintroduce(t *testing.T) {
	survey := newSurvey(t)
	client := &scriptedClient{responses: []any{"What is your quest?"}}

	s := state.New()
	s[KeyConversation] = "assistant: What is your name?"
	s[state.KeyHumanInput] = "Alice"

	result, err := survey.Invoke(context.Background(), s, client)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	for _, message := range result.Messages() {
		if message.Content == surveyIntro {
			t.Error("introduction was recorded again on re-entry")
		}
	}
}
