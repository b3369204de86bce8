package prebuilt

import (
	"context"

	"github.com/leofalp/nodeflow/core/node"
	"github.com/leofalp/nodeflow/core/state"
	"github.com/leofalp/nodeflow/providers/ai"
)

// State keys shared by the prebuilt nodes.
const (
	// KeyConversation holds the plain-text transcript being collected, one
	// "role: content" line per turn.
	KeyConversation = "conversation"

	// KeyConversationSummary receives the summarizer's output.
	KeyConversationSummary = "conversation_summary"

	// KeyQuestions holds the numbered question list the survey node renders
	// into its prompt.
	KeyQuestions = "questions"

	// KeySurveyResponse receives the survey model's output for each round.
	KeySurveyResponse = "survey_response"

	// KeySurveyComplete is false while a survey is collecting answers and
	// true once the completion marker has been seen.
	KeySurveyComplete = "survey_complete"

	// KeyPageContent and KeyPageURL receive the page reader's Markdown and
	// the final URL after redirects.
	KeyPageContent = "page_content"
	KeyPageURL     = "page_url"
)

const summarizerTemplate = `# Previous conversation:
{conversation}

# Instructions:
Summarize the previous conversation and output a summary of key points in bullet points.
Each bullet point should be a complete sentence and contain only one key point.
Do not add new information. Do not make up information. Do not change the order of information.
For numbers, use the exact values from the conversation. Do not make up numbers.
Output MUST be bullet points ONLY, do not add explanation before or after.`

// Summarizer returns a node that condenses the transcript under
// [KeyConversation] into bullet points stored at [KeyConversationSummary].
// The summary is also recorded on the message log, and the transcript is
// cleared once it has been summarized.
func Summarizer() (*node.Node, error) {
	return node.New("summarizer", summarizerTemplate,
		node.WithSink(KeyConversationSummary),
		node.WithPreHook(announceSummary),
		node.WithPostHook(publishSummary),
	)
}

func announceSummary(ctx context.Context, s state.State, _ ai.Client, _ node.Args) (node.HookResult, error) {
	node.RecordMessages(ctx, s, node.Record{
		Role:    ai.RoleAssistant,
		Content: "I will summarize the previous conversation.",
		Tag:     "green",
	})
	return node.Continue(s), nil
}

func publishSummary(ctx context.Context, s state.State, _ ai.Client, _ node.Args) (node.HookResult, error) {
	node.RecordMessages(ctx, s, node.Record{
		Role:    ai.RoleAssistant,
		Content: s.String(KeyConversationSummary),
		Tag:     "blue",
	})
	s[KeyConversation] = ""
	return node.Continue(s), nil
}

// appendTranscript adds one "role: content" line to the transcript under
// [KeyConversation].
func appendTranscript(s state.State, role ai.Role, content string) {
	line := string(role) + ": " + content
	if existing := s.String(KeyConversation); existing != "" {
		line = existing + "\n" + line
	}
	s[KeyConversation] = line
}
