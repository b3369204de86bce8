package prebuilt

import (
	"context"
	"fmt"
	"strings"

	"github.com/leofalp/nodeflow/core/node"
	"github.com/leofalp/nodeflow/core/state"
	"github.com/leofalp/nodeflow/providers/ai"
)

// CollectComplete is the marker the survey model outputs once every question
// has been asked and answered.
const CollectComplete = "COLLECT_COMPLETE"

const surveyTemplate = `# QUESTIONS:
{questions}

# PREVIOUS CONVERSATION:
{conversation}

# Instructions:
Ask ALL questions from pre-defined QUESTIONS one by one.
Ask ONLY ONE question at a time following the pre-defined order.
YOU NEED TO ASK ALL QUESTIONS! DO NOT SKIP QUESTIONS! DO NOT CHANGE ORDER OF QUESTIONS! DO NOT REWRITE QUESTIONS!
If all questions have been asked, output exactly "` + CollectComplete + `".`

const (
	surveyIntro      = "I'd like to ask some questions"
	surveyEscapeHint = `You can say "terminate" to end the survey at any time.`
	surveyThanks     = "Thank you for your answers!"
)

// Survey returns a human-in-the-loop node that walks a respondent through
// the given questions one at a time. The node is meant to be re-entered by
// its workflow until [KeySurveyComplete] turns true:
//
//   - On first entry (empty transcript) it records an introduction and asks
//     the model for the opening question.
//   - On re-entry it consumes the answer waiting under the state's
//     human_input key, or halts without calling the model when no answer has
//     arrived yet.
//   - Each model response is recorded and appended to the transcript; when
//     the response carries [CollectComplete], the node thanks the
//     respondent, marks the survey complete, and hands the transcript to
//     [Summarizer].
func Survey(questions []string) (*node.Node, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("prebuilt: survey needs at least one question: %w", node.ErrConfiguration)
	}
	summarizer, err := Summarizer()
	if err != nil {
		return nil, err
	}
	numbered := formatQuestions(questions)

	pre := func(ctx context.Context, s state.State, _ ai.Client, _ node.Args) (node.HookResult, error) {
		s[KeyQuestions] = numbered

		if s.String(KeyConversation) == "" {
			s[KeyConversation] = ""
			s[KeySurveyComplete] = false
			node.RecordMessages(ctx, s,
				node.Record{Role: ai.RoleAssistant, Content: surveyIntro, Tag: "green"},
				node.Record{Role: ai.RoleAssistant, Content: surveyEscapeHint, Tag: "yellow"},
			)
			return node.Continue(s), nil
		}

		answer := s.String(state.KeyHumanInput)
		if answer == "" {
			return node.Halt(s), nil
		}
		appendTranscript(s, ai.RoleUser, answer)
		s[state.KeyHumanInput] = ""
		return node.Continue(s), nil
	}

	post := func(ctx context.Context, s state.State, client ai.Client, _ node.Args) (node.HookResult, error) {
		response := s.String(KeySurveyResponse)

		if strings.Contains(response, CollectComplete) {
			node.RecordMessages(ctx, s, node.Record{Role: ai.RoleAssistant, Content: surveyThanks, Tag: "green"})
			appendTranscript(s, ai.RoleAssistant, surveyThanks)
			s[KeySurveyComplete] = true

			summarized, err := summarizer.Invoke(ctx, s, client)
			if err != nil {
				return node.HookResult{}, fmt.Errorf("summarizing survey conversation: %w", err)
			}
			return node.Continue(summarized), nil
		}

		node.RecordMessages(ctx, s, node.Record{Role: ai.RoleAssistant, Content: response, Tag: "green"})
		appendTranscript(s, ai.RoleAssistant, response)
		return node.Continue(s), nil
	}

	return node.New("survey", surveyTemplate,
		node.WithSink(KeySurveyResponse),
		node.WithPreHook(pre),
		node.WithPostHook(post),
	)
}

// formatQuestions renders the questions as a numbered list, one per line.
func formatQuestions(questions []string) string {
	var b strings.Builder
	for i, question := range questions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, question)
	}
	return b.String()
}
