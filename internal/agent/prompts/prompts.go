// Package prompts holds the Hindi instruction templates for every LLM call
// the agent makes, plus the builders that turn runtime state into message
// lists.
package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/planner_prompt.txt
var plannerSystemPrompt string

//go:embed template/evaluator_prompt.txt
var evaluatorSystemPrompt string

//go:embed template/response_prompt.txt
var responseSystemPrompt string

//go:embed template/extractor_prompt.txt
var extractorInstruction string

// HistoryTurn is one prior exchange shown to the planner.
type HistoryTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// renderSystem runs a static template through the Eino prompt component so
// prompt callbacks fire, matching how every other prompt in the codebase is
// rendered.
func renderSystem(ctx context.Context, tplText string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(tplText),
	)
	msgs, err := tpl.Format(ctx, map[string]any{})
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// PlannerMessages builds the planning request: profile, recent history and
// the current utterance.
func PlannerMessages(ctx context.Context, userInput string, profileFields map[string]any, history []HistoryTurn) ([]*schema.Message, error) {
	system, err := renderSystem(ctx, plannerSystemPrompt)
	if err != nil {
		return nil, err
	}

	profileJSON := mustJSON(profileFields)
	historyText := "कोई पिछली बातचीत नहीं"
	if len(history) > 0 {
		historyText = mustJSON(history)
	}

	userContent := fmt.Sprintf(`उपयोगकर्ता प्रोफ़ाइल (जो जानकारी उपलब्ध है):
%s

पिछली बातचीत:
%s

वर्तमान उपयोगकर्ता इनपुट: %s`, profileJSON, historyText, userInput)

	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(userContent),
	}, nil
}

// EvaluatorMessages builds the evaluation request over the serialized
// execution results and the stated intent.
func EvaluatorMessages(ctx context.Context, executionResults any, originalIntent string) ([]*schema.Message, error) {
	system, err := renderSystem(ctx, evaluatorSystemPrompt)
	if err != nil {
		return nil, err
	}

	userContent := fmt.Sprintf(`मूल उपयोगकर्ता इरादा: %s

निष्पादन परिणाम:
%s

इन परिणामों का मूल्यांकन करें।`, originalIntent, mustJSON(executionResults))

	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(userContent),
	}, nil
}

// ResponseMessages builds the final answer synthesis request.
func ResponseMessages(ctx context.Context, schemes any, profileFields map[string]any, userIntent string) ([]*schema.Message, error) {
	system, err := renderSystem(ctx, responseSystemPrompt)
	if err != nil {
		return nil, err
	}

	userContent := fmt.Sprintf(`उपयोगकर्ता का इरादा: %s

उपयोगकर्ता प्रोफ़ाइल:
%s

पात्र योजनाएं:
%s

उपयोगकर्ता के लिए एक सहायक प्रतिक्रिया तैयार करें।`, userIntent, mustJSON(profileFields), mustJSON(schemes))

	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(userContent),
	}, nil
}

// ExtractorMessages builds the profile field extraction request.
func ExtractorMessages(ctx context.Context, userInput string) ([]*schema.Message, error) {
	instruction, err := renderSystem(ctx, extractorInstruction)
	if err != nil {
		return nil, err
	}

	return []*schema.Message{
		schema.SystemMessage("आप एक जानकारी निकालने वाले सहायक हैं।"),
		schema.UserMessage(instruction + "\n\nउपयोगकर्ता संदेश: " + userInput),
	}, nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
