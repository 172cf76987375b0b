package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yojana-mitra/server/internal/agent/memory"
	"github.com/yojana-mitra/server/internal/agent/model"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) ChatJSON(ctx context.Context, messages []*schema.Message, temperature float32, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func newEvaluator(client *fakeLLM) *Evaluator {
	return New(client, memory.NewContradictionHandler())
}

func successResults() []model.StepResult {
	return []model.StepResult{
		{StepID: 1, Success: true},
		{StepID: 2, Success: true},
	}
}

func TestEvaluate_NoResultsShortCircuits(t *testing.T) {
	client := &fakeLLM{}
	e := newEvaluator(client)

	ev := e.Evaluate(context.Background(), nil, "intent", model.NewConversationMemory("s1"))
	assert.False(t, ev.IsComplete)
	assert.Equal(t, 0.2, ev.ConfidenceScore)
	assert.True(t, ev.NeedsMoreInfo)
	assert.Equal(t, noResultsQuestion, ev.FollowUpQuestion)
	assert.Zero(t, client.calls, "LLM must not be consulted without results")
}

func TestEvaluate_UsesLLMJudgment(t *testing.T) {
	client := &fakeLLM{response: `{
		"is_complete": true,
		"confidence_score": 0.9,
		"needs_more_info": false,
		"final_response_ready": true
	}`}
	e := newEvaluator(client)

	ev := e.Evaluate(context.Background(), successResults(), "intent", model.NewConversationMemory("s1"))
	assert.True(t, ev.IsComplete)
	assert.Equal(t, 0.9, ev.ConfidenceScore)
	assert.True(t, ev.FinalResponseReady)
}

func TestEvaluate_LLMFailureFallsBackOnSuccess(t *testing.T) {
	client := &fakeLLM{err: errors.New("timeout")}
	e := newEvaluator(client)

	ev := e.Evaluate(context.Background(), successResults(), "intent", model.NewConversationMemory("s1"))
	assert.True(t, ev.IsComplete)
	assert.Equal(t, 0.7, ev.ConfidenceScore)
	assert.False(t, ev.NeedsMoreInfo)
	assert.True(t, ev.FinalResponseReady)
}

func TestEvaluate_LLMFailureFallsBackOnStepFailure(t *testing.T) {
	client := &fakeLLM{err: errors.New("timeout")}
	e := newEvaluator(client)

	results := []model.StepResult{
		{StepID: 1, Success: true},
		{StepID: 2, Success: false, Err: "tool failed"},
	}
	ev := e.Evaluate(context.Background(), results, "intent", model.NewConversationMemory("s1"))
	assert.False(t, ev.IsComplete)
	assert.Equal(t, 0.3, ev.ConfidenceScore)
	assert.True(t, ev.NeedsMoreInfo)
}

func TestEvaluate_ContradictionsForceMoreInfo(t *testing.T) {
	client := &fakeLLM{response: `{
		"is_complete": true,
		"confidence_score": 0.9,
		"needs_more_info": false,
		"final_response_ready": true
	}`}
	e := newEvaluator(client)

	mem := model.NewConversationMemory("s1")
	mem.AppendTurn(model.ConversationTurn{TurnID: 0, ExtractedFields: map[string]any{"age": float64(35)}}, 20)
	mem.AppendTurn(model.ConversationTurn{TurnID: 1, ExtractedFields: map[string]any{"age": float64(50)}}, 20)

	ev := e.Evaluate(context.Background(), successResults(), "intent", mem)
	require.Len(t, ev.Contradictions, 1)
	assert.Equal(t, "age", ev.Contradictions[0].Field)
	assert.True(t, ev.NeedsMoreInfo, "contradictions override the LLM verdict")
}

func TestEvaluate_AgeProgressionIsNotContradiction(t *testing.T) {
	client := &fakeLLM{response: `{"is_complete": true, "confidence_score": 0.9, "final_response_ready": true}`}
	e := newEvaluator(client)

	mem := model.NewConversationMemory("s1")
	mem.AppendTurn(model.ConversationTurn{TurnID: 0, ExtractedFields: map[string]any{"age": float64(35)}}, 20)
	mem.AppendTurn(model.ConversationTurn{TurnID: 1, ExtractedFields: map[string]any{"age": float64(36)}}, 20)

	ev := e.Evaluate(context.Background(), successResults(), "intent", mem)
	assert.Empty(t, ev.Contradictions)
	assert.False(t, ev.NeedsMoreInfo)
}

func TestDecideClarification_CriticalFieldsFirst(t *testing.T) {
	e := newEvaluator(&fakeLLM{})

	ev := &model.Evaluation{IsComplete: false}
	decision := e.DecideClarification(ev, []string{"occupation", "state", "age", "annual_income"})
	require.True(t, decision.ShouldAsk)
	// Critical order wins over the caller's order, capped at two fields.
	assert.Equal(t, []string{"age", "annual_income"}, decision.FieldsNeeded)
	assert.Equal(t, model.ClarifyMissingFields, decision.Reason)
	assert.Equal(t, "आपकी उम्र क्या है? और आपकी वार्षिक आय कितनी है?", decision.Question)
}

func TestDecideClarification_SingleField(t *testing.T) {
	e := newEvaluator(&fakeLLM{})

	decision := e.DecideClarification(&model.Evaluation{IsComplete: false}, []string{"state"})
	require.True(t, decision.ShouldAsk)
	assert.Equal(t, "आप किस राज्य में रहते हैं?", decision.Question)
}

func TestDecideClarification_ContradictionFallback(t *testing.T) {
	e := newEvaluator(&fakeLLM{})

	ev := &model.Evaluation{
		IsComplete: true,
		Contradictions: []model.Contradiction{
			{Field: "state", OldValue: "Bihar", NewValue: "Jharkhand", Severity: memory.SeverityLow},
		},
	}
	decision := e.DecideClarification(ev, nil)
	require.True(t, decision.ShouldAsk)
	assert.Equal(t, model.ClarifyContradiction, decision.Reason)
	assert.Contains(t, decision.Question, "राज्य")
}

func TestDecideClarification_NothingToAsk(t *testing.T) {
	e := newEvaluator(&fakeLLM{})

	decision := e.DecideClarification(&model.Evaluation{IsComplete: true}, nil)
	assert.False(t, decision.ShouldAsk)

	// Non-critical missing fields alone do not trigger a question.
	decision = e.DecideClarification(&model.Evaluation{IsComplete: false}, []string{"occupation"})
	assert.False(t, decision.ShouldAsk)
}
