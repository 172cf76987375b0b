package planner

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yojana-mitra/server/internal/agent/model"
	"github.com/yojana-mitra/server/internal/agent/tools"
	errx "github.com/yojana-mitra/server/internal/core/error"
	"github.com/yojana-mitra/server/internal/scheme"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) ChatJSON(ctx context.Context, messages []*schema.Message, temperature float32, out any) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func TestPlan_BuildsTypedSteps(t *testing.T) {
	p := New(&fakeLLM{response: `{
		"user_intent": "पेंशन योजना खोजें",
		"missing_info": ["age"],
		"steps": [
			{"step_id": 1, "action": "check eligibility", "tool_name": "eligibility_engine", "tool_input": {}},
			{"step_id": 2, "action": "search schemes", "tool_name": "scheme_retriever", "tool_input": {"query": "पेंशन योजना", "n_results": 3}}
		]
	}`})

	result, err := p.Plan(context.Background(), "मुझे पेंशन चाहिए", &model.UserProfile{}, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.Equal(t, "पेंशन योजना खोजें", result.Plan.UserIntent)
	assert.Equal(t, []string{"age"}, result.Plan.MissingInfo)
	assert.NotEmpty(t, result.Plan.PlanID)
	require.Len(t, result.Plan.Steps, 2)

	first := result.Plan.Steps[0]
	assert.Equal(t, tools.ToolEligibilityEngine, first.ToolName)
	assert.NotNil(t, first.Input.Eligibility)
	assert.Equal(t, model.StepPending, first.Status)

	second := result.Plan.Steps[1]
	require.NotNil(t, second.Input.Search)
	assert.Equal(t, "पेंशन योजना", second.Input.Search.Query)
	assert.Equal(t, 3, second.Input.Search.TopK)
}

func TestPlan_AssignsStepIDsWhenAbsent(t *testing.T) {
	p := New(&fakeLLM{response: `{
		"user_intent": "intent",
		"steps": [
			{"action": "a", "tool_name": "eligibility_engine"},
			{"action": "b", "tool_name": "scheme_retriever"}
		]
	}`})

	result, err := p.Plan(context.Background(), "input", &model.UserProfile{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Plan.Steps[0].StepID)
	assert.Equal(t, 2, result.Plan.Steps[1].StepID)
}

func TestPlan_DefaultStepsOnEmptyPlan(t *testing.T) {
	p := New(&fakeLLM{response: `{"user_intent": "intent", "steps": []}`})

	result, err := p.Plan(context.Background(), "input", &model.UserProfile{}, nil)
	require.NoError(t, err)
	require.Len(t, result.Plan.Steps, 2)
	assert.Equal(t, tools.ToolEligibilityEngine, result.Plan.Steps[0].ToolName)
	assert.Equal(t, tools.ToolSchemeRetriever, result.Plan.Steps[1].ToolName)
	require.NotNil(t, result.Plan.Steps[1].Input.Search)
	assert.Equal(t, scheme.DefaultQuery, result.Plan.Steps[1].Input.Search.Query)
}

func TestPlan_IntentFallsBackToInput(t *testing.T) {
	p := New(&fakeLLM{response: `{"steps": []}`})

	result, err := p.Plan(context.Background(), "मुझे मदद चाहिए", &model.UserProfile{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "मुझे मदद चाहिए", result.Plan.UserIntent)
}

func TestPlan_ClarificationPassedThrough(t *testing.T) {
	p := New(&fakeLLM{response: `{
		"user_intent": "intent",
		"needs_clarification": true,
		"clarification_question": "आपकी उम्र क्या है?",
		"missing_info": ["age"],
		"steps": []
	}`})

	result, err := p.Plan(context.Background(), "input", &model.UserProfile{}, nil)
	require.NoError(t, err)
	assert.True(t, result.NeedsClarification)
	assert.Equal(t, "आपकी उम्र क्या है?", result.ClarificationQuestion)
	assert.Equal(t, []string{"age"}, result.MissingInfo)
}

func TestPlan_LLMFailure(t *testing.T) {
	p := New(&fakeLLM{err: errors.New("timeout")})

	result, err := p.Plan(context.Background(), "input", &model.UserProfile{}, nil)
	assert.Nil(t, result)
	require.Error(t, err)
	kind, ok := errx.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errx.KindPlanning, kind)
}

func TestPlan_NilProfile(t *testing.T) {
	p := New(&fakeLLM{response: `{"user_intent": "intent", "steps": []}`})

	result, err := p.Plan(context.Background(), "input", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, result.Plan)
}

func TestConvertToolInput_UnknownToolKeepsRaw(t *testing.T) {
	input := convertToolInput("mystery_tool", map[string]any{"flag": true})
	require.NotNil(t, input.Raw)
	assert.Equal(t, true, input.Raw["flag"])

	empty := convertToolInput("mystery_tool", nil)
	assert.Nil(t, empty.Raw)
}

func TestConvertToolInput_RetrieverDefaults(t *testing.T) {
	input := convertToolInput(tools.ToolSchemeRetriever, map[string]any{})
	require.NotNil(t, input.Search)
	assert.Equal(t, scheme.DefaultQuery, input.Search.Query)
	assert.Zero(t, input.Search.TopK)

	input = convertToolInput(tools.ToolSchemeRetriever, map[string]any{"top_k": float64(7)})
	assert.Equal(t, 7, input.Search.TopK)
}

func TestSnippet_KeepsRuneBoundary(t *testing.T) {
	long := strings.Repeat("योजना", 20)
	short := snippet(long)
	assert.LessOrEqual(t, len(short), 100)
	assert.True(t, utf8.ValidString(short))
}

func TestExtractProfile_Success(t *testing.T) {
	p := New(&fakeLLM{response: `{"age": 35, "state": "Bihar", "category": "obc"}`})

	profile := p.ExtractProfile(context.Background(), "मैं 35 साल का हूं, बिहार से")
	require.NotNil(t, profile)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 35, *profile.Age)
	assert.Equal(t, "Bihar", *profile.State)
	assert.Equal(t, model.CategoryOBC, *profile.Category)
}

func TestExtractProfile_FailureYieldsEmptyProfile(t *testing.T) {
	p := New(&fakeLLM{err: errors.New("timeout")})

	profile := p.ExtractProfile(context.Background(), "input")
	require.NotNil(t, profile)
	assert.Empty(t, profile.FilledFields())
}

func TestExtractProfile_InvalidFieldsRejected(t *testing.T) {
	p := New(&fakeLLM{response: `{"age": 250}`})

	profile := p.ExtractProfile(context.Background(), "input")
	require.NotNil(t, profile)
	assert.Empty(t, profile.FilledFields())
}
