// Package planner turns a user utterance into an executable plan and pulls
// profile facts out of free text.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yojana-mitra/server/internal/agent/llm"
	"github.com/yojana-mitra/server/internal/agent/model"
	"github.com/yojana-mitra/server/internal/agent/prompts"
	"github.com/yojana-mitra/server/internal/agent/tools"
	errx "github.com/yojana-mitra/server/internal/core/error"
	"github.com/yojana-mitra/server/internal/scheme"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

const (
	planTemperature    = 0.3
	extractTemperature = 0.1
)

// PlanResult is what one planning pass yields.
type PlanResult struct {
	Plan                  *model.AgentPlan
	NeedsClarification    bool
	ClarificationQuestion string
	MissingInfo           []string
}

// Planner delegates intent analysis and field extraction to the analysis
// model. It holds no session state and is safe to share.
type Planner struct {
	llm llm.Client
}

// New returns a planner over the given LLM client.
func New(client llm.Client) *Planner {
	return &Planner{llm: client}
}

// planPayload mirrors the JSON shape the planning prompt asks for.
type planPayload struct {
	UserIntent            string        `json:"user_intent"`
	RequiredInfo          []string      `json:"required_info"`
	MissingInfo           []string      `json:"missing_info"`
	Steps                 []stepPayload `json:"steps"`
	NeedsClarification    bool          `json:"needs_clarification"`
	ClarificationQuestion string        `json:"clarification_question"`
}

type stepPayload struct {
	StepID         int            `json:"step_id"`
	Action         string         `json:"action"`
	ToolName       string         `json:"tool_name"`
	ToolInput      map[string]any `json:"tool_input"`
	ExpectedOutput string         `json:"expected_output"`
}

// Plan analyzes the utterance against the profile and recent history and
// returns an actionable plan. A planning LLM failure is returned to the
// caller; an empty-but-successful plan is silently replaced by the default
// two-step plan so every turn has something to execute.
func (p *Planner) Plan(ctx context.Context, userInput string, profile *model.UserProfile, history []prompts.HistoryTurn) (*PlanResult, error) {
	logx.Debug().Str("input", snippet(userInput)).Msg("planning started")

	if profile == nil {
		profile = &model.UserProfile{}
	}
	msgs, err := prompts.PlannerMessages(ctx, userInput, profile.FilledFields(), history)
	if err != nil {
		return nil, errx.Planning(err)
	}

	var payload planPayload
	if err := p.llm.ChatJSON(ctx, msgs, planTemperature, &payload); err != nil {
		return nil, errx.Planning(fmt.Errorf("plan generation: %w", err))
	}

	plan := buildPlan(&payload, userInput)
	logx.Debug().
		Str("plan_id", plan.PlanID).
		Str("intent", plan.UserIntent).
		Int("steps", len(plan.Steps)).
		Msg("plan ready")

	return &PlanResult{
		Plan:                  plan,
		NeedsClarification:    payload.NeedsClarification,
		ClarificationQuestion: payload.ClarificationQuestion,
		MissingInfo:           payload.MissingInfo,
	}, nil
}

func buildPlan(payload *planPayload, userInput string) *model.AgentPlan {
	steps := make([]model.PlanStep, 0, len(payload.Steps))
	for _, sp := range payload.Steps {
		id := sp.StepID
		if id == 0 {
			id = len(steps) + 1
		}
		steps = append(steps, model.PlanStep{
			StepID:         id,
			Action:         sp.Action,
			ToolName:       sp.ToolName,
			Input:          convertToolInput(sp.ToolName, sp.ToolInput),
			ExpectedOutput: sp.ExpectedOutput,
			Status:         model.StepPending,
		})
	}
	if len(steps) == 0 {
		steps = defaultSteps()
	}

	intent := payload.UserIntent
	if intent == "" {
		intent = userInput
	}

	return &model.AgentPlan{
		PlanID:       uuid.NewString(),
		UserIntent:   intent,
		RequiredInfo: payload.RequiredInfo,
		MissingInfo:  payload.MissingInfo,
		Steps:        steps,
		CreatedAt:    time.Now().UTC(),
	}
}

// convertToolInput narrows the planner's free-form tool_input into the typed
// variant for known tools; unknown tools keep the raw bag.
func convertToolInput(toolName string, raw map[string]any) model.ToolInput {
	switch toolName {
	case tools.ToolSchemeRetriever:
		q := model.SearchQuery{Query: scheme.DefaultQuery}
		if s, ok := raw["query"].(string); ok && s != "" {
			q.Query = s
		}
		if k, ok := raw["top_k"].(float64); ok && k > 0 {
			q.TopK = int(k)
		}
		if k, ok := raw["n_results"].(float64); ok && k > 0 {
			q.TopK = int(k)
		}
		return model.ToolInput{Search: &q}
	case tools.ToolEligibilityEngine:
		return model.ToolInput{Eligibility: &model.EligibilityQuery{}}
	default:
		if len(raw) == 0 {
			return model.ToolInput{}
		}
		return model.ToolInput{Raw: raw}
	}
}

// defaultSteps is the fallback plan used when the model produced none.
func defaultSteps() []model.PlanStep {
	return []model.PlanStep{
		{
			StepID:         1,
			Action:         "उपयोगकर्ता प्रोफ़ाइल से पात्र योजनाएं खोजें",
			ToolName:       tools.ToolEligibilityEngine,
			Input:          model.ToolInput{Eligibility: &model.EligibilityQuery{}},
			ExpectedOutput: "पात्र योजनाओं की सूची",
			Status:         model.StepPending,
		},
		{
			StepID:         2,
			Action:         "योजनाओं की विस्तृत जानकारी प्राप्त करें",
			ToolName:       tools.ToolSchemeRetriever,
			Input:          model.ToolInput{Search: &model.SearchQuery{Query: scheme.DefaultQuery}},
			ExpectedOutput: "योजनाओं का विवरण",
			Status:         model.StepPending,
		},
	}
}

// ExtractProfile pulls profile fields out of the utterance. Any failure,
// transport, parse or validation, degrades to an empty partial profile; the
// caller never sees an extraction error.
func (p *Planner) ExtractProfile(ctx context.Context, userInput string) *model.UserProfile {
	msgs, err := prompts.ExtractorMessages(ctx, userInput)
	if err != nil {
		logx.Warn().Err(err).Msg("extractor prompt failed")
		return &model.UserProfile{}
	}

	var extracted model.UserProfile
	if err := p.llm.ChatJSON(ctx, msgs, extractTemperature, &extracted); err != nil {
		logx.Warn().Err(err).Msg("profile extraction failed")
		return &model.UserProfile{}
	}
	if err := extracted.Validate(); err != nil {
		logx.Warn().Err(err).Msg("extracted profile failed validation")
		return &model.UserProfile{}
	}

	if fields := extracted.FilledFields(); len(fields) > 0 {
		if b, err := json.Marshal(fields); err == nil {
			logx.Debug().RawJSON("fields", b).Msg("extracted profile fields")
		}
	}
	return &extracted
}

// snippet shortens log output without splitting a multi-byte rune.
func snippet(s string) string {
	const max = 100
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
