// Package orchestrator drives the per-turn state machine: listen, plan,
// execute, evaluate, respond. One orchestrator owns one session's memory and
// state; sessions never share either.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yojana-mitra/server/internal/agent/evaluator"
	"github.com/yojana-mitra/server/internal/agent/executor"
	"github.com/yojana-mitra/server/internal/agent/llm"
	"github.com/yojana-mitra/server/internal/agent/memory"
	"github.com/yojana-mitra/server/internal/agent/model"
	"github.com/yojana-mitra/server/internal/agent/planner"
	"github.com/yojana-mitra/server/internal/agent/prompts"
	"github.com/yojana-mitra/server/internal/agent/tools"
	errx "github.com/yojana-mitra/server/internal/core/error"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

const (
	apologyResponse = "मुझे खेद है, कुछ तकनीकी समस्या हुई। कृपया फिर से प्रयास करें।"

	errorResponsePrefix   = "मुझे खेद है, कुछ समस्या हुई। "
	errorResponseTerminal = "कृपया बाद में फिर से प्रयास करें।"
	errorResponseRetry    = "क्या आप अपना अनुरोध फिर से बता सकते हैं?"
)

// Collaborators bundles the stateless components every orchestrator shares.
type Collaborators struct {
	Planner        *planner.Planner
	Executor       *executor.Executor
	Evaluator      *evaluator.Evaluator
	ResponseLLM    llm.Client
	Contradictions *memory.ContradictionHandler
	Repository     model.MemoryRepository
	Config         *model.AgentConfig
}

// Orchestrator processes one session's utterances strictly sequentially. Not
// safe for concurrent use; the session manager serializes access.
type Orchestrator struct {
	c           Collaborators
	state       *model.AgentState
	memory      *model.ConversationMemory
	turnCounter int
}

// New creates an orchestrator for a fresh session.
func New(c Collaborators) *Orchestrator {
	return &Orchestrator{
		c:      c,
		state:  model.NewAgentState(c.Config.MaxRetries),
		memory: model.NewConversationMemory(uuid.NewString()),
	}
}

// NewWithSession creates an orchestrator bound to a known session id and, if
// a repository is configured, restores the persisted profile.
func NewWithSession(ctx context.Context, c Collaborators, sessionID string) *Orchestrator {
	o := &Orchestrator{
		c:      c,
		state:  model.NewAgentState(c.Config.MaxRetries),
		memory: model.NewConversationMemory(sessionID),
	}
	if c.Repository != nil {
		profile, err := c.Repository.LoadProfile(ctx, sessionID)
		if err != nil {
			logx.Warn().Err(err).Str("session_id", sessionID).Msg("could not restore profile")
		} else if profile != nil {
			o.memory.UserProfile = profile
			logx.Info().Str("session_id", sessionID).Msg("restored user profile")
		}
	}
	return o
}

// SessionID returns the session this orchestrator owns.
func (o *Orchestrator) SessionID() string {
	return o.memory.SessionID
}

// Profile returns the filled profile fields.
func (o *Orchestrator) Profile() map[string]any {
	return o.memory.UserProfile.FilledFields()
}

// History returns the recorded turns, oldest first.
func (o *Orchestrator) History() []model.ConversationTurn {
	return o.memory.RecentTurns(len(o.memory.Turns))
}

// Reset discards all session state, including the error counter, and starts
// a new session id. Persisted state for the old session is cleared.
func (o *Orchestrator) Reset(ctx context.Context) {
	if o.c.Repository != nil {
		if err := o.c.Repository.Clear(ctx, o.memory.SessionID); err != nil {
			logx.Warn().Err(err).Str("session_id", o.memory.SessionID).Msg("could not clear session state")
		}
	}
	o.state = model.NewAgentState(o.c.Config.MaxRetries)
	o.memory = model.NewConversationMemory(uuid.NewString())
	o.turnCounter = 0
	logx.Info().Str("session_id", o.memory.SessionID).Msg("orchestrator reset")
}

// ProcessUserInput resolves one utterance through the bounded
// plan/execute/evaluate loop and returns the outcome. It always returns a
// usable response; failures degrade per the error policy.
func (o *Orchestrator) ProcessUserInput(ctx context.Context, userInput string) *model.TurnOutcome {
	logx.Info().
		Str("session_id", o.memory.SessionID).
		Str("input", snippet(userInput)).
		Msg("processing user input")

	extracted := o.c.Planner.ExtractProfile(ctx, userInput)
	extractedFields := extracted.FilledFields()
	o.mergeProfile(extracted)

	outcome := o.runAgentLoop(ctx, userInput)

	turn := model.ConversationTurn{
		TurnID:          o.turnCounter,
		Timestamp:       time.Now().UTC(),
		UserInput:       userInput,
		AgentResponse:   outcome.Response,
		AgentState:      o.state.CurrentState,
		ToolsUsed:       outcome.ToolsUsed,
		ExtractedFields: extractedFields,
		ConfidenceScore: outcome.Confidence,
	}
	o.memory.AppendTurn(turn, o.c.Config.MaxTurns)
	o.turnCounter++

	o.persist(ctx, turn)
	return outcome
}

// mergeProfile applies extracted fields to the session profile and records a
// contradiction for every field whose value genuinely changed. The newest
// value always wins; contradictions are additive history.
func (o *Orchestrator) mergeProfile(extracted *model.UserProfile) {
	changes := o.memory.UserProfile.Merge(extracted)
	for _, change := range changes {
		if change.Old == nil {
			continue
		}
		if c := o.c.Contradictions.Detect(change.Field, change.Old, change.New); c != nil {
			o.memory.Contradictions = append(o.memory.Contradictions, *c)
		}
	}
	if len(changes) > 0 {
		if b, err := json.Marshal(o.memory.UserProfile.FilledFields()); err == nil {
			logx.Debug().RawJSON("profile", b).Msg("updated user profile")
		}
	}
}

func (o *Orchestrator) runAgentLoop(ctx context.Context, userInput string) *model.TurnOutcome {
	var toolsUsed []string

	for iteration := 1; iteration <= o.c.Config.MaxIterations; iteration++ {
		logx.Debug().
			Int("iteration", iteration).
			Str("state", string(o.state.CurrentState)).
			Msg("agent loop iteration")

		o.state.CurrentState = model.StatePlanning
		history := historyForPlanner(o.memory.RecentTurns(o.c.Config.RecentTurns))
		planResult, err := o.c.Planner.Plan(ctx, userInput, o.memory.UserProfile, history)
		if err != nil {
			return o.handleError(err)
		}

		if planResult.NeedsClarification && planResult.ClarificationQuestion != "" {
			return &model.TurnOutcome{
				Response:    planResult.ClarificationQuestion,
				State:       model.TurnClarificationNeeded,
				MissingInfo: planResult.MissingInfo,
				ToolsUsed:   dedupe(toolsUsed),
				Confidence:  0.5,
			}
		}

		o.state.CurrentPlan = planResult.Plan

		o.state.CurrentState = model.StateExecuting
		report := o.c.Executor.RunAll(ctx, planResult.Plan.Steps, o.memory.UserProfile)
		o.state.ExecutionResults = report.Results
		for _, r := range report.Results {
			if r.ToolResult != nil {
				toolsUsed = append(toolsUsed, r.ToolResult.ToolName)
			}
		}

		o.state.CurrentState = model.StateEvaluating
		evaluation := o.c.Evaluator.Evaluate(ctx, report.Results, planResult.Plan.UserIntent, o.memory)
		o.state.LastEvaluation = evaluation

		if evaluation.NeedsMoreInfo {
			question := evaluation.FollowUpQuestion
			if question == "" {
				if decision := o.c.Evaluator.DecideClarification(evaluation, planResult.MissingInfo); decision.ShouldAsk {
					question = decision.Question
				}
			}
			if question != "" {
				return &model.TurnOutcome{
					Response:    question,
					State:       model.TurnNeedsMoreInfo,
					MissingInfo: planResult.MissingInfo,
					ToolsUsed:   dedupe(toolsUsed),
					Confidence:  evaluation.ConfidenceScore,
				}
			}
		}

		if evaluation.FinalResponseReady || evaluation.IsComplete {
			break
		}
	}

	o.state.CurrentState = model.StateResponding
	schemes := o.schemesFromResults()
	response := o.generateResponse(ctx, schemes)
	o.state.CurrentState = model.StateListening

	confidence := 0.7
	if o.state.LastEvaluation != nil {
		confidence = o.state.LastEvaluation.ConfidenceScore
	}

	return &model.TurnOutcome{
		Response:     response,
		State:        model.TurnComplete,
		ToolsUsed:    dedupe(toolsUsed),
		Confidence:   confidence,
		SchemesFound: schemes,
	}
}

// generateResponse synthesizes the final Hindi answer; an LLM failure
// substitutes the fixed apology.
func (o *Orchestrator) generateResponse(ctx context.Context, schemes []model.SchemeSummary) string {
	intent := ""
	if o.state.CurrentPlan != nil {
		intent = o.state.CurrentPlan.UserIntent
	}

	msgs, err := prompts.ResponseMessages(ctx, schemes, o.memory.UserProfile.FilledFields(), intent)
	if err != nil {
		logx.Error().Err(err).Msg("response prompt failed")
		return apologyResponse
	}

	response, err := o.c.ResponseLLM.Chat(ctx, msgs, 0.7)
	if err != nil {
		logx.Error().Err(err).Msg("response generation failed")
		return apologyResponse
	}
	return response
}

// schemesFromResults collects scheme references out of the accumulated tool
// outputs, eligibility matches first, then retriever hits not already seen.
func (o *Orchestrator) schemesFromResults() []model.SchemeSummary {
	var schemes []model.SchemeSummary
	seen := map[string]bool{}

	for _, result := range o.state.ExecutionResults {
		if result.ToolResult == nil || !result.ToolResult.Success {
			continue
		}
		switch result.ToolResult.ToolName {
		case tools.ToolEligibilityEngine:
			var out tools.EligibilityOutput
			if err := json.Unmarshal([]byte(result.ToolResult.Output), &out); err != nil {
				continue
			}
			for _, m := range out.Schemes {
				if seen[m.Scheme.ID] {
					continue
				}
				seen[m.Scheme.ID] = true
				schemes = append(schemes, model.SchemeSummary{
					ID:    m.Scheme.ID,
					Name:  m.Scheme.NameHI,
					Score: m.MatchScore,
				})
			}
		case tools.ToolSchemeRetriever:
			var out tools.RetrieverOutput
			if err := json.Unmarshal([]byte(result.ToolResult.Output), &out); err != nil {
				continue
			}
			for _, h := range out.Schemes {
				if seen[h.ID] {
					continue
				}
				seen[h.ID] = true
				schemes = append(schemes, model.SchemeSummary{
					ID:    h.ID,
					Name:  h.Name,
					Score: h.Score,
				})
			}
		}
	}
	return schemes
}

// handleError is the terminal path for planning failures. The error counter
// spans the whole session and only an explicit Reset clears it.
func (o *Orchestrator) handleError(err error) *model.TurnOutcome {
	o.state.CurrentState = model.StateErrorHandling
	o.state.ErrorCount++

	if kind, ok := errx.KindOf(err); ok {
		logx.Error().Err(err).Str("kind", string(kind)).Int("error_count", o.state.ErrorCount).Msg("agent loop error")
	} else {
		logx.Error().Err(err).Int("error_count", o.state.ErrorCount).Msg("agent loop error")
	}

	response := errorResponsePrefix
	if o.state.ErrorCount >= o.state.MaxRetries {
		response += errorResponseTerminal
	} else {
		response += errorResponseRetry
	}

	return &model.TurnOutcome{
		Response: response,
		State:    model.TurnError,
		Err:      err,
	}
}

// persist saves the profile snapshot and turn record when a repository is
// configured. Persistence failures are logged, never surfaced.
func (o *Orchestrator) persist(ctx context.Context, turn model.ConversationTurn) {
	if o.c.Repository == nil {
		return
	}
	if err := o.c.Repository.SaveProfile(ctx, o.memory.SessionID, o.memory.UserProfile); err != nil && !errors.Is(err, context.Canceled) {
		logx.Warn().Err(err).Str("session_id", o.memory.SessionID).Msg("could not persist profile")
	}
	if err := o.c.Repository.AppendTurn(ctx, o.memory.SessionID, turn); err != nil && !errors.Is(err, context.Canceled) {
		logx.Warn().Err(err).Str("session_id", o.memory.SessionID).Msg("could not persist turn")
	}
}

func historyForPlanner(turns []model.ConversationTurn) []prompts.HistoryTurn {
	history := make([]prompts.HistoryTurn, 0, len(turns))
	for _, t := range turns {
		history = append(history, prompts.HistoryTurn{User: t.UserInput, Assistant: t.AgentResponse})
	}
	return history
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// snippet shortens log output without splitting a multi-byte rune.
func snippet(s string) string {
	const max = 50
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
