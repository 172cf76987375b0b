// Package evaluator judges execution results for completeness and decides
// when to interrupt the flow with a clarification question.
package evaluator

import (
	"context"

	"github.com/yojana-mitra/server/internal/agent/llm"
	"github.com/yojana-mitra/server/internal/agent/memory"
	"github.com/yojana-mitra/server/internal/agent/model"
	"github.com/yojana-mitra/server/internal/agent/prompts"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

const evaluateTemperature = 0.2

const noResultsQuestion = "मुझे खेद है, कोई योजना नहीं मिली। क्या आप अपनी जानकारी फिर से बता सकते हैं?"

// criticalFields are asked about before any other missing field, in this
// order.
var criticalFields = []string{"age", "annual_income", "category", "state"}

var fieldQuestions = map[string]string{
	"age":           "आपकी उम्र क्या है?",
	"annual_income": "आपकी वार्षिक आय कितनी है?",
	"category":      "आपकी श्रेणी क्या है - सामान्य, SC, ST, OBC या EWS?",
	"state":         "आप किस राज्य में रहते हैं?",
	"occupation":    "आपका व्यवसाय क्या है?",
	"is_bpl":        "क्या आपके पास BPL कार्ड है?",
	"gender":        "आपका लिंग क्या है?",
	"is_disabled":   "क्या आप विकलांगता की श्रेणी में आते हैं?",
}

// Evaluator wraps the analysis model plus the contradiction handler. It is
// stateless and shareable across sessions.
type Evaluator struct {
	llm            llm.Client
	contradictions *memory.ContradictionHandler
}

// New returns an evaluator over the given collaborators.
func New(client llm.Client, handler *memory.ContradictionHandler) *Evaluator {
	return &Evaluator{llm: client, contradictions: handler}
}

// Evaluate judges one execution pass. Zero results short-circuit to a fixed
// low-confidence follow-up. Otherwise the LLM judges the results, and any
// contradictions found in memory force needsMoreInfo regardless of the LLM's
// verdict. An LLM failure degrades to a deterministic rule over step
// success, never to an error.
func (e *Evaluator) Evaluate(ctx context.Context, results []model.StepResult, originalIntent string, mem *model.ConversationMemory) *model.Evaluation {
	if len(results) == 0 {
		return &model.Evaluation{
			IsComplete:       false,
			ConfidenceScore:  0.2,
			NeedsMoreInfo:    true,
			FollowUpQuestion: noResultsQuestion,
		}
	}

	allSucceeded := true
	for _, r := range results {
		if !r.Success {
			allSucceeded = false
			break
		}
	}

	evaluation, err := e.llmEvaluate(ctx, results, originalIntent)
	if err != nil {
		logx.Warn().Err(err).Msg("evaluation degraded to basic rule")
		evaluation = &model.Evaluation{
			IsComplete:         allSucceeded,
			NeedsMoreInfo:      !allSucceeded,
			FinalResponseReady: allSucceeded,
		}
		if allSucceeded {
			evaluation.ConfidenceScore = 0.7
		} else {
			evaluation.ConfidenceScore = 0.3
		}
	}

	if contradictions := e.scanMemory(mem); len(contradictions) > 0 {
		evaluation.Contradictions = contradictions
		evaluation.NeedsMoreInfo = true
	}

	logx.Debug().
		Bool("is_complete", evaluation.IsComplete).
		Float64("confidence", evaluation.ConfidenceScore).
		Bool("needs_more_info", evaluation.NeedsMoreInfo).
		Msg("evaluation done")
	return evaluation
}

func (e *Evaluator) llmEvaluate(ctx context.Context, results []model.StepResult, originalIntent string) (*model.Evaluation, error) {
	msgs, err := prompts.EvaluatorMessages(ctx, results, originalIntent)
	if err != nil {
		return nil, err
	}
	var evaluation model.Evaluation
	if err := e.llm.ChatJSON(ctx, msgs, evaluateTemperature, &evaluation); err != nil {
		return nil, err
	}
	// The prompt shares the Contradiction JSON key but the model's view is
	// not trusted for contradictions; memory scanning owns that.
	evaluation.Contradictions = nil
	return &evaluation, nil
}

// scanMemory compares consecutive turns' extracted fields and reports every
// genuine value conflict via the contradiction handler.
func (e *Evaluator) scanMemory(mem *model.ConversationMemory) []model.Contradiction {
	if mem == nil || len(mem.Turns) < 2 {
		return nil
	}

	var history []map[string]any
	for _, turn := range mem.Turns {
		if len(turn.ExtractedFields) > 0 {
			history = append(history, turn.ExtractedFields)
		}
	}

	var found []model.Contradiction
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1], history[i]
		for field, oldVal := range prev {
			newVal, ok := curr[field]
			if !ok {
				continue
			}
			if c := e.contradictions.Detect(field, oldVal, newVal); c != nil {
				found = append(found, *c)
			}
		}
	}
	return found
}

// DecideClarification picks the next question to ask, if any: critical
// missing fields first (at most two per question), then a
// contradiction-resolution question when one is pending.
func (e *Evaluator) DecideClarification(evaluation *model.Evaluation, missingInfo []string) *model.ClarificationDecision {
	if !evaluation.IsComplete || len(missingInfo) > 0 {
		var criticalMissing []string
		for _, f := range criticalFields {
			if contains(missingInfo, f) {
				criticalMissing = append(criticalMissing, f)
			}
		}
		if len(criticalMissing) > 0 {
			if len(criticalMissing) > 2 {
				criticalMissing = criticalMissing[:2]
			}
			return &model.ClarificationDecision{
				ShouldAsk:    true,
				Question:     clarificationQuestion(criticalMissing),
				FieldsNeeded: criticalMissing,
				Reason:       model.ClarifyMissingFields,
			}
		}
	}

	if len(evaluation.Contradictions) > 0 {
		c := evaluation.Contradictions[0]
		return &model.ClarificationDecision{
			ShouldAsk: true,
			Question:  e.contradictions.Clarification(&c),
			Reason:    model.ClarifyContradiction,
		}
	}

	return &model.ClarificationDecision{ShouldAsk: false}
}

func clarificationQuestion(fields []string) string {
	question := ""
	for i, f := range fields {
		q, ok := fieldQuestions[f]
		if !ok {
			q = "कृपया अपना " + f + " बताएं"
		}
		if i > 0 {
			question += " और "
		}
		question += q
	}
	return question
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
