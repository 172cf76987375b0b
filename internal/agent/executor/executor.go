// Package executor runs plan steps against the registered tools with
// best-effort aggregation: one failing step never stops its siblings.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"

	"github.com/yojana-mitra/server/internal/agent/model"
	errx "github.com/yojana-mitra/server/internal/core/error"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// Executor holds the tool registry. The registry is populated at
// construction and treated as read-only afterwards, so one executor can be
// shared across sessions.
type Executor struct {
	registry map[string]tool.InvokableTool
}

// New builds an executor over the given registry.
func New(registry map[string]tool.InvokableTool) *Executor {
	if registry == nil {
		registry = map[string]tool.InvokableTool{}
	}
	return &Executor{registry: registry}
}

// Register adds a tool under the given name. Intended for startup wiring and
// tests, not for concurrent use once sessions are running.
func (e *Executor) Register(name string, t tool.InvokableTool) {
	e.registry[name] = t
}

// RunStep executes one step. Steps without a tool are trivially completed;
// steps naming an unregistered tool fail with ErrToolNotRegistered recorded
// on the result.
func (e *Executor) RunStep(ctx context.Context, step *model.PlanStep, profile *model.UserProfile) model.StepResult {
	if step.ToolName == "" {
		step.Status = model.StepCompleted
		return model.StepResult{
			StepID:          step.StepID,
			Success:         true,
			ActionCompleted: step.Action,
		}
	}

	t, ok := e.registry[step.ToolName]
	if !ok {
		step.Status = model.StepFailed
		msg := fmt.Sprintf("%s: %s", errx.ErrToolNotRegistered.Error(), step.ToolName)
		step.Err = msg
		logx.Warn().Str("tool", step.ToolName).Msg("plan step names unregistered tool")
		return model.StepResult{StepID: step.StepID, Success: false, Err: msg}
	}

	args, err := buildToolArgs(step.Input, profile)
	if err != nil {
		step.Status = model.StepFailed
		step.Err = err.Error()
		return model.StepResult{StepID: step.StepID, Success: false, Err: err.Error()}
	}

	step.Status = model.StepInProgress
	start := time.Now()
	output, err := t.InvokableRun(ctx, args)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	toolResult := &model.ToolResult{
		ToolName:        step.ToolName,
		ExecutionTimeMS: elapsed,
	}
	if err != nil {
		step.Status = model.StepFailed
		step.Err = err.Error()
		toolResult.Err = err.Error()
		logx.Warn().Err(err).Str("tool", step.ToolName).Msg("tool invocation failed")
		return model.StepResult{
			StepID:     step.StepID,
			Success:    false,
			ToolResult: toolResult,
			Err:        err.Error(),
		}
	}

	step.Status = model.StepCompleted
	step.Result = output
	toolResult.Success = true
	toolResult.Output = output

	logx.Debug().
		Str("tool", step.ToolName).
		Float64("elapsed_ms", elapsed).
		Msg("tool invocation done")

	return model.StepResult{
		StepID:          step.StepID,
		Success:         true,
		ToolResult:      toolResult,
		ActionCompleted: step.Action,
	}
}

// RunAll executes every step in order. The report's Success is true only
// when all steps succeeded; all step results are present regardless.
func (e *Executor) RunAll(ctx context.Context, steps []model.PlanStep, profile *model.UserProfile) *model.ExecutionReport {
	report := &model.ExecutionReport{Results: make([]model.StepResult, 0, len(steps))}
	for i := range steps {
		result := e.RunStep(ctx, &steps[i], profile)
		report.Results = append(report.Results, result)
		report.StepsExecuted++
		if result.Success {
			report.StepsSucceeded++
		}
	}
	report.Success = report.StepsSucceeded == report.StepsExecuted
	return report
}

// buildToolArgs flattens the typed step input into the JSON arguments the
// tool expects and merges in the current user profile.
func buildToolArgs(input model.ToolInput, profile *model.UserProfile) (string, error) {
	args := map[string]any{}
	switch {
	case input.Search != nil:
		args["query"] = input.Search.Query
		if input.Search.TopK > 0 {
			args["top_k"] = input.Search.TopK
		}
	case input.Eligibility != nil:
		// profile only
	case input.Raw != nil:
		for k, v := range input.Raw {
			args[k] = v
		}
	}
	if profile != nil {
		args["user_profile"] = profile
	}

	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal tool args: %w", err)
	}
	return string(b), nil
}
