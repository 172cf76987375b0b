package model

import (
	"time"
)

// StepStatus tracks the lifecycle of a plan step. A step only ever moves
// pending -> completed or pending -> failed; there are no retries within a
// step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// SearchQuery is the typed input for the scheme retriever tool.
type SearchQuery struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// EligibilityQuery is the typed input for the eligibility engine tool. The
// user profile itself is injected by the executor at run time, never by the
// planner.
type EligibilityQuery struct{}

// ToolInput is a discriminated union over the known tool input shapes, with
// a raw bag for tools the planner knows nothing about.
type ToolInput struct {
	Search      *SearchQuery      `json:"search,omitempty"`
	Eligibility *EligibilityQuery `json:"eligibility,omitempty"`
	Raw         map[string]any    `json:"raw,omitempty"`
}

// PlanStep is one unit of work in a plan, optionally bound to a tool.
type PlanStep struct {
	StepID         int        `json:"step_id"`
	Action         string     `json:"action"`
	ToolName       string     `json:"tool_name,omitempty"`
	Input          ToolInput  `json:"tool_input,omitempty"`
	ExpectedOutput string     `json:"expected_output,omitempty"`
	Status         StepStatus `json:"status"`
	Result         string     `json:"result,omitempty"`
	Err            string     `json:"error,omitempty"`
}

// AgentPlan is created fresh by each planning phase and never mutated after
// creation; a new plan replaces it on the next iteration.
type AgentPlan struct {
	PlanID       string     `json:"plan_id"`
	UserIntent   string     `json:"user_intent"`
	RequiredInfo []string   `json:"required_info,omitempty"`
	MissingInfo  []string   `json:"missing_info,omitempty"`
	Steps        []PlanStep `json:"steps"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToolResult captures one tool invocation.
type ToolResult struct {
	ToolName        string  `json:"tool_name"`
	Success         bool    `json:"success"`
	Output          string  `json:"output,omitempty"`
	Err             string  `json:"error,omitempty"`
	ExecutionTimeMS float64 `json:"execution_time_ms"`
}

// StepResult is the executor's verdict on a single plan step.
type StepResult struct {
	StepID          int         `json:"step_id"`
	Success         bool        `json:"success"`
	ToolResult      *ToolResult `json:"tool_result,omitempty"`
	ActionCompleted string      `json:"action_completed,omitempty"`
	Err             string      `json:"error,omitempty"`
}

// ExecutionReport aggregates a full pass over a plan's steps. Success is
// true only when every step succeeded; individual failures never abort the
// remaining steps.
type ExecutionReport struct {
	Success        bool         `json:"success"`
	Results        []StepResult `json:"results"`
	StepsExecuted  int          `json:"steps_executed"`
	StepsSucceeded int          `json:"steps_succeeded"`
}
