package model

// LifecycleState is the orchestrator's current phase within a turn.
type LifecycleState string

const (
	StateListening     LifecycleState = "listening"
	StatePlanning      LifecycleState = "planning"
	StateExecuting     LifecycleState = "executing"
	StateEvaluating    LifecycleState = "evaluating"
	StateResponding    LifecycleState = "responding"
	StateErrorHandling LifecycleState = "error_handling"
)

// AgentState is the per-session mutable state of the orchestration loop.
// Reset at session start; owned exclusively by one orchestrator.
type AgentState struct {
	CurrentState     LifecycleState
	CurrentPlan      *AgentPlan
	ExecutionResults []StepResult
	LastEvaluation   *Evaluation
	ErrorCount       int
	MaxRetries       int
}

// NewAgentState returns a fresh state in the listening phase.
func NewAgentState(maxRetries int) *AgentState {
	return &AgentState{
		CurrentState: StateListening,
		MaxRetries:   maxRetries,
	}
}

// Evaluation is the evaluator's judgment over one execution pass.
type Evaluation struct {
	IsComplete         bool            `json:"is_complete"`
	ConfidenceScore    float64         `json:"confidence_score"`
	MissingElements    []string        `json:"missing_elements,omitempty"`
	Contradictions     []Contradiction `json:"contradictions_found,omitempty"`
	NeedsMoreInfo      bool            `json:"needs_more_info"`
	FollowUpQuestion   string          `json:"follow_up_question,omitempty"`
	FinalResponseReady bool            `json:"final_response_ready"`
}

// ClarificationDecision says whether to interrupt the flow with a question.
type ClarificationDecision struct {
	ShouldAsk    bool     `json:"should_ask"`
	Question     string   `json:"question,omitempty"`
	FieldsNeeded []string `json:"fields_needed,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// Clarification decision reasons.
const (
	ClarifyMissingFields = "missing_fields"
	ClarifyContradiction = "contradiction"
)

// Turn outcome states returned to the caller.
const (
	TurnComplete             = "complete"
	TurnClarificationNeeded  = "clarification_needed"
	TurnNeedsMoreInfo        = "needs_more_info"
	TurnError                = "error"
)

// SchemeSummary is the compact scheme reference attached to a turn outcome.
type SchemeSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TurnOutcome is what one fully processed user utterance produces.
type TurnOutcome struct {
	Response     string          `json:"response"`
	State        string          `json:"state"`
	MissingInfo  []string        `json:"missing_info,omitempty"`
	ToolsUsed    []string        `json:"tools_used,omitempty"`
	Confidence   float64         `json:"confidence"`
	SchemesFound []SchemeSummary `json:"schemes_found,omitempty"`
	Err          error           `json:"-"`
}
