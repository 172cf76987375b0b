package model

import (
	"context"
	"time"
)

// Contradiction records a later-supplied profile value conflicting with an
// earlier one. Contradictions are additive history; the stored profile keeps
// the newest value while the record preserves what it replaced.
type Contradiction struct {
	Field     string    `json:"field"`
	OldValue  any       `json:"old_value"`
	NewValue  any       `json:"new_value"`
	Severity  string    `json:"severity,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationTurn is the immutable record of one user/agent exchange.
type ConversationTurn struct {
	TurnID          int            `json:"turn_id"`
	Timestamp       time.Time      `json:"timestamp"`
	UserInput       string         `json:"user_input_text"`
	AgentResponse   string         `json:"agent_response_text"`
	AgentState      LifecycleState `json:"agent_state"`
	ToolsUsed       []string       `json:"tools_used,omitempty"`
	ExtractedFields map[string]any `json:"extracted_fields,omitempty"`
	ConfidenceScore float64        `json:"confidence_score"`
}

// ConversationMemory holds the per-session state: bounded turn history, the
// single mutable profile, detected contradictions and the current intent.
// One orchestrator instance owns it exclusively; it is never shared between
// sessions.
type ConversationMemory struct {
	SessionID        string             `json:"session_id"`
	Turns            []ConversationTurn `json:"turns"`
	UserProfile      *UserProfile       `json:"user_profile"`
	CurrentIntent    string             `json:"current_intent,omitempty"`
	SchemesDiscussed []string           `json:"schemes_discussed,omitempty"`
	Contradictions   []Contradiction    `json:"contradictions_detected,omitempty"`
}

// NewConversationMemory creates an empty memory for a session.
func NewConversationMemory(sessionID string) *ConversationMemory {
	return &ConversationMemory{
		SessionID:   sessionID,
		UserProfile: &UserProfile{},
	}
}

// AppendTurn records a turn, dropping the oldest once maxTurns is exceeded.
func (m *ConversationMemory) AppendTurn(turn ConversationTurn, maxTurns int) {
	m.Turns = append(m.Turns, turn)
	if maxTurns > 0 && len(m.Turns) > maxTurns {
		m.Turns = m.Turns[len(m.Turns)-maxTurns:]
	}
}

// RecentTurns returns up to n of the most recent turns, oldest first.
func (m *ConversationMemory) RecentTurns(n int) []ConversationTurn {
	if n <= 0 || len(m.Turns) == 0 {
		return nil
	}
	if len(m.Turns) <= n {
		out := make([]ConversationTurn, len(m.Turns))
		copy(out, m.Turns)
		return out
	}
	src := m.Turns[len(m.Turns)-n:]
	out := make([]ConversationTurn, len(src))
	copy(out, src)
	return out
}

// MemoryRepository persists profiles and turn records across sessions. The
// orchestration core treats it as an opaque key-value collaborator.
type MemoryRepository interface {
	// SaveProfile stores the profile snapshot for a session.
	SaveProfile(ctx context.Context, sessionID string, profile *UserProfile) error

	// LoadProfile retrieves a previously saved profile. A session with no
	// snapshot yields (nil, nil).
	LoadProfile(ctx context.Context, sessionID string) (*UserProfile, error)

	// AppendTurn appends one turn record to the session's history.
	AppendTurn(ctx context.Context, sessionID string, turn ConversationTurn) error

	// LoadTurns retrieves the stored turn history for a session.
	LoadTurns(ctx context.Context, sessionID string) ([]ConversationTurn, error)

	// Clear removes all stored state for a session.
	Clear(ctx context.Context, sessionID string) error
}
