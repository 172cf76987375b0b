package orchestrator

import (
	"context"
	"sync"

	"github.com/yojana-mitra/server/internal/agent/model"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// SessionManager hands out one orchestrator per session and serializes the
// turns of each session. Different sessions run concurrently; turns within a
// session never interleave.
type SessionManager struct {
	collaborators Collaborators

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu   sync.Mutex
	orch *Orchestrator
}

// NewSessionManager builds a manager over the shared collaborators.
func NewSessionManager(c Collaborators) *SessionManager {
	return &SessionManager{
		collaborators: c,
		sessions:      map[string]*session{},
	}
}

func (m *SessionManager) get(ctx context.Context, sessionID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{orch: NewWithSession(ctx, m.collaborators, sessionID)}
		m.sessions[sessionID] = s
		logx.Info().Str("session_id", sessionID).Msg("session created")
	}
	return s
}

// Process resolves one utterance for the given session, creating the session
// on first use.
func (m *SessionManager) Process(ctx context.Context, sessionID, userInput string) *model.TurnOutcome {
	s := m.get(ctx, sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.ProcessUserInput(ctx, userInput)
}

// Profile returns the session's filled profile fields, nil for an unknown
// session.
func (m *SessionManager) Profile(sessionID string) map[string]any {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Profile()
}

// Reset clears a session's state in place. Unknown sessions are a no-op.
func (m *SessionManager) Reset(ctx context.Context, sessionID string) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orch.Reset(ctx)
}
