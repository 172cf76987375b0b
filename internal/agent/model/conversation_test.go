package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMemory_AppendTurnBounded(t *testing.T) {
	mem := NewConversationMemory("s1")

	for i := 0; i < 25; i++ {
		mem.AppendTurn(ConversationTurn{TurnID: i}, 20)
	}

	require.Len(t, mem.Turns, 20)
	// Oldest turns dropped first.
	assert.Equal(t, 5, mem.Turns[0].TurnID)
	assert.Equal(t, 24, mem.Turns[19].TurnID)
}

func TestConversationMemory_RecentTurns(t *testing.T) {
	mem := NewConversationMemory("s1")
	for i := 0; i < 5; i++ {
		mem.AppendTurn(ConversationTurn{TurnID: i, UserInput: fmt.Sprintf("q%d", i)}, 20)
	}

	recent := mem.RecentTurns(3)
	require.Len(t, recent, 3)
	assert.Equal(t, 2, recent[0].TurnID)
	assert.Equal(t, 4, recent[2].TurnID)

	assert.Len(t, mem.RecentTurns(10), 5)
	assert.Nil(t, mem.RecentTurns(0))
}

func TestConversationMemory_RecentTurnsCopy(t *testing.T) {
	mem := NewConversationMemory("s1")
	mem.AppendTurn(ConversationTurn{TurnID: 0, UserInput: "original"}, 20)

	recent := mem.RecentTurns(1)
	recent[0].UserInput = "mutated"
	assert.Equal(t, "original", mem.Turns[0].UserInput)
}

func TestNewAgentState(t *testing.T) {
	state := NewAgentState(3)
	assert.Equal(t, StateListening, state.CurrentState)
	assert.Equal(t, 3, state.MaxRetries)
	assert.Zero(t, state.ErrorCount)
}
