package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yojana-mitra/server/internal/agent/model"
)

func newTestRepository(t *testing.T, ttl time.Duration) (*RedisMemoryRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisMemoryRepository(client, ttl), mr
}

func TestRepository_ProfileRoundtrip(t *testing.T) {
	r, _ := newTestRepository(t, 0)
	ctx := context.Background()

	profile := &model.UserProfile{
		Age:      model.Ptr(35),
		State:    model.Ptr("Bihar"),
		Category: model.Ptr(model.CategoryOBC),
	}
	require.NoError(t, r.SaveProfile(ctx, "s1", profile))

	loaded, err := r.LoadProfile(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 35, *loaded.Age)
	assert.Equal(t, "Bihar", *loaded.State)
	assert.Equal(t, model.CategoryOBC, *loaded.Category)
}

func TestRepository_LoadProfileAbsent(t *testing.T) {
	r, _ := newTestRepository(t, 0)

	loaded, err := r.LoadProfile(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRepository_TurnsKeepOrder(t *testing.T) {
	r, _ := newTestRepository(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		turn := model.ConversationTurn{TurnID: i, UserInput: "q", AgentResponse: "a"}
		require.NoError(t, r.AppendTurn(ctx, "s1", turn))
	}

	turns, err := r.LoadTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, 0, turns[0].TurnID)
	assert.Equal(t, 2, turns[2].TurnID)
}

func TestRepository_LoadTurnsEmpty(t *testing.T) {
	r, _ := newTestRepository(t, 0)

	turns, err := r.LoadTurns(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Empty(t, turns)
}

func TestRepository_Clear(t *testing.T) {
	r, mr := newTestRepository(t, 0)
	ctx := context.Background()

	require.NoError(t, r.SaveProfile(ctx, "s1", &model.UserProfile{Age: model.Ptr(35)}))
	require.NoError(t, r.AppendTurn(ctx, "s1", model.ConversationTurn{TurnID: 0}))
	require.NoError(t, r.Clear(ctx, "s1"))

	assert.False(t, mr.Exists(profileKeyPrefix+"s1"))
	assert.False(t, mr.Exists(turnsKeyPrefix+"s1"))
}

func TestRepository_TTLSet(t *testing.T) {
	r, mr := newTestRepository(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, r.SaveProfile(ctx, "s1", &model.UserProfile{}))
	require.NoError(t, r.AppendTurn(ctx, "s1", model.ConversationTurn{TurnID: 0}))

	assert.Equal(t, time.Hour, mr.TTL(profileKeyPrefix+"s1"))
	assert.Equal(t, time.Hour, mr.TTL(turnsKeyPrefix+"s1"))
}

func TestRepository_SessionsIsolated(t *testing.T) {
	r, _ := newTestRepository(t, 0)
	ctx := context.Background()

	require.NoError(t, r.SaveProfile(ctx, "a", &model.UserProfile{Age: model.Ptr(20)}))
	require.NoError(t, r.SaveProfile(ctx, "b", &model.UserProfile{Age: model.Ptr(60)}))

	a, err := r.LoadProfile(ctx, "a")
	require.NoError(t, err)
	b, err := r.LoadProfile(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 20, *a.Age)
	assert.Equal(t, 60, *b.Age)
}
