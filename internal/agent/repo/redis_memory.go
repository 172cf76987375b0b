// Package repo implements the memory persistence layer over Redis.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yojana-mitra/server/internal/agent/model"
	errx "github.com/yojana-mitra/server/internal/core/error"
)

const (
	profileKeyPrefix = "yojana:profile:"
	turnsKeyPrefix   = "yojana:turns:"
)

// RedisMemoryRepository stores profile snapshots and turn history in Redis
// with a sliding TTL per session.
type RedisMemoryRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ model.MemoryRepository = (*RedisMemoryRepository)(nil)

// NewRedisMemoryRepository wraps a Redis client. ttl <= 0 disables expiry.
func NewRedisMemoryRepository(client redis.Cmdable, ttl time.Duration) *RedisMemoryRepository {
	return &RedisMemoryRepository{client: client, ttl: ttl}
}

func (r *RedisMemoryRepository) SaveProfile(ctx context.Context, sessionID string, profile *model.UserProfile) error {
	b, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.client.Set(ctx, profileKeyPrefix+sessionID, b, r.expiry()).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisMemoryRepository) LoadProfile(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	raw, err := r.client.Get(ctx, profileKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errx.WrapRedis(err)
	}
	var profile model.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (r *RedisMemoryRepository) AppendTurn(ctx context.Context, sessionID string, turn model.ConversationTurn) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := turnsKeyPrefix + sessionID
	if err := r.client.RPush(ctx, key, b).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return errx.WrapRedis(err)
		}
	}
	return nil
}

func (r *RedisMemoryRepository) LoadTurns(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	raw, err := r.client.LRange(ctx, turnsKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	turns := make([]model.ConversationTurn, 0, len(raw))
	for _, item := range raw {
		var turn model.ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (r *RedisMemoryRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, profileKeyPrefix+sessionID, turnsKeyPrefix+sessionID).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisMemoryRepository) expiry() time.Duration {
	if r.ttl > 0 {
		return r.ttl
	}
	return 0
}
