package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"docuchat/internal/model"
)

// RedisStore keeps each session's turns as a JSON-encoded list under one key
// with a TTL refreshed on append, so idle sessions age out on their own.
type RedisStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisStore(client *redisv9.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) List(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get history failed: %w", err)
	}

	var turns []model.ConversationTurn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("unmarshal history failed: %w", err)
	}
	return turns, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turn model.ConversationTurn) error {
	turns, err := s.List(ctx, sessionID)
	if err != nil {
		return err
	}
	turns = append(turns, turn)

	payload, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("marshal history failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (s *RedisStore) key(sessionID string) string {
	return "chat:turns:" + sessionID
}
