package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"arb-dashboard/internal/dashboard"
)

// RedisContextStore keeps dashboard contexts as JSON documents with a
// sliding TTL.
type RedisContextStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redisv9.Client, ttl time.Duration) *RedisContextStore {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &RedisContextStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisContextStore) Load(ctx context.Context, id string) (*dashboard.Context, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redisv9.Nil {
		return nil, dashboard.ErrContextNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get context failed: %w", err)
	}
	return decodeContext(raw)
}

func (s *RedisContextStore) Save(ctx context.Context, c *dashboard.Context) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal context failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key(c.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set context failed: %w", err)
	}
	return nil
}

func (s *RedisContextStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete context failed: %w", err)
	}
	return nil
}

func (s *RedisContextStore) key(id string) string {
	return fmt.Sprintf("arb:dashboard:ctx:%s", id)
}

func decodeContext(raw []byte) (*dashboard.Context, error) {
	var c dashboard.Context
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cached context failed: %w", err)
	}
	c.Normalize()
	return &c, nil
}
