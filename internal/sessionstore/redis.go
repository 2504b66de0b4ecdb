package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/quizmint/internal/session"
)

const keyPrefix = "quizmint:session:"

// Redis stores sessions as JSON strings that expire at the session
// deadline plus grace.
type Redis struct {
	client *redis.Client
	grace  time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed store.
func NewRedis(client *redis.Client, grace time.Duration) *Redis {
	return &Redis{client: client, grace: grace}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *Redis) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *Redis) Set(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	// A zero TTL means no expiry to Redis, so a lapsed session is removed.
	ttl := time.Until(expiresAt(s, r.grace))
	if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}
	if err := r.client.Set(ctx, key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session %s: %w", s.ID, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
