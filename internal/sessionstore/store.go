package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/quizmint/internal/session"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// DefaultGrace is how long a session outlives its time limit, so results
// stay readable after submission.
const DefaultGrace = 15 * time.Minute

// Store persists session state by id.
type Store interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	Set(ctx context.Context, s *session.Session) error
	Delete(ctx context.Context, id string) error
}

// Config selects and tunes the session store.
type Config struct {
	// RedisURL selects the Redis store when set, e.g. redis://localhost:6379/0.
	RedisURL string

	// Grace is how long a session is kept past its deadline
	// (StartTime + TimeLimit).
	Grace time.Duration
}

// ConfigFromEnv reads QUIZMINT_REDIS_URL and QUIZMINT_SESSION_GRACE.
func ConfigFromEnv() Config {
	cfg := Config{
		RedisURL: os.Getenv("QUIZMINT_REDIS_URL"),
		Grace:    DefaultGrace,
	}
	if g := os.Getenv("QUIZMINT_SESSION_GRACE"); g != "" {
		if d, err := time.ParseDuration(g); err == nil {
			cfg.Grace = d
		}
	}
	return cfg
}

// Open builds the configured store. The returned close function releases
// any connection held by the store.
func Open(ctx context.Context, cfg Config) (Store, func() error, error) {
	if cfg.RedisURL == "" {
		return NewMemory(cfg.Grace), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, cfg.Grace), client.Close, nil
}

// expiresAt returns when s should be dropped: its own deadline plus grace.
// Saving a session again never extends it.
func expiresAt(s *session.Session, grace time.Duration) time.Time {
	limit := s.TimeLimit
	if limit <= 0 {
		limit = session.DefaultTimeLimit
	}
	return s.StartTime.Add(limit + grace)
}
