package sessionstore

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/session"
)

var t0 = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func newSession(id string) *session.Session {
	return newSessionAt(id, t0)
}

func newSessionAt(id string, start time.Time) *session.Session {
	return session.New(id, []quizgen.Question{
		{Text: "1. 2+2=?", Options: [4]string{"3", "4", "5", "6"}, Correct: quizgen.LetterB, Topic: "Math"},
		{Text: "1. Force unit?", Options: [4]string{"N", "J", "W", "Pa"}, Correct: quizgen.LetterA, Topic: "Physics"},
	}, start)
}

// frozenMemory returns a Memory whose clock reads *now, starting at t0.
func frozenMemory(grace time.Duration) (*Memory, *time.Time) {
	m := NewMemory(grace)
	now := t0
	m.now = func() time.Time { return now }
	return m, &now
}

// exerciseStore runs the behaviour every Store must have, with sessions
// started at start.
func exerciseStore(t *testing.T, st Store, start time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := newSessionAt("s1", start)
	require.NoError(t, s.Select(start, 0, "4"))
	require.NoError(t, st.Set(ctx, s))

	got, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Questions, got.Questions)
	assert.Equal(t, s.Answers, got.Answers)
	assert.Equal(t, session.PhaseInProgress, got.Phase)
	assert.True(t, s.StartTime.Equal(got.StartTime))
	assert.Equal(t, s.TimeLimit, got.TimeLimit)

	// The returned value is a copy.
	got.Answers[1] = "N"
	again, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "", again.Answers[1])

	require.NoError(t, again.Submit(start.Add(time.Minute)))
	require.NoError(t, st.Set(ctx, again))
	submitted, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, session.PhaseSubmitted, submitted.Phase)
	assert.Equal(t, 1, submitted.Score)
	assert.Equal(t, again.TopicScores, submitted.TopicScores)

	require.NoError(t, st.Delete(ctx, "s1"))
	_, err = st.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, st.Delete(ctx, "s1"), "deleting twice is fine")
}

func TestMemoryStore(t *testing.T) {
	m, _ := frozenMemory(DefaultGrace)
	exerciseStore(t, m, t0)
}

func TestMemoryStoreExpiry(t *testing.T) {
	m, now := frozenMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, newSession("a")))
	assert.Equal(t, 1, m.Len())

	*now = t0.Add(30*time.Minute + 59*time.Second)
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	*now = t0.Add(31 * time.Minute)
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, m.Len())
}

func TestMemoryStoreSaveKeepsDeadline(t *testing.T) {
	m, now := frozenMemory(time.Minute)
	mgr := NewManager(m)
	ctx := context.Background()
	require.NoError(t, mgr.Create(ctx, newSession("polled")))

	// Reading results saves the session each time.
	for _, at := range []time.Duration{10 * time.Minute, 25 * time.Minute, 30 * time.Minute} {
		*now = t0.Add(at)
		_, err := mgr.Update(ctx, "polled", func(s *session.Session) error {
			s.Tick(*now)
			return nil
		})
		require.NoError(t, err, "at %s", at)
	}

	*now = t0.Add(31 * time.Minute)
	_, err := mgr.Get(ctx, "polled")
	assert.ErrorIs(t, err, ErrNotFound, "saves never move the deadline")
}

func TestMemoryStoreSetAfterDeadline(t *testing.T) {
	m, now := frozenMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, newSession("late")))
	*now = t0.Add(2 * time.Hour)
	require.NoError(t, m.Set(ctx, newSession("late")))
	assert.Zero(t, m.Len())
}

func TestExpiresAt(t *testing.T) {
	s := &session.Session{ID: "x", StartTime: t0}
	assert.Equal(t, t0.Add(session.DefaultTimeLimit+time.Minute), expiresAt(s, time.Minute))

	s.TimeLimit = 10 * time.Minute
	assert.Equal(t, t0.Add(25*time.Minute), expiresAt(s, 15*time.Minute))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QUIZMINT_REDIS_URL", "")
	t.Setenv("QUIZMINT_SESSION_GRACE", "")
	cfg := ConfigFromEnv()
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, DefaultGrace, cfg.Grace)

	t.Setenv("QUIZMINT_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("QUIZMINT_SESSION_GRACE", "2m")
	cfg = ConfigFromEnv()
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, 2*time.Minute, cfg.Grace)
}

func TestOpenMemory(t *testing.T) {
	st, closeFn, err := Open(context.Background(), Config{Grace: time.Minute})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &Memory{}, st)
}

func TestOpenBadRedisURL(t *testing.T) {
	_, _, err := Open(context.Background(), Config{RedisURL: "not-a-url://"})
	assert.Error(t, err)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "quizmint:session:abc", key("abc"))
}

// TestRedisStore runs against a live server when QUIZMINT_TEST_REDIS_URL is set.
func TestRedisStore(t *testing.T) {
	url := os.Getenv("QUIZMINT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("QUIZMINT_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	st := NewRedis(client, time.Minute)
	exerciseStore(t, st, time.Now())

	// Started ten minutes ago: 21 minutes left, and saving again keeps it.
	ctx := context.Background()
	s := newSessionAt("ttl-check", time.Now().Add(-10*time.Minute))
	for range 2 {
		require.NoError(t, st.Set(ctx, s))
		ttl, err := client.TTL(ctx, key("ttl-check")).Result()
		require.NoError(t, err)
		assert.InDelta(t, (21 * time.Minute).Seconds(), ttl.Seconds(), 5)
	}
	require.NoError(t, client.Del(ctx, key("ttl-check")).Err())

	require.NoError(t, st.Set(ctx, newSessionAt("lapsed", time.Now().Add(-2*time.Hour))))
	_, err = st.Get(ctx, "lapsed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerUpdate(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(frozenMemoryStore())
	require.NoError(t, mgr.Create(ctx, newSession("m1")))

	s, err := mgr.Update(ctx, "m1", func(s *session.Session) error {
		return s.Select(t0, 0, "4")
	})
	require.NoError(t, err)
	assert.Equal(t, "4", s.Answers[0])

	stored, err := mgr.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "4", stored.Answers[0])

	_, err = mgr.Update(ctx, "nope", func(*session.Session) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mgr.Delete(ctx, "m1"))
	_, err = mgr.Get(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerUpdateSavesOnActionError(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(frozenMemoryStore())
	require.NoError(t, mgr.Create(ctx, newSession("late")))

	// The deadline has passed: Select auto-submits, then rejects.
	_, err := mgr.Update(ctx, "late", func(s *session.Session) error {
		return s.Select(t0.Add(time.Hour), 0, "4")
	})
	assert.ErrorIs(t, err, session.ErrAlreadySubmitted)

	stored, err := mgr.Get(ctx, "late")
	require.NoError(t, err)
	assert.True(t, stored.AutoSubmitted)
}

func TestManagerSerialisesUpdates(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(frozenMemoryStore())

	qs := make([]quizgen.Question, 50)
	for i := range qs {
		qs[i] = quizgen.Question{Options: [4]string{"a", "b", "c", "d"}, Correct: quizgen.LetterA, Topic: "T"}
	}
	require.NoError(t, mgr.Create(ctx, session.New("c1", qs, t0)))

	var wg sync.WaitGroup
	for i := range qs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Update(ctx, "c1", func(s *session.Session) error {
				return s.Select(t0, i, "a")
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := mgr.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, len(qs), s.Answered(), "no lost updates")
	assert.Empty(t, mgr.locks)
}


func frozenMemoryStore() *Memory {
	m, _ := frozenMemory(DefaultGrace)
	return m
}
