package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/quizmint/internal/session"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Store. Sessions are stored as JSON so callers
// never share mutable state with the store.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	grace   time.Duration
	now     func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory(grace time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		grace:   grace,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && !m.now().Before(e.expires) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}

	var s session.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (m *Memory) Set(_ context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	expires := expiresAt(s, m.grace)
	if !m.now().Before(expires) {
		delete(m.entries, s.ID)
		return nil
	}
	m.entries[s.ID] = memoryEntry{data: data, expires: expires}
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	return len(m.entries)
}

// sweep drops expired entries. Callers hold m.mu.
func (m *Memory) sweep() {
	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, id)
		}
	}
}
