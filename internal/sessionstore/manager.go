package sessionstore

import (
	"context"
	"sync"

	"github.com/abhisek/quizmint/internal/session"
)

// Manager serialises read-modify-write cycles on a session within this
// process. Different sessions never block each other.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager wraps store with per-id locking.
func NewManager(store Store) *Manager {
	return &Manager{store: store, locks: make(map[string]*idLock)}
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// Create stores a new session.
func (m *Manager) Create(ctx context.Context, s *session.Session) error {
	unlock := m.lock(s.ID)
	defer unlock()
	return m.store.Set(ctx, s)
}

// Get returns a snapshot of the session.
func (m *Manager) Get(ctx context.Context, id string) (*session.Session, error) {
	return m.store.Get(ctx, id)
}

// Update loads the session, applies fn and saves the result. The session is
// saved even when fn returns an error, since a transition like an automatic
// submission may have happened before the rejected action. Store errors
// take precedence over fn's error.
func (m *Manager) Update(ctx context.Context, id string, fn func(s *session.Session) error) (*session.Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fnErr := fn(s)
	if err := m.store.Set(ctx, s); err != nil {
		return nil, err
	}
	return s, fnErr
}

// Delete removes the session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &idLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
