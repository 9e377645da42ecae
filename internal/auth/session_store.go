package auth

import (
	"context"
	"sync"

	"github.com/taskpilot/taskpilot/internal/domain"
)

// SessionStore maps opaque tokens to live sessions. The interface is
// injected so a multi-instance deployment can swap the in-memory map for an
// external cache without touching the auth service.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	// Resolve returns domain.ErrSessionNotFound for unknown tokens and
	// domain.ErrSessionExpired for tokens past their expiry window.
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	// Destroy returns domain.ErrSessionNotFound when the token is unknown
	// or was already destroyed.
	Destroy(ctx context.Context, token string) error
}

// MemoryStore keeps sessions in a process-wide map. Sessions do not survive
// a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

var _ SessionStore = (*MemoryStore)(nil)

func (m *MemoryStore) Create(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = session
	return nil
}

// Resolve checks expiry on every lookup and evicts lazily; there is no
// background sweep.
func (m *MemoryStore) Resolve(_ context.Context, token string) (*domain.Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

func (m *MemoryStore) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, token)
	return nil
}

// Len reports the number of live sessions (expired included until resolved).
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
