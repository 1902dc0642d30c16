package session

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a mutex-guarded map. It is the
// zero-configuration default and what the tests run against.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemoryStore creates an in-memory session store. A positive
// cleanupInterval starts a janitor goroutine that sweeps expired
// sessions; expiry is enforced lazily at Get either way.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

func (m *MemoryStore) Create(ctx context.Context, s Session) error {
	if s.Token == "" {
		return fmt.Errorf("session: missing token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.Token]; exists {
		return ErrTokenExists
	}

	m.sessions[s.Token] = copySession(&s)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, exists := m.sessions[token]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}

	if s.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrExpired
	}

	return copySession(s), nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

// Close stops the janitor goroutine.
func (m *MemoryStore) Close() {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.removeExpired()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, token)
		}
	}
}

func copySession(s *Session) *Session {
	cp := *s
	if s.Data != nil {
		cp.Data = make(map[string]any, len(s.Data))
		maps.Copy(cp.Data, s.Data)
	}
	return &cp
}
