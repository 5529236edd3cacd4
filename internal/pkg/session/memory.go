package session

import (
	"context"
	"sync"
	"time"
)

// MemoryManager is a Sessioner for single-process deployments.
type MemoryManager struct {
	mu       sync.Mutex
	sessions map[string]map[string]time.Time
	now      func() time.Time
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		sessions: make(map[string]map[string]time.Time),
		now:      time.Now,
	}
}

func (m *MemoryManager) Add(ctx context.Context, userID string, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokens, ok := m.sessions[userID]
	if !ok {
		tokens = make(map[string]time.Time)
		m.sessions[userID] = tokens
	}
	now := m.now()
	for id, exp := range tokens {
		if !now.Before(exp) {
			delete(tokens, id)
		}
	}
	tokens[jti] = expiresAt
	return nil
}

func (m *MemoryManager) IsValid(ctx context.Context, userID string, jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.sessions[userID][jti]
	return ok && m.now().Before(exp)
}

func (m *MemoryManager) Remove(ctx context.Context, userID string, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokens, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	delete(tokens, jti)
	if len(tokens) == 0 {
		delete(m.sessions, userID)
	}
	return nil
}

func (m *MemoryManager) Ping(context.Context) error {
	return nil
}

func (m *MemoryManager) Close() error {
	return nil
}
