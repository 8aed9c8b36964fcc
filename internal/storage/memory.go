package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemorySessionStorage implements SessionStorage using an in-memory map
type MemorySessionStorage struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewMemorySessionStorage creates a new in-memory storage instance
func NewMemorySessionStorage() *MemorySessionStorage {
	return &MemorySessionStorage{
		sessions: make(map[string]*Session),
	}
}

func (m *MemorySessionStorage) CreateSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return fmt.Errorf("%w: %s", ErrSessionExists, session.ID)
	}

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemorySessionStorage) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return session.Clone(), nil
}

func (m *MemorySessionStorage) SaveSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemorySessionStorage) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
