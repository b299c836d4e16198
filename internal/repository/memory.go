package repository

import (
	"context"
	"sync"

	"ygo-duel-bot/internal/domain"
)

// Memory keeps sessions in process memory. State is lost on restart.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*domain.Session)}
}

// Load returns a copy of the user's session, or a fresh one.
func (m *Memory) Load(_ context.Context, userID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s.Clone(), nil
	}
	return domain.NewSession(), nil
}

func (m *Memory) Save(_ context.Context, userID string, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s.Clone()
	return nil
}
