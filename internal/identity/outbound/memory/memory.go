// Package memory is an in-process user store with the same contract as the
// postgres one, used when no database is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/liftlog/liftlog/internal/identity/entity"
	"github.com/liftlog/liftlog/internal/pkg/goerror"
)

type Memory struct {
	mu     sync.Mutex
	byID   map[string]entity.User
	byName map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[string]entity.User),
		byName: make(map[string]string),
	}
}

func (s *Memory) CreateUser(ctx context.Context, user entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[user.Username]; taken {
		return goerror.ErrConflict
	}

	s.byID[user.ID] = user
	s.byName[user.Username] = user.ID

	return nil
}

func (s *Memory) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	user := s.byID[id]
	return &user, nil
}

func (s *Memory) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &user, nil
}

// UpdateLastCounter performs the compare-and-set under the store lock, so
// concurrent logins with the same code see exactly one winner.
func (s *Memory) UpdateLastCounter(ctx context.Context, userID string, oldCounter, newCounter int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok || user.TOTPLastCounter != oldCounter {
		return false, nil
	}

	user.TOTPLastCounter = newCounter
	s.byID[userID] = user

	return true, nil
}
