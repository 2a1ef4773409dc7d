package session

import (
	"context"
	"sync"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/hash"
)

type memoryRecord struct {
	identity  Identity
	expiresAt time.Time
	ttl       time.Duration
}

// Memory implements Manager with an in-process map. It is used when no redis
// instance is configured and in tests. Expired records are dropped lazily on
// Validate and in bulk by Run.
type Memory struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	digest  hash.Hash
	clock   clock.Clocker
	sliding bool
}

// NewMemory constructs an in-process session store.
func NewMemory(digest hash.Hash, clk clock.Clocker, sliding bool) *Memory {
	return &Memory{
		records: make(map[string]memoryRecord),
		digest:  digest,
		clock:   clk,
		sliding: sliding,
	}
}

// Create mints a new opaque token bound to the identity, valid for ttl.
func (s *Memory) Create(ctx context.Context, identity Identity, ttl time.Duration) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	key, err := s.digest.Hash(token)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.records[string(key)] = memoryRecord{
		identity:  identity,
		expiresAt: s.clock.Now().Add(ttl),
		ttl:       ttl,
	}
	s.mu.Unlock()

	return token, nil
}

// Validate resolves a token to its identity.
func (s *Memory) Validate(ctx context.Context, token string) (Identity, error) {
	key, err := s.digest.Hash(token)
	if err != nil {
		return Identity{}, ErrInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[string(key)]
	if !ok {
		return Identity{}, ErrInvalid
	}

	if !s.clock.Now().Before(rec.expiresAt) {
		delete(s.records, string(key))
		return Identity{}, ErrExpired
	}

	if s.sliding {
		rec.expiresAt = s.clock.Now().Add(rec.ttl)
		s.records[string(key)] = rec
	}

	return rec.identity, nil
}

// Revoke deletes the token, idempotently.
func (s *Memory) Revoke(ctx context.Context, token string) error {
	key, err := s.digest.Hash(token)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	delete(s.records, string(key))
	s.mu.Unlock()

	return nil
}

// Sweep removes all expired records and reports how many were dropped.
func (s *Memory) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, rec := range s.records {
		if !now.Before(rec.expiresAt) {
			delete(s.records, key)
			dropped++
		}
	}

	return dropped
}

// Run sweeps expired records at the given interval until the context is
// canceled. It is meant to be scheduled on the application's goroutine
// manager.
func (s *Memory) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
