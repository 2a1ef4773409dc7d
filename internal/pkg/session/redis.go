package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/hash"
)

const redisKeyPrefix = "session:"

type record struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	TTL       int64     `json:"ttl_seconds"`
}

// Redis implements Manager on top of a shared redis instance. Expiry is
// enforced twice: redis drops the key at its TTL, and Validate re-checks the
// stored deadline against the clock so a lagging eviction never extends a
// session.
type Redis struct {
	client  *redis.Client
	digest  hash.Hash
	clock   clock.Clocker
	sliding bool
}

// NewRedis constructs a Redis session store. The digest keys stored records
// by a keyed hash of the raw token. When sliding is true, each successful
// Validate extends the session by its original ttl.
func NewRedis(client *redis.Client, digest hash.Hash, clk clock.Clocker, sliding bool) *Redis {
	return &Redis{
		client:  client,
		digest:  digest,
		clock:   clk,
		sliding: sliding,
	}
}

// Create mints a new opaque token bound to the identity, valid for ttl.
func (s *Redis) Create(ctx context.Context, identity Identity, ttl time.Duration) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	key, err := s.key(token)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(record{
		UserID:    identity.UserID,
		Username:  identity.Username,
		ExpiresAt: s.clock.Now().Add(ttl),
		TTL:       int64(ttl.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("marshal session record: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Validate resolves a token to its identity.
func (s *Redis) Validate(ctx context.Context, token string) (Identity, error) {
	key, err := s.key(token)
	if err != nil {
		return Identity{}, ErrInvalid
	}

	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrInvalid
	}
	if err != nil {
		return Identity{}, fmt.Errorf("load session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Identity{}, ErrInvalid
	}

	if !s.clock.Now().Before(rec.ExpiresAt) {
		return Identity{}, ErrExpired
	}

	if s.sliding {
		ttl := time.Duration(rec.TTL) * time.Second
		rec.ExpiresAt = s.clock.Now().Add(ttl)
		if renewed, err := json.Marshal(rec); err == nil {
			_ = s.client.Set(ctx, key, renewed, ttl).Err()
		}
	}

	return Identity{UserID: rec.UserID, Username: rec.Username}, nil
}

// Revoke deletes the token, idempotently.
func (s *Redis) Revoke(ctx context.Context, token string) error {
	key, err := s.key(token)
	if err != nil {
		return nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (s *Redis) key(token string) (string, error) {
	sum, err := s.digest.Hash(token)
	if err != nil {
		return "", err
	}

	return redisKeyPrefix + string(sum), nil
}
