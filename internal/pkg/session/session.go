// Package session issues, validates, and revokes the opaque bearer tokens
// that authenticate API requests.
//
// Tokens carry no claims. They are 32 bytes from the secure random source,
// delivered to the client as a cookie, and resolved back to an identity by
// looking them up in a store. Stores never keep the raw token; they key
// records by a keyed digest of it, so a leaked store dump cannot be replayed
// as cookies.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

var (
	// ErrInvalid is returned for unknown, malformed, or revoked tokens.
	ErrInvalid = errors.New("session: invalid token")
	// ErrExpired is returned for tokens whose lifetime has lapsed.
	ErrExpired = errors.New("session: expired token")
	// ErrRandomSource indicates the secure random source could not be read.
	ErrRandomSource = errors.New("session: secure random source unavailable")
)

// tokenSize is the raw token length in bytes, 256 bits of entropy.
const tokenSize = 32

// Identity is the authenticated principal a session resolves to.
type Identity struct {
	UserID   string
	Username string
}

// Manager defines the contract for session lifecycle operations.
type Manager interface {
	// Create mints a new opaque token bound to the identity, valid for ttl.
	Create(ctx context.Context, identity Identity, ttl time.Duration) (string, error)
	// Validate resolves a token to its identity. It returns ErrInvalid for
	// unknown or malformed tokens and ErrExpired for lapsed ones. When
	// sliding renewal is enabled, a successful validation extends the
	// session by its original ttl.
	Validate(ctx context.Context, token string) (Identity, error)
	// Revoke deletes the token. Revoking an unknown or already revoked
	// token is not an error.
	Revoke(ctx context.Context, token string) error
}

func newToken() (string, error) {
	buf := make([]byte, tokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrRandomSource, err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type contextKey int

const identityKey contextKey = iota

// SetAuth stores the authenticated identity in the context.
func SetAuth(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetAuth returns the authenticated identity from the context.
func GetAuth(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
