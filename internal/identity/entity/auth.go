package entity

import "time"

// User is a committed account record.
//
// A row exists only in fully committed form: registration verifies the first
// one-time code before anything is written, so there is no pending state. The
// TOTP secret is set once at that commit and never rotated.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	// TOTPSecret is the shared secret in base32 without padding.
	TOTPSecret string
	// TOTPLastCounter is the highest time-step counter a code has been
	// accepted for. It only ever increases; candidates at or below it are
	// rejected as replays.
	TOTPLastCounter int64
	CreatedAt       time.Time
}
