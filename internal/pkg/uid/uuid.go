package uid

import "github.com/google/uuid"

// UUID issues UUIDv7 strings. The time-ordered prefix keeps user rows
// roughly insertion ordered in the database.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUIDv7 string, or a random V4 when the
// monotonic source fails.
func (u *UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
