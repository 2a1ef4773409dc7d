package db

import (
	"context"
)

const queryUpdateLastCounter = `
UPDATE users
SET totp_last_counter = $1
WHERE id = $2 AND totp_last_counter = $3
`

// UpdateLastCounter advances the accepted-counter watermark with a
// compare-and-set on the previous value. When two logins race with the same
// code, the row predicate makes exactly one update match.
func (s *DB) UpdateLastCounter(ctx context.Context, userID string, oldCounter, newCounter int64) (bool, error) {
	tag, err := s.conn.Exec(ctx, queryUpdateLastCounter, newCounter, userID, oldCounter)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
