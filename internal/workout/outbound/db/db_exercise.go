package db

import (
	"context"

	"github.com/liftlog/liftlog/internal/workout/entity"
)

const queryListExercises = `
SELECT id, name, description, archived, created_at
FROM exercises
WHERE user_id = $1 AND NOT archived
ORDER BY name
`

func (s *DB) ListExercises(ctx context.Context, userID string) ([]entity.Exercise, error) {
	rows, err := s.conn.Query(ctx, queryListExercises, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Exercise
	for rows.Next() {
		var ex entity.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Description, &ex.Archived, &ex.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, ex)
	}
	return out, s.mapError(rows.Err())
}

const queryGetExercise = `
SELECT id, name, description, archived, created_at
FROM exercises
WHERE id = $1 AND user_id = $2
`

func (s *DB) GetExercise(ctx context.Context, userID string, id int64) (*entity.Exercise, error) {
	var ex entity.Exercise
	err := s.conn.QueryRow(ctx, queryGetExercise, id, userID).
		Scan(&ex.ID, &ex.Name, &ex.Description, &ex.Archived, &ex.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &ex, nil
}

// Name uniqueness per owner is the unique index's job; a violation surfaces
// as goerror.ErrConflict through mapError.
const queryCreateExercise = `
INSERT INTO exercises (user_id, name, description, archived, created_at)
VALUES ($1, $2, $3, FALSE, $4)
RETURNING id
`

func (s *DB) CreateExercise(ctx context.Context, userID string, ex entity.Exercise) (*entity.Exercise, error) {
	err := s.conn.QueryRow(ctx, queryCreateExercise, userID, ex.Name, ex.Description, ex.CreatedAt).
		Scan(&ex.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &ex, nil
}

const queryUpdateExercise = `
UPDATE exercises
SET name = COALESCE($1, name), description = COALESCE($2, description)
WHERE id = $3 AND user_id = $4
`

func (s *DB) UpdateExercise(ctx context.Context, userID string, id int64, name, description *string) (bool, error) {
	tag, err := s.conn.Exec(ctx, queryUpdateExercise, name, description, id, userID)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

const queryArchiveExercise = `
UPDATE exercises
SET archived = TRUE
WHERE id = $1 AND user_id = $2
`

func (s *DB) ArchiveExercise(ctx context.Context, userID string, id int64) (bool, error) {
	tag, err := s.conn.Exec(ctx, queryArchiveExercise, id, userID)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
