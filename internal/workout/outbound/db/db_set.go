package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/liftlog/liftlog/internal/workout/entity"
)

func scanSets(rows pgx.Rows) ([]entity.Set, error) {
	var out []entity.Set
	for rows.Next() {
		var set entity.Set
		if err := rows.Scan(&set.ExerciseID, &set.Day, &set.SetNumber, &set.WeightKg, &set.Reps, &set.CompletedAt); err != nil {
			return nil, err
		}
		set.Day = set.Day.UTC()
		out = append(out, set)
	}
	return out, rows.Err()
}

const queryUpsertSet = `
INSERT INTO workout_sets (exercise_id, day, set_number, weight_kg, reps, completed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (exercise_id, day, set_number)
DO UPDATE SET weight_kg = EXCLUDED.weight_kg, reps = EXCLUDED.reps, completed_at = EXCLUDED.completed_at
`

func (s *DB) UpsertSet(ctx context.Context, set entity.Set) error {
	_, err := s.conn.Exec(ctx, queryUpsertSet,
		set.ExerciseID, set.Day, set.SetNumber, set.WeightKg, set.Reps, set.CompletedAt)
	return s.mapError(err)
}

const queryDeleteSet = `
DELETE FROM workout_sets ws
USING exercises e
WHERE e.id = ws.exercise_id AND e.user_id = $1
  AND ws.exercise_id = $2 AND ws.day = $3 AND ws.set_number = $4
`

func (s *DB) DeleteSet(ctx context.Context, userID string, exerciseID int64, day time.Time, setNumber int) (bool, error) {
	tag, err := s.conn.Exec(ctx, queryDeleteSet, userID, exerciseID, day, setNumber)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

const queryListDaySets = `
SELECT ws.exercise_id, ws.day, ws.set_number, ws.weight_kg, ws.reps, ws.completed_at
FROM workout_sets ws
JOIN exercises e ON e.id = ws.exercise_id
WHERE e.user_id = $1 AND ws.exercise_id = $2 AND ws.day = $3
ORDER BY ws.set_number
`

func (s *DB) ListDaySets(ctx context.Context, userID string, exerciseID int64, day time.Time) ([]entity.Set, error) {
	rows, err := s.conn.Query(ctx, queryListDaySets, userID, exerciseID, day)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	return scanSets(rows)
}

const queryLastSessionDay = `
SELECT ws.day
FROM workout_sets ws
JOIN exercises e ON e.id = ws.exercise_id
WHERE e.user_id = $1 AND ws.exercise_id = $2
GROUP BY ws.day
ORDER BY MAX(ws.completed_at) DESC
LIMIT 1
`

// LastSession returns nil when the exercise has no logged sets.
func (s *DB) LastSession(ctx context.Context, userID string, exerciseID int64) (*entity.LastSession, error) {
	var lastDay time.Time
	err := s.conn.QueryRow(ctx, queryLastSessionDay, userID, exerciseID).Scan(&lastDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.mapError(err)
	}
	lastDay = lastDay.UTC()

	sets, err := s.ListDaySets(ctx, userID, exerciseID, lastDay)
	if err != nil {
		return nil, err
	}

	compact := make([]entity.CompactSet, 0, len(sets))
	for _, set := range sets {
		compact = append(compact, entity.CompactSet{WeightKg: set.WeightKg, Reps: set.Reps})
	}
	return &entity.LastSession{Date: lastDay, Sets: compact}, nil
}

const querySetsBetween = `
SELECT ws.exercise_id, ws.day, ws.set_number, ws.weight_kg, ws.reps, ws.completed_at
FROM workout_sets ws
JOIN exercises e ON e.id = ws.exercise_id
WHERE e.user_id = $1 AND ws.exercise_id = $2
  AND ($3::date IS NULL OR ws.day >= $3)
  AND ($4::date IS NULL OR ws.day <= $4)
ORDER BY ws.day, ws.set_number
`

func (s *DB) SetsBetween(ctx context.Context, userID string, exerciseID int64, start, end *time.Time) ([]entity.Set, error) {
	rows, err := s.conn.Query(ctx, querySetsBetween, userID, exerciseID, start, end)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	return scanSets(rows)
}

const queryActivityCounts = `
SELECT ws.day, COUNT(*)
FROM workout_sets ws
JOIN exercises e ON e.id = ws.exercise_id
WHERE e.user_id = $1 AND ws.day BETWEEN $2 AND $3
GROUP BY ws.day
`

func (s *DB) ActivityCounts(ctx context.Context, userID string, start, end time.Time) (map[time.Time]int, error) {
	rows, err := s.conn.Query(ctx, queryActivityCounts, userID, start, end)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	counts := make(map[time.Time]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, s.mapError(err)
		}
		counts[day.UTC()] = count
	}
	return counts, s.mapError(rows.Err())
}
