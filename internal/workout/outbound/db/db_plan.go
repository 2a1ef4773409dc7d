package db

import (
	"context"

	"github.com/liftlog/liftlog/internal/workout/entity"
)

const queryListPlans = `
SELECT id, name, day_of_week
FROM workout_plans
WHERE user_id = $1
ORDER BY id
`

func (s *DB) ListPlans(ctx context.Context, userID string) ([]entity.Plan, error) {
	rows, err := s.conn.Query(ctx, queryListPlans, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Plan
	for rows.Next() {
		var plan entity.Plan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.DayOfWeek); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, plan)
	}
	return out, s.mapError(rows.Err())
}

// A partial unique index on (user_id, day_of_week) enforces one plan per
// weekday, so the conflict check needs no prior read.
const queryCreatePlan = `
INSERT INTO workout_plans (user_id, name, day_of_week)
VALUES ($1, $2, $3)
RETURNING id
`

func (s *DB) CreatePlan(ctx context.Context, userID, name string, dayOfWeek *int) (*entity.Plan, error) {
	plan := entity.Plan{Name: name, DayOfWeek: dayOfWeek}
	err := s.conn.QueryRow(ctx, queryCreatePlan, userID, name, dayOfWeek).Scan(&plan.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &plan, nil
}

const queryGetPlan = `
SELECT id, name, day_of_week
FROM workout_plans
WHERE id = $1 AND user_id = $2
`

func (s *DB) GetPlan(ctx context.Context, userID string, planID int64) (*entity.Plan, error) {
	var plan entity.Plan
	err := s.conn.QueryRow(ctx, queryGetPlan, planID, userID).
		Scan(&plan.ID, &plan.Name, &plan.DayOfWeek)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &plan, nil
}

const queryPlansForDay = `
SELECT id, name, day_of_week
FROM workout_plans
WHERE user_id = $1 AND day_of_week = $2
ORDER BY id
`

func (s *DB) PlansForDay(ctx context.Context, userID string, dayOfWeek int) ([]entity.Plan, error) {
	rows, err := s.conn.Query(ctx, queryPlansForDay, userID, dayOfWeek)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Plan
	for rows.Next() {
		var plan entity.Plan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.DayOfWeek); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, plan)
	}
	return out, s.mapError(rows.Err())
}

const queryPlanExercises = `
SELECT pe.exercise_id, e.name, pe.target_sets, pe.display_order
FROM plan_exercises pe
JOIN exercises e ON e.id = pe.exercise_id
WHERE pe.plan_id = $1
ORDER BY pe.display_order
`

func (s *DB) PlanExercises(ctx context.Context, planID int64) ([]entity.PlanExercise, error) {
	rows, err := s.conn.Query(ctx, queryPlanExercises, planID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.PlanExercise
	for rows.Next() {
		var slot entity.PlanExercise
		if err := rows.Scan(&slot.ExerciseID, &slot.Name, &slot.TargetSets, &slot.DisplayOrder); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, slot)
	}
	return out, s.mapError(rows.Err())
}

const queryAddPlanExercise = `
INSERT INTO plan_exercises (plan_id, exercise_id, target_sets, display_order)
SELECT $1, $2, $3, COALESCE(MAX(display_order), 0) + 1
FROM plan_exercises
WHERE plan_id = $1
`

func (s *DB) AddPlanExercise(ctx context.Context, planID, exerciseID int64, targetSets int) error {
	_, err := s.conn.Exec(ctx, queryAddPlanExercise, planID, exerciseID, targetSets)
	return s.mapError(err)
}

const queryRemovePlanExercise = `
DELETE FROM plan_exercises
WHERE plan_id = $1 AND exercise_id = $2
`

func (s *DB) RemovePlanExercise(ctx context.Context, planID, exerciseID int64) (bool, error) {
	tag, err := s.conn.Exec(ctx, queryRemovePlanExercise, planID, exerciseID)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
