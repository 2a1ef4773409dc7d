package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/workout/entity"
)

// ListPlans returns all of the owner's plans.
func (s *Usecase) ListPlans(ctx context.Context) ([]entity.Plan, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	plans, err := s.repoDB.ListPlans(ctx, identity.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list plans", "user_id", identity.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return plans, nil
}

type CreatePlanInput struct {
	Name      string `validate:"required,max=100"`
	DayOfWeek *int   `validate:"omitempty,min=0,max=6"`
}

// CreatePlan creates a workout plan. A weekday can hold at most one plan.
func (s *Usecase) CreatePlan(ctx context.Context, in CreatePlanInput) (*entity.Plan, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	plan, err := s.repoDB.CreatePlan(ctx, identity.UserID, in.Name, in.DayOfWeek)
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("A plan for this day already exists", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create plan", "user_id", identity.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return plan, nil
}

// DailyPlans returns the plans for a date's weekday (today when at is zero)
// with each exercise slot populated with the most recent logged session, so
// the owner sees what to beat.
func (s *Usecase) DailyPlans(ctx context.Context, at time.Time) ([]entity.PopulatedPlan, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	if at.IsZero() {
		at = s.clock.Now()
	}
	weekday := int(at.Weekday())
	plans, err := s.repoDB.PlansForDay(ctx, identity.UserID, weekday)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo plans for day", "user_id", identity.UserID, "weekday", weekday, "error", err)
		return nil, goerror.NewServer(err)
	}

	populated := make([]entity.PopulatedPlan, 0, len(plans))
	for _, plan := range plans {
		slots, err := s.repoDB.PlanExercises(ctx, plan.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo plan exercises", "plan_id", plan.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		exercises := make([]entity.PopulatedExercise, 0, len(slots))
		for _, slot := range slots {
			last, err := s.repoDB.LastSession(ctx, identity.UserID, slot.ExerciseID)
			if err != nil {
				slog.ErrorContext(ctx, "failed to repo last session", "exercise_id", slot.ExerciseID, "error", err)
				return nil, goerror.NewServer(err)
			}
			exercises = append(exercises, entity.PopulatedExercise{
				ExerciseID:  slot.ExerciseID,
				Name:        slot.Name,
				TargetSets:  slot.TargetSets,
				LastSession: last,
			})
		}

		populated = append(populated, entity.PopulatedPlan{
			ID:        plan.ID,
			Name:      plan.Name,
			DayOfWeek: plan.DayOfWeek,
			Exercises: exercises,
		})
	}

	return populated, nil
}

type AddPlanExerciseInput struct {
	PlanID     int64 `validate:"required,gt=0"`
	ExerciseID int64 `validate:"required,gt=0"`
	TargetSets int   `validate:"omitempty,min=1,max=20"`
}

// AddPlanExercise appends an exercise to a plan after its current last slot.
func (s *Usecase) AddPlanExercise(ctx context.Context, in AddPlanExerciseInput) error {
	identity, err := s.owner(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}
	if in.TargetSets == 0 {
		in.TargetSets = 3
	}

	if err := s.ownPlan(ctx, identity.UserID, in.PlanID); err != nil {
		return err
	}
	if _, err := s.getExercise(ctx, identity.UserID, in.ExerciseID); err != nil {
		return err
	}

	err = s.repoDB.AddPlanExercise(ctx, in.PlanID, in.ExerciseID, in.TargetSets)
	if errors.Is(err, goerror.ErrConflict) {
		return goerror.NewBusiness("Exercise already in plan", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo add plan exercise", "plan_id", in.PlanID, "exercise_id", in.ExerciseID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// RemovePlanExercise drops an exercise slot from a plan.
func (s *Usecase) RemovePlanExercise(ctx context.Context, planID, exerciseID int64) error {
	identity, err := s.owner(ctx)
	if err != nil {
		return err
	}

	if err := s.ownPlan(ctx, identity.UserID, planID); err != nil {
		return err
	}

	removed, err := s.repoDB.RemovePlanExercise(ctx, planID, exerciseID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo remove plan exercise", "plan_id", planID, "exercise_id", exerciseID, "error", err)
		return goerror.NewServer(err)
	}
	if !removed {
		return goerror.NewBusiness("Exercise not in plan", goerror.CodeNotFound)
	}

	return nil
}

func (s *Usecase) ownPlan(ctx context.Context, userID string, planID int64) error {
	_, err := s.repoDB.GetPlan(ctx, userID, planID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Plan not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get plan", "user_id", userID, "plan_id", planID, "error", err)
		return goerror.NewServer(err)
	}
	return nil
}
