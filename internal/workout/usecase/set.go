package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/workout/entity"
)

type UpsertSetInput struct {
	ExerciseID int64     `validate:"required,gt=0"`
	Day        time.Time `validate:"required"`
	SetNumber  int       `validate:"required,min=1"`
	WeightKg   float64   `validate:"min=0"`
	Reps       int       `validate:"required,min=1"`
	// CompletedAt is optional; zero means midday of Day.
	CompletedAt time.Time
}

// UpsertSet records one set. Writing to an address that already holds a set
// overwrites it, which makes correcting a typo the same operation as logging.
func (s *Usecase) UpsertSet(ctx context.Context, in UpsertSetInput) (*entity.Set, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.getExercise(ctx, identity.UserID, in.ExerciseID); err != nil {
		return nil, err
	}

	set := entity.Set{
		ExerciseID:  in.ExerciseID,
		Day:         day(in.Day),
		SetNumber:   in.SetNumber,
		WeightKg:    in.WeightKg,
		Reps:        in.Reps,
		CompletedAt: clampToDay(in.CompletedAt, day(in.Day)),
	}

	if err := s.repoDB.UpsertSet(ctx, set); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert set", "exercise_id", in.ExerciseID, "set_number", in.SetNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &set, nil
}

// DeleteSet removes one logged set.
func (s *Usecase) DeleteSet(ctx context.Context, exerciseID int64, dayAt time.Time, setNumber int) error {
	identity, err := s.owner(ctx)
	if err != nil {
		return err
	}

	deleted, err := s.repoDB.DeleteSet(ctx, identity.UserID, exerciseID, day(dayAt), setNumber)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete set", "exercise_id", exerciseID, "set_number", setNumber, "error", err)
		return goerror.NewServer(err)
	}
	if !deleted {
		return goerror.NewBusiness("Set not found", goerror.CodeNotFound)
	}

	return nil
}

// ListDaySets returns the sets logged for an exercise on one day, in
// set-number order.
func (s *Usecase) ListDaySets(ctx context.Context, exerciseID int64, dayAt time.Time) ([]entity.Set, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.getExercise(ctx, identity.UserID, exerciseID); err != nil {
		return nil, err
	}

	sets, err := s.repoDB.ListDaySets(ctx, identity.UserID, exerciseID, day(dayAt))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list day sets", "exercise_id", exerciseID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return sets, nil
}

// clampToDay forces a completion timestamp inside its calendar day. A zero
// or out-of-day timestamp lands at midday so ordering within the day stays
// sane.
func clampToDay(completedAt, dayStart time.Time) time.Time {
	midday := dayStart.Add(12 * time.Hour)
	if completedAt.IsZero() {
		return midday
	}
	if completedAt.Before(dayStart) || !completedAt.Before(dayStart.AddDate(0, 0, 1)) {
		return midday
	}
	return completedAt
}
