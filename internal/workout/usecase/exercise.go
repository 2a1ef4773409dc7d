package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/workout/entity"
)

// ListExercises returns the owner's non-archived exercises sorted by name.
func (s *Usecase) ListExercises(ctx context.Context) ([]entity.Exercise, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	exercises, err := s.repoDB.ListExercises(ctx, identity.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list exercises", "user_id", identity.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return exercises, nil
}

// GetExercise returns one of the owner's exercises, archived or not.
func (s *Usecase) GetExercise(ctx context.Context, id int64) (*entity.Exercise, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	return s.getExercise(ctx, identity.UserID, id)
}

type CreateExerciseInput struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
}

// CreateExercise adds a new exercise to the owner's catalog.
func (s *Usecase) CreateExercise(ctx context.Context, in CreateExerciseInput) (*entity.Exercise, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	exercise, err := s.repoDB.CreateExercise(ctx, identity.UserID, entity.Exercise{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   s.clock.Now(),
	})
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("Exercise name already taken", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create exercise", "user_id", identity.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return exercise, nil
}

type UpdateExerciseInput struct {
	ID          int64   `validate:"required,gt=0"`
	Name        *string `validate:"omitempty,max=100"`
	Description *string `validate:"omitempty,max=500"`
}

// UpdateExercise patches name and/or description. A request that changes
// nothing is rejected rather than silently accepted.
func (s *Usecase) UpdateExercise(ctx context.Context, in UpdateExerciseInput) (*entity.Exercise, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	if in.Name == nil && in.Description == nil {
		return nil, goerror.NewInvalidFormat("No fields to update")
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, goerror.NewInvalidFormat("Name must not be empty")
		}
		in.Name = &trimmed
	}

	updated, err := s.repoDB.UpdateExercise(ctx, identity.UserID, in.ID, in.Name, in.Description)
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("Exercise name already taken", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update exercise", "user_id", identity.UserID, "exercise_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !updated {
		return nil, goerror.NewBusiness("Exercise not found", goerror.CodeNotFound)
	}

	return s.getExercise(ctx, identity.UserID, in.ID)
}

// ArchiveExercise hides the exercise from listings and plans while keeping
// its logged history.
func (s *Usecase) ArchiveExercise(ctx context.Context, id int64) (*entity.Exercise, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	archived, err := s.repoDB.ArchiveExercise(ctx, identity.UserID, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo archive exercise", "user_id", identity.UserID, "exercise_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !archived {
		return nil, goerror.NewBusiness("Exercise not found", goerror.CodeNotFound)
	}

	return s.getExercise(ctx, identity.UserID, id)
}

func (s *Usecase) getExercise(ctx context.Context, userID string, id int64) (*entity.Exercise, error) {
	exercise, err := s.repoDB.GetExercise(ctx, userID, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Exercise not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get exercise", "user_id", userID, "exercise_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return exercise, nil
}
