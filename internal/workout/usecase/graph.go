package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/workout/entity"
)

type GraphInput struct {
	ExerciseID int64 `validate:"required,gt=0"`
	// Metric defaults to max_weight when empty.
	Metric entity.MetricKind
	// Start and End bound the history inclusively; zero means unbounded.
	Start time.Time
	End   time.Time
}

type GraphOutput struct {
	ExerciseID   int64
	ExerciseName string
	Metric       entity.MetricKind
	Points       []entity.GraphPoint
}

// ExerciseGraph builds the progress series for one exercise. Each logged day
// collapses into one value under the chosen metric, and long histories are
// downsampled so a chart never carries more than maxGraphPoints points.
func (s *Usecase) ExerciseGraph(ctx context.Context, in GraphInput) (*GraphOutput, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	if in.Metric == "" {
		in.Metric = entity.MetricMaxWeight
	}
	if !in.Metric.Valid() {
		return nil, goerror.NewInvalidFormat("Unknown metric")
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if !in.Start.IsZero() && !in.End.IsZero() && in.Start.After(in.End) {
		return nil, goerror.NewInvalidFormat("start must be before end")
	}

	exercise, err := s.getExercise(ctx, identity.UserID, in.ExerciseID)
	if err != nil {
		return nil, err
	}

	var start, end *time.Time
	if !in.Start.IsZero() {
		t := day(in.Start)
		start = &t
	}
	if !in.End.IsZero() {
		t := day(in.End)
		end = &t
	}

	sets, err := s.repoDB.SetsBetween(ctx, identity.UserID, in.ExerciseID, start, end)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo sets between", "exercise_id", in.ExerciseID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GraphOutput{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		Metric:       in.Metric,
		Points:       buildGraphPoints(sets, in.Metric, maxGraphPoints),
	}, nil
}
