package usecase

import (
	"context"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/validator"
	"github.com/liftlog/liftlog/internal/workout/entity"
)

const (
	// maxGraphPoints caps a progress graph; longer histories are downsampled.
	maxGraphPoints = 50

	// defaultActivityDays is the range of the activity view when the caller
	// gives no bounds.
	defaultActivityDays = 21
)

type repoDB interface {
	ListExercises(ctx context.Context, userID string) ([]entity.Exercise, error)
	// GetExercise returns goerror.ErrNotFound for exercises that do not
	// exist or belong to another owner; the two are indistinguishable.
	GetExercise(ctx context.Context, userID string, id int64) (*entity.Exercise, error)
	// CreateExercise returns goerror.ErrConflict when the owner already has
	// an exercise with that name.
	CreateExercise(ctx context.Context, userID string, ex entity.Exercise) (*entity.Exercise, error)
	// UpdateExercise patches only the non-nil fields and reports whether a
	// row matched. Renaming onto a taken name returns goerror.ErrConflict.
	UpdateExercise(ctx context.Context, userID string, id int64, name, description *string) (bool, error)
	ArchiveExercise(ctx context.Context, userID string, id int64) (bool, error)

	ListPlans(ctx context.Context, userID string) ([]entity.Plan, error)
	// CreatePlan returns goerror.ErrConflict when the weekday already has a
	// plan.
	CreatePlan(ctx context.Context, userID, name string, dayOfWeek *int) (*entity.Plan, error)
	GetPlan(ctx context.Context, userID string, planID int64) (*entity.Plan, error)
	PlansForDay(ctx context.Context, userID string, dayOfWeek int) ([]entity.Plan, error)
	PlanExercises(ctx context.Context, planID int64) ([]entity.PlanExercise, error)
	// AddPlanExercise appends the exercise after the current last slot and
	// returns goerror.ErrConflict when it is already in the plan.
	AddPlanExercise(ctx context.Context, planID, exerciseID int64, targetSets int) error
	RemovePlanExercise(ctx context.Context, planID, exerciseID int64) (bool, error)

	// UpsertSet overwrites weight, reps, and completion time when the
	// (exercise, day, set number) address is already taken.
	UpsertSet(ctx context.Context, set entity.Set) error
	DeleteSet(ctx context.Context, userID string, exerciseID int64, day time.Time, setNumber int) (bool, error)
	ListDaySets(ctx context.Context, userID string, exerciseID int64, day time.Time) ([]entity.Set, error)
	// LastSession returns nil without error when the exercise has no logged
	// sets yet.
	LastSession(ctx context.Context, userID string, exerciseID int64) (*entity.LastSession, error)
	SetsBetween(ctx context.Context, userID string, exerciseID int64, start, end *time.Time) ([]entity.Set, error)
	// ActivityCounts returns logged-set counts keyed by day; days without
	// sets are absent.
	ActivityCounts(ctx context.Context, userID string, start, end time.Time) (map[time.Time]int, error)
}

// Usecase implements the workout tracking workflows. Every operation is
// scoped to the authenticated owner taken from the request context.
type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
}

// Dependency lists what Usecase needs to be constructed.
type Dependency struct {
	RepoDB    repoDB
	Validator validator.Validator
	Config    config.Config
	Clock     clock.Clocker
}

// New constructs a Usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
	}
}

func (s *Usecase) owner(ctx context.Context) (session.Identity, error) {
	identity, ok := session.GetAuth(ctx)
	if !ok {
		return session.Identity{}, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return identity, nil
}

// day truncates t to its calendar date in UTC.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
