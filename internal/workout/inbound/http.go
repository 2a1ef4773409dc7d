package inbound

import (
	"context"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/workout/entity"
	"github.com/liftlog/liftlog/internal/workout/usecase"
)

type uc interface {
	ListExercises(ctx context.Context) ([]entity.Exercise, error)
	GetExercise(ctx context.Context, id int64) (*entity.Exercise, error)
	CreateExercise(ctx context.Context, in usecase.CreateExerciseInput) (*entity.Exercise, error)
	UpdateExercise(ctx context.Context, in usecase.UpdateExerciseInput) (*entity.Exercise, error)
	ArchiveExercise(ctx context.Context, id int64) (*entity.Exercise, error)
	ExerciseGraph(ctx context.Context, in usecase.GraphInput) (*usecase.GraphOutput, error)

	ListPlans(ctx context.Context) ([]entity.Plan, error)
	CreatePlan(ctx context.Context, in usecase.CreatePlanInput) (*entity.Plan, error)
	DailyPlans(ctx context.Context, at time.Time) ([]entity.PopulatedPlan, error)
	AddPlanExercise(ctx context.Context, in usecase.AddPlanExerciseInput) error
	RemovePlanExercise(ctx context.Context, planID, exerciseID int64) error

	UpsertSet(ctx context.Context, in usecase.UpsertSetInput) (*entity.Set, error)
	DeleteSet(ctx context.Context, exerciseID int64, day time.Time, setNumber int) error
	ListDaySets(ctx context.Context, exerciseID int64, day time.Time) ([]entity.Set, error)

	ActivityDays(ctx context.Context, in usecase.ActivityInput) ([]entity.ActivityDay, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Exercise catalog
	r.GET("/api/exercises", end.ListExercises)
	r.POST("/api/exercises", end.CreateExercise)
	r.GET("/api/exercises/:id", end.GetExercise)
	r.PUT("/api/exercises/:id", end.UpdateExercise)
	r.POST("/api/exercises/:id/archive", end.ArchiveExercise)
	r.GET("/api/exercises/:id/graph", end.ExerciseGraph)

	// Plans
	r.GET("/api/plans", end.ListPlans)
	r.POST("/api/plans", end.CreatePlan)
	r.GET("/api/daily-plans", end.DailyPlans)
	r.POST("/api/plans/:plan_id/exercises", end.AddPlanExercise)
	r.DELETE("/api/plans/:plan_id/exercises/:exercise_id", end.RemovePlanExercise)

	// Logged sets
	r.GET("/api/days/:date/exercises/:exercise_id/sets", end.ListDaySets)
	r.PUT("/api/days/:date/exercises/:exercise_id/sets/:set_number", end.UpsertSet)
	r.DELETE("/api/days/:date/exercises/:exercise_id/sets/:set_number", end.DeleteSet)

	// Activity calendar
	r.GET("/api/activity/days", end.ActivityDays)
}
