package inbound

import (
	"net/http"
	"time"

	"github.com/liftlog/liftlog/internal/workout/entity"
)

type ExerciseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateExerciseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ExerciseResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Archived    bool   `json:"archived"`
}

func newExerciseResponse(ex entity.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:          ex.ID,
		Name:        ex.Name,
		Description: ex.Description,
		Archived:    ex.Archived,
	}
}

type CreatedExerciseResponse struct {
	ExerciseResponse
}

func (CreatedExerciseResponse) StatusCode() int {
	return http.StatusCreated
}

type PlanRequest struct {
	Name      string `json:"name"`
	DayOfWeek *int   `json:"day_of_week"`
}

type PlanResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	DayOfWeek *int   `json:"day_of_week"`
}

type CreatedPlanResponse struct {
	PlanResponse
}

func (CreatedPlanResponse) StatusCode() int {
	return http.StatusCreated
}

type AddPlanExerciseRequest struct {
	ExerciseID int64 `json:"exercise_id"`
	TargetSets int   `json:"target_sets"`
}

type PopulatedPlanResponse struct {
	ID        int64                       `json:"id"`
	Name      string                      `json:"name"`
	DayOfWeek *int                        `json:"day_of_week"`
	Exercises []PopulatedExerciseResponse `json:"exercises"`
}

type PopulatedExerciseResponse struct {
	ExerciseID  int64                `json:"exercise_id"`
	Name        string               `json:"name"`
	TargetSets  int                  `json:"target_sets"`
	LastSession *LastSessionResponse `json:"last_session"`
}

type LastSessionResponse struct {
	Date string               `json:"date"`
	Sets []CompactSetResponse `json:"sets"`
}

type CompactSetResponse struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
}

func newPopulatedPlanResponse(plan entity.PopulatedPlan) PopulatedPlanResponse {
	exercises := make([]PopulatedExerciseResponse, 0, len(plan.Exercises))
	for _, ex := range plan.Exercises {
		resp := PopulatedExerciseResponse{
			ExerciseID: ex.ExerciseID,
			Name:       ex.Name,
			TargetSets: ex.TargetSets,
		}
		if ex.LastSession != nil {
			sets := make([]CompactSetResponse, 0, len(ex.LastSession.Sets))
			for _, set := range ex.LastSession.Sets {
				sets = append(sets, CompactSetResponse{WeightKg: set.WeightKg, Reps: set.Reps})
			}
			resp.LastSession = &LastSessionResponse{
				Date: ex.LastSession.Date.Format(time.DateOnly),
				Sets: sets,
			}
		}
		exercises = append(exercises, resp)
	}

	return PopulatedPlanResponse{
		ID:        plan.ID,
		Name:      plan.Name,
		DayOfWeek: plan.DayOfWeek,
		Exercises: exercises,
	}
}

type UpsertSetRequest struct {
	WeightKg    float64   `json:"weight_kg"`
	Reps        int       `json:"reps"`
	CompletedAt time.Time `json:"completed_at"`
}

type SetResponse struct {
	ExerciseID  int64     `json:"exercise_id"`
	Day         string    `json:"day"`
	SetNumber   int       `json:"set_number"`
	WeightKg    float64   `json:"weight_kg"`
	Reps        int       `json:"reps"`
	CompletedAt time.Time `json:"completed_at"`
}

func newSetResponse(set entity.Set) SetResponse {
	return SetResponse{
		ExerciseID:  set.ExerciseID,
		Day:         set.Day.Format(time.DateOnly),
		SetNumber:   set.SetNumber,
		WeightKg:    set.WeightKg,
		Reps:        set.Reps,
		CompletedAt: set.CompletedAt,
	}
}

type GraphResponse struct {
	ExerciseID   int64                `json:"exercise_id"`
	ExerciseName string               `json:"exercise_name"`
	Metric       string               `json:"metric"`
	Points       []GraphPointResponse `json:"points"`
}

type GraphPointResponse struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type ActivityDayResponse struct {
	Date     string `json:"date"`
	SetCount int    `json:"set_count"`
}

// CreatedResponse is an empty 201 body.
type CreatedResponse struct{}

func (CreatedResponse) StatusCode() int {
	return http.StatusCreated
}

// NoContentResponse collapses to a bare 204.
type NoContentResponse struct{}

func (NoContentResponse) StatusCode() int {
	return http.StatusNoContent
}
