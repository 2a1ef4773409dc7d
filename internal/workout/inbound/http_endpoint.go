package inbound

import (
	"time"

	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/workout/entity"
	"github.com/liftlog/liftlog/internal/workout/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the workout tracking workflows.
// All routes require an authenticated session.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) ListExercises(r *router.Request) (any, error) {
	exercises, err := h.uc.ListExercises(r.Context())
	if err != nil {
		return nil, err
	}

	out := make([]ExerciseResponse, 0, len(exercises))
	for _, ex := range exercises {
		out = append(out, newExerciseResponse(ex))
	}
	return out, nil
}

func (h *HTTPEndpoint) CreateExercise(r *router.Request) (any, error) {
	var req ExerciseRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	exercise, err := h.uc.CreateExercise(r.Context(), usecase.CreateExerciseInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	return CreatedExerciseResponse{newExerciseResponse(*exercise)}, nil
}

func (h *HTTPEndpoint) GetExercise(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	exercise, err := h.uc.GetExercise(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return newExerciseResponse(*exercise), nil
}

func (h *HTTPEndpoint) UpdateExercise(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UpdateExerciseRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	exercise, err := h.uc.UpdateExercise(r.Context(), usecase.UpdateExerciseInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	return newExerciseResponse(*exercise), nil
}

func (h *HTTPEndpoint) ArchiveExercise(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	exercise, err := h.uc.ArchiveExercise(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return newExerciseResponse(*exercise), nil
}

func (h *HTTPEndpoint) ExerciseGraph(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}
	start, err := r.GetQueryDate("start", time.DateOnly)
	if err != nil {
		return nil, err
	}
	end, err := r.GetQueryDate("end", time.DateOnly)
	if err != nil {
		return nil, err
	}

	graph, err := h.uc.ExerciseGraph(r.Context(), usecase.GraphInput{
		ExerciseID: id,
		Metric:     entity.MetricKind(r.GetQuery("metric")),
		Start:      start,
		End:        end,
	})
	if err != nil {
		return nil, err
	}

	points := make([]GraphPointResponse, 0, len(graph.Points))
	for _, p := range graph.Points {
		points = append(points, GraphPointResponse{
			Date:  p.Date.Format(time.DateOnly),
			Value: p.Value,
		})
	}
	return GraphResponse{
		ExerciseID:   graph.ExerciseID,
		ExerciseName: graph.ExerciseName,
		Metric:       string(graph.Metric),
		Points:       points,
	}, nil
}

func (h *HTTPEndpoint) ListPlans(r *router.Request) (any, error) {
	plans, err := h.uc.ListPlans(r.Context())
	if err != nil {
		return nil, err
	}

	out := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		out = append(out, PlanResponse{ID: plan.ID, Name: plan.Name, DayOfWeek: plan.DayOfWeek})
	}
	return out, nil
}

func (h *HTTPEndpoint) CreatePlan(r *router.Request) (any, error) {
	var req PlanRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	plan, err := h.uc.CreatePlan(r.Context(), usecase.CreatePlanInput{
		Name:      req.Name,
		DayOfWeek: req.DayOfWeek,
	})
	if err != nil {
		return nil, err
	}

	return CreatedPlanResponse{PlanResponse{ID: plan.ID, Name: plan.Name, DayOfWeek: plan.DayOfWeek}}, nil
}

func (h *HTTPEndpoint) DailyPlans(r *router.Request) (any, error) {
	date, err := r.GetQueryDate("date", time.DateOnly)
	if err != nil {
		return nil, err
	}

	plans, err := h.uc.DailyPlans(r.Context(), date)
	if err != nil {
		return nil, err
	}

	out := make([]PopulatedPlanResponse, 0, len(plans))
	for _, plan := range plans {
		out = append(out, newPopulatedPlanResponse(plan))
	}
	return out, nil
}

func (h *HTTPEndpoint) AddPlanExercise(r *router.Request) (any, error) {
	planID, err := r.GetParamInt64("plan_id")
	if err != nil {
		return nil, err
	}

	var req AddPlanExerciseRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.AddPlanExercise(r.Context(), usecase.AddPlanExerciseInput{
		PlanID:     planID,
		ExerciseID: req.ExerciseID,
		TargetSets: req.TargetSets,
	}); err != nil {
		return nil, err
	}

	return CreatedResponse{}, nil
}

func (h *HTTPEndpoint) RemovePlanExercise(r *router.Request) (any, error) {
	planID, err := r.GetParamInt64("plan_id")
	if err != nil {
		return nil, err
	}
	exerciseID, err := r.GetParamInt64("exercise_id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.RemovePlanExercise(r.Context(), planID, exerciseID); err != nil {
		return nil, err
	}

	return NoContentResponse{}, nil
}

func (h *HTTPEndpoint) UpsertSet(r *router.Request) (any, error) {
	day, exerciseID, setNumber, err := setAddress(r)
	if err != nil {
		return nil, err
	}

	var req UpsertSetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	set, err := h.uc.UpsertSet(r.Context(), usecase.UpsertSetInput{
		ExerciseID:  exerciseID,
		Day:         day,
		SetNumber:   setNumber,
		WeightKg:    req.WeightKg,
		Reps:        req.Reps,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		return nil, err
	}

	return newSetResponse(*set), nil
}

func (h *HTTPEndpoint) DeleteSet(r *router.Request) (any, error) {
	day, exerciseID, setNumber, err := setAddress(r)
	if err != nil {
		return nil, err
	}

	if err := h.uc.DeleteSet(r.Context(), exerciseID, day, setNumber); err != nil {
		return nil, err
	}

	return NoContentResponse{}, nil
}

func (h *HTTPEndpoint) ListDaySets(r *router.Request) (any, error) {
	day, err := r.GetParamDate("date", time.DateOnly)
	if err != nil {
		return nil, err
	}
	exerciseID, err := r.GetParamInt64("exercise_id")
	if err != nil {
		return nil, err
	}

	sets, err := h.uc.ListDaySets(r.Context(), exerciseID, day)
	if err != nil {
		return nil, err
	}

	out := make([]SetResponse, 0, len(sets))
	for _, set := range sets {
		out = append(out, newSetResponse(set))
	}
	return out, nil
}

func (h *HTTPEndpoint) ActivityDays(r *router.Request) (any, error) {
	start, err := r.GetQueryDate("start", time.DateOnly)
	if err != nil {
		return nil, err
	}
	end, err := r.GetQueryDate("end", time.DateOnly)
	if err != nil {
		return nil, err
	}

	days, err := h.uc.ActivityDays(r.Context(), usecase.ActivityInput{Start: start, End: end})
	if err != nil {
		return nil, err
	}

	out := make([]ActivityDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, ActivityDayResponse{
			Date:     d.Date.Format(time.DateOnly),
			SetCount: d.SetCount,
		})
	}
	return out, nil
}

func setAddress(r *router.Request) (time.Time, int64, int, error) {
	day, err := r.GetParamDate("date", time.DateOnly)
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	exerciseID, err := r.GetParamInt64("exercise_id")
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	setNumber, err := r.GetParamInt64("set_number")
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	return day, exerciseID, int(setNumber), nil
}
