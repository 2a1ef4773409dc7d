package inbound_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/hash"
	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/uid"
	"github.com/liftlog/liftlog/internal/pkg/validator"
	"github.com/liftlog/liftlog/internal/workout"
)

const cookieName = "liftlog_session"

const testConfigYAML = `
app:
  name: liftlog
`

type testAPI struct {
	router   *router.Router
	sessions session.Manager
	clock    *clock.Static
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := &clock.Static{T: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}
	sessions := session.NewMemory(hash.NewHMACSHA256("test-secret"), clk, false)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Sessions:   sessions,
		CookieName: cookieName,
	})

	require.NoError(t, workout.New(workout.Dependency{
		Router:    r,
		Config:    cfg,
		Clock:     clk,
		Validator: v10,
	}))

	return &testAPI{router: r, sessions: sessions, clock: clk}
}

func (a *testAPI) signIn(t *testing.T, userID string) string {
	t.Helper()

	token, err := a.sessions.Create(context.Background(), session.Identity{
		UserID:   userID,
		Username: "alice",
	}, 24*time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path string, body any, cookie string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w.Result()
}

func decodeData(t *testing.T, res *http.Response, dst any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func (a *testAPI) createExercise(t *testing.T, cookie, name string) int64 {
	t.Helper()

	res := a.do(t, http.MethodPost, "/api/exercises", map[string]any{"name": name}, cookie)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		ID int64 `json:"id"`
	}
	decodeData(t, res, &created)
	return created.ID
}

func TestWorkoutFlow(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.signIn(t, "owner-1")

	squatID := api.createExercise(t, cookie, "Squat")

	// Log three sets for today, overwriting the first once to correct it.
	today := api.clock.Now().Format(time.DateOnly)
	logged := []struct {
		setNumber int
		weight    float64
	}{
		{1, 95}, {1, 100}, {2, 102.5}, {3, 105},
	}
	for _, set := range logged {
		path := fmt.Sprintf("/api/days/%s/exercises/%d/sets/%d", today, squatID, set.setNumber)
		res := api.do(t, http.MethodPut, path, map[string]any{"weight_kg": set.weight, "reps": 5}, cookie)
		require.Equal(t, http.StatusOK, res.StatusCode)
	}

	res := api.do(t, http.MethodGet, fmt.Sprintf("/api/days/%s/exercises/%d/sets", today, squatID), nil, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var sets []struct {
		SetNumber int     `json:"set_number"`
		WeightKg  float64 `json:"weight_kg"`
	}
	decodeData(t, res, &sets)
	require.Len(t, sets, 3)
	assert.Equal(t, 100.0, sets[0].WeightKg)
	assert.Equal(t, 105.0, sets[2].WeightKg)

	// Delete the last set, then deleting again is a 404.
	path := fmt.Sprintf("/api/days/%s/exercises/%d/sets/3", today, squatID)
	res = api.do(t, http.MethodDelete, path, nil, cookie)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res = api.do(t, http.MethodDelete, path, nil, cookie)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Graph over the logged day.
	res = api.do(t, http.MethodGet, fmt.Sprintf("/api/exercises/%d/graph?metric=max_weight", squatID), nil, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var graph struct {
		ExerciseName string `json:"exercise_name"`
		Points       []struct {
			Date  string  `json:"date"`
			Value float64 `json:"value"`
		} `json:"points"`
	}
	decodeData(t, res, &graph)
	assert.Equal(t, "Squat", graph.ExerciseName)
	require.Len(t, graph.Points, 1)
	assert.Equal(t, today, graph.Points[0].Date)
	assert.Equal(t, 102.5, graph.Points[0].Value)

	// Activity strip covers 21 days by default.
	res = api.do(t, http.MethodGet, "/api/activity/days", nil, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var days []struct {
		Date     string `json:"date"`
		SetCount int    `json:"set_count"`
	}
	decodeData(t, res, &days)
	require.Len(t, days, 21)
	assert.Equal(t, today, days[20].Date)
	assert.Equal(t, 2, days[20].SetCount)
}

func TestPlanFlow(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.signIn(t, "owner-1")

	squatID := api.createExercise(t, cookie, "Squat")

	// 2026-08-01 is a Saturday.
	res := api.do(t, http.MethodPost, "/api/plans", map[string]any{"name": "Leg Day", "day_of_week": 6}, cookie)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var plan struct {
		ID int64 `json:"id"`
	}
	decodeData(t, res, &plan)

	res = api.do(t, http.MethodPost, "/api/plans", map[string]any{"name": "Other", "day_of_week": 6}, cookie)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	path := fmt.Sprintf("/api/plans/%d/exercises", plan.ID)
	res = api.do(t, http.MethodPost, path, map[string]any{"exercise_id": squatID, "target_sets": 5}, cookie)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = api.do(t, http.MethodGet, "/api/daily-plans", nil, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var daily []struct {
		Name      string `json:"name"`
		Exercises []struct {
			ExerciseID  int64 `json:"exercise_id"`
			TargetSets  int   `json:"target_sets"`
			LastSession *struct {
				Date string `json:"date"`
			} `json:"last_session"`
		} `json:"exercises"`
	}
	decodeData(t, res, &daily)
	require.Len(t, daily, 1)
	require.Len(t, daily[0].Exercises, 1)
	assert.Equal(t, squatID, daily[0].Exercises[0].ExerciseID)
	assert.Equal(t, 5, daily[0].Exercises[0].TargetSets)
	assert.Nil(t, daily[0].Exercises[0].LastSession)

	// A Sunday has no plan.
	res = api.do(t, http.MethodGet, "/api/daily-plans?date=2026-08-02", nil, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var sunday []struct{}
	decodeData(t, res, &sunday)
	assert.Empty(t, sunday)

	res = api.do(t, http.MethodDelete, fmt.Sprintf("/api/plans/%d/exercises/%d", plan.ID, squatID), nil, cookie)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestWorkout_RequiresSession(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(t, http.MethodGet, "/api/exercises", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = api.do(t, http.MethodPost, "/api/exercises", map[string]any{"name": "Squat"}, "forged-token")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestWorkout_OwnershipAcrossSessions(t *testing.T) {
	api := newTestAPI(t)
	owner := api.signIn(t, "owner-1")
	other := api.signIn(t, "owner-2")

	squatID := api.createExercise(t, owner, "Squat")

	res := api.do(t, http.MethodPost, fmt.Sprintf("/api/exercises/%d/archive", squatID), nil, other)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = api.do(t, http.MethodGet, "/api/exercises", nil, other)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listed []struct {
		ID int64 `json:"id"`
	}
	decodeData(t, res, &listed)
	assert.Empty(t, listed)
}

func TestWorkout_BadDateParam(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.signIn(t, "owner-1")
	squatID := api.createExercise(t, cookie, "Squat")

	path := fmt.Sprintf("/api/days/not-a-date/exercises/%d/sets/1", squatID)
	res := api.do(t, http.MethodPut, path, map[string]any{"weight_kg": 100, "reps": 5}, cookie)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
