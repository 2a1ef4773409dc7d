// Package memory is an in-process workout repository used when no database
// is configured. It mirrors the SQL repository's contract, including
// ownership scoping and conflict reporting.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/workout/entity"
)

type ownedExercise struct {
	owner    string
	exercise entity.Exercise
}

type ownedPlan struct {
	owner string
	plan  entity.Plan
}

type setKey struct {
	exerciseID int64
	day        int64
	setNumber  int
}

// Memory stores workout data behind a single mutex.
type Memory struct {
	mu        sync.Mutex
	nextID    int64
	exercises map[int64]ownedExercise
	plans     map[int64]ownedPlan
	planSlots map[int64][]entity.PlanExercise
	sets      map[setKey]entity.Set
}

// NewMemory constructs an empty repository.
func NewMemory() *Memory {
	return &Memory{
		exercises: make(map[int64]ownedExercise),
		plans:     make(map[int64]ownedPlan),
		planSlots: make(map[int64][]entity.PlanExercise),
		sets:      make(map[setKey]entity.Set),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) ListExercises(_ context.Context, userID string) ([]entity.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Exercise
	for _, oe := range m.exercises {
		if oe.owner == userID && !oe.exercise.Archived {
			out = append(out, oe.exercise)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) GetExercise(_ context.Context, userID string, id int64) (*entity.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oe, ok := m.exercises[id]
	if !ok || oe.owner != userID {
		return nil, goerror.ErrNotFound
	}
	exercise := oe.exercise
	return &exercise, nil
}

func (m *Memory) CreateExercise(_ context.Context, userID string, ex entity.Exercise) (*entity.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTakenLocked(userID, ex.Name, 0) {
		return nil, goerror.ErrConflict
	}

	ex.ID = m.id()
	m.exercises[ex.ID] = ownedExercise{owner: userID, exercise: ex}
	return &ex, nil
}

func (m *Memory) UpdateExercise(_ context.Context, userID string, id int64, name, description *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oe, ok := m.exercises[id]
	if !ok || oe.owner != userID {
		return false, nil
	}
	if name != nil {
		if m.nameTakenLocked(userID, *name, id) {
			return false, goerror.ErrConflict
		}
		oe.exercise.Name = *name
	}
	if description != nil {
		oe.exercise.Description = *description
	}
	m.exercises[id] = oe
	return true, nil
}

func (m *Memory) ArchiveExercise(_ context.Context, userID string, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oe, ok := m.exercises[id]
	if !ok || oe.owner != userID {
		return false, nil
	}
	oe.exercise.Archived = true
	m.exercises[id] = oe
	return true, nil
}

func (m *Memory) nameTakenLocked(userID, name string, exceptID int64) bool {
	for id, oe := range m.exercises {
		if id != exceptID && oe.owner == userID && oe.exercise.Name == name {
			return true
		}
	}
	return false
}

func (m *Memory) ListPlans(_ context.Context, userID string) ([]entity.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Plan
	for _, op := range m.plans {
		if op.owner == userID {
			out = append(out, op.plan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreatePlan(_ context.Context, userID, name string, dayOfWeek *int) (*entity.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dayOfWeek != nil {
		for _, op := range m.plans {
			if op.owner == userID && op.plan.DayOfWeek != nil && *op.plan.DayOfWeek == *dayOfWeek {
				return nil, goerror.ErrConflict
			}
		}
	}

	plan := entity.Plan{ID: m.id(), Name: name, DayOfWeek: dayOfWeek}
	m.plans[plan.ID] = ownedPlan{owner: userID, plan: plan}
	return &plan, nil
}

func (m *Memory) GetPlan(_ context.Context, userID string, planID int64) (*entity.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op, ok := m.plans[planID]
	if !ok || op.owner != userID {
		return nil, goerror.ErrNotFound
	}
	plan := op.plan
	return &plan, nil
}

func (m *Memory) PlansForDay(_ context.Context, userID string, dayOfWeek int) ([]entity.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Plan
	for _, op := range m.plans {
		if op.owner == userID && op.plan.DayOfWeek != nil && *op.plan.DayOfWeek == dayOfWeek {
			out = append(out, op.plan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) PlanExercises(_ context.Context, planID int64) ([]entity.PlanExercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.planSlots[planID]
	out := make([]entity.PlanExercise, 0, len(slots))
	for _, slot := range slots {
		if oe, ok := m.exercises[slot.ExerciseID]; ok {
			slot.Name = oe.exercise.Name
		}
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *Memory) AddPlanExercise(_ context.Context, planID, exerciseID int64, targetSets int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxOrder := 0
	for _, slot := range m.planSlots[planID] {
		if slot.ExerciseID == exerciseID {
			return goerror.ErrConflict
		}
		if slot.DisplayOrder > maxOrder {
			maxOrder = slot.DisplayOrder
		}
	}

	m.planSlots[planID] = append(m.planSlots[planID], entity.PlanExercise{
		ExerciseID:   exerciseID,
		TargetSets:   targetSets,
		DisplayOrder: maxOrder + 1,
	})
	return nil
}

func (m *Memory) RemovePlanExercise(_ context.Context, planID, exerciseID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.planSlots[planID]
	for i, slot := range slots {
		if slot.ExerciseID == exerciseID {
			m.planSlots[planID] = append(slots[:i], slots[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) UpsertSet(_ context.Context, set entity.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets[setKey{set.ExerciseID, set.Day.Unix(), set.SetNumber}] = set
	return nil
}

func (m *Memory) DeleteSet(_ context.Context, userID string, exerciseID int64, day time.Time, setNumber int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oe, ok := m.exercises[exerciseID]; !ok || oe.owner != userID {
		return false, nil
	}

	key := setKey{exerciseID, day.Unix(), setNumber}
	if _, ok := m.sets[key]; !ok {
		return false, nil
	}
	delete(m.sets, key)
	return true, nil
}

func (m *Memory) ListDaySets(_ context.Context, userID string, exerciseID int64, day time.Time) ([]entity.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.daySetsLocked(userID, exerciseID, day), nil
}

func (m *Memory) LastSession(_ context.Context, userID string, exerciseID int64) (*entity.LastSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oe, ok := m.exercises[exerciseID]; !ok || oe.owner != userID {
		return nil, nil
	}

	var lastDay, lastCompleted time.Time
	found := false
	for key, set := range m.sets {
		if key.exerciseID != exerciseID {
			continue
		}
		if !found || set.CompletedAt.After(lastCompleted) {
			found = true
			lastDay = set.Day
			lastCompleted = set.CompletedAt
		}
	}
	if !found {
		return nil, nil
	}

	daySets := m.daySetsLocked(userID, exerciseID, lastDay)
	compact := make([]entity.CompactSet, 0, len(daySets))
	for _, set := range daySets {
		compact = append(compact, entity.CompactSet{WeightKg: set.WeightKg, Reps: set.Reps})
	}
	return &entity.LastSession{Date: lastDay, Sets: compact}, nil
}

func (m *Memory) SetsBetween(_ context.Context, userID string, exerciseID int64, start, end *time.Time) ([]entity.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oe, ok := m.exercises[exerciseID]; !ok || oe.owner != userID {
		return nil, nil
	}

	var out []entity.Set
	for key, set := range m.sets {
		if key.exerciseID != exerciseID {
			continue
		}
		if start != nil && set.Day.Before(*start) {
			continue
		}
		if end != nil && set.Day.After(*end) {
			continue
		}
		out = append(out, set)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].SetNumber < out[j].SetNumber
	})
	return out, nil
}

func (m *Memory) ActivityCounts(_ context.Context, userID string, start, end time.Time) (map[time.Time]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[time.Time]int)
	for key, set := range m.sets {
		oe, ok := m.exercises[key.exerciseID]
		if !ok || oe.owner != userID {
			continue
		}
		if set.Day.Before(start) || set.Day.After(end) {
			continue
		}
		counts[set.Day]++
	}
	return counts, nil
}

func (m *Memory) daySetsLocked(userID string, exerciseID int64, day time.Time) []entity.Set {
	if oe, ok := m.exercises[exerciseID]; !ok || oe.owner != userID {
		return nil
	}

	var out []entity.Set
	for key, set := range m.sets {
		if key.exerciseID == exerciseID && set.Day.Equal(day) {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SetNumber < out[j].SetNumber })
	return out
}
