// Package entity holds the workout domain model: exercises, weekday plans,
// logged sets, and the analytics types derived from them.
package entity

import "time"

// Exercise is a movement the owner tracks. Archived exercises keep their
// logged history but disappear from listings and plans.
type Exercise struct {
	ID          int64
	Name        string
	Description string
	Archived    bool
	CreatedAt   time.Time
}

// Plan is a named workout template, optionally pinned to a weekday
// (0 = Sunday .. 6 = Saturday, nil = unscheduled).
type Plan struct {
	ID        int64
	Name      string
	DayOfWeek *int
}

// PlanExercise is an exercise slot inside a plan, in display order.
type PlanExercise struct {
	ExerciseID   int64
	Name         string
	TargetSets   int
	DisplayOrder int
}

// PopulatedExercise is a plan slot enriched with the most recent session of
// that exercise, so the owner can see what to beat today.
type PopulatedExercise struct {
	ExerciseID  int64
	Name        string
	TargetSets  int
	LastSession *LastSession
}

// LastSession is the latest logged day for an exercise and its sets in
// set-number order.
type LastSession struct {
	Date time.Time
	Sets []CompactSet
}

// CompactSet is a weight/reps pair without bookkeeping fields.
type CompactSet struct {
	WeightKg float64
	Reps     int
}

// PopulatedPlan is a plan with its exercise slots resolved for display.
type PopulatedPlan struct {
	ID        int64
	Name      string
	DayOfWeek *int
	Exercises []PopulatedExercise
}

// Set is one logged set. A set is addressed by (exercise, day, set number);
// logging the same address again overwrites weight and reps.
type Set struct {
	ExerciseID  int64
	Day         time.Time
	SetNumber   int
	WeightKg    float64
	Reps        int
	CompletedAt time.Time
}

// ActivityDay is the number of sets logged on one calendar day. Days with no
// activity are reported with a zero count, never omitted.
type ActivityDay struct {
	Date     time.Time
	SetCount int
}

// MetricKind selects how a day's sets collapse into one graph value.
type MetricKind string

const (
	// MetricMaxWeight is the heaviest weight of the day.
	MetricMaxWeight MetricKind = "max_weight"
	// MetricSessionTotalVolume is the sum of weight*reps across the day.
	MetricSessionTotalVolume MetricKind = "session_total_volume"
	// MetricBestSetVolume is the largest single-set weight*reps of the day.
	MetricBestSetVolume MetricKind = "best_set_volume"
	// MetricEst1RM is the best Epley one-rep-max estimate of the day.
	MetricEst1RM MetricKind = "est_1rm"
)

// Valid reports whether m names a known metric.
func (m MetricKind) Valid() bool {
	switch m {
	case MetricMaxWeight, MetricSessionTotalVolume, MetricBestSetVolume, MetricEst1RM:
		return true
	}
	return false
}

// GraphPoint is one plotted value on an exercise progress graph.
type GraphPoint struct {
	Date  time.Time
	Value float64
}
