package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liftlog/liftlog/internal/workout/entity"
)

func dayAt(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return day
}

func TestEstimateOneRM(t *testing.T) {
	assert.Equal(t, 100.0, estimateOneRM(100.0, 1))
	assert.Equal(t, 120.0, estimateOneRM(120.0, 0))
	assert.InDelta(t, 116.666, estimateOneRM(100.0, 5), 0.01)
}

func TestDayMetric(t *testing.T) {
	sets := []entity.Set{
		{WeightKg: 100.0, Reps: 5},
		{WeightKg: 105.0, Reps: 3},
	}

	assert.Equal(t, 105.0, dayMetric(entity.MetricMaxWeight, sets))
	assert.Equal(t, 100.0*5+105.0*3, dayMetric(entity.MetricSessionTotalVolume, sets))
	assert.Equal(t, 100.0*5, dayMetric(entity.MetricBestSetVolume, sets))
	assert.Greater(t, dayMetric(entity.MetricEst1RM, sets), 105.0)
}

func TestBuildGraphPoints_GroupsByDay(t *testing.T) {
	day1 := dayAt(t, "2024-05-01")
	day2 := dayAt(t, "2024-05-08")
	sets := []entity.Set{
		{Day: day1, WeightKg: 100.0, Reps: 5},
		{Day: day1, WeightKg: 105.0, Reps: 3},
		{Day: day2, WeightKg: 110.0, Reps: 2},
	}

	points := buildGraphPoints(sets, entity.MetricMaxWeight, 50)

	assert.Len(t, points, 2)
	assert.Equal(t, day1, points[0].Date)
	assert.Equal(t, 105.0, points[0].Value)
	assert.Equal(t, day2, points[1].Date)
	assert.Equal(t, 110.0, points[1].Value)
}

func TestBuildGraphPoints_Downsamples(t *testing.T) {
	var sets []entity.Set
	for day := 1; day <= 6; day++ {
		sets = append(sets, entity.Set{
			Day:      time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
			WeightKg: 50.0 + float64(day),
			Reps:     5,
		})
	}

	points := buildGraphPoints(sets, entity.MetricMaxWeight, 2)

	assert.Len(t, points, 2)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Greater(t, points[1].Value, points[0].Value)
}

func TestDownsampleGraphPoints_SumsVolumeMetrics(t *testing.T) {
	points := []entity.GraphPoint{
		{Date: dayAt(t, "2024-06-01"), Value: 100.0},
		{Date: dayAt(t, "2024-06-02"), Value: 200.0},
		{Date: dayAt(t, "2024-06-03"), Value: 50.0},
		{Date: dayAt(t, "2024-06-04"), Value: 75.0},
	}

	reduced := downsampleGraphPoints(points, 2, entity.MetricSessionTotalVolume)

	assert.Len(t, reduced, 2)
	assert.Equal(t, 300.0, reduced[0].Value)
	assert.Equal(t, 125.0, reduced[1].Value)
}

func TestDownsampleGraphPoints_ShortSeriesUntouched(t *testing.T) {
	points := []entity.GraphPoint{
		{Date: dayAt(t, "2024-06-01"), Value: 100.0},
		{Date: dayAt(t, "2024-06-02"), Value: 90.0},
	}

	reduced := downsampleGraphPoints(points, 50, entity.MetricMaxWeight)

	assert.Equal(t, points, reduced)
}

func TestBuildGraphPoints_Empty(t *testing.T) {
	assert.Empty(t, buildGraphPoints(nil, entity.MetricMaxWeight, 50))
	assert.Empty(t, buildGraphPoints([]entity.Set{{Day: dayAt(t, "2024-06-01")}}, entity.MetricMaxWeight, 0))
}
