package usecase

import (
	"sort"

	"github.com/samber/lo"

	"github.com/liftlog/liftlog/internal/workout/entity"
)

// estimateOneRM applies the Epley formula. A single rep is already the max
// effort, so it passes through unchanged.
func estimateOneRM(weightKg float64, reps int) float64 {
	if reps <= 1 {
		return weightKg
	}
	return weightKg * (1.0 + float64(reps)/30.0)
}

func setVolume(set entity.Set) float64 {
	return set.WeightKg * float64(set.Reps)
}

// dayMetric collapses one day's sets into a single value.
func dayMetric(metric entity.MetricKind, sets []entity.Set) float64 {
	switch metric {
	case entity.MetricSessionTotalVolume:
		return lo.SumBy(sets, setVolume)
	case entity.MetricBestSetVolume:
		return lo.Max(lo.Map(sets, func(set entity.Set, _ int) float64 {
			return setVolume(set)
		}))
	case entity.MetricEst1RM:
		return lo.Max(lo.Map(sets, func(set entity.Set, _ int) float64 {
			return estimateOneRM(set.WeightKg, set.Reps)
		}))
	default: // MetricMaxWeight
		return lo.Max(lo.Map(sets, func(set entity.Set, _ int) float64 {
			return set.WeightKg
		}))
	}
}

// buildGraphPoints groups sets by day, collapses each day with the metric,
// and downsamples the chronological result to at most maxPoints.
func buildGraphPoints(sets []entity.Set, metric entity.MetricKind, maxPoints int) []entity.GraphPoint {
	if len(sets) == 0 || maxPoints <= 0 {
		return nil
	}

	grouped := lo.GroupBy(sets, func(set entity.Set) int64 { return set.Day.Unix() })

	points := lo.MapToSlice(grouped, func(_ int64, daySets []entity.Set) entity.GraphPoint {
		return entity.GraphPoint{
			Date:  daySets[0].Day,
			Value: dayMetric(metric, daySets),
		}
	})
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return downsampleGraphPoints(points, maxPoints, metric)
}

// downsampleGraphPoints reduces a sorted series to at most maxPoints buckets.
// Peak metrics keep the bucket maximum; volume metrics accumulate.
func downsampleGraphPoints(points []entity.GraphPoint, maxPoints int, metric entity.MetricKind) []entity.GraphPoint {
	if len(points) == 0 || maxPoints <= 0 {
		return nil
	}
	if len(points) <= maxPoints {
		return points
	}

	bucketSize := (len(points) + maxPoints - 1) / maxPoints

	return lo.Map(lo.Chunk(points, bucketSize), func(bucket []entity.GraphPoint, _ int) entity.GraphPoint {
		value := lo.SumBy(bucket, func(p entity.GraphPoint) float64 { return p.Value })
		if metric == entity.MetricMaxWeight || metric == entity.MetricEst1RM {
			value = lo.Max(lo.Map(bucket, func(p entity.GraphPoint, _ int) float64 { return p.Value }))
		}

		return entity.GraphPoint{Date: bucket[0].Date, Value: value}
	})
}
