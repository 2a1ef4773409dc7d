package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/workout/entity"
)

type ActivityInput struct {
	// Start and End bound the range inclusively; zero values default to the
	// last defaultActivityDays days ending today.
	Start time.Time
	End   time.Time
}

// ActivityDays returns a set count for every day in the range. Quiet days
// are present with a zero count so the caller can render a contiguous
// calendar strip.
func (s *Usecase) ActivityDays(ctx context.Context, in ActivityInput) ([]entity.ActivityDay, error) {
	identity, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}

	end := in.End
	if end.IsZero() {
		end = s.clock.Now()
	}
	start := in.Start
	if start.IsZero() {
		start = end.AddDate(0, 0, -(defaultActivityDays - 1))
	}

	startDay, endDay := day(start), day(end)
	if startDay.After(endDay) {
		return nil, goerror.NewInvalidFormat("start must be before end")
	}

	counts, err := s.repoDB.ActivityCounts(ctx, identity.UserID, startDay, endDay)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo activity counts", "user_id", identity.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Re-key through day() so repository timestamps always hit the lookup.
	normalized := make(map[time.Time]int, len(counts))
	for at, count := range counts {
		normalized[day(at.UTC())] = count
	}

	days := make([]entity.ActivityDay, 0, int(endDay.Sub(startDay).Hours()/24)+1)
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		days = append(days, entity.ActivityDay{Date: d, SetCount: normalized[d]})
	}

	return days, nil
}
