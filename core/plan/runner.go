package plan

import (
	"context"
	"fmt"

	"github.com/transitdepot/rosterd/core/history"
	"github.com/transitdepot/rosterd/core/logger"
	"github.com/transitdepot/rosterd/core/model"
)

// Runner drives the Planner across the scheduling horizon. Day D's persisted
// history is day D+1's input; days are strictly sequential. Each day commits
// independently: a failed day leaves earlier days valid and is simply skipped,
// the next day then starts from whatever history exists for its predecessor.
type Runner struct {
	planner *Planner
	store   history.Store
	log     logger.Logger
}

// NewRunner creates a Runner over the given planner and history store.
func NewRunner(planner *Planner, store history.Store, log logger.Logger) *Runner {
	return &Runner{planner: planner, store: store, log: log}
}

// Run processes days 1..days. Day 1 sees an empty history, making every
// candidate fully rested. Returns the per-day results; failed days are
// reported in errs keyed by day number.
func (r *Runner) Run(ctx context.Context, days int) ([]DayResult, map[int]error, error) {
	if days <= 0 {
		return nil, nil, fmt.Errorf("runner: horizon must be positive, got %d", days)
	}
	results := make([]DayResult, 0, days)
	errs := map[int]error{}
	for day := 1; day <= days; day++ {
		if err := ctx.Err(); err != nil {
			return results, errs, err
		}
		prev, err := r.store.Load(ctx, day-1)
		if err != nil {
			errs[day] = fmt.Errorf("load history of day %d: %w", day-1, err)
			r.errorf("day %d: %v", day, errs[day])
			continue
		}
		res, err := r.planner.PlanDay(ctx, day, prev)
		if err != nil {
			errs[day] = err
			r.errorf("day %d failed: %v", day, err)
			continue
		}
		results = append(results, res)
	}
	if len(errs) == 0 {
		errs = nil
	}
	return results, errs, nil
}

func (r *Runner) errorf(format string, args ...any) {
	if r.log != nil {
		r.log.Errorf(format, args...)
	}
}

// HistoryByDay loads days 1..days from the store into a slice indexed by day
// number, with missing days empty. Used by the cross-day report.
func HistoryByDay(ctx context.Context, store history.Store, days int) (map[int]model.DayHistory, error) {
	out := make(map[int]model.DayHistory, days)
	for day := 1; day <= days; day++ {
		h, err := store.Load(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("load history of day %d: %w", day, err)
		}
		out[day] = h
	}
	return out, nil
}
