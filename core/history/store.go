// Package history defines the per-day key-value store of driver shift
// outcomes. Day D's record set is written once at the end of day D and read
// back, immutably, while planning day D+1.
package history

import (
	"context"

	"github.com/transitdepot/rosterd/core/model"
)

// Store persists one DayHistory per day number. Load returns an empty history
// for a day that was never saved; day 0 is therefore always empty.
type Store interface {
	Load(ctx context.Context, day int) (model.DayHistory, error)
	Save(ctx context.Context, day int, h model.DayHistory) error
}
