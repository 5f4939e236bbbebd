package shifttime

import (
	"fmt"
	"time"

	"github.com/transitdepot/rosterd/core/model"
)

// Policy selects how the required minimum rest before a shift is derived from
// the previous shift's duration.
type Policy string

const (
	// PolicyDouble requires rest of exactly twice the previous duration.
	PolicyDouble Policy = "double"
	// PolicyMin12 requires max(twice the previous duration, a fixed floor).
	PolicyMin12 Policy = "min12"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool { return p == PolicyDouble || p == PolicyMin12 }

// OverlapToleranceHours bounds how negative a reconstructed rest may be before
// the candidate is treated as physically overlapping the target shift.
const OverlapToleranceHours = 0.5

// ReconstructLastEnd derives the concrete end instant of the shift described
// by rec, relative to a target start. The record carries no date stamp: the
// end time-of-day is anchored to the calendar date immediately preceding the
// target start's date, plus one day when the shift crossed midnight.
func ReconstructLastEnd(rec model.HistoryRecord, targetStart time.Time) (time.Time, error) {
	end, ok := ParseTimeOfDay(rec.End)
	if !ok {
		return time.Time{}, fmt.Errorf("history end %q: not a time", rec.End)
	}
	base := targetStart.AddDate(0, 0, -1)
	if rec.NextDay {
		base = targetStart
	}
	return end.At(base), nil
}

// RestHours computes the hours of rest that will have elapsed between the
// recorded last shift end and targetStart, rounded to one decimal place.
// A result more negative than -OverlapToleranceHours means the shifts
// physically overlap.
func RestHours(rec model.HistoryRecord, targetStart time.Time) (float64, error) {
	end, err := ReconstructLastEnd(rec, targetStart)
	if err != nil {
		return 0, err
	}
	return Round1(targetStart.Sub(end).Hours()), nil
}

// RequiredRest returns the minimum rest in hours demanded by the policy after
// a shift of the given duration.
func RequiredRest(p Policy, lastDurationHours, floorHours float64) float64 {
	needed := lastDurationHours * 2
	if p == PolicyMin12 && needed < floorHours {
		needed = floorHours
	}
	return needed
}

// RestBetween computes, for the cross-day report, the rest between a shift
// ending on day and the next day's shift start. endDay is the calendar date
// the ending shift started on.
func RestBetween(rec model.HistoryRecord, endDay time.Time, nextStart string) (float64, error) {
	end, ok := ParseTimeOfDay(rec.End)
	if !ok {
		return 0, fmt.Errorf("history end %q: not a time", rec.End)
	}
	start, ok := ParseTimeOfDay(nextStart)
	if !ok {
		return 0, fmt.Errorf("next start %q: not a time", nextStart)
	}
	endAt := end.At(endDay)
	if rec.NextDay {
		endAt = endAt.AddDate(0, 0, 1)
	}
	startAt := start.At(endDay.AddDate(0, 0, 1))
	// A next-day start time earlier than the reconstructed end means the new
	// shift begins one more date forward.
	for !startAt.After(endAt) {
		startAt = startAt.AddDate(0, 0, 1)
	}
	return Round1(startAt.Sub(endAt).Hours()), nil
}
