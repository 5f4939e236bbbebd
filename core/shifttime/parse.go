// Package shifttime implements the time arithmetic the assignment engine is
// built on: parsing of "HH:MM"-like schedule cells, reconstruction of a
// driver's last shift end across a day boundary and rest-hour computation.
// All computations take explicit dates; nothing in this package consults the
// wall clock.
package shifttime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// cellRe matches 1-2 hour digits, a separator and 2 minute digits. Schedule
// cells use ":", "." and "-" interchangeably.
var cellRe = regexp.MustCompile(`(\d{1,2})[:.\-](\d{2})`)

// TimeOfDay is an hour/minute pair without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return strconv.Itoa(t.Hour/10) + strconv.Itoa(t.Hour%10) + ":" +
		strconv.Itoa(t.Minute/10) + strconv.Itoa(t.Minute%10)
}

// At anchors the time of day to the given date.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// ParseTimeOfDay extracts a time of day from a raw schedule cell. Only the
// first whitespace-separated token is considered. Returns false when the cell
// does not hold a well-formed time.
func ParseTimeOfDay(cell string) (TimeOfDay, bool) {
	token := strings.TrimSpace(cell)
	if token == "" {
		return TimeOfDay{}, false
	}
	if fields := strings.Fields(token); len(fields) > 0 {
		token = fields[0]
	}
	m := cellRe.FindStringSubmatch(token)
	if m == nil {
		return TimeOfDay{}, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: h, Minute: min}, true
}

// Window is a parsed demand window. End earlier than Start means the window
// crosses midnight.
type Window struct {
	Start           TimeOfDay
	End             TimeOfDay
	CrossesMidnight bool
	DurationHours   float64
}

// ParseWindow parses a pair of schedule cells into a Window. A pair that does
// not yield two well-formed times produces no window; callers skip the row.
func ParseWindow(startCell, endCell string) (Window, bool) {
	start, ok := ParseTimeOfDay(startCell)
	if !ok {
		return Window{}, false
	}
	end, ok := ParseTimeOfDay(endCell)
	if !ok {
		return Window{}, false
	}
	startMin := start.Hour*60 + start.Minute
	endMin := end.Hour*60 + end.Minute
	crosses := endMin < startMin
	if crosses {
		endMin += 24 * 60
	}
	return Window{
		Start:           start,
		End:             end,
		CrossesMidnight: crosses,
		DurationHours:   Round2(float64(endMin-startMin) / 60),
	}, true
}

// Anchor returns the window's concrete start and end instants on the given
// date, with the end pushed to the next date when the window crosses midnight.
func (w Window) Anchor(date time.Time) (time.Time, time.Time) {
	start := w.Start.At(date)
	end := w.End.At(date)
	if w.CrossesMidnight {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// Round1 rounds to one decimal place, the precision rest hours are reported in.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }

// Round2 rounds to two decimal places, the precision durations are stored in.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }
