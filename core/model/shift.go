package model

import (
	"fmt"
	"time"
)

// DriverID identifies a driver by personnel number. It is looked up from the
// roster, never generated by the engine.
type DriverID string

// ShiftClass distinguishes the two daily duty patterns.
type ShiftClass int

const (
	ShiftFirst  ShiftClass = 1
	ShiftSecond ShiftClass = 2
)

func (c ShiftClass) String() string {
	switch c {
	case ShiftFirst:
		return "first"
	case ShiftSecond:
		return "second"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Valid reports whether c is one of the two known shift classes.
func (c ShiftClass) Valid() bool { return c == ShiftFirst || c == ShiftSecond }

// SlotRef is the handle used to write a slot's outcome back to the external
// schedule. Row is the sequence position of the demand row within its day.
type SlotRef struct {
	Row   int
	Class ShiftClass
}

// ShiftSlot is one demand window on a route for a given day. Immutable once
// read; Start and End are concrete instants anchored to the target date, with
// End on the following date when the window crosses midnight.
type ShiftSlot struct {
	Seq             int
	Class           ShiftClass
	Start           time.Time
	End             time.Time
	DurationHours   float64
	CrossesMidnight bool
	Ref             SlotRef
}

// SpanHours returns the scheduled slot span in hours.
func (s ShiftSlot) SpanHours() float64 { return s.End.Sub(s.Start).Hours() }

// HistoryRecord captures a driver's last recorded shift outcome. Times are
// stored as "HH:MM" strings without a date; NextDay marks a shift whose end
// time-of-day falls on the date after its start. Records are never mutated
// after the day they belong to has been persisted.
type HistoryRecord struct {
	Start         string     `json:"start_str"`
	End           string     `json:"end_str"`
	DurationHours float64    `json:"duration"`
	NextDay       bool       `json:"is_next_day"`
	Class         ShiftClass `json:"shift_code"`
	Note          string     `json:"note,omitempty"`
}

// DayHistory maps driver to that day's shift outcome.
type DayHistory map[DriverID]HistoryRecord

// Merge combines yesterday's history with today's in-progress log. Entries in
// today win.
func Merge(prev, today DayHistory) DayHistory {
	out := make(DayHistory, len(prev)+len(today))
	for id, rec := range prev {
		out[id] = rec
	}
	for id, rec := range today {
		out[id] = rec
	}
	return out
}

// Assignment is the realized outcome of placing one driver on one slot. It is
// ephemeral: it is folded into a HistoryRecord and the schedule output.
type Assignment struct {
	Driver        DriverID
	Start         time.Time
	End           time.Time
	DurationHours float64

	// Delayed marks a flexible start later than the slot's nominal start.
	Delayed bool
	// ShortRest marks an assignment drawn through the explicit override
	// path before the rest requirement was fully met.
	ShortRest bool
}

// Record converts the assignment into its persisted history form.
func (a Assignment) Record(class ShiftClass) HistoryRecord {
	note := ""
	if a.ShortRest {
		note = "short_rest"
	}
	return HistoryRecord{
		Start:         a.Start.Format("15:04"),
		End:           a.End.Format("15:04"),
		DurationHours: a.DurationHours,
		NextDay:       a.End.Day() != a.Start.Day(),
		Class:         class,
		Note:          note,
	}
}
