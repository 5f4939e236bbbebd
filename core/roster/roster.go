// Package roster defines the narrow interfaces through which the engine sees
// its external collaborators: the timetable of demand slots, the roster of
// eligible drivers and the sink the day's outcome is written back to.
package roster

import (
	"errors"

	"github.com/transitdepot/rosterd/core/model"
)

// ErrDayColumnMissing reports a roster with no entries at all for the target
// day. It is fatal for that day's run only.
var ErrDayColumnMissing = errors.New("roster: no entries for day")

// ScheduleSource yields the day's demand slots per shift class, in sequence
// order. Rows that fail to parse are skipped, not surfaced.
type ScheduleSource interface {
	Slots(day int, class model.ShiftClass) ([]model.ShiftSlot, error)
}

// RosterSource yields driver pools per day. Available lists drivers rostered
// for the class; Standby lists drivers on their day off who may be called in
// when the regular pool is exhausted; Drivers lists every driver known to the
// roster, for reporting.
type RosterSource interface {
	Available(day int, class model.ShiftClass) ([]model.DriverID, error)
	Standby(day int) ([]model.DriverID, error)
	Drivers() ([]model.DriverID, error)
}

// SlotWriter receives per-slot outcomes through the slot's external handle.
// Writes accumulate during the day; Flush commits them once the day is done.
type SlotWriter interface {
	WriteOutcome(ref model.SlotRef, a model.Assignment) error
	WriteUncovered(ref model.SlotRef, reason string) error
	Flush(day int) error
}
