// Package metrics defines the events the planner emits and the sink interface
// observability adapters implement.
package metrics

import (
	"time"

	"github.com/transitdepot/rosterd/core/model"
)

// AssignmentEvent records one driver placed on one slot.
type AssignmentEvent struct {
	RunID         string
	Day           int
	Class         model.ShiftClass
	Seq           int
	Driver        model.DriverID
	DurationHours float64
	Delayed       bool
	ShortRest     bool
	Time          time.Time
}

// UncoveredEvent records a slot left without a driver.
type UncoveredEvent struct {
	RunID  string
	Day    int
	Class  model.ShiftClass
	Seq    int
	Reason string
	Time   time.Time
}

// DayEvent summarizes one completed day.
type DayEvent struct {
	RunID    string
	Day      int
	Assigned int
	Unmet    int
	PoolSize map[model.ShiftClass]int
	Time     time.Time
}

// Sink receives planner events. Implementations must tolerate being called
// from a single goroutine only; the planner is strictly sequential.
type Sink interface {
	RecordAssignment(AssignmentEvent) error
	RecordUncovered(UncoveredEvent) error
	RecordDay(DayEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordAssignment(AssignmentEvent) error { return nil }
func (NopSink) RecordUncovered(UncoveredEvent) error   { return nil }
func (NopSink) RecordDay(DayEvent) error               { return nil }
