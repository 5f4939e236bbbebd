// Package plan orchestrates the assignment engine over days: it loads the
// previous day's history, feeds each slot through candidate selection in a
// fixed order, persists the day's outcome and rolls the state forward across
// the scheduling horizon.
package plan

import (
	"context"
	"fmt"

	"github.com/transitdepot/rosterd/core/absence"
	"github.com/transitdepot/rosterd/core/assign"
	"github.com/transitdepot/rosterd/core/history"
	"github.com/transitdepot/rosterd/core/logger"
	"github.com/transitdepot/rosterd/core/metrics"
	"github.com/transitdepot/rosterd/core/model"
	"github.com/transitdepot/rosterd/core/roster"
	"github.com/transitdepot/rosterd/internal/eventbus"
)

// NoReserveMarker is the outcome written for a slot no driver could cover.
const NoReserveMarker = "NO_RESERVE"

// DayResult summarizes one day's run.
type DayResult struct {
	Day      int
	Assigned map[model.ShiftClass]int
	Unmet    map[model.ShiftClass]int
	History  model.DayHistory
}

// Planner runs one day at a time. It owns the day's mutable state (candidate
// pools, in-progress history log) exclusively for the duration of PlanDay.
type Planner struct {
	engine   *assign.Engine
	schedule roster.ScheduleSource
	roster   roster.RosterSource
	absences absence.Provider
	writer   roster.SlotWriter
	store    history.Store
	calendar Calendar

	// UseStandby consults the day-off standby pool when the regular pool
	// yields no coverage for a slot.
	UseStandby bool

	sink  metrics.Sink
	bus   eventbus.EventBus
	log   logger.Logger
	runID string
}

// NewPlanner wires a Planner. absences, sink, bus and log may be nil.
func NewPlanner(
	engine *assign.Engine,
	schedule roster.ScheduleSource,
	rosterSrc roster.RosterSource,
	absences absence.Provider,
	writer roster.SlotWriter,
	store history.Store,
	calendar Calendar,
	sink metrics.Sink,
	bus eventbus.EventBus,
	log logger.Logger,
	runID string,
) (*Planner, error) {
	if engine == nil || schedule == nil || rosterSrc == nil || writer == nil || store == nil {
		return nil, fmt.Errorf("planner: engine, schedule, roster, writer and store are required")
	}
	if absences == nil {
		absences = absence.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Planner{
		engine:   engine,
		schedule: schedule,
		roster:   rosterSrc,
		absences: absences,
		writer:   writer,
		store:    store,
		calendar: calendar,
		sink:     sink,
		bus:      bus,
		log:      log,
		runID:    runID,
	}, nil
}

// PlanDay processes every slot of the day: all first-shift slots in sequence
// order, then all second-shift slots. prev is the finalized history of the
// preceding day. A structural input problem (no roster entries for the day)
// or a persistence failure aborts the day without partial state; slot-level
// problems degrade to an uncovered outcome.
func (p *Planner) PlanDay(ctx context.Context, day int, prev model.DayHistory) (DayResult, error) {
	res := DayResult{
		Day:      day,
		Assigned: map[model.ShiftClass]int{},
		Unmet:    map[model.ShiftClass]int{},
		History:  model.DayHistory{},
	}

	slots := map[model.ShiftClass][]model.ShiftSlot{}
	pools := map[model.ShiftClass][]model.DriverID{}
	for _, class := range []model.ShiftClass{model.ShiftFirst, model.ShiftSecond} {
		s, err := p.schedule.Slots(day, class)
		if err != nil {
			return res, fmt.Errorf("day %d: slots for %s shift: %w", day, class, err)
		}
		slots[class] = s

		pool, err := p.roster.Available(day, class)
		if err != nil {
			return res, fmt.Errorf("day %d: roster for %s shift: %w", day, class, err)
		}
		absent, err := p.absences.Absent(ctx, day, class)
		if err != nil {
			return res, fmt.Errorf("day %d: absences for %s shift: %w", day, class, err)
		}
		pools[class] = subtract(pool, absent)
		p.infof("day %d %s shift: %d slots, %d candidates (%d absent)",
			day, class, len(s), len(pools[class]), len(pool)-len(pools[class]))
	}

	var standby []model.DriverID
	if p.UseStandby {
		var err error
		standby, err = p.roster.Standby(day)
		if err != nil {
			p.warnf("day %d: standby pool: %v", day, err)
		}
	}

	assignedToday := map[model.DriverID]bool{}
	for _, class := range []model.ShiftClass{model.ShiftFirst, model.ShiftSecond} {
		for _, slot := range slots[class] {
			combined := model.Merge(prev, res.History)
			a, outcome := p.engine.Pick(slot, exclude(pools[class], assignedToday), combined)
			if a == nil && p.UseStandby {
				a, outcome = p.engine.Pick(slot, exclude(standby, assignedToday), combined)
			}
			if a == nil {
				res.Unmet[class]++
				if err := p.writer.WriteUncovered(slot.Ref, NoReserveMarker); err != nil {
					return res, fmt.Errorf("day %d: write uncovered outcome: %w", day, err)
				}
				p.record(metrics.UncoveredEvent{
					RunID: p.runID, Day: day, Class: class, Seq: slot.Seq,
					Reason: outcome.String(), Time: slot.Start,
				})
				continue
			}

			res.Assigned[class]++
			assignedToday[a.Driver] = true
			pools[model.ShiftFirst] = remove(pools[model.ShiftFirst], a.Driver)
			pools[model.ShiftSecond] = remove(pools[model.ShiftSecond], a.Driver)
			res.History[a.Driver] = a.Record(class)

			if err := p.writer.WriteOutcome(slot.Ref, *a); err != nil {
				return res, fmt.Errorf("day %d: write outcome: %w", day, err)
			}
			p.record(metrics.AssignmentEvent{
				RunID: p.runID, Day: day, Class: class, Seq: slot.Seq,
				Driver: a.Driver, DurationHours: a.DurationHours,
				Delayed: a.Delayed, ShortRest: a.ShortRest, Time: a.Start,
			})
		}
	}

	if err := p.writer.Flush(day); err != nil {
		return res, fmt.Errorf("day %d: flush schedule output: %w", day, err)
	}
	if err := p.store.Save(ctx, day, res.History); err != nil {
		return res, fmt.Errorf("day %d: save history: %w", day, err)
	}

	ev := metrics.DayEvent{
		RunID:    p.runID,
		Day:      day,
		Assigned: res.Assigned[model.ShiftFirst] + res.Assigned[model.ShiftSecond],
		Unmet:    res.Unmet[model.ShiftFirst] + res.Unmet[model.ShiftSecond],
		PoolSize: map[model.ShiftClass]int{
			model.ShiftFirst:  len(pools[model.ShiftFirst]),
			model.ShiftSecond: len(pools[model.ShiftSecond]),
		},
		Time: p.calendar.Date(day),
	}
	p.record(ev)
	p.infof("day %d done: assigned 1st=%d 2nd=%d, unmet 1st=%d 2nd=%d",
		day, res.Assigned[model.ShiftFirst], res.Assigned[model.ShiftSecond],
		res.Unmet[model.ShiftFirst], res.Unmet[model.ShiftSecond])
	return res, nil
}

func (p *Planner) record(ev any) {
	switch e := ev.(type) {
	case metrics.AssignmentEvent:
		_ = p.sink.RecordAssignment(e)
	case metrics.UncoveredEvent:
		_ = p.sink.RecordUncovered(e)
	case metrics.DayEvent:
		_ = p.sink.RecordDay(e)
	}
	if p.bus != nil {
		p.bus.Publish(ev)
	}
}

func (p *Planner) infof(format string, args ...any) {
	if p.log != nil {
		p.log.Infof(format, args...)
	}
}

func (p *Planner) warnf(format string, args ...any) {
	if p.log != nil {
		p.log.Warnf(format, args...)
	}
}

func subtract(pool []model.DriverID, absent map[model.DriverID]absence.Reason) []model.DriverID {
	if len(absent) == 0 {
		return pool
	}
	out := pool[:0:0]
	for _, d := range pool {
		if _, gone := absent[d]; !gone {
			out = append(out, d)
		}
	}
	return out
}

func exclude(pool []model.DriverID, used map[model.DriverID]bool) []model.DriverID {
	out := make([]model.DriverID, 0, len(pool))
	for _, d := range pool {
		if !used[d] {
			out = append(out, d)
		}
	}
	return out
}

func remove(pool []model.DriverID, drv model.DriverID) []model.DriverID {
	for i, d := range pool {
		if d == drv {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}
