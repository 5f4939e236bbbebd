// Package assign implements candidate selection and slot assignment under the
// rest constraint: it partitions a slot's candidate pool into fully rested,
// flexible and banned drivers, ranks them and realizes the assigned start,
// end and duration.
package assign

import (
	"sort"
	"time"

	"github.com/transitdepot/rosterd/core/logger"
	"github.com/transitdepot/rosterd/core/model"
	"github.com/transitdepot/rosterd/core/shifttime"
)

const durationEpsilon = 1e-6

// Outcome describes why a slot was or was not covered.
type Outcome int

const (
	// Assigned means a driver was placed on the slot.
	Assigned Outcome = iota
	// NoCandidates means the pool was empty after exclusions.
	NoCandidates
	// SlotTooShort means the slot span cannot hold the minimum work duration
	// for any driver.
	SlotTooShort
	// AllResting means every candidate was resting and no flexible or
	// override placement fit the slot.
	AllResting
)

func (o Outcome) String() string {
	switch o {
	case Assigned:
		return "assigned"
	case NoCandidates:
		return "no_candidates"
	case SlotTooShort:
		return "slot_too_short"
	case AllResting:
		return "all_resting"
	default:
		return "unknown"
	}
}

// FlexCandidate is a driver who becomes eligible only after the slot's nominal
// start but early enough to still work the minimum duration inside the slot.
type FlexCandidate struct {
	Driver        model.DriverID
	EarliestStart time.Time
	WaitHours     float64
}

// Partition holds the three disjoint classification sets for one slot.
// Flexible and Banned are sorted by ascending wait.
type Partition struct {
	Rested   []Candidate
	Flexible []FlexCandidate
	Banned   []FlexCandidate
}

// Engine selects one driver per slot. The ranking rule is pluggable; the rest
// of the algorithm is fixed.
type Engine struct {
	cfg Config
	cmp Comparator
	log logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithComparator replaces the default ranking rule.
func WithComparator(cmp Comparator) Option {
	return func(e *Engine) { e.cmp = cmp }
}

// WithLogger attaches a logger for per-candidate diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine with the given policy configuration.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, cmp: StickyLongestRest{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's policy configuration.
func (e *Engine) Config() Config { return e.cfg }

// Partition classifies every pool driver for the slot. Drivers whose
// reconstructed rest is negative beyond the overlap tolerance are excluded
// silently; drivers with no history are fully rested and unconstrained.
func (e *Engine) Partition(slot model.ShiftSlot, pool []model.DriverID, history model.DayHistory) Partition {
	var p Partition
	for _, drv := range pool {
		rec, ok := history[drv]
		if !ok {
			p.Rested = append(p.Rested, Candidate{Driver: drv})
			continue
		}
		lastEnd, err := shifttime.ReconstructLastEnd(rec, slot.Start)
		if err != nil {
			// Unreadable history constrains nothing.
			e.debugf("driver %s: %v", drv, err)
			p.Rested = append(p.Rested, Candidate{Driver: drv})
			continue
		}
		rest := shifttime.Round1(slot.Start.Sub(lastEnd).Hours())
		if rest < -shifttime.OverlapToleranceHours {
			e.debugf("driver %s: overlap, rest %.1fh", drv, rest)
			continue
		}
		needed := shifttime.RequiredRest(e.cfg.RestPolicy, rec.DurationHours, e.cfg.RestFloorHours)
		earliest := lastEnd.Add(time.Duration(needed * float64(time.Hour)))
		if !earliest.After(slot.Start) {
			p.Rested = append(p.Rested, Candidate{
				Driver:     drv,
				HasHistory: true,
				LastEnd:    lastEnd,
				PrevClass:  rec.Class,
				RestHours:  rest,
			})
			continue
		}
		wait := shifttime.Round1(earliest.Sub(slot.Start).Hours())
		remaining := slot.End.Sub(earliest).Hours()
		fc := FlexCandidate{Driver: drv, EarliestStart: earliest, WaitHours: wait}
		if remaining+durationEpsilon >= e.cfg.MinWorkHours {
			p.Flexible = append(p.Flexible, fc)
		} else {
			p.Banned = append(p.Banned, fc)
		}
	}
	sort.Slice(p.Rested, func(i, j int) bool { return e.cmp.Less(p.Rested[i], p.Rested[j], slot.Class) })
	sortByWait(p.Flexible)
	sortByWait(p.Banned)
	return p
}

func sortByWait(list []FlexCandidate) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].WaitHours != list[j].WaitHours {
			return list[i].WaitHours < list[j].WaitHours
		}
		return list[i].Driver < list[j].Driver
	})
}

// Pick selects at most one driver for the slot and realizes its timing.
// history must already combine the previous day with decisions made earlier
// today; pool must already exclude absentees and drivers assigned today.
func (e *Engine) Pick(slot model.ShiftSlot, pool []model.DriverID, history model.DayHistory) (*model.Assignment, Outcome) {
	if slot.SpanHours()+durationEpsilon < e.cfg.MinWorkHours {
		return nil, SlotTooShort
	}
	if len(pool) == 0 {
		return nil, NoCandidates
	}
	p := e.Partition(slot, pool, history)

	if len(p.Rested) > 0 {
		c := p.Rested[0]
		return e.realize(c.Driver, slot.Start, slot, false, false), Assigned
	}
	if len(p.Flexible) > 0 {
		fc := p.Flexible[0]
		start := fc.EarliestStart
		if start.Before(slot.Start) {
			start = slot.Start
		}
		if slot.End.Sub(start).Hours()+durationEpsilon >= e.cfg.MinWorkHours {
			return e.realize(fc.Driver, start, slot, true, false), Assigned
		}
	}
	if e.cfg.AllowShortRest && len(p.Banned) > 0 && p.Banned[0].WaitHours <= e.cfg.ShortRestToleranceHours {
		return e.realize(p.Banned[0].Driver, slot.Start, slot, false, true), Assigned
	}
	if len(p.Rested)+len(p.Flexible)+len(p.Banned) == 0 {
		return nil, NoCandidates
	}
	return nil, AllResting
}

// realize computes the assigned end and duration: duration is capped at the
// configured maximum and the end never passes the slot's scheduled end.
func (e *Engine) realize(drv model.DriverID, start time.Time, slot model.ShiftSlot, delayed, shortRest bool) *model.Assignment {
	end := start.Add(time.Duration(e.cfg.MaxWorkHours * float64(time.Hour)))
	if end.After(slot.End) {
		end = slot.End
	}
	return &model.Assignment{
		Driver:        drv,
		Start:         start,
		End:           end,
		DurationHours: shifttime.Round2(end.Sub(start).Hours()),
		Delayed:       delayed,
		ShortRest:     shortRest,
	}
}

func (e *Engine) debugf(format string, args ...any) {
	if e.log != nil {
		e.log.Debugf(format, args...)
	}
}
