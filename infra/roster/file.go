// Package roster provides file-backed implementations of the engine's
// schedule, roster and outcome interfaces. A timetable document stands in for
// the external spreadsheet: rows of raw start/end cells per shift class,
// parsed with the same tolerance as the original sheets.
package roster

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/transitdepot/rosterd/core/logger"
	"github.com/transitdepot/rosterd/core/model"
	"github.com/transitdepot/rosterd/core/plan"
	coreroster "github.com/transitdepot/rosterd/core/roster"
	"github.com/transitdepot/rosterd/core/shifttime"
)

// StandbyCode marks a day off in the roster grid. Drivers with this code form
// the weekend standby pool.
const StandbyCode = "off"

type windowDoc struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

type rowDoc struct {
	First  *windowDoc `yaml:"first" json:"first"`
	Second *windowDoc `yaml:"second" json:"second"`
}

type timetableDoc struct {
	Route   int      `yaml:"route" json:"route"`
	Workday []rowDoc `yaml:"workday" json:"workday"`
	Weekend []rowDoc `yaml:"weekend" json:"weekend"`
}

// ScheduleFile reads demand slots from a YAML timetable document with a
// workday and an optional weekend variant.
type ScheduleFile struct {
	doc timetableDoc
	cal plan.Calendar
	log logger.Logger
}

var _ coreroster.ScheduleSource = (*ScheduleFile)(nil)

// NewScheduleFile loads the timetable at path.
func NewScheduleFile(path string, cal plan.Calendar, log logger.Logger) (*ScheduleFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timetable: %w", err)
	}
	var doc timetableDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse timetable: %w", err)
	}
	if len(doc.Workday) == 0 {
		return nil, fmt.Errorf("timetable %s: no workday rows", path)
	}
	return &ScheduleFile{doc: doc, cal: cal, log: log}, nil
}

// Route returns the route number the timetable belongs to.
func (s *ScheduleFile) Route() int { return s.doc.Route }

// Slots returns the day's demand slots for the class in row order. A row
// whose cells do not parse as two well-formed times yields no slot.
func (s *ScheduleFile) Slots(day int, class model.ShiftClass) ([]model.ShiftSlot, error) {
	if !class.Valid() {
		return nil, fmt.Errorf("unknown shift class %d", int(class))
	}
	rows := s.doc.Workday
	if s.cal.IsWeekend(day) && len(s.doc.Weekend) > 0 {
		rows = s.doc.Weekend
	}
	date := s.cal.Date(day)
	var slots []model.ShiftSlot
	for i, row := range rows {
		seq := i + 1
		cell := row.First
		if class == model.ShiftSecond {
			cell = row.Second
		}
		if cell == nil {
			continue
		}
		w, ok := shifttime.ParseWindow(cell.Start, cell.End)
		if !ok {
			s.warnf("day %d row %d %s shift: unparseable cells %q/%q, row skipped",
				day, seq, class, cell.Start, cell.End)
			continue
		}
		start, end := w.Anchor(date)
		slots = append(slots, model.ShiftSlot{
			Seq:             seq,
			Class:           class,
			Start:           start,
			End:             end,
			DurationHours:   w.DurationHours,
			CrossesMidnight: w.CrossesMidnight,
			Ref:             model.SlotRef{Row: seq, Class: class},
		})
	}
	return slots, nil
}

func (s *ScheduleFile) warnf(format string, args ...any) {
	if s.log != nil {
		s.log.Warnf(format, args...)
	}
}

type driverDoc struct {
	ID      string         `yaml:"id" json:"id"`
	Pattern string         `yaml:"pattern" json:"pattern"`
	Days    map[int]string `yaml:"days" json:"days"`
}

type rosterDoc struct {
	Drivers []driverDoc `yaml:"drivers" json:"drivers"`
}

// RosterFile reads the driver duty grid from a YAML document: per driver, a
// map of day number to status code ("1"/"2" for the rostered shift class,
// "off" for a day off).
type RosterFile struct {
	doc rosterDoc
}

var _ coreroster.RosterSource = (*RosterFile)(nil)

// NewRosterFile loads the roster at path.
func NewRosterFile(path string) (*RosterFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var doc rosterDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(doc.Drivers) == 0 {
		return nil, fmt.Errorf("roster %s: no drivers", path)
	}
	return &RosterFile{doc: doc}, nil
}

// Available lists drivers whose status for the day starts with the class
// digit. A day no driver has an entry for is a structural error.
func (r *RosterFile) Available(day int, class model.ShiftClass) ([]model.DriverID, error) {
	if err := r.checkDay(day); err != nil {
		return nil, err
	}
	prefix := fmt.Sprintf("%d", int(class))
	var out []model.DriverID
	for _, d := range r.doc.Drivers {
		status, ok := d.Days[day]
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(status), prefix) {
			out = append(out, model.DriverID(d.ID))
		}
	}
	return out, nil
}

// Standby lists drivers marked off for the day.
func (r *RosterFile) Standby(day int) ([]model.DriverID, error) {
	if err := r.checkDay(day); err != nil {
		return nil, err
	}
	var out []model.DriverID
	for _, d := range r.doc.Drivers {
		if strings.EqualFold(strings.TrimSpace(d.Days[day]), StandbyCode) {
			out = append(out, model.DriverID(d.ID))
		}
	}
	return out, nil
}

// Drivers lists every driver in the roster, in document order.
func (r *RosterFile) Drivers() ([]model.DriverID, error) {
	out := make([]model.DriverID, 0, len(r.doc.Drivers))
	for _, d := range r.doc.Drivers {
		out = append(out, model.DriverID(d.ID))
	}
	return out, nil
}

func (r *RosterFile) checkDay(day int) error {
	for _, d := range r.doc.Drivers {
		if _, ok := d.Days[day]; ok {
			return nil
		}
	}
	return fmt.Errorf("%w %d", coreroster.ErrDayColumnMissing, day)
}
