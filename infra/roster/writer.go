package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/transitdepot/rosterd/core/model"
	coreroster "github.com/transitdepot/rosterd/core/roster"
)

// Outcome is one written schedule cell.
type Outcome struct {
	Row    int              `json:"row"`
	Class  model.ShiftClass `json:"shift"`
	Driver model.DriverID   `json:"driver,omitempty"`
	Start  string           `json:"start,omitempty"`
	End    string           `json:"end,omitempty"`
	Marker string           `json:"marker,omitempty"`
}

type scheduleOut struct {
	Route    int       `json:"route"`
	Day      int       `json:"day"`
	Outcomes []Outcome `json:"outcomes"`
}

// FileSlotWriter accumulates slot outcomes and writes one JSON schedule file
// per day under dir. The original wrote the same cells back into a workbook
// copy; here the file is the workbook.
type FileSlotWriter struct {
	dir     string
	route   int
	pending []Outcome
}

var _ coreroster.SlotWriter = (*FileSlotWriter)(nil)

// NewFileSlotWriter creates the output directory and a writer for the route.
func NewFileSlotWriter(dir string, route int) (*FileSlotWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileSlotWriter{dir: dir, route: route}, nil
}

// WriteOutcome records the chosen driver for the slot.
func (w *FileSlotWriter) WriteOutcome(ref model.SlotRef, a model.Assignment) error {
	w.pending = append(w.pending, Outcome{
		Row:    ref.Row,
		Class:  ref.Class,
		Driver: a.Driver,
		Start:  a.Start.Format("15:04"),
		End:    a.End.Format("15:04"),
	})
	return nil
}

// WriteUncovered records the no-coverage marker for the slot.
func (w *FileSlotWriter) WriteUncovered(ref model.SlotRef, reason string) error {
	w.pending = append(w.pending, Outcome{Row: ref.Row, Class: ref.Class, Marker: reason})
	return nil
}

// Flush writes the day's accumulated outcomes to schedule_day_<day>.json and
// clears the buffer. Outcomes are ordered by class, then row. The buffer is
// cleared even when the write fails, so a failed day's rows never end up in
// the next day's file.
func (w *FileSlotWriter) Flush(day int) error {
	out := scheduleOut{Route: w.route, Day: day, Outcomes: w.pending}
	w.pending = nil
	sort.SliceStable(out.Outcomes, func(i, j int) bool {
		if out.Outcomes[i].Class != out.Outcomes[j].Class {
			return out.Outcomes[i].Class < out.Outcomes[j].Class
		}
		return out.Outcomes[i].Row < out.Outcomes[j].Row
	})
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return err
	}
	path := filepath.Join(w.dir, fmt.Sprintf("schedule_day_%d.json", day))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write schedule output: %w", err)
	}
	return nil
}
