// Package absence implements the absence provider over its two backing
// stores: a JSON file of manual entries and a SQLite database. The caller
// selects one explicitly; the providers never fall back to each other.
package absence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	coreabsence "github.com/transitdepot/rosterd/core/absence"
	"github.com/transitdepot/rosterd/core/model"
)

// JSONProvider reads absence entries from a JSON file holding a list of
// {tab_no, shift, day, reason} objects. A missing file means no absences.
type JSONProvider struct {
	path string
}

var _ coreabsence.Provider = (*JSONProvider)(nil)

// NewJSONProvider creates a provider over the file at path.
func NewJSONProvider(path string) *JSONProvider {
	return &JSONProvider{path: path}
}

// Absent returns the drivers marked absent for the day and shift class.
func (p *JSONProvider) Absent(_ context.Context, day int, class model.ShiftClass) (map[model.DriverID]coreabsence.Reason, error) {
	entries, err := p.load()
	if err != nil {
		return nil, err
	}
	out := map[model.DriverID]coreabsence.Reason{}
	for _, e := range entries {
		if e.Day == day && e.Class == class && e.Driver != "" {
			out[e.Driver] = e.Reason
		}
	}
	return out, nil
}

// Add appends an entry to the file, creating it if needed.
func (p *JSONProvider) Add(entry coreabsence.Entry) error {
	if !entry.Class.Valid() {
		return fmt.Errorf("absence entry: unknown shift class %d", int(entry.Class))
	}
	if entry.Day < 1 {
		return fmt.Errorf("absence entry: day %d out of range", entry.Day)
	}
	entries, err := p.load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write absences: %w", err)
	}
	return nil
}

func (p *JSONProvider) load() ([]coreabsence.Entry, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read absences: %w", err)
	}
	var entries []coreabsence.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode absences: %w", err)
	}
	return entries, nil
}
