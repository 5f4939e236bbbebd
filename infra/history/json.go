// Package history provides the persistent stores for per-day shift history:
// a JSON file per day, matching the original on-disk layout, and a SQLite
// database for single-file durability.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	corehistory "github.com/transitdepot/rosterd/core/history"
	"github.com/transitdepot/rosterd/core/model"
)

// JSONStore keeps one history_<day>.json file per day under dir.
type JSONStore struct {
	dir string
}

var _ corehistory.Store = (*JSONStore)(nil)

// NewJSONStore creates dir if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(day int) string {
	return filepath.Join(s.dir, fmt.Sprintf("history_%d.json", day))
}

// Load returns the day's history, or an empty history when the day was never
// saved.
func (s *JSONStore) Load(_ context.Context, day int) (model.DayHistory, error) {
	raw, err := os.ReadFile(s.path(day))
	if errors.Is(err, fs.ErrNotExist) {
		return model.DayHistory{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history of day %d: %w", day, err)
	}
	var h model.DayHistory
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode history of day %d: %w", day, err)
	}
	return h, nil
}

// Save writes the day's history, replacing any previous file for that day.
func (s *JSONStore) Save(_ context.Context, day int, h model.DayHistory) error {
	data, err := json.MarshalIndent(h, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(day), data, 0o644); err != nil {
		return fmt.Errorf("write history of day %d: %w", day, err)
	}
	return nil
}
