package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	corehistory "github.com/transitdepot/rosterd/core/history"
	"github.com/transitdepot/rosterd/core/model"
)

// SQLiteStore persists day histories to a SQLite database, one row per driver
// per day with the record stored as JSON.
type SQLiteStore struct {
	db *sql.DB
}

var _ corehistory.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS shift_history (
        day INTEGER NOT NULL,
        driver TEXT NOT NULL,
        record TEXT NOT NULL,
        PRIMARY KEY (day, driver)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns the day's history, empty when no rows exist for the day.
func (s *SQLiteStore) Load(ctx context.Context, day int) (model.DayHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT driver, record FROM shift_history WHERE day = ?`, day)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	h := model.DayHistory{}
	for rows.Next() {
		var driver, data string
		if err := rows.Scan(&driver, &data); err != nil {
			return nil, err
		}
		var rec model.HistoryRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decode record for driver %s day %d: %w", driver, day, err)
		}
		h[model.DriverID(driver)] = rec
	}
	return h, rows.Err()
}

// Save replaces the day's rows with h inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, day int, h model.DayHistory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_history WHERE day = ?`, day); err != nil {
		_ = tx.Rollback()
		return err
	}
	for driver, rec := range h {
		data, err := json.Marshal(rec)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shift_history (day, driver, record) VALUES (?, ?, ?)`,
			day, string(driver), string(data)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
