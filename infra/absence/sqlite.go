package absence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	coreabsence "github.com/transitdepot/rosterd/core/absence"
	"github.com/transitdepot/rosterd/core/model"
)

// SQLiteProvider reads absences from the dashboard's database.
type SQLiteProvider struct {
	db *sql.DB
}

var _ coreabsence.Provider = (*SQLiteProvider)(nil)

// NewSQLiteProvider opens or creates the database at path and ensures schema.
func NewSQLiteProvider(path string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS absences (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        tab_no TEXT NOT NULL,
        shift INTEGER NOT NULL,
        day INTEGER NOT NULL,
        reason TEXT,
        created_at INTEGER
    );
    CREATE INDEX IF NOT EXISTS idx_absences_day_shift ON absences(day, shift);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteProvider{db: db}, nil
}

// Absent returns the drivers marked absent for the day and shift class.
func (p *SQLiteProvider) Absent(ctx context.Context, day int, class model.ShiftClass) (map[model.DriverID]coreabsence.Reason, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT tab_no, COALESCE(reason, '') FROM absences WHERE day = ? AND shift = ?`,
		day, int(class))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := map[model.DriverID]coreabsence.Reason{}
	for rows.Next() {
		var driver, reason string
		if err := rows.Scan(&driver, &reason); err != nil {
			return nil, err
		}
		if driver != "" {
			out[model.DriverID(driver)] = coreabsence.Reason(reason)
		}
	}
	return out, rows.Err()
}

// Add inserts an absence entry.
func (p *SQLiteProvider) Add(ctx context.Context, entry coreabsence.Entry) error {
	if !entry.Class.Valid() {
		return fmt.Errorf("absence entry: unknown shift class %d", int(entry.Class))
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO absences (tab_no, shift, day, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(entry.Driver), int(entry.Class), entry.Day, string(entry.Reason), time.Now().Unix())
	return err
}

// Close releases the underlying database handle.
func (p *SQLiteProvider) Close() error { return p.db.Close() }
