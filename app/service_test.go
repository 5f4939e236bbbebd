package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitdepot/rosterd/config"
	coremetrics "github.com/transitdepot/rosterd/core/metrics"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "timetable.yaml", `route: 45
workday:
  - first: {start: "05:30", end: "14:10"}
`)
	writeFile(t, dir, "roster.yaml", `drivers:
  - id: "101"
    days: {1: "1", 2: "1"}
  - id: "102"
    days: {1: "1", 2: "1"}
`)
	cfgPath := writeFile(t, dir, "config.yaml", fmt.Sprintf(`horizon:
  days: 2
  year: 2025
  month: 3
  route: 45
  output_dir: %q
roster:
  timetable_path: %q
  roster_path: %q
history:
  backend: json
  path: %q
`, filepath.Join(dir, "out"), filepath.Join(dir, "timetable.yaml"),
		filepath.Join(dir, "roster.yaml"), filepath.Join(dir, "history")))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	svc, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestServiceRun(t *testing.T) {
	svc := testService(t)
	sub := svc.Bus().Subscribe()

	rep, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, 2, rep.Days)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, 2, rep.Summary.DriversAssigned)

	// The planner is sequential, so by the time Run returns every event of
	// the run sits in the subscriber's buffer.
	var assignments, days int
	for len(sub) > 0 {
		switch (<-sub).(type) {
		case coremetrics.AssignmentEvent:
			assignments++
		case coremetrics.DayEvent:
			days++
		}
	}
	assert.Equal(t, 2, assignments)
	assert.Equal(t, 2, days)
}

func TestServicePlanDay(t *testing.T) {
	svc := testService(t)

	res, err := svc.PlanDay(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Day)
	assert.Len(t, res.History, 1)
}
