package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitdepot/rosterd/core/shifttime"
)

const configYAML = `horizon:
  days: 30
  year: 2025
  month: 3
  route: 45
  output_dir: out
assign:
  rest_policy: double
  max_work_hours: 9
roster:
  timetable_path: timetable.yaml
  roster_path: roster.yaml
history:
  backend: sqlite
  path: history.db
absences:
  backend: json
  path: absences.json
metrics:
  prometheus_enabled: true
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", configYAML))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Horizon.Days)
	assert.Equal(t, time.March, cfg.Horizon.MonthOf())
	assert.Equal(t, 45, cfg.Horizon.Route)
	assert.Equal(t, "out", cfg.Horizon.OutputDir)

	assert.Equal(t, shifttime.PolicyDouble, cfg.Assign.RestPolicy)
	assert.Equal(t, 9.0, cfg.Assign.MaxWorkHours)
	// Untouched fields fall back to defaults.
	assert.Equal(t, 6.0, cfg.Assign.MinWorkHours)
	assert.Equal(t, 12.0, cfg.Assign.RestFloorHours)

	assert.Equal(t, "sqlite", cfg.History.Backend)
	assert.Equal(t, "json", cfg.Absences.Backend)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, "2112", cfg.Metrics.PrometheusPort)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("R_HORIZON__DAYS", "14")
	t.Setenv("R_HISTORY__BACKEND", "json")

	cfg, err := Load(writeConfig(t, "config.yaml", configYAML))
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Horizon.Days)
	assert.Equal(t, "json", cfg.History.Backend)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	// Missing roster paths.
	_, err := Load(writeConfig(t, "config.yaml", "horizon:\n  year: 2025\n  month: 3\n"))
	assert.Error(t, err)

	// Unknown extension.
	_, err = Load(writeConfig(t, "config.toml", configYAML))
	assert.Error(t, err)

	// Missing file.
	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestHorizonValidate(t *testing.T) {
	c := HorizonConfig{Days: 30, Year: 2025, Month: 3}
	assert.NoError(t, c.Validate())

	c.Days = 32
	assert.Error(t, c.Validate())
	c.Days = 30
	c.Month = 13
	assert.Error(t, c.Validate())
	c.Month = 3
	c.Year = 0
	assert.Error(t, c.Validate())
}

func TestHistoryValidate(t *testing.T) {
	c := HistoryConfig{}
	c.SetDefaults()
	assert.Equal(t, "json", c.Backend)
	assert.NoError(t, c.Validate())

	c.Backend = "redis"
	assert.Error(t, c.Validate())
}

func TestAbsenceValidate(t *testing.T) {
	c := AbsenceConfig{}
	c.SetDefaults()
	assert.Equal(t, "none", c.Backend)
	assert.NoError(t, c.Validate())

	c.Backend = "sqlite"
	assert.Error(t, c.Validate())
	c.Path = "dash.db"
	assert.NoError(t, c.Validate())
}
