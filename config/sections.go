package config

import (
	"fmt"
	"time"
)

// HorizonConfig pins the scheduling horizon to a concrete month so date
// arithmetic never touches the wall clock.
type HorizonConfig struct {
	Days  int `json:"days"`
	Year  int `json:"year"`
	Month int `json:"month"`
	Route int `json:"route"`
	// WeekendStandby allows calling in drivers on their day off when a slot
	// cannot otherwise be covered.
	WeekendStandby bool   `json:"weekend_standby"`
	OutputDir      string `json:"output_dir"`
}

// SetDefaults applies a 30-day horizon.
func (c *HorizonConfig) SetDefaults() {
	if c.Days == 0 {
		c.Days = 30
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
}

// Validate checks the horizon describes a real month span.
func (c HorizonConfig) Validate() error {
	if c.Days < 1 || c.Days > 31 {
		return fmt.Errorf("days %d out of range 1..31", c.Days)
	}
	if c.Year < 1 {
		return fmt.Errorf("year is required")
	}
	if c.Month < 1 || c.Month > 12 {
		return fmt.Errorf("month %d out of range 1..12", c.Month)
	}
	return nil
}

// MonthOf returns the configured month.
func (c HorizonConfig) MonthOf() time.Month { return time.Month(c.Month) }

// RosterConfig points at the timetable and duty-grid documents.
type RosterConfig struct {
	TimetablePath string `json:"timetable_path"`
	RosterPath    string `json:"roster_path"`
}

// Validate checks both paths are set.
func (c RosterConfig) Validate() error {
	if c.TimetablePath == "" {
		return fmt.Errorf("timetable_path is required")
	}
	if c.RosterPath == "" {
		return fmt.Errorf("roster_path is required")
	}
	return nil
}

// HistoryConfig selects the history store backend.
type HistoryConfig struct {
	// Backend is "json" (one file per day) or "sqlite".
	Backend string `json:"backend"`
	// Path is the directory for the json backend or the database file for
	// sqlite.
	Path string `json:"path"`
}

// SetDefaults picks the json directory store.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "json"
	}
	if c.Path == "" {
		c.Path = "history_json"
	}
}

// Validate checks the backend is known.
func (c HistoryConfig) Validate() error {
	if c.Backend != "json" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown history backend %q", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// AbsenceConfig selects the absence provider, chosen explicitly by the
// operator. There is no fallback between backends.
type AbsenceConfig struct {
	// Backend is "none", "json" or "sqlite".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults disables the absence channel.
func (c *AbsenceConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
}

// Validate checks the backend is known and backed by a path where needed.
func (c AbsenceConfig) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "json", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required for backend %q", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("unknown absence backend %q", c.Backend)
	}
}

// MetricsConfig enables the observability sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies the standard scrape port.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}
