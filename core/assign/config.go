package assign

import (
	"fmt"

	"github.com/transitdepot/rosterd/core/shifttime"
)

// Config holds the rest and work-duration policy the engine applies. It is an
// immutable value handed to the engine at construction; the engine never reads
// global state.
type Config struct {
	RestPolicy     shifttime.Policy `json:"rest_policy"`
	RestFloorHours float64          `json:"rest_floor_hours"`
	MinWorkHours   float64          `json:"min_work_hours"`
	MaxWorkHours   float64          `json:"max_work_hours"`

	// AllowShortRest enables the override path that may place a candidate
	// whose rest requirement is not fully met. Off by default: it violates
	// the rest floor.
	AllowShortRest          bool    `json:"allow_short_rest"`
	ShortRestToleranceHours float64 `json:"short_rest_tolerance_hours"`
}

// SetDefaults fills unset fields with the standard policy.
func (c *Config) SetDefaults() {
	if c.RestPolicy == "" {
		c.RestPolicy = shifttime.PolicyMin12
	}
	if c.RestFloorHours == 0 {
		c.RestFloorHours = 12
	}
	if c.MinWorkHours == 0 {
		c.MinWorkHours = 6
	}
	if c.MaxWorkHours == 0 {
		c.MaxWorkHours = 10
	}
	if c.ShortRestToleranceHours == 0 {
		c.ShortRestToleranceHours = 3
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if !c.RestPolicy.Valid() {
		return fmt.Errorf("rest_policy %q: must be %q or %q", c.RestPolicy, shifttime.PolicyDouble, shifttime.PolicyMin12)
	}
	if c.RestFloorHours < 0 {
		return fmt.Errorf("rest_floor_hours must not be negative")
	}
	if c.MinWorkHours <= 0 {
		return fmt.Errorf("min_work_hours must be positive")
	}
	if c.MaxWorkHours < c.MinWorkHours {
		return fmt.Errorf("max_work_hours %.1f below min_work_hours %.1f", c.MaxWorkHours, c.MinWorkHours)
	}
	if c.ShortRestToleranceHours < 0 {
		return fmt.Errorf("short_rest_tolerance_hours must not be negative")
	}
	return nil
}
