// Package absence defines the provider capability the engine uses to exclude
// drivers marked absent for a day and shift. One implementation exists per
// backing store; the caller picks one explicitly, there is no runtime
// fallback between stores.
package absence

import (
	"context"

	"github.com/transitdepot/rosterd/core/model"
)

// Reason explains why a driver is absent.
type Reason string

const (
	ReasonVacation   Reason = "vacation"
	ReasonSick       Reason = "sick"
	ReasonUnexcused  Reason = "unexcused"
	ReasonUnassigned Reason = ""
)

// Entry is one manual absence record.
type Entry struct {
	Driver model.DriverID   `json:"tab_no"`
	Class  model.ShiftClass `json:"shift"`
	Day    int              `json:"day"`
	Reason Reason           `json:"reason"`
}

// Provider lists the drivers absent for a given day and shift class.
type Provider interface {
	Absent(ctx context.Context, day int, class model.ShiftClass) (map[model.DriverID]Reason, error)
}

// Nop is the provider used when no absence channel is configured; selection
// runs unconstrained by manual absences.
type Nop struct{}

func (Nop) Absent(context.Context, int, model.ShiftClass) (map[model.DriverID]Reason, error) {
	return nil, nil
}
