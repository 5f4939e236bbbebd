package assign

import (
	"time"

	"github.com/transitdepot/rosterd/core/model"
)

// Candidate is a driver classified as fully rested for a slot.
type Candidate struct {
	Driver model.DriverID
	// HasHistory is false for drivers never seen before; they carry no rest
	// constraint and a zero LastEnd.
	HasHistory bool
	// LastEnd is the reconstructed end of the previous shift.
	LastEnd time.Time
	// PrevClass is the shift class worked on the preceding day, valid only
	// when HasHistory is set.
	PrevClass model.ShiftClass
	RestHours float64
}

// Comparator orders fully rested candidates for a slot. Less reports whether a
// should be picked before b for a slot of the given class.
type Comparator interface {
	Less(a, b Candidate, class model.ShiftClass) bool
}

// StickyLongestRest is the default preference order: a driver who worked the
// same shift class yesterday comes first, ties broken by the earliest last
// shift end (most accumulated idle time), then by driver ID so the order is
// reproducible.
type StickyLongestRest struct{}

func (StickyLongestRest) Less(a, b Candidate, class model.ShiftClass) bool {
	as := a.HasHistory && a.PrevClass == class
	bs := b.HasHistory && b.PrevClass == class
	if as != bs {
		return as
	}
	if !a.LastEnd.Equal(b.LastEnd) {
		return a.LastEnd.Before(b.LastEnd)
	}
	return a.Driver < b.Driver
}

// LongestRestOnly ignores shift-class stickiness and prefers whoever has been
// idle longest. Kept as an alternative tie-break policy.
type LongestRestOnly struct{}

func (LongestRestOnly) Less(a, b Candidate, _ model.ShiftClass) bool {
	if !a.LastEnd.Equal(b.LastEnd) {
		return a.LastEnd.Before(b.LastEnd)
	}
	return a.Driver < b.Driver
}
