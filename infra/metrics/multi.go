package metrics

import (
	"errors"

	coremetrics "github.com/transitdepot/rosterd/core/metrics"
)

// MultiSink fans planner events out to several sinks. Errors are joined, not
// short-circuited, so one failing sink does not starve the others.
type MultiSink struct {
	sinks []coremetrics.Sink
}

var _ coremetrics.Sink = (*MultiSink)(nil)

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordAssignment(ev))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordUncovered(ev coremetrics.UncoveredEvent) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordUncovered(ev))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordDay(ev coremetrics.DayEvent) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordDay(ev))
	}
	return errors.Join(errs...)
}
