package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/transitdepot/rosterd/core/metrics"
	"github.com/transitdepot/rosterd/core/model"
	"github.com/transitdepot/rosterd/internal/eventbus"
)

type countingSink struct {
	mu          sync.Mutex
	assignments int
	uncovered   int
	days        int
	err         error
}

func (c *countingSink) RecordAssignment(coremetrics.AssignmentEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignments++
	return c.err
}

func (c *countingSink) RecordUncovered(coremetrics.UncoveredEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uncovered++
	return c.err
}

func (c *countingSink) RecordDay(coremetrics.DayEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days++
	return c.err
}

func (c *countingSink) counts() (int, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assignments, c.uncovered, c.days
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordAssignment(coremetrics.AssignmentEvent{}))
	require.NoError(t, m.RecordUncovered(coremetrics.UncoveredEvent{}))
	require.NoError(t, m.RecordDay(coremetrics.DayEvent{}))

	for _, s := range []*countingSink{a, b} {
		as, un, ds := s.counts()
		assert.Equal(t, 1, as)
		assert.Equal(t, 1, un)
		assert.Equal(t, 1, ds)
	}
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	failing := &countingSink{err: errors.New("write failed")}
	ok := &countingSink{}
	m := NewMultiSink(failing, ok)

	err := m.RecordAssignment(coremetrics.AssignmentEvent{})
	assert.Error(t, err)
	as, _, _ := ok.counts()
	assert.Equal(t, 1, as, "healthy sink still receives the event")
}

func TestPromSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordAssignment(coremetrics.AssignmentEvent{
		Class: model.ShiftFirst, Driver: "1001", DurationHours: 8.5, Delayed: true,
	}))
	require.NoError(t, sink.RecordUncovered(coremetrics.UncoveredEvent{
		Class: model.ShiftSecond, Reason: "all_resting",
	}))
	require.NoError(t, sink.RecordDay(coremetrics.DayEvent{
		PoolSize: map[model.ShiftClass]int{model.ShiftFirst: 3},
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.assigned.WithLabelValues("first", "true", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.uncovered.WithLabelValues("second", "all_resting")))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.poolSize.WithLabelValues("first")))

	// Double registration on the same registry must fail.
	_, err = NewPromSink(reg)
	assert.Error(t, err)
}

func TestEventCollector(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &countingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartEventCollector(ctx, bus, sink)
	bus.Publish(coremetrics.AssignmentEvent{Driver: "1001"})
	bus.Publish(coremetrics.UncoveredEvent{Reason: "all_resting"})
	bus.Publish(coremetrics.DayEvent{Day: 1})

	require.Eventually(t, func() bool {
		as, un, ds := sink.counts()
		return as == 1 && un == 1 && ds == 1
	}, time.Second, 10*time.Millisecond)
}
