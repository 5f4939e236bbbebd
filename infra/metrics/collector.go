package metrics

import (
	"context"

	coremetrics "github.com/transitdepot/rosterd/core/metrics"
	"github.com/transitdepot/rosterd/internal/eventbus"
)

// StartEventCollector subscribes to the bus and forwards planner events to the
// sink. It stops when the context is cancelled or the bus closes. Used when a
// sink should observe a run it was not wired into directly.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case coremetrics.AssignmentEvent:
					_ = sink.RecordAssignment(e)
				case coremetrics.UncoveredEvent:
					_ = sink.RecordUncovered(e)
				case coremetrics.DayEvent:
					_ = sink.RecordDay(e)
				}
			}
		}
	}()
}
