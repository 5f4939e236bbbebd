package metrics

import (
	"context"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/transitdepot/rosterd/core/metrics"
	"github.com/transitdepot/rosterd/infra/logger"
)

// InfluxSink writes planner events to an InfluxDB instance.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

var _ coremetrics.Sink = (*InfluxSink)(nil)

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClient(base, token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// when the health check fails, so a missing dashboard never blocks a run.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health == nil || health.Status != "pass" {
		sink.log.Warnf("influxdb unreachable at %s, metrics disabled", url)
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAssignment implements coremetrics.Sink.
func (s *InfluxSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	p := influxdb2.NewPoint("assignment",
		map[string]string{
			"run":    ev.RunID,
			"shift":  ev.Class.String(),
			"driver": string(ev.Driver),
		},
		map[string]any{
			"day":        ev.Day,
			"seq":        ev.Seq,
			"duration_h": ev.DurationHours,
			"delayed":    ev.Delayed,
			"short_rest": ev.ShortRest,
		},
		ev.Time)
	return s.write(p.Name(), p)
}

// RecordUncovered implements coremetrics.Sink.
func (s *InfluxSink) RecordUncovered(ev coremetrics.UncoveredEvent) error {
	p := influxdb2.NewPoint("uncovered",
		map[string]string{
			"run":    ev.RunID,
			"shift":  ev.Class.String(),
			"reason": ev.Reason,
		},
		map[string]any{"day": ev.Day, "seq": ev.Seq},
		ev.Time)
	return s.write(p.Name(), p)
}

// RecordDay implements coremetrics.Sink.
func (s *InfluxSink) RecordDay(ev coremetrics.DayEvent) error {
	p := influxdb2.NewPoint("day_summary",
		map[string]string{"run": ev.RunID},
		map[string]any{
			"day":      ev.Day,
			"assigned": ev.Assigned,
			"unmet":    ev.Unmet,
		},
		ev.Time)
	return s.write(p.Name(), p)
}

func (s *InfluxSink) write(name string, p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Warnf("influx write %s: %v", name, err)
		return err
	}
	return nil
}

// Close flushes and closes the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
