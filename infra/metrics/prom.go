// Package metrics provides the observability sinks planner events flow into:
// Prometheus counters for the scrape endpoint and an InfluxDB writer for
// long-term dashboards.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/transitdepot/rosterd/core/metrics"
)

// PromSink records planner events as Prometheus metrics.
type PromSink struct {
	assigned  *prometheus.CounterVec
	uncovered *prometheus.CounterVec
	duration  prometheus.Histogram
	poolSize  *prometheus.GaugeVec
}

var _ coremetrics.Sink = (*PromSink)(nil)

// NewPromSink registers the planner metrics on reg. A nil reg uses the
// default registerer.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		assigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_assignments_total",
			Help: "Slots assigned to a driver",
		}, []string{"shift", "delayed", "short_rest"}),
		uncovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_uncovered_slots_total",
			Help: "Slots left without a driver",
		}, []string{"shift", "reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_assigned_duration_hours",
			Help:    "Realized shift duration in hours",
			Buckets: prometheus.LinearBuckets(4, 1, 8),
		}),
		poolSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "roster_pool_remaining",
			Help: "Unassigned candidates left at end of day",
		}, []string{"shift"}),
	}
	for _, c := range []prometheus.Collector{s.assigned, s.uncovered, s.duration, s.poolSize} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RecordAssignment implements coremetrics.Sink.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assigned.WithLabelValues(ev.Class.String(), strconv.FormatBool(ev.Delayed), strconv.FormatBool(ev.ShortRest)).Inc()
	s.duration.Observe(ev.DurationHours)
	return nil
}

// RecordUncovered implements coremetrics.Sink.
func (s *PromSink) RecordUncovered(ev coremetrics.UncoveredEvent) error {
	s.uncovered.WithLabelValues(ev.Class.String(), ev.Reason).Inc()
	return nil
}

// RecordDay implements coremetrics.Sink.
func (s *PromSink) RecordDay(ev coremetrics.DayEvent) error {
	for class, n := range ev.PoolSize {
		s.poolSize.WithLabelValues(class.String()).Set(float64(n))
	}
	return nil
}

// StartPromServer serves /metrics on the given port until ctx is cancelled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
