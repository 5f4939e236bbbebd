// Package app wires the configured adapters into a runnable planning service.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/transitdepot/rosterd/config"
	coreabsence "github.com/transitdepot/rosterd/core/absence"
	"github.com/transitdepot/rosterd/core/assign"
	corehistory "github.com/transitdepot/rosterd/core/history"
	coremetrics "github.com/transitdepot/rosterd/core/metrics"
	"github.com/transitdepot/rosterd/core/plan"
	"github.com/transitdepot/rosterd/core/report"
	"github.com/transitdepot/rosterd/infra/absence"
	"github.com/transitdepot/rosterd/infra/history"
	"github.com/transitdepot/rosterd/infra/logger"
	"github.com/transitdepot/rosterd/infra/metrics"
	"github.com/transitdepot/rosterd/infra/roster"
	"github.com/transitdepot/rosterd/internal/eventbus"
)

// Service holds a fully wired planner and its collaborators for one run.
type Service struct {
	Planner  *plan.Planner
	Runner   *plan.Runner
	Store    corehistory.Store
	Roster   *roster.RosterFile
	Calendar plan.Calendar
	RunID    string

	cfg *config.Config
	bus *eventbus.Bus
	log logger.Logger
	// busSink receives planner events through the bus collector rather than
	// the planner's direct sink. Influx lives here so a slow or unreachable
	// endpoint never sits in the assignment path.
	busSink coremetrics.Sink
	closer  []func() error
}

// Bus exposes the planner event stream so observers can subscribe for the
// duration of a run.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// New builds a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	runID := uuid.NewString()
	cal := plan.NewCalendar(cfg.Horizon.Year, cfg.Horizon.MonthOf())

	schedule, err := roster.NewScheduleFile(cfg.Roster.TimetablePath, cal, logger.New("schedule"))
	if err != nil {
		return nil, fmt.Errorf("schedule source: %w", err)
	}
	rosterSrc, err := roster.NewRosterFile(cfg.Roster.RosterPath)
	if err != nil {
		return nil, fmt.Errorf("roster source: %w", err)
	}
	writer, err := roster.NewFileSlotWriter(
		filepath.Join(cfg.Horizon.OutputDir, fmt.Sprintf("%d", cfg.Horizon.Route)), cfg.Horizon.Route)
	if err != nil {
		return nil, fmt.Errorf("slot writer: %w", err)
	}

	svc := &Service{cfg: cfg, log: logg, RunID: runID, Calendar: cal, Roster: rosterSrc, bus: eventbus.New()}

	store, err := svc.buildHistoryStore()
	if err != nil {
		return nil, err
	}
	svc.Store = store

	provider, err := svc.buildAbsenceProvider()
	if err != nil {
		return nil, err
	}

	sink, err := svc.buildSink()
	if err != nil {
		return nil, err
	}

	engine := assign.New(cfg.Assign, assign.WithLogger(logger.New("assign")))
	planner, err := plan.NewPlanner(engine, schedule, rosterSrc, provider, writer, store,
		cal, sink, svc.bus, logger.New("planner"), runID)
	if err != nil {
		return nil, err
	}
	planner.UseStandby = cfg.Horizon.WeekendStandby
	svc.Planner = planner
	svc.Runner = plan.NewRunner(planner, store, logger.New("runner"))
	return svc, nil
}

func (s *Service) buildHistoryStore() (corehistory.Store, error) {
	switch s.cfg.History.Backend {
	case "sqlite":
		st, err := history.NewSQLiteStore(s.cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		s.closer = append(s.closer, st.Close)
		return st, nil
	default:
		st, err := history.NewJSONStore(s.cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		return st, nil
	}
}

func (s *Service) buildAbsenceProvider() (coreabsence.Provider, error) {
	switch s.cfg.Absences.Backend {
	case "json":
		return absence.NewJSONProvider(s.cfg.Absences.Path), nil
	case "sqlite":
		p, err := absence.NewSQLiteProvider(s.cfg.Absences.Path)
		if err != nil {
			return nil, fmt.Errorf("absence provider: %w", err)
		}
		s.closer = append(s.closer, p.Close)
		return p, nil
	default:
		return coreabsence.Nop{}, nil
	}
}

// buildSink assembles the planner's direct sink. Influx is not part of it:
// it observes the run through the event bus instead.
func (s *Service) buildSink() (coremetrics.Sink, error) {
	if s.cfg.Metrics.InfluxEnabled {
		s.busSink = metrics.NewInfluxSinkWithFallback(
			s.cfg.Metrics.InfluxURL, s.cfg.Metrics.InfluxToken,
			s.cfg.Metrics.InfluxOrg, s.cfg.Metrics.InfluxBucket)
	}
	if !s.cfg.Metrics.PrometheusEnabled {
		return coremetrics.NopSink{}, nil
	}
	sink, err := metrics.NewPromSink(nil)
	if err != nil {
		return nil, fmt.Errorf("prom sink: %w", err)
	}
	return sink, nil
}

// Run processes the whole horizon and returns the final utilization report.
func (s *Service) Run(ctx context.Context) (*report.Report, error) {
	if s.busSink != nil {
		metrics.StartEventCollector(ctx, s.bus, s.busSink)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.log.Infof("run %s: planning days 1..%d of %d-%02d route %d",
		s.RunID, s.cfg.Horizon.Days, s.cfg.Horizon.Year, s.cfg.Horizon.Month, s.cfg.Horizon.Route)

	_, dayErrs, err := s.Runner.Run(ctx, s.cfg.Horizon.Days)
	if err != nil {
		return nil, err
	}
	for day, derr := range dayErrs {
		s.log.Errorf("day %d was not planned: %v", day, derr)
	}
	return s.BuildReport(ctx)
}

// PlanDay runs a single day using the persisted history of the day before.
func (s *Service) PlanDay(ctx context.Context, day int) (plan.DayResult, error) {
	prev, err := s.Store.Load(ctx, day-1)
	if err != nil {
		return plan.DayResult{}, err
	}
	return s.Planner.PlanDay(ctx, day, prev)
}

// BuildReport assembles the cross-day utilization report from stored history.
func (s *Service) BuildReport(ctx context.Context) (*report.Report, error) {
	drivers, err := s.Roster.Drivers()
	if err != nil {
		return nil, err
	}
	return report.Build(ctx, s.Store, s.Calendar, s.cfg.Horizon.Days, drivers)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	var first error
	for _, c := range s.closer {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
