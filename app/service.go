package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/wssim/config"
	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/generator"
	coremetrics "github.com/kilianp07/wssim/core/metrics"
	coremon "github.com/kilianp07/wssim/core/monitoring"
	"github.com/kilianp07/wssim/core/sim"
	"github.com/kilianp07/wssim/core/snapshot"
	"github.com/kilianp07/wssim/infra/logger"
	"github.com/kilianp07/wssim/infra/metrics"
	"github.com/kilianp07/wssim/infra/monitoring"
	"github.com/kilianp07/wssim/infra/mqtt"
	"github.com/kilianp07/wssim/internal/eventbus"
)

// Service wires a simulation to its stores, metrics and broker.
type Service struct {
	Sim *sim.Simulation

	cfg         *config.Config
	log         logger.Logger
	store       snapshot.Store
	sink        coremetrics.MetricsSink
	publisher   *mqtt.SnapshotPublisher
	generated   *eventbus.TypedBus[events.Generated]
	transitions *eventbus.TypedBus[events.Transition]
	closeLog    func() error
}

// New configures logging and monitoring, then builds the collaborators
// described by cfg.
func New(cfg *config.Config) (*Service, error) {
	closeLog, err := logger.Configure(cfg.Logging.Options())
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	svc := &Service{cfg: cfg, log: logger.New("service"), closeLog: closeLog}

	if cfg.Sentry.ServerName == "" {
		cfg.Sentry.ServerName = cfg.Simulation.Station
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		svc.log.Warnf("sentry disabled: %v", err)
	} else {
		coremon.Init(mon)
	}

	if err := svc.build(); err != nil {
		_ = svc.Close()
		coremon.CaptureException(err, map[string]string{"module": "app"})
		return nil, err
	}
	return svc, nil
}

func (s *Service) build() error {
	cfg := s.cfg
	var err error
	if len(cfg.Snapshots.Stores) > 0 {
		if s.store, err = snapshot.New(cfg.Snapshots.Stores); err != nil {
			return fmt.Errorf("snapshot stores: %w", err)
		}
	} else {
		s.store = snapshot.NewMulti()
	}
	if s.sink, err = coremetrics.NewMetricsSink(cfg.Metrics.Sinks); err != nil {
		return fmt.Errorf("metrics sinks: %w", err)
	}
	if cfg.MQTT.Broker != "" {
		if s.publisher, err = mqtt.NewSnapshotPublisher(cfg.MQTT); err != nil {
			return err
		}
		s.store = snapshot.NewMulti(s.store, s.publisher)
	}

	simCfg, err := SimConfig(cfg)
	if err != nil {
		return err
	}
	s.generated = eventbus.NewTyped[events.Generated]()
	s.transitions = eventbus.NewTyped[events.Transition]()
	s.Sim, err = sim.New(simCfg, sim.Deps{
		Log:         logger.New("sim"),
		Store:       s.store,
		Sink:        s.sink,
		Generated:   s.generated,
		Transitions: s.transitions,
	})
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}

// SimConfig converts the file configuration to the driver configuration.
func SimConfig(cfg *config.Config) (sim.Config, error) {
	start, err := cfg.Simulation.Start()
	if err != nil {
		return sim.Config{}, err
	}
	rates, err := cfg.Events.KindRates()
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Station:           cfg.Simulation.Station,
		Ticks:             cfg.Simulation.Ticks,
		Pacing:            cfg.Simulation.Pacing(),
		Seed:              cfg.Simulation.Seed,
		Start:             start,
		ManualElements:    cfg.Simulation.ManualElements,
		NominalCapacityWh: cfg.Battery.NominalCapacityWh,
		ResetAfterEvent:   cfg.Simulation.ResetAfterEvent,
		Generator: generator.Options{
			Mode:        cfg.Generator.Mode,
			Rates:       rates,
			Events:      cfg.Events.Options(),
			Scenario:    cfg.Generator.Scenario,
			MinInterval: time.Duration(cfg.Generator.MinIntervalSeconds) * time.Second,
			MaxInterval: time.Duration(cfg.Generator.MaxIntervalSeconds) * time.Second,
		},
		Battery:     cfg.Battery.Config,
		Handlers:    cfg.Handlers,
		Temperature: sim.NewTemperature(cfg.Environment.AmbientTempC, cfg.Environment.DiurnalAmplitudeC),
	}, nil
}

// Run executes the simulation. Bus notifications are drained into the
// metrics sink and the broker before Run returns, even on cancellation.
func (s *Service) Run(ctx context.Context) (coremetrics.RunSummary, error) {
	defer coremon.Recover()

	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr, prometheus.DefaultGatherer); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	drainCtx := context.WithoutCancel(ctx)
	collectors := []*metrics.Collector{
		metrics.StartCollector(drainCtx, s.generated, s.transitions, s.sink, logger.New("collector")),
	}
	if s.publisher != nil {
		collectors = append(collectors,
			metrics.StartCollector(drainCtx, s.generated, s.transitions, s.publisher, logger.New("mqtt_collector")))
	}

	summary, err := s.Sim.Run(ctx)

	s.generated.Close()
	s.transitions.Close()
	for _, c := range collectors {
		c.Wait()
		if n := c.Errors(); n > 0 {
			s.log.Warnf("%d metrics writes failed", n)
		}
	}
	if d := s.generated.Dropped() + s.transitions.Dropped(); d > 0 {
		s.log.Warnf("%d bus notifications dropped", d)
	}
	return summary, err
}

// Close flushes and releases every collaborator.
func (s *Service) Close() error {
	var errs []error
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.sink != nil {
		errs = append(errs, coremetrics.CloseSink(s.sink))
	}
	coremon.Flush(2 * time.Second)
	if s.closeLog != nil {
		errs = append(errs, s.closeLog())
	}
	return errors.Join(errs...)
}
