package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/generator"
	"github.com/kilianp07/wssim/core/logger"
	"github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/model"
	coremon "github.com/kilianp07/wssim/core/monitoring"
	"github.com/kilianp07/wssim/core/physics"
	"github.com/kilianp07/wssim/core/snapshot"
	"github.com/kilianp07/wssim/internal/eventbus"
)

// Config parameterises a run.
type Config struct {
	Station           string
	Ticks             int
	Pacing            time.Duration
	Seed              int64
	Start             time.Time
	ManualElements    int
	NominalCapacityWh float64
	ResetAfterEvent   bool

	Generator   generator.Options
	Battery     physics.Config
	Handlers    physics.HandlerConfig
	Temperature TemperatureProvider
}

// Deps are the collaborators of a run. Every field is optional.
type Deps struct {
	Log         logger.Logger
	Store       snapshot.Store
	Sink        metrics.MetricsSink
	Generated   *eventbus.TypedBus[events.Generated]
	Transitions *eventbus.TypedBus[events.Transition]
	// Observer receives transitions synchronously, before the bus.
	Observer physics.Observer
}

// Simulation owns the station and drives it tick by tick. It is not safe
// for concurrent use.
type Simulation struct {
	RunID   string
	Station *model.Station

	cfg     Config
	deps    Deps
	log     logger.Logger
	gen     generator.Generator
	engine  *physics.Engine
	battery *physics.BatteryPhysics
	tally   *tally
	tick    int

	storeErrs int
	sinkErrs  int
}

// New builds a simulation. Three random streams are derived from cfg.Seed so
// that event draws do not shift when the physics draws more or less often.
func New(cfg Config, deps Deps) (*Simulation, error) {
	if cfg.Ticks < 0 {
		return nil, fmt.Errorf("ticks must be >= 0")
	}
	if cfg.NominalCapacityWh <= 0 {
		return nil, fmt.Errorf("nominal capacity must be > 0")
	}
	if cfg.Temperature == nil {
		cfg.Temperature = StaticTemperature(20)
	}
	if deps.Log == nil {
		deps.Log = logger.NopLogger{}
	}
	if deps.Store == nil {
		deps.Store = snapshot.NewMulti()
	}
	if deps.Sink == nil {
		deps.Sink = metrics.NopSink{}
	}

	s := &Simulation{
		RunID:   uuid.NewString(),
		Station: model.NewStation(cfg.Station, cfg.NominalCapacityWh, cfg.ManualElements),
		cfg:     cfg,
		deps:    deps,
		tally:   newTally(),
	}
	s.log = deps.Log.With(map[string]any{"station": cfg.Station, "run_id": s.RunID})
	s.Station.SimTime = cfg.Start

	eventRng := rand.New(rand.NewSource(cfg.Seed))
	physicsRng := rand.New(rand.NewSource(cfg.Seed + 1))
	handlerRng := rand.New(rand.NewSource(cfg.Seed + 2))

	gen, err := generator.New(cfg.Generator, eventRng)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	s.gen = gen

	act := physics.NewActuator(s.log, physics.ObserverFunc(s.onTransition))
	s.battery = physics.NewBatteryPhysics(cfg.Battery, physicsRng, s.log, act)
	s.engine = physics.RegisterAll(s.log, cfg.Handlers, s.battery, handlerRng)
	return s, nil
}

// Engine exposes the dispatch table, for registering extra handlers.
func (s *Simulation) Engine() *physics.Engine { return s.engine }

// Generator returns the event generator of the run.
func (s *Simulation) Generator() generator.Generator { return s.gen }

// StoreErrors returns how many snapshot appends failed.
func (s *Simulation) StoreErrors() int { return s.storeErrs }

// SinkErrors returns how many metrics writes failed.
func (s *Simulation) SinkErrors() int { return s.sinkErrs }

func (s *Simulation) onTransition(tr events.Transition) {
	s.tally.observe(tr)
	if s.deps.Observer != nil {
		s.deps.Observer.OnTransition(tr)
	}
	if s.deps.Transitions != nil {
		s.deps.Transitions.Publish(tr)
	}
}

// Step runs one simulated hour and returns its snapshot. Physics errors
// abort the step; store and sink failures are logged and counted.
func (s *Simulation) Step(ctx context.Context) (model.Snapshot, error) {
	st := s.Station
	st.SimTime = s.cfg.Start.Add(time.Duration(s.tick) * time.Hour)
	st.AmbientTempC = s.cfg.Temperature.TemperatureAt(st.SimTime)
	st.Battery.ResetTelemetry()
	s.tick++

	if ev, ok := s.gen.Generate(); ok {
		if err := s.handleEvent(st, ev); err != nil {
			return model.Snapshot{}, err
		}
	}

	snap := model.Capture(st)
	snap.RunID = s.RunID
	s.tally.charges = append(s.tally.charges, float64(snap.BatteryPercent))

	if err := s.deps.Store.Append(ctx, snap); err != nil {
		s.storeErrs++
		s.log.Errorf("append snapshot at %s: %v", snap.SimTime.Format(time.RFC3339), err)
		coremon.CaptureException(err, map[string]string{"module": "snapshot", "station": st.Name})
	}
	if err := s.deps.Sink.RecordSnapshot(snap); err != nil {
		s.sinkErrs++
		s.log.Errorf("record snapshot metrics: %v", err)
	}
	return snap, nil
}

func (s *Simulation) handleEvent(st *model.Station, ev events.Event) error {
	hour := s.gen.CurrentHour()
	s.log.Infof("hour %d: %s (%s)", hour, ev.Name, ev.Duration)
	s.tally.events[ev.Kind.String()]++
	if s.deps.Generated != nil {
		s.deps.Generated.Publish(events.Generated{Station: st.Name, Hour: hour, Event: ev, SimTime: st.SimTime})
	}
	if err := s.engine.ApplyPhysics(st, ev); err != nil {
		return fmt.Errorf("hour %d: %w", hour, err)
	}
	s.log.Debugw("station status", st.Status())
	if s.cfg.ResetAfterEvent {
		s.resetAfterEvent(st)
	}
	return nil
}

// resetAfterEvent clears the alarm and restores mains unless the battery is
// in cutoff.
func (s *Simulation) resetAfterEvent(st *model.Station) {
	act := s.battery.Actuator()
	if st.IsAirAlarmActive {
		act.SetAlarm(st, false, "post-event reset")
	}
	if !st.IsPowerOn && st.Battery.Status != model.BatteryCutoff {
		act.SetPower(st, true, "post-event reset")
	}
}

// Run executes the configured number of ticks. Cancellation stops the loop
// after the current tick and is not reported as an error; the summary is
// marked as interrupted instead. The store is not closed.
func (s *Simulation) Run(ctx context.Context) (metrics.RunSummary, error) {
	summary := metrics.RunSummary{RunID: s.RunID, Station: s.cfg.Station, Started: time.Now()}
	s.log.Infof("starting run: %d ticks from %s", s.cfg.Ticks, s.cfg.Start.Format(time.RFC3339))

	var runErr error
	for i := 0; i < s.cfg.Ticks; i++ {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		if _, err := s.Step(ctx); err != nil {
			runErr = err
			break
		}
		if i < s.cfg.Ticks-1 && !s.pace(ctx) {
			summary.Interrupted = true
			break
		}
	}

	s.tally.fill(&summary)
	summary.FinalHealth = s.Station.Battery.HealthPercent()
	summary.Finished = time.Now()

	if rec, ok := s.deps.Sink.(metrics.SummaryRecorder); ok {
		if err := rec.RecordSummary(summary); err != nil {
			s.sinkErrs++
			s.log.Errorf("record summary: %v", err)
		}
	}

	if runErr != nil {
		s.log.Errorf("aborting run: %v", runErr)
		coremon.CaptureException(runErr, map[string]string{"module": "sim", "station": s.cfg.Station})
		return summary, runErr
	}
	if summary.Interrupted {
		s.log.Warnf("run interrupted after %d ticks", summary.Ticks)
	}
	s.log.Infof("run finished: %d ticks, mean charge %.1f%%, min %.0f%%, %d cutoffs, SoH %.1f%%",
		summary.Ticks, summary.MeanCharge, summary.MinCharge, summary.Cutoffs, summary.FinalHealth)
	return summary, nil
}

// Wait returns the real-time delay before the next tick: the generator's own
// interval when it rolls one, the configured pacing otherwise. Zero means
// unpaced.
func (s *Simulation) Wait() time.Duration {
	if s.cfg.Pacing <= 0 {
		return 0
	}
	if r, ok := s.gen.(generator.IntervalRoller); ok {
		return r.RollNextInterval()
	}
	return s.cfg.Pacing
}

// pace waits before the next tick. It returns false when ctx is done first.
func (s *Simulation) pace(ctx context.Context) bool {
	wait := s.Wait()
	if wait <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
