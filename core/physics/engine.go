package physics

import (
	"fmt"
	"math/rand"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/logger"
	"github.com/kilianp07/wssim/core/model"
)

// Engine routes events to the handler registered for their kind.
type Engine struct {
	handlers map[events.Kind]Handler
	log      logger.Logger
}

// NewEngine returns an empty engine.
func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{handlers: make(map[events.Kind]Handler), log: log}
}

// Register stores h under its kind. A later registration for the same kind
// replaces the earlier one.
func (e *Engine) Register(h Handler) {
	if _, ok := e.handlers[h.Kind()]; ok {
		e.log.Warnf("replacing physics handler for %s", h.Kind())
	}
	e.handlers[h.Kind()] = h
}

// Handler returns the handler registered for k.
func (e *Engine) Handler(k events.Kind) (Handler, bool) {
	h, ok := e.handlers[k]
	return h, ok
}

// ApplyPhysics runs the handler for ev. Events without a handler are logged
// and ignored.
func (e *Engine) ApplyPhysics(st *model.Station, ev events.Event) error {
	h, ok := e.handlers[ev.Kind]
	if !ok {
		e.log.Infof("no physics registered for %s event", ev.Kind)
		return nil
	}
	e.log.Debugf("applying %s physics", ev.Kind)
	if err := h.Apply(st, ev); err != nil {
		return fmt.Errorf("apply %s physics: %w", ev.Kind, err)
	}
	return nil
}

// RegisterAll registers the stock handlers on a new engine.
func RegisterAll(log logger.Logger, cfg HandlerConfig, battery *BatteryPhysics, rng *rand.Rand) *Engine {
	e := NewEngine(log)
	e.Register(NewAirAlarmHandler(cfg, battery))
	e.Register(NewOutageHandler(cfg, battery, rng))
	return e
}
