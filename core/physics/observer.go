package physics

import (
	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/logger"
	"github.com/kilianp07/wssim/core/model"
)

// Observer receives every transition produced by the physics.
type Observer interface {
	OnTransition(events.Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(events.Transition)

// OnTransition implements Observer.
func (f ObserverFunc) OnTransition(t events.Transition) { f(t) }

type nopObserver struct{}

func (nopObserver) OnTransition(events.Transition) {}

// Recorder keeps transitions in memory. It is used by tests and by the
// scripted trace command.
type Recorder struct {
	Transitions []events.Transition
}

// OnTransition implements Observer.
func (r *Recorder) OnTransition(t events.Transition) { r.Transitions = append(r.Transitions, t) }

// Types returns the recorded transition types in order.
func (r *Recorder) Types() []events.TransitionType {
	out := make([]events.TransitionType, len(r.Transitions))
	for i, t := range r.Transitions {
		out[i] = t.Type
	}
	return out
}

// Actuator toggles station flags, logging and reporting each change.
type Actuator struct {
	log logger.Logger
	obs Observer
}

// NewActuator returns an Actuator. Nil arguments are replaced by no-ops.
func NewActuator(log logger.Logger, obs Observer) *Actuator {
	if log == nil {
		log = logger.NopLogger{}
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Actuator{log: log, obs: obs}
}

// SetPower sets the mains flag.
func (a *Actuator) SetPower(st *model.Station, on bool, reason string) {
	st.IsPowerOn = on
	typ := events.PowerOff
	if on {
		typ = events.PowerOn
	}
	a.log.Infof("mains power %s (%s)", onOff(on), reason)
	a.emit(st, typ, reason)
	a.log.Debugw("station status", st.Status())
}

// SetAlarm sets the air alarm flag.
func (a *Actuator) SetAlarm(st *model.Station, on bool, reason string) {
	st.IsAirAlarmActive = on
	typ := events.AlarmOff
	if on {
		typ = events.AlarmOn
	}
	a.log.Infof("air alarm %s (%s)", onOff(on), reason)
	a.emit(st, typ, reason)
	a.log.Debugw("station status", st.Status())
}

func (a *Actuator) emit(st *model.Station, typ events.TransitionType, reason string) {
	a.obs.OnTransition(events.Transition{
		Station: st.Name,
		Type:    typ,
		Reason:  reason,
		SimTime: st.SimTime,
		Charge:  st.Battery.ChargePercent,
	})
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
