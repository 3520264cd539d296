// Package physics mutates station state in response to events.
//
// BatteryPhysics implements consumption, charging, capacity fade and failure
// symptoms. Handlers translate an event into flag toggles and energy flows,
// and the Engine routes each event to the handler registered for its kind.
// Every state change is reported to an Observer as an events.Transition.
package physics
