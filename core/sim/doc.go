// Package sim runs a single workstation hour by hour.
//
// Every tick advances the simulated clock by one hour, asks the generator
// for an event, routes it through the physics engine and captures a
// snapshot that is appended to the configured stores and metrics sink.
// Ticks are strictly serial; the optional real-time pacing between ticks is
// interrupted by context cancellation.
package sim
