// Package events defines the simulation events and the notifications emitted
// while they are applied.
//
// Event kinds:
//   - KindAirAlarm: air-raid alert, short high-power broadcast
//   - KindPowerOutage: mains outage, may carry a nested air alarm
//
// Notifications published on the event bus:
//   - Generated: an event was drawn for a tick
//   - Transition: a station flag or battery status changed
package events
