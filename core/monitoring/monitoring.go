// Package monitoring holds the process-wide error monitor.
//
// The default is a no-op. app.New installs the Sentry monitor when a DSN is
// configured; the simulation reports aborted runs and failed snapshot
// appends, the MQTT client reports publishes that exhausted their retries.
package monitoring

import (
	"sync"
	"time"
)

// Monitor receives errors that are worth a report beyond the log line.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any)                          {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init installs m and returns the monitor it replaces. A nil m is ignored.
func Init(m Monitor) Monitor {
	mu.Lock()
	defer mu.Unlock()
	prev := current
	if m != nil {
		current = m
	}
	return prev
}

// Current returns the installed monitor.
func Current() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException reports err. Tags usually carry "module" and, for the
// simulation, "station".
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	Current().CaptureException(err, tags)
}

// Recover reports a panic of the calling goroutine and re-panics. It must be
// deferred directly: defer monitoring.Recover().
func Recover() {
	if v := recover(); v != nil {
		Current().CapturePanic(v)
		panic(v)
	}
}

// Flush waits up to d for buffered reports to be sent.
func Flush(d time.Duration) {
	Current().Flush(d)
}
