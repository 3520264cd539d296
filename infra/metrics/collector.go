package metrics

import (
	"context"
	"sync/atomic"

	"github.com/kilianp07/wssim/core/events"
	coremetrics "github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/infra/logger"
	"github.com/kilianp07/wssim/internal/eventbus"
)

// Collector forwards bus notifications to a metrics sink.
type Collector struct {
	errs atomic.Int64
	done chan struct{}
}

// StartCollector subscribes to both buses and records every notification on
// sink. It returns once subscribed; the collector stops when both buses are
// closed and drained or when ctx is canceled.
func StartCollector(ctx context.Context, generated *eventbus.TypedBus[events.Generated],
	transitions *eventbus.TypedBus[events.Transition], sink coremetrics.MetricsSink, log logger.Logger) *Collector {
	c := &Collector{done: make(chan struct{})}
	if log == nil {
		log = logger.NopLogger{}
	}
	evRec, _ := sink.(coremetrics.EventRecorder)
	trRec, _ := sink.(coremetrics.TransitionRecorder)

	genCh := generated.Subscribe()
	trCh := transitions.Subscribe()
	go func() {
		defer close(c.done)
		for genCh != nil || trCh != nil {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-genCh:
				if !ok {
					genCh = nil
					continue
				}
				if evRec != nil {
					c.check(log, evRec.RecordEvent(ev))
				}
			case tr, ok := <-trCh:
				if !ok {
					trCh = nil
					continue
				}
				if trRec != nil {
					c.check(log, trRec.RecordTransition(tr))
				}
			}
		}
	}()
	return c
}

func (c *Collector) check(log logger.Logger, err error) {
	if err != nil {
		c.errs.Add(1)
		log.Warnf("metrics record failed: %v", err)
	}
}

// Wait blocks until the collector stops.
func (c *Collector) Wait() { <-c.done }

// Errors returns the number of failed records.
func (c *Collector) Errors() int64 { return c.errs.Load() }
