package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/model"
	"github.com/kilianp07/wssim/internal/eventbus"
)

type busSink struct {
	mu          sync.Mutex
	events      int
	transitions []events.TransitionType
}

func (b *busSink) RecordSnapshot(model.Snapshot) error { return nil }

func (b *busSink) RecordEvent(events.Generated) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events++
	return nil
}

func (b *busSink) RecordTransition(tr events.Transition) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitions = append(b.transitions, tr.Type)
	if tr.Type == events.BatteryCutoff {
		return errors.New("store offline")
	}
	return nil
}

func TestCollectorDrainsBuses(t *testing.T) {
	gen := eventbus.NewTyped[events.Generated]()
	trs := eventbus.NewTyped[events.Transition]()
	sink := &busSink{}

	c := StartCollector(context.Background(), gen, trs, sink, nil)
	gen.Publish(events.Generated{Station: "s", Event: events.NewAirAlarm(0)})
	trs.Publish(events.Transition{Type: events.AlarmOn})
	trs.Publish(events.Transition{Type: events.BatteryCutoff})
	trs.Publish(events.Transition{Type: events.AlarmOff})
	gen.Close()
	trs.Close()
	c.Wait()

	assert.Equal(t, 1, sink.events)
	assert.Equal(t, []events.TransitionType{events.AlarmOn, events.BatteryCutoff, events.AlarmOff}, sink.transitions)
	assert.Equal(t, int64(1), c.Errors())
}

func TestCollectorStopsOnCancel(t *testing.T) {
	gen := eventbus.NewTyped[events.Generated]()
	trs := eventbus.NewTyped[events.Transition]()
	ctx, cancel := context.WithCancel(context.Background())
	c := StartCollector(ctx, gen, trs, &busSink{}, nil)
	cancel()
	c.Wait()
}
