package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/model"
)

type snapshotOnly struct{ snaps int }

func (s *snapshotOnly) RecordSnapshot(model.Snapshot) error { s.snaps++; return nil }

type recordAll struct {
	snapshotOnly
	events, transitions, summaries int
	err                            error
}

func (r *recordAll) RecordEvent(events.Generated) error       { r.events++; return r.err }
func (r *recordAll) RecordTransition(events.Transition) error { r.transitions++; return nil }
func (r *recordAll) RecordSummary(RunSummary) error           { r.summaries++; return nil }

func TestMultiSinkForwardsByCapability(t *testing.T) {
	plain := &snapshotOnly{}
	full := &recordAll{}
	m := NewMultiSink(plain, full)

	assert.NoError(t, m.RecordSnapshot(model.Snapshot{}))
	assert.NoError(t, m.RecordEvent(events.Generated{}))
	assert.NoError(t, m.RecordTransition(events.Transition{}))
	assert.NoError(t, m.RecordSummary(RunSummary{}))

	assert.Equal(t, 1, plain.snaps)
	assert.Equal(t, 1, full.snaps)
	assert.Equal(t, 1, full.events)
	assert.Equal(t, 1, full.transitions)
	assert.Equal(t, 1, full.summaries)
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a := &recordAll{err: boom}
	b := &recordAll{}
	m := NewMultiSink(a, b)

	err := m.RecordEvent(events.Generated{})
	assert.ErrorIs(t, err, boom)
	// A failing sink does not starve the others.
	assert.Equal(t, 1, b.events)
}

type closingSink struct {
	snapshotOnly
	closed bool
}

func (c *closingSink) Close() error { c.closed = true; return nil }

func TestMultiSinkClose(t *testing.T) {
	c := &closingSink{}
	m := NewMultiSink(&snapshotOnly{}, c)
	assert.NoError(t, m.Close())
	assert.True(t, c.closed)
}
