package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[string]()
	ch := bus.Subscribe()
	bus.Publish("power_off")
	assert.Equal(t, "power_off", <-ch)
	bus.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestTypedBusDrainAfterClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	bus.Close()

	var got []int
	for v := range ch1 {
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2}, got)
	assert.Len(t, ch2, 2)

	// Publishing after Close is ignored.
	bus.Publish(3)
	assert.Zero(t, bus.Dropped())
}

func TestTypedBusCountsDrops(t *testing.T) {
	bus := NewTypedWithBuffer[int](2)
	ch := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}
	assert.Equal(t, uint64(3), bus.Dropped())
	require.Len(t, ch, 2)
	assert.Equal(t, 0, <-ch)
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	assert.NotPanics(t, func() { bus.Unsubscribe(ch) })

	late := bus.Subscribe()
	_, ok := <-late
	assert.False(t, ok)
}
