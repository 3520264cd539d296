package monitoring

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/wssim/config"
	coremon "github.com/kilianp07/wssim/core/monitoring"
)

func TestNewSentryMonitorWithoutDSN(t *testing.T) {
	mon, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, mon)
}

func TestNewSentryMonitorBadDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestCaptureExceptionTags(t *testing.T) {
	var captured []*sentry.Event
	require.NoError(t, sentry.Init(sentry.ClientOptions{
		Dsn: "https://public@example.com/1",
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			captured = append(captured, e)
			return nil
		},
	}))
	defer func() { _ = sentry.Init(sentry.ClientOptions{}) }()

	mon := &sentryMonitor{}
	mon.CaptureException(nil, nil)
	mon.CaptureException(errors.New("store down"), map[string]string{"module": "snapshot"})
	mon.CaptureException(errors.New("plain"), nil)

	require.Len(t, captured, 2)
	assert.Equal(t, "snapshot", captured[0].Tags["module"])
	assert.Empty(t, captured[1].Tags["module"])
}

func TestCapturePanicSendsEvent(t *testing.T) {
	var captured []*sentry.Event
	require.NoError(t, sentry.Init(sentry.ClientOptions{
		Dsn: "https://public@example.com/1",
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			captured = append(captured, e)
			return nil
		},
	}))
	defer func() { _ = sentry.Init(sentry.ClientOptions{}) }()

	prev := coremon.Init(&sentryMonitor{})
	defer coremon.Init(prev)

	assert.Panics(t, func() {
		defer coremon.Recover()
		panic("collector crashed")
	})
	require.Len(t, captured, 1)
	assert.Equal(t, "collector crashed", captured[0].Message)
}
