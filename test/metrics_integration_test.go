package test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/wssim/app"
	"github.com/kilianp07/wssim/config"
	"github.com/kilianp07/wssim/core/factory"
	"github.com/kilianp07/wssim/test/util"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestPrometheusEndpointDuringRun(t *testing.T) {
	addr := freeAddr(t)
	cfg := config.Default()
	cfg.Simulation.Station = "prom-station"
	cfg.Simulation.Ticks = 200
	cfg.Simulation.SecondsPerHour = 0.02
	cfg.Logging.Level = "error"
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "prometheus"}}
	cfg.Metrics.PrometheusAddr = addr
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	svc, err := app.New(&cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	type result struct {
		interrupted bool
		err         error
	}
	done := make(chan result, 1)
	go func() {
		s, err := svc.Run(ctx)
		done <- result{s.Interrupted, err}
	}()

	waitCtx, waitCancel := context.WithTimeout(ctx, util.MetricTimeout)
	defer waitCancel()
	url := fmt.Sprintf("http://%s/metrics", addr)
	require.NoError(t, util.WaitForMetric(waitCtx, url, `wssim_ticks_total{station="prom-station"}`))
	require.NoError(t, util.WaitForMetric(waitCtx, url, "wssim_battery_charge_percent"))

	cancel()
	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.True(t, r.interrupted)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}
