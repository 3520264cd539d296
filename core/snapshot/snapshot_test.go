package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/wssim/core/factory"
	"github.com/kilianp07/wssim/core/model"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sample(hour int, charge int) model.Snapshot {
	st := model.NewStation("Station 1", 312, 8)
	st.SimTime = t0.Add(time.Duration(hour) * time.Hour)
	st.Battery.ChargePercent = charge
	st.Battery.Telemetry.TempFactor = 0.85
	st.Battery.Telemetry.EnergyDeltaWh = -5
	st.Battery.Telemetry.VoltageSag = hour%2 == 1
	s := model.Capture(st)
	s.RunID = "run-1"
	return s
}

func TestCSVStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snapshots.csv")
	store, err := NewCSVStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), sample(1, 98)))
	require.NoError(t, store.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Equal(t,
		"2025-01-01T01:00:00Z,Station 1,Ok,Ok,Normal,0,0,20.00,Ok,Ok,98,100.00,312.00,0.00,1,0,0.850,-5.000,0.000,Ac,8,8,30.00",
		lines[1])
}

func TestCSVStoreHeaderOncePerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.csv")
	for i := 0; i < 2; i++ {
		store, err := NewCSVStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Append(context.Background(), sample(i, 100-i)))
		require.NoError(t, store.Close())
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "SimTime,"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	snaps, err := ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 99, snaps[1].BatteryPercent)
	assert.Equal(t, t0.Add(time.Hour), snaps[1].SimTime)
	assert.True(t, snaps[1].VoltageSag)
	assert.InDelta(t, -5.0, snaps[1].EnergyDeltaWh, 1e-9)
}

func TestJSONLStoreQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.jsonl")
	store, err := NewJSONLStore(path, 1, 2, 0)
	require.NoError(t, err)
	ctx := context.Background()
	for h := 0; h < 5; h++ {
		require.NoError(t, store.Append(ctx, sample(h, 100-h)))
	}

	out, err := store.Query(ctx, Query{Start: t0.Add(time.Hour), End: t0.Add(3 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 99, out[0].BatteryPercent)
	assert.Equal(t, "run-1", out[0].RunID)

	out, err = store.Query(ctx, Query{RunID: "other"})
	require.NoError(t, err)
	assert.Empty(t, out)
	require.NoError(t, store.Close())
}

func TestSQLiteStoreQuery(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	for h := 0; h < 4; h++ {
		require.NoError(t, store.Append(ctx, sample(h, 100-h)))
	}
	other := sample(9, 50)
	other.RunID = "run-2"
	require.NoError(t, store.Append(ctx, other))

	out, err := store.Query(ctx, Query{RunID: "run-1", Start: t0.Add(2 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 98, out[0].BatteryPercent)
	assert.Equal(t, 97, out[1].BatteryPercent)

	out, err = store.Query(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, out, 5)
}

func TestFactoryAndMulti(t *testing.T) {
	dir := t.TempDir()
	store, err := New([]factory.ModuleConfig{
		{Type: "csv", Conf: map[string]any{"path": filepath.Join(dir, "a.csv")}},
		{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(dir, "a.jsonl")}},
	})
	require.NoError(t, err)
	multi, ok := store.(*Multi)
	require.True(t, ok)
	assert.Len(t, multi.Stores, 2)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, sample(0, 100)))
	out, err := multi.Query(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	require.NoError(t, store.Close())

	_, err = New([]factory.ModuleConfig{{Type: "tape"}})
	assert.Error(t, err)
	assert.Subset(t, Types(), []string{"csv", "jsonl", "postgres", "sqlite"})
}
