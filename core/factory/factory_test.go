package factory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeConf struct {
	Path     string        `json:"path"`
	Capacity int           `json:"capacity"`
	Flush    time.Duration `json:"flush"`
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[storeConf]()
	require.NoError(t, reg.Register("csv", func(conf map[string]any) (storeConf, error) {
		var c storeConf
		err := Decode(conf, &c)
		return c, err
	}))

	got, err := reg.Create(ModuleConfig{Type: "csv", Conf: map[string]any{
		"path":     "out.csv",
		"capacity": "12",
		"flush":    "1m30s",
	}})
	require.NoError(t, err)
	assert.Equal(t, storeConf{Path: "out.csv", Capacity: 12, Flush: 90 * time.Second}, got)
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }))
	assert.Error(t, reg.Register("nil", nil))

	_, err := reg.Create(ModuleConfig{Type: "y"})
	assert.ErrorContains(t, err, "unknown module type")

	boom := errors.New("boom")
	require.NoError(t, reg.Register("broken", func(map[string]any) (int, error) { return 0, boom }))
	_, err = reg.Create(ModuleConfig{Type: "broken"})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"broken", "x"}, reg.Names())
}
