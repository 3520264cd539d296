package snapshot

import (
	"context"
	"time"

	"github.com/kilianp07/wssim/core/factory"
)

var registry = factory.NewRegistry[Store]()

// Register adds a store factory identified by name.
func Register(name string, f factory.Factory[Store]) error {
	return registry.Register(name, f)
}

// Types lists the registered store types.
func Types() []string { return registry.Names() }

// Config lists the stores of a run.
type Config struct {
	Stores []factory.ModuleConfig `json:"stores" yaml:"stores"`
}

// New builds the configured stores. Several stores are combined in a Multi.
func New(cfgs []factory.ModuleConfig) (Store, error) {
	if len(cfgs) == 1 {
		return registry.Create(cfgs[0])
	}
	stores := make([]Store, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := registry.Create(c)
		if err != nil {
			_ = NewMulti(stores...).Close()
			return nil, err
		}
		stores = append(stores, s)
	}
	return NewMulti(stores...), nil
}

func init() {
	_ = Register("csv", func(conf map[string]any) (Store, error) {
		c := struct {
			Path string `json:"path"`
		}{Path: "snapshots.csv"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewCSVStore(c.Path)
	})

	_ = Register("jsonl", func(conf map[string]any) (Store, error) {
		c := struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
		}{Path: "snapshots.jsonl"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})

	_ = Register("sqlite", func(conf map[string]any) (Store, error) {
		c := struct {
			Path string `json:"path"`
		}{Path: "snapshots.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})

	_ = Register("postgres", func(conf map[string]any) (Store, error) {
		c := struct {
			DSN     string        `json:"dsn"`
			Timeout time.Duration `json:"connect_timeout"`
		}{Timeout: 10 * time.Second}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
		defer cancel()
		return NewPostgresStore(ctx, c.DSN)
	})
}
