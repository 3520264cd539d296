package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	corelogger "github.com/kilianp07/wssim/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards every message.
type NopLogger = corelogger.NopLogger

// Options configures the process-wide log output.
type Options struct {
	Level      string
	Format     string // json or console
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu     sync.RWMutex
	output io.Writer = os.Stdout
	closer io.Closer
)

// Configure applies opts to every logger created afterwards. The returned
// function closes the log file, if any.
func Configure(opts Options) (func() error, error) {
	lvl := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)

	var console io.Writer = os.Stdout
	if opts.Format == "console" || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	output = console
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		output = zerolog.MultiLevelWriter(console, lj)
		closer = lj
	}
	return func() error {
		mu.Lock()
		defer mu.Unlock()
		if closer == nil {
			return nil
		}
		err := closer.Close()
		closer = nil
		output = os.Stdout
		return err
	}, nil
}

// New returns a Logger for the given component writing to the configured
// output.
func New(component string) Logger {
	mu.RLock()
	w := output
	mu.RUnlock()
	return NewWithWriter(component, w)
}
