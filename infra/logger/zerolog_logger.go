package logger

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewWithWriter creates a ZerologLogger writing JSON lines to w. Every line
// carries the component field and, for battery symptom messages, a category.
func NewWithWriter(component string, w io.Writer) Logger {
	z := zerolog.New(w).Hook(CategoryHook{}).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

// With returns a child logger that adds fields to every line.
func (l *ZerologLogger) With(fields map[string]any) Logger {
	return &ZerologLogger{log: l.log.With().Fields(fields).Logger()}
}

var sagWord = regexp.MustCompile(`(?i)\bsag\b`)

// Category returns the tag for battery symptom messages, or "".
func Category(msg string) string {
	switch {
	case sagWord.MatchString(msg):
		return "VOLTAGE_SAG"
	case strings.Contains(strings.ToLower(msg), "failunderload"):
		return "FAIL_UNDER_LOAD"
	case strings.Contains(strings.ToLower(msg), "degradation"):
		return "DEGRADATION"
	}
	return ""
}

// CategoryHook tags battery symptom lines with a category field.
type CategoryHook struct{}

// Run implements zerolog.Hook.
func (CategoryHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if c := Category(msg); c != "" {
		e.Str("category", c)
	}
}
