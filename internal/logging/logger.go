// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package logging owns the process-wide zerolog logger.
//
// Init replaces the logger once configuration is loaded. Long-lived
// components take a copy at construction and tag it with Component;
// request and run scoped code reaches it through Ctx or From, which attach
// the ids carried by the context:
//
//	logger := logging.Component(logging.Logger(), "news")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Cache unavailable")
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level, encoding and destination of the process logger.
type Config struct {
	// Level is trace, debug, info, warn, error or disabled. Unknown values
	// mean info.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	mu   sync.RWMutex
	root = newLogger(Config{})
)

// Init replaces the process logger.
func Init(cfg Config) {
	l := newLogger(cfg)
	mu.Lock()
	root = l
	mu.Unlock()
}

func newLogger(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	c := zerolog.New(out).Level(parseLevel(cfg.Level)).With().
		Timestamp().
		Str("service", "headlines")
	if cfg.Caller {
		c = c.Caller()
	}
	return c.Logger()
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns the process logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Component returns a child of logger tagged with the component name.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// Info starts an info entry on the process logger.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn starts a warn entry on the process logger.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error starts an error entry on the process logger.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

// NewTestLogger returns a JSON logger writing to w at every level.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
