// Package logging builds the process's structured slog.Logger, optionally
// writing to a rotated file via lumberjack alongside stdout.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Option configures New.
type Option func(*config)

type config struct {
	level      slog.Level
	enableFile bool
	filename   string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	json       bool
}

func defaultConfig() *config {
	return &config{
		level:      slog.LevelInfo,
		maxSizeMB:  100,
		maxBackups: 5,
		maxAgeDays: 28,
		compress:   true,
		json:       true,
	}
}

// WithLevel sets the minimum level logged.
func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFileRotation enables writing to filename in addition to stdout, with
// lumberjack rotation at maxSizeMB.
func WithFileRotation(filename string, maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(c *config) {
		c.enableFile = true
		c.filename = filename
		c.maxSizeMB = maxSizeMB
		c.maxBackups = maxBackups
		c.maxAgeDays = maxAgeDays
	}
}

// WithText switches the handler from JSON (the default) to slog's text
// handler, useful for local development.
func WithText() Option {
	return func(c *config) { c.json = false }
}

// New builds a *slog.Logger per the given options. Without WithFileRotation,
// output goes only to stdout.
func New(opts ...Option) *slog.Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var w io.Writer = os.Stdout
	if cfg.enableFile {
		fw := &lumberjack.Logger{
			Filename:   cfg.filename,
			MaxSize:    cfg.maxSizeMB,
			MaxBackups: cfg.maxBackups,
			MaxAge:     cfg.maxAgeDays,
			Compress:   cfg.compress,
		}
		w = io.MultiWriter(os.Stdout, fw)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}
	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}
