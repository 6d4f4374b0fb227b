// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for the bundle pipeline.
//
// Built on Go's standard library slog package. The default writes
// text-formatted records to stderr, following Unix CLI conventions;
// cron deployments can additionally enable a JSON log file per run so
// upload failures remain inspectable after the fact.
//
// # Thread Safety
//
// Logger is safe for concurrent use.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures Logger behavior. The zero value writes Info+
// messages to stderr in text format.
type Config struct {
	// Level is the minimum severity emitted.
	Level Level

	// LogDir, when set, additionally writes JSON records to
	// {service}_{date}.log inside this directory. The directory is
	// created if needed.
	LogDir string

	// Service names the component in log file names.
	Service string
}

// Logger wraps an slog.Logger plus the optional log file backing it.
type Logger struct {
	slog *slog.Logger
	file *os.File
}

// New creates a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	if cfg.Service == "" {
		cfg.Service = "hgbundles"
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}
	l := &Logger{}

	var w io.Writer = os.Stderr
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		name := fmt.Sprintf("%s_%s.log", cfg.Service, time.Now().UTC().Format("2006-01-02"))
		f, err := os.OpenFile(filepath.Join(cfg.LogDir, name),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.file = f
		l.slog = slog.New(slog.NewJSONHandler(io.MultiWriter(w, f), opts))
		return l, nil
	}

	l.slog = slog.New(slog.NewTextHandler(w, opts))
	return l, nil
}

// Default returns a stderr-only Logger at Info level.
func Default() *Logger {
	l, _ := New(Config{})
	return l
}

// Slog exposes the underlying slog.Logger for use with slog.SetDefault.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
