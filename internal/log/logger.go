/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */


// Package log configures the process-wide slog logger: a compact console
// handler or JSON on stderr, plus an optional rotating JSON file.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"instructionbuilder/internal/config"
	"instructionbuilder/internal/version"
)

// Options controls logger initialization.
//
// Environment (see FromEnv):
//   - IB_LOG_LEVEL=debug|info|warn|error
//   - IB_LOG_FORMAT=console|json
//   - IB_LOG_FILE=<path> enables a rotating JSON file
//   - IB_LOG_SOURCE=true adds file:line
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
}

// AppName is attached to every record as the "app" attribute.
const AppName = "instructionbuilder"

// Rotation limits of the log file.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

var (
	mu      sync.RWMutex
	current *slog.Logger
	file    io.Closer
)

// L returns the application logger. Before Init it is built from the environment.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the application logger (and slog.Default). A log file opened
// by a previous Init is closed.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(os.Stderr, hopts)
	} else {
		console = newConsoleHandler(os.Stderr, hopts)
	}
	handlers := []slog.Handler{console}

	var rot *lj.Logger
	if p := strings.TrimSpace(opts.File); p != "" {
		rot = &lj.Logger{Filename: p, MaxSize: fileMaxSizeMB, MaxBackups: fileMaxBackups, MaxAge: fileMaxAgeDays, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(rot, hopts))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	logger := slog.New(contextAttrs{next: h}).With(
		slog.String("app", AppName),
		slog.String("ver", version.Version),
	)

	mu.Lock()
	prev := file
	current = logger
	file = nil
	if rot != nil {
		file = rot
	}
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(logger)
}

// Close releases the log file, if any. Logging keeps working on stderr.
func Close() error {
	mu.Lock()
	f := file
	file = nil
	mu.Unlock()
	if f == nil {
		return nil
	}
	return f.Close()
}

// FromEnv builds Options from the IB_LOG_* variables.
func FromEnv() Options {
	o := Options{Level: "info", Format: "console"}
	if v := os.Getenv(config.EnvLogLevel); v != "" {
		o.Level = v
	}
	if v := os.Getenv(config.EnvLogFormat); v != "" {
		o.Format = v
	}
	if b, err := strconv.ParseBool(os.Getenv(config.EnvLogSource)); err == nil {
		o.AddSource = b
	}
	o.File = os.Getenv(config.EnvLogFile)
	return o
}

// FromConfig maps the logging section of the user config. Env overrides are
// already applied by config.Load.
func FromConfig(c config.LoggingConfig) Options {
	return Options{Level: c.Level, Format: c.Format, AddSource: c.Source, File: c.File}
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type ctxAttrsKey struct{}

// ContextWithAttrs returns a context whose attributes are added to every record
// logged with it via the *Context methods. Nested calls accumulate.
func ContextWithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	prev, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	merged := append(append(make([]slog.Attr, 0, len(prev)+len(attrs)), prev...), attrs...)
	return context.WithValue(ctx, ctxAttrsKey{}, merged)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
