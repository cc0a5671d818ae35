// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR
// records into a JSON-lines event log next to the content files.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Event categories.
const (
	CategoryAuth    = "auth"
	CategoryContent = "content"
	CategoryCache   = "cache"
	CategoryConfig  = "config"
	CategorySystem  = "system"
)

// Event levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event is one line of the event log.
type Event struct {
	Time     time.Time         `json:"time"`
	Level    string            `json:"level"`
	Category string            `json:"category"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// sink serializes writes from every handler derived from one EventLogHandler.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) write(e Event) {
	line, err := json.Marshal(e)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(append(line, '\n'))
}

// EventLogHandler is a slog.Handler that wraps another handler and also
// appends records at or above its level to an event log.
type EventLogHandler struct {
	inner  slog.Handler
	sink   *sink
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

// NewEventLogHandler creates a handler forwarding WARN and above to w.
func NewEventLogHandler(inner slog.Handler, w io.Writer) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, w, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a handler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, w io.Writer, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner: inner,
		sink:  &sink{w: w},
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level) || level >= h.level
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}
	if r.Level >= h.level {
		h.sink.write(h.event(r))
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)
	prefix := strings.Join(h.groups, ".")
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		c.attrs = append(c.attrs, a)
	}
	return &c
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.inner = h.inner.WithGroup(name)
	c.groups = append(append([]string(nil), h.groups...), name)
	return &c
}

func (h *EventLogHandler) event(r slog.Record) Event {
	e := Event{
		Time:     r.Time,
		Level:    levelName(r.Level),
		Message:  r.Message,
		Metadata: map[string]string{},
	}

	prefix := strings.Join(h.groups, ".")
	add := func(a slog.Attr) {
		if a.Key == "category" && prefix == "" {
			e.Category = a.Value.String()
			return
		}
		flatten(e.Metadata, prefix, a)
	}
	for _, a := range h.attrs {
		flatten(e.Metadata, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(a)
		return true
	})

	if e.Category == "" {
		e.Category = inferCategory(r.Message)
	}
	if len(e.Metadata) == 0 {
		e.Metadata = nil
	}
	return e
}

// flatten writes a into m, expanding groups into dotted keys.
func flatten(m map[string]string, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			flatten(m, key, ga)
		}
		return
	}
	m[key] = a.Value.String()
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "auth") || strings.Contains(msg, "cross-origin"):
		return CategoryAuth
	case strings.Contains(msg, "document") || strings.Contains(msg, "record") ||
		strings.Contains(msg, "knowledge") || strings.Contains(msg, "content"):
		return CategoryContent
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis") || strings.Contains(msg, "watcher"):
		return CategoryCache
	case strings.Contains(msg, "config") || strings.Contains(msg, "secret"):
		return CategoryConfig
	default:
		return CategorySystem
	}
}
