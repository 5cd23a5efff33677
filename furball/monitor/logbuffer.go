package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry is one formatted log record.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// String formats the entry for the log pane: "15:04:05 [INF] message".
func (e LogEntry) String() string {
	var tag string
	switch {
	case e.Level < slog.LevelInfo:
		tag = "DBG"
	case e.Level < slog.LevelWarn:
		tag = "INF"
	case e.Level < slog.LevelError:
		tag = "WRN"
	default:
		tag = "ERR"
	}
	return fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), tag, e.Message)
}

// LogBuffer keeps the most recent log entries. It is safe for concurrent
// use, records arrive from any goroutine while the monitor reads them.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogBuffer creates a buffer holding up to capacity entries.
func NewLogBuffer(capacity int) *LogBuffer {
	return &LogBuffer{entries: make([]LogEntry, max(capacity, 1))}
}

// Add stores e, overwriting the oldest entry when the buffer is full.
func (b *LogBuffer) Add(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next++
	if b.next == len(b.entries) {
		b.next = 0
		b.full = true
	}
}

// Len returns the number of stored entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.len()
}

func (b *LogBuffer) len() int {
	if b.full {
		return len(b.entries)
	}
	return b.next
}

// Recent returns up to n entries at or above level, newest first. A
// non-positive n returns every matching entry.
func (b *LogBuffer) Recent(n int, level slog.Level) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []LogEntry
	for i := 1; i <= b.len(); i++ {
		if n > 0 && len(out) == n {
			break
		}
		e := b.entries[(b.next-i+len(b.entries))%len(b.entries)]
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every entry.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next = 0
	b.full = false
}

// LogBufferHandler is a slog.Handler writing into a LogBuffer, so logging
// doesn't scribble over the monitor. Attributes are flattened into the
// message as key=value pairs.
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	attrs  string
	group  string
}

// NewLogBufferHandler creates a handler for records at or above level.
func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{buffer: buffer, level: level}
}

func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogBufferHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, a)
		return true
	})

	h.buffer.Add(LogEntry{Time: r.Time, Level: r.Level, Message: sb.String()})
	return nil
}

func (h *LogBufferHandler) appendAttr(sb *strings.Builder, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, a.Value)
}

func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		h.appendAttr(&sb, a)
	}
	h2 := *h
	h2.attrs = sb.String()
	return &h2
}

func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	h2.group = name
	return &h2
}
