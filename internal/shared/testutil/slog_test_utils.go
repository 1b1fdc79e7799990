package testutil

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured record with its attributes flattened.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// BufferedSlogHandler keeps every record in memory. Handlers derived with
// WithAttrs share the parent's buffer.
type BufferedSlogHandler struct {
	store *logStore
	attrs []slog.Attr
	t     *testing.T
}

func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{store: &logStore{}, t: t}
}

// NewTestLogger returns a logger writing into a fresh buffer.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler(t)
	return slog.New(h), h
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, rec)
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", rec.Level, rec.Message, rec.Attrs)
	}
	return nil
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferedSlogHandler{
		store: h.store,
		attrs: append(slices.Clip(h.attrs), attrs...),
		t:     h.t,
	}
}

// WithGroup flattens groups.
func (h *BufferedSlogHandler) WithGroup(string) slog.Handler { return h }

// GetRecords returns a copy of the buffer.
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return slices.Clone(h.store.records)
}

func (h *BufferedSlogHandler) GetRecordsByLevel(level slog.Level) []LogRecord {
	return slices.DeleteFunc(h.GetRecords(), func(r LogRecord) bool { return r.Level != level })
}

func (h *BufferedSlogHandler) ContainsMessage(message string) bool {
	return slices.ContainsFunc(h.GetRecords(), func(r LogRecord) bool {
		return strings.Contains(r.Message, message)
	})
}

func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	return slices.ContainsFunc(h.GetRecords(), func(r LogRecord) bool {
		v, ok := r.Attrs[key]
		return ok && v == value
	})
}

func (h *BufferedSlogHandler) Clear() {
	h.store.mu.Lock()
	h.store.records = nil
	h.store.mu.Unlock()
}

func (h *BufferedSlogHandler) Count() int {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return len(h.store.records)
}

// AssertLogContains fails t unless a record at level contains message.
func AssertLogContains(t *testing.T, h *BufferedSlogHandler, level slog.Level, message string) {
	t.Helper()
	records := h.GetRecordsByLevel(level)
	if slices.ContainsFunc(records, func(r LogRecord) bool { return strings.Contains(r.Message, message) }) {
		return
	}
	t.Errorf("no %s record containing %q", level, message)
	for _, r := range records {
		t.Logf("  - %s", r.Message)
	}
}

// AssertLogAttr fails t unless some record carries key=value.
func AssertLogAttr(t *testing.T, h *BufferedSlogHandler, key string, value any) {
	t.Helper()
	if h.ContainsAttr(key, value) {
		return
	}
	t.Errorf("no record with %s=%v", key, value)
	for _, r := range h.GetRecords() {
		t.Logf("  - %s: %v", r.Message, r.Attrs)
	}
}

// AssertNoErrors fails t for every error-level record.
func AssertNoErrors(t *testing.T, h *BufferedSlogHandler) {
	t.Helper()
	for _, r := range h.GetRecordsByLevel(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
	}
}
