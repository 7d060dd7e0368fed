package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Capture collects JSON log lines written during a test.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns everything captured so far.
func (c *Capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Entries decodes the captured lines, failing the test on malformed JSON.
func (c *Capture) Entries(t testing.TB) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(c.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Find returns the first entry logged with msg, or nil.
func (c *Capture) Find(t testing.TB, msg string) map[string]any {
	t.Helper()

	for _, entry := range c.Entries(t) {
		if entry[slog.MessageKey] == msg {
			return entry
		}
	}
	return nil
}

// NewCapture returns a debug-level JSON logger writing into a new Capture.
// The default slog logger is left untouched.
func NewCapture(t testing.TB) (*slog.Logger, *Capture) {
	t.Helper()

	c := &Capture{}
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})), c
}

// CaptureContext returns a context carrying a capturing logger, as the
// trace middleware would for a request.
func CaptureContext(t testing.TB) (context.Context, *Capture) {
	t.Helper()

	l, c := NewCapture(t)
	return WithLogger(context.Background(), l), c
}
