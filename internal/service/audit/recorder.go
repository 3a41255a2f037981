// Package audit records task mutations into an in-memory log that admins can
// inspect through the API. The log is a bounded ring buffer: it trades
// durability for zero operational cost, which is all the audit trail needs
// to provide here.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

const (
	// maxEntries bounds the in-memory log; the oldest entry is dropped once
	// the buffer is full.
	maxEntries = 2000

	// recentLimit is how many entries Recent returns at most.
	recentLimit = 200
)

// Entry is a single audit record.
type Entry struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Recorder is a thread-safe in-memory audit log.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	logger  *slog.Logger
}

// NewRecorder creates a Recorder. If logger is nil, the default logger is used.
func NewRecorder(log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{
		entries: make([]Entry, 0, 64),
		logger:  log.With(slog.String("component", "audit_recorder")),
	}
}

// Record appends an audit entry and mirrors it to the structured log.
func (r *Recorder) Record(ctx context.Context, eventType string, data map[string]any) {
	entry := Entry{
		ID:        uuid.New(),
		Type:      eventType,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > maxEntries {
		r.entries = r.entries[len(r.entries)-maxEntries:]
	}
	r.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, r.logger)
	log.Info("audit", slog.String("type", eventType), slog.Any("data", data))
}

// Recent returns up to the last 200 entries, newest first.
func (r *Recorder) Recent() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	limit := recentLimit
	if n < limit {
		limit = n
	}

	out := make([]Entry, limit)
	for i := 0; i < limit; i++ {
		out[i] = r.entries[n-1-i]
	}
	return out
}
