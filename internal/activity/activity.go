// Package activity keeps the capped, newest-first activity log.
package activity

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/models"
)

type Log struct {
	entries []models.LogEntry
	limit   int
	now     func() time.Time
}

// New wraps existing entries (newest first), trimming them to the cap.
func New(entries []models.LogEntry) *Log {
	l := &Log{
		entries: make([]models.LogEntry, 0, constants.MaxLogEntries),
		limit:   constants.MaxLogEntries,
		now:     time.Now,
	}
	l.entries = append(l.entries, entries...)
	l.trim()
	return l
}

// SetClock overrides the timestamp source.
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Append adds an entry at the top and evicts the oldest beyond the cap.
func (l *Log) Append(text string, category models.Category, status models.Status) models.LogEntry {
	entry := models.LogEntry{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Text:      text,
		Category:  category,
		Status:    status,
		CreatedAt: l.now(),
	}
	l.entries = append(l.entries, models.LogEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry
	l.trim()
	return entry
}

func (l *Log) trim() {
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []models.LogEntry {
	out := make([]models.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Clear() {
	l.entries = l.entries[:0]
}

func (l *Log) Len() int {
	return len(l.entries)
}
