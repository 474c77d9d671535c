package models

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyText is returned when a reminder has no text.
	ErrEmptyText = errors.New("reminder text cannot be empty")
	// ErrMissingTime is returned when a reminder has no scheduled time.
	ErrMissingTime = errors.New("reminder time is required")
)

type Reminder struct {
	ID          string    `json:"id" yaml:"id"`
	Text        string    `json:"text" yaml:"text"`
	ScheduledAt time.Time `json:"scheduled_at" yaml:"scheduled_at"`
	Active      bool      `json:"active" yaml:"active"`
	Triggered   bool      `json:"triggered" yaml:"triggered"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if r.ScheduledAt.IsZero() {
		return ErrMissingTime
	}
	return nil
}

// Normalize enforces that a triggered reminder is never active.
func (r *Reminder) Normalize() {
	if r.Triggered {
		r.Active = false
	}
}

// IsDue reports whether the reminder should fire at now.
func (r *Reminder) IsDue(now time.Time) bool {
	return r.Active && !r.Triggered && !now.Before(r.ScheduledAt)
}

// Until returns the time left before the reminder fires, or zero once due.
func (r *Reminder) Until(now time.Time) time.Duration {
	d := r.ScheduledAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
