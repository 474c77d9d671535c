package models

import (
	"strings"
	"time"
)

// Category identifies what produced a log entry
type Category string

// Status describes what happened to the logged item
type Status string

const (
	CategoryAlarm Category = "Alarm"
	CategoryTimer Category = "Timer"

	StatusScheduled Status = "Scheduled"
	StatusPlayed    Status = "Played"
	StatusMissed    Status = "Missed"
)

type LogEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Category  Category  `json:"category" yaml:"category"`
	Status    Status    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alarm":
		return CategoryAlarm, true
	case "timer":
		return CategoryTimer, true
	}
	return "", false
}

// ParseStatus matches a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled":
		return StatusScheduled, true
	case "played":
		return StatusPlayed, true
	case "missed":
		return StatusMissed, true
	}
	return "", false
}
