package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayouts are tried in order when parsing stored times. The last two
// are the datetime-local forms produced by form inputs and the browser build.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp parses a stored timestamp. Zone-less layouts are read in local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

type record map[string]json.RawMessage

func (r record) str(keys ...string) (string, bool) {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
		// Numeric ids from the browser build (Date.now()).
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), true
		}
	}
	return "", false
}

func (r record) boolean(key string, def bool) bool {
	raw, ok := r[key]
	if !ok {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return def
	}
	return b
}

func (r record) timestamp(keys ...string) (time.Time, bool) {
	s, ok := r.str(keys...)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// records splits a stored JSON array into individual objects. A value that was
// itself stored as a JSON string (localStorage style) is unwrapped once.
func records(data []byte) ([]record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, err
		}
		data = bytes.TrimSpace([]byte(inner))
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]record, 0, len(raws))
	for _, raw := range raws {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil || r == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func fallbackID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// DecodeReminders parses a stored reminders value. Records that are not
// objects or lack text or a time are skipped and counted.
func DecodeReminders(data []byte) ([]Reminder, int, error) {
	recs, err := records(data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse reminders: %w", err)
	}
	reminders := make([]Reminder, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		if rec == nil {
			skipped++
			continue
		}
		text, _ := rec.str("text")
		at, ok := rec.timestamp("scheduled_at", "time")
		if strings.TrimSpace(text) == "" || !ok {
			skipped++
			continue
		}
		id, _ := rec.str("id")
		r := Reminder{
			ID:          fallbackID(id),
			Text:        text,
			ScheduledAt: at,
			Triggered:   rec.boolean("triggered", false),
		}
		r.Active = rec.boolean("active", !r.Triggered)
		r.CreatedAt, _ = rec.timestamp("created_at")
		r.Normalize()
		reminders = append(reminders, r)
	}
	return reminders, skipped, nil
}

// DecodeNotes parses a stored notes value, skipping notes with neither title nor body.
func DecodeNotes(data []byte) ([]Note, int, error) {
	recs, err := records(data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse notes: %w", err)
	}
	notes := make([]Note, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		if rec == nil {
			skipped++
			continue
		}
		title, _ := rec.str("title")
		body, _ := rec.str("body")
		if title == "" && body == "" {
			skipped++
			continue
		}
		id, _ := rec.str("id")
		n := Note{ID: fallbackID(id), Title: title, Body: body}
		n.CreatedAt, _ = rec.timestamp("created_at")
		notes = append(notes, n)
	}
	return notes, skipped, nil
}

// DecodeLogs parses a stored logs value, dropping entries with an unknown
// category or status. The result is truncated to limit entries.
func DecodeLogs(data []byte, limit int) ([]LogEntry, int, error) {
	recs, err := records(data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse logs: %w", err)
	}
	logs := make([]LogEntry, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		if rec == nil {
			skipped++
			continue
		}
		catStr, _ := rec.str("category", "type")
		statusStr, _ := rec.str("status")
		cat, okCat := ParseCategory(catStr)
		status, okStatus := ParseStatus(statusStr)
		if !okCat || !okStatus {
			skipped++
			continue
		}
		text, _ := rec.str("text")
		id, _ := rec.str("id")
		entry := LogEntry{ID: fallbackID(id), Text: text, Category: cat, Status: status}
		entry.CreatedAt, _ = rec.timestamp("created_at", "timestamp")
		logs = append(logs, entry)
	}
	if limit > 0 && len(logs) > limit {
		skipped += len(logs) - limit
		logs = logs[:limit]
	}
	return logs, skipped, nil
}

// DecodeTheme parses a stored theme value, accepting a bare or JSON-quoted string.
func DecodeTheme(data []byte) (Theme, error) {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal([]byte(s), &s); err != nil {
			return ThemeLight, fmt.Errorf("failed to parse theme: %w", err)
		}
	}
	return ParseTheme(s)
}
