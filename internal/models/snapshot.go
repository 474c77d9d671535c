package models

// Snapshot is the complete persisted application state.
type Snapshot struct {
	Reminders []Reminder `json:"reminders" yaml:"reminders"`
	Notes     []Note     `json:"notes" yaml:"notes"`
	Logs      []LogEntry `json:"logs" yaml:"logs"` // newest first
	Theme     Theme      `json:"theme" yaml:"theme"`
}

// DefaultSnapshot returns the state used when nothing has been stored yet.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Reminders: []Reminder{},
		Notes:     []Note{},
		Logs:      []LogEntry{},
		Theme:     ThemeLight,
	}
}

// Clone returns a deep copy so callers cannot mutate the owner's slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Reminders: make([]Reminder, len(s.Reminders)),
		Notes:     make([]Note, len(s.Notes)),
		Logs:      make([]LogEntry, len(s.Logs)),
		Theme:     s.Theme,
	}
	copy(out.Reminders, s.Reminders)
	copy(out.Notes, s.Notes)
	copy(out.Logs, s.Logs)
	return out
}
