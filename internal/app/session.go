// Package app owns the live chime state. A Session serializes every
// mutation behind one mutex and saves the full snapshot after each change.
// Before each mutation it reloads the store if another process has written
// to it since the last load or save.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/chime/internal/activity"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/notes"
	"github.com/julianstephens/chime/internal/reminders"
	"github.com/julianstephens/chime/internal/storage"
)

type Session struct {
	mu        sync.Mutex
	store     storage.Provider
	reminders *reminders.Store
	notes     *notes.Book
	logs      *activity.Log
	theme     models.Theme
	clock     func() time.Time

	// revision is the store content this session last loaded or wrote
	revision string
}

// NewSession loads the snapshot from an opened provider.
func NewSession(store storage.Provider) *Session {
	s := &Session{store: store}
	s.revision, _ = store.Revision()
	s.reset(store.Load())
	return s
}

// Refresh reloads the state when the store changed underneath the session.
// It reports whether anything was reloaded.
func (s *Session) Refresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked()
}

func (s *Session) syncLocked() bool {
	rev, err := s.store.Revision()
	if err != nil {
		logger.Warn("Failed to check storage for changes", "backend", s.store.Backend(), "error", err)
		return false
	}
	if rev == s.revision {
		return false
	}
	logger.Debug("Storage changed by another process, reloading", "backend", s.store.Backend())
	s.reset(s.store.Load())
	s.revision = rev
	return true
}

func (s *Session) reset(snap models.Snapshot) {
	s.reminders = reminders.New(snap.Reminders)
	s.notes = notes.New(snap.Notes)
	s.logs = activity.New(snap.Logs)
	s.theme = snap.Theme
	if s.theme == "" {
		s.theme = models.ThemeLight
	}
	if s.clock != nil {
		s.reminders.SetClock(s.clock)
		s.notes.SetClock(s.clock)
		s.logs.SetClock(s.clock)
	}
}

// SetClock overrides the timestamp source of every owned collection.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = now
	s.reminders.SetClock(now)
	s.notes.SetClock(now)
	s.logs.SetClock(now)
}

func (s *Session) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Reminders: s.reminders.All(),
		Notes:     s.notes.List(),
		Logs:      s.logs.Entries(),
		Theme:     s.theme,
	}
}

// saveLocked persists the current state. The in-memory change stands even
// when the write fails; the caller reports the error.
func (s *Session) saveLocked() error {
	if err := s.store.Save(s.snapshotLocked()); err != nil {
		logger.Error("Failed to save state", "backend", s.store.Backend(), "error", err)
		return fmt.Errorf("failed to save: %w", err)
	}
	if rev, err := s.store.Revision(); err == nil {
		s.revision = rev
	}
	return nil
}

func (s *Session) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Backend() string {
	return s.store.Backend()
}

// AddReminder stores a new reminder and logs it as scheduled.
func (s *Session) AddReminder(text string, at time.Time) (models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	r, err := s.reminders.Add(text, at)
	if err != nil {
		return models.Reminder{}, err
	}
	s.logs.Append(r.Text, models.CategoryAlarm, models.StatusScheduled)
	logger.Info("Reminder scheduled", "id", r.ID, "at", r.ScheduledAt)
	return r, s.saveLocked()
}

// DeleteReminder reports whether anything was removed. Deleting an unknown
// id does not touch storage.
func (s *Session) DeleteReminder(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	if !s.reminders.Delete(id) {
		return false, nil
	}
	return true, s.saveLocked()
}

func (s *Session) PurgeTriggered() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	n := s.reminders.PurgeTriggered()
	if n == 0 {
		return 0, nil
	}
	return n, s.saveLocked()
}

func (s *Session) MarkTriggered(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	if !s.reminders.MarkTriggered(id) {
		return false, nil
	}
	return true, s.saveLocked()
}

func (s *Session) AppendLog(text string, category models.Category, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.logs.Append(text, category, status)
	return s.saveLocked()
}

func (s *Session) ClearLogs() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.logs.Clear()
	return s.saveLocked()
}

func (s *Session) SaveNote(title, body string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	n, err := s.notes.Save(title, body)
	if err != nil {
		return models.Note{}, err
	}
	return n, s.saveLocked()
}

func (s *Session) DeleteNote(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	if !s.notes.Delete(id) {
		return false, nil
	}
	return true, s.saveLocked()
}

func (s *Session) SetTheme(t models.Theme) error {
	if _, err := models.ParseTheme(string(t)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.theme = t
	return s.saveLocked()
}

func (s *Session) ToggleTheme() (models.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.theme = s.theme.Toggle()
	return s.theme, s.saveLocked()
}

// Import replaces the whole state with snap and persists it.
func (s *Session) Import(snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(snap)
	return s.saveLocked()
}

func (s *Session) ActiveReminders() []models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminders.ListActive()
}

func (s *Session) Reminders() []models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminders.All()
}

// Due picks up reminders written by other processes before checking.
func (s *Session) Due(now time.Time) []models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return s.reminders.Due(now)
}

func (s *Session) NextUpcoming(now time.Time) (models.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminders.NextUpcoming(now)
}

func (s *Session) Theme() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Session) Logs() []models.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Entries()
}

func (s *Session) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.List()
}

func (s *Session) Note(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Get(id)
}

func (s *Session) SearchNotes(query string) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Search(query)
}

// DraftFromNote returns the text to pre-fill a new reminder with.
func (s *Session) DraftFromNote(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Draft(id)
}
