package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/chime/internal/announcer"
	"github.com/julianstephens/chime/internal/config"
	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/storage"
)

type recordingAnnouncer struct {
	spoken []string
}

func (r *recordingAnnouncer) Speak(text string) error {
	r.spoken = append(r.spoken, text)
	return nil
}
func (r *recordingAnnouncer) Cancel()                     {}
func (r *recordingAnnouncer) Notify(string, string) error { return announcer.ErrNotPermitted }

var t0 = time.Date(2026, 7, 4, 17, 59, 58, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Notifications: config.NotificationsConfig{Title: "Voice Reminder"},
		Timer:         config.TimerConfig{DefaultMessage: "Timer finished"},
	}
}

func newTestSession(t *testing.T) (*Session, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	s := NewSession(mem)
	s.SetClock(func() time.Time { return t0 })
	return s, mem
}

func TestCallMomScenario(t *testing.T) {
	s, mem := newTestSession(t)
	ann := &recordingAnnouncer{}
	rt := NewRuntimeWith(s, ann, testConfig(), RuntimeOptions{}, nil)

	r, err := s.AddReminder("Call mom", t0.Add(2*time.Second))
	if err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}

	for i := 0; i <= 2; i++ {
		rt.Scheduler.Tick(t0.Add(time.Duration(i) * time.Second))
	}

	if len(ann.spoken) != 1 || ann.spoken[0] != "Call mom" {
		t.Errorf("spoken = %v", ann.spoken)
	}
	if active := s.ActiveReminders(); len(active) != 0 {
		t.Errorf("fired reminder still active: %+v", active)
	}
	logs := s.Logs()
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %+v", logs)
	}
	if logs[0].Status != models.StatusPlayed || logs[1].Status != models.StatusScheduled {
		t.Errorf("log order = %s, %s", logs[0].Status, logs[1].Status)
	}
	if a, ok := rt.Dispatcher.Active(); !ok || a.Reminder.ID != r.ID {
		t.Error("alarm should await acknowledgement")
	}

	reloaded := NewSession(mem)
	all := reloaded.Reminders()
	if len(all) != 1 || !all[0].Triggered || all[0].Active {
		t.Errorf("triggered state not persisted: %+v", all)
	}
	if len(reloaded.Logs()) != 2 {
		t.Errorf("logs not persisted: %+v", reloaded.Logs())
	}
}

func TestSnoozeScenario(t *testing.T) {
	s, _ := newTestSession(t)
	rt := NewRuntimeWith(s, &recordingAnnouncer{}, testConfig(),
		RuntimeOptions{}, nil)

	s.AddReminder("Stretch", t0)
	res := rt.Scheduler.Tick(t0)
	if len(res.Fired) != 1 {
		t.Fatalf("expected one alarm, got %+v", res.Fired)
	}
	snoozed, err := rt.Dispatcher.Snooze()
	if err != nil {
		t.Fatalf("Snooze failed: %v", err)
	}
	if want := res.Fired[0].FiredAt.Add(5 * time.Minute); !snoozed.ScheduledAt.Equal(want) {
		t.Errorf("snoozed to %v, want %v", snoozed.ScheduledAt, want)
	}
	next, ok := s.NextUpcoming(t0)
	if !ok || next.ID != snoozed.ID {
		t.Errorf("next upcoming = %+v", next)
	}
}

func TestTimerScenario(t *testing.T) {
	s, _ := newTestSession(t)
	ann := &recordingAnnouncer{}
	rt := NewRuntimeWith(s, ann, testConfig(), RuntimeOptions{}, nil)

	if err := rt.Timer.Start(5, "done"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		rt.Timer.Tick()
	}
	logs := s.Logs()
	if len(logs) != 1 || logs[0].Category != models.CategoryTimer || logs[0].Status != models.StatusPlayed || logs[0].Text != "done" {
		t.Errorf("timer log = %+v", logs)
	}
	if len(ann.spoken) != 1 || ann.spoken[0] != "done" {
		t.Errorf("spoken = %v", ann.spoken)
	}
}

func TestAddReminderValidation(t *testing.T) {
	s, mem := newTestSession(t)
	if _, err := s.AddReminder("", t0); !errors.Is(err, models.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if mem.Saves() != 0 || len(s.Logs()) != 0 {
		t.Error("rejected reminder must not be saved or logged")
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	s, mem := newTestSession(t)
	removed, err := s.DeleteReminder("nope")
	if removed || err != nil {
		t.Errorf("DeleteReminder = %v, %v", removed, err)
	}
	if mem.Saves() != 0 {
		t.Error("no-op delete must not save")
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	s, mem := newTestSession(t)
	mem.SaveErr = errors.New("disk full")

	r, err := s.AddReminder("Call mom", t0.Add(time.Hour))
	if err == nil {
		t.Fatal("expected save error")
	}
	if r.ID == "" || len(s.ActiveReminders()) != 1 {
		t.Error("reminder should remain in memory")
	}
}

func TestThemeAndLogs(t *testing.T) {
	s, mem := newTestSession(t)
	if s.Theme() != models.ThemeLight {
		t.Errorf("default theme = %q", s.Theme())
	}
	theme, err := s.ToggleTheme()
	if err != nil || theme != models.ThemeDark {
		t.Errorf("ToggleTheme = %q, %v", theme, err)
	}
	if err := s.SetTheme("sepia"); err == nil {
		t.Error("expected invalid theme error")
	}
	if NewSession(mem).Theme() != models.ThemeDark {
		t.Error("theme not persisted")
	}

	for i := 0; i < 60; i++ {
		s.AppendLog("x", models.CategoryTimer, models.StatusPlayed)
	}
	if n := len(NewSession(mem).Logs()); n != 50 {
		t.Errorf("persisted log length = %d, want 50", n)
	}
	if err := s.ClearLogs(); err != nil {
		t.Fatal(err)
	}
	if len(NewSession(mem).Logs()) != 0 {
		t.Error("cleared logs not persisted")
	}
}

func TestNotesAndDraft(t *testing.T) {
	s, mem := newTestSession(t)
	n, err := s.SaveNote("Call", "Call mom about Sunday")
	if err != nil {
		t.Fatal(err)
	}
	text, ok := s.DraftFromNote(n.ID)
	if !ok || text != "Call mom about Sunday" {
		t.Errorf("draft = %q, %v", text, ok)
	}
	if got := s.SearchNotes("sunday"); len(got) != 1 {
		t.Errorf("search = %+v", got)
	}
	if removed, _ := s.DeleteNote(n.ID); !removed {
		t.Error("DeleteNote should remove")
	}
	if len(NewSession(mem).Notes()) != 0 {
		t.Error("note deletion not persisted")
	}
}

func TestImportAndPurge(t *testing.T) {
	s, mem := newTestSession(t)
	snap := models.DefaultSnapshot()
	snap.Reminders = []models.Reminder{
		{ID: "a", Text: "old", ScheduledAt: t0.Add(-time.Hour), Triggered: true},
		{ID: "b", Text: "new", ScheduledAt: t0.Add(time.Hour), Active: true},
	}
	snap.Theme = models.ThemeDark
	if err := s.Import(snap); err != nil {
		t.Fatal(err)
	}
	if len(s.Reminders()) != 2 || s.Theme() != models.ThemeDark {
		t.Errorf("import not applied: %+v", s.Snapshot())
	}
	n, err := s.PurgeTriggered()
	if err != nil || n != 1 {
		t.Errorf("PurgeTriggered = %d, %v", n, err)
	}
	if got := NewSession(mem).Reminders(); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("purge not persisted: %+v", got)
	}
}

func TestSessionsShareStore(t *testing.T) {
	tests := []struct {
		name string
		file string
		open func(path string) storage.Provider
	}{
		{"sqlite", "chime.db", func(p string) storage.Provider { return storage.NewSQLiteStore(p) }},
		{"json", "chime.json", func(p string) storage.Provider { return storage.NewJSONStore(p) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			openStore := func() storage.Provider {
				store := tt.open(path)
				if err := store.Open(); err != nil {
					t.Fatalf("Open failed: %v", err)
				}
				t.Cleanup(func() { store.Close() })
				return store
			}

			watcher := NewSession(openStore())
			watcher.SetClock(func() time.Time { return t0 })
			ann := &recordingAnnouncer{}
			rt := NewRuntimeWith(watcher, ann, testConfig(), RuntimeOptions{}, nil)

			if _, err := watcher.AddReminder("first", t0.Add(time.Second)); err != nil {
				t.Fatalf("AddReminder failed: %v", err)
			}

			// A one-shot command in another terminal
			other := NewSession(openStore())
			if _, err := other.AddReminder("Call mom", t0.Add(2*time.Second)); err != nil {
				t.Fatalf("AddReminder failed: %v", err)
			}
			if n := len(other.Reminders()); n != 2 {
				t.Fatalf("second session sees %d reminders, want 2", n)
			}

			for i := 0; i <= 12; i++ {
				rt.Scheduler.Tick(t0.Add(time.Duration(i) * time.Second))
			}

			if len(ann.spoken) != 2 || ann.spoken[0] != "first" || ann.spoken[1] != "Call mom" {
				t.Fatalf("spoken = %v, want [first Call mom]", ann.spoken)
			}

			stored := NewSession(openStore()).Reminders()
			if len(stored) != 2 {
				t.Fatalf("stored %d reminders, want 2", len(stored))
			}
			for _, r := range stored {
				if !r.Triggered {
					t.Errorf("%q not marked triggered", r.Text)
				}
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	s, mem := newTestSession(t)
	if s.Refresh() {
		t.Error("Refresh reloaded an unchanged store")
	}
	if _, err := s.AddReminder("Water plants", t0.Add(time.Hour)); err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}
	if s.Refresh() {
		t.Error("Refresh reloaded after the session's own save")
	}

	other := NewSession(mem)
	if _, err := other.SaveNote("Groceries", "milk"); err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}
	if !s.Refresh() {
		t.Fatal("Refresh missed a write from another session")
	}
	if len(s.Notes()) != 1 || len(s.ActiveReminders()) != 1 {
		t.Errorf("after refresh: notes=%d reminders=%d", len(s.Notes()), len(s.ActiveReminders()))
	}
}
