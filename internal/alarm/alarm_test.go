package alarm

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/chime/internal/announcer"
	"github.com/julianstephens/chime/internal/models"
)

type logLine struct {
	text     string
	category models.Category
	status   models.Status
}

type fakeStore struct {
	triggered map[string]bool
	saveErr   error
	logs      []logLine
	added     []models.Reminder
}

func newFakeStore() *fakeStore {
	return &fakeStore{triggered: map[string]bool{}}
}

func (f *fakeStore) MarkTriggered(id string) (bool, error) {
	if f.triggered[id] {
		return false, nil
	}
	f.triggered[id] = true
	return true, f.saveErr
}

func (f *fakeStore) AppendLog(text string, c models.Category, s models.Status) error {
	f.logs = append(f.logs, logLine{text, c, s})
	return nil
}

func (f *fakeStore) AddReminder(text string, at time.Time) (models.Reminder, error) {
	r := models.Reminder{ID: "snoozed", Text: text, ScheduledAt: at, Active: true}
	f.added = append(f.added, r)
	f.logs = append(f.logs, logLine{text, models.CategoryAlarm, models.StatusScheduled})
	return r, nil
}

type fakeAnnouncer struct {
	speakErr  error
	notifyErr error
	spoken    []string
	notified  []string
	cancels   int
}

func (f *fakeAnnouncer) Speak(text string) error {
	f.spoken = append(f.spoken, text)
	return f.speakErr
}

func (f *fakeAnnouncer) Cancel() { f.cancels++ }

func (f *fakeAnnouncer) Notify(title, body string) error {
	f.notified = append(f.notified, title+"|"+body)
	return f.notifyErr
}

var firedAt = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newDispatcher(store *fakeStore, a *fakeAnnouncer, warnings *[]string) *Dispatcher {
	return New(store, a,
		WithClock(func() time.Time { return firedAt }),
		WithTitle("Voice Reminder"),
		WithWarning(func(msg string) { *warnings = append(*warnings, msg) }),
	)
}

func reminder() models.Reminder {
	return models.Reminder{ID: "r1", Text: "Call mom", ScheduledAt: firedAt, Active: true}
}

func TestFire(t *testing.T) {
	store := newFakeStore()
	ann := &fakeAnnouncer{}
	var warnings []string
	var raised []Alarm
	d := New(store, ann,
		WithClock(func() time.Time { return firedAt }),
		OnRaise(func(a Alarm) { raised = append(raised, a) }),
		WithWarning(func(msg string) { warnings = append(warnings, msg) }),
	)

	a, err := d.Fire(reminder())
	if err != nil {
		t.Fatalf("Fire failed: %v", err)
	}
	if !store.triggered["r1"] {
		t.Error("reminder not marked triggered")
	}
	if !a.Reminder.Triggered || a.Reminder.Active {
		t.Errorf("alarm reminder state: %+v", a.Reminder)
	}
	if len(ann.spoken) != 1 || ann.spoken[0] != "Call mom" {
		t.Errorf("spoken = %v", ann.spoken)
	}
	if len(ann.notified) != 1 {
		t.Errorf("notified = %v", ann.notified)
	}
	if len(store.logs) != 1 || store.logs[0] != (logLine{"Call mom", models.CategoryAlarm, models.StatusPlayed}) {
		t.Errorf("logs = %+v", store.logs)
	}
	if len(raised) != 1 || !raised[0].FiredAt.Equal(firedAt) {
		t.Errorf("raised = %+v", raised)
	}
	if active, ok := d.Active(); !ok || active.Reminder.ID != "r1" {
		t.Error("alarm should be active")
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestFireTwice(t *testing.T) {
	store := newFakeStore()
	ann := &fakeAnnouncer{}
	var warnings []string
	d := newDispatcher(store, ann, &warnings)

	if _, err := d.Fire(reminder()); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Fire(reminder()); !errors.Is(err, ErrAlreadyTriggered) {
		t.Errorf("second Fire = %v, want ErrAlreadyTriggered", err)
	}
	if len(ann.spoken) != 1 || len(store.logs) != 1 {
		t.Errorf("second Fire must have no side effects: spoken %v, logs %v", ann.spoken, store.logs)
	}
}

func TestFireSurvivesCollaboratorFailures(t *testing.T) {
	store := newFakeStore()
	ann := &fakeAnnouncer{
		speakErr:  announcer.ErrSpeechUnsupported,
		notifyErr: errors.New("tray exploded"),
	}
	var warnings []string
	d := newDispatcher(store, ann, &warnings)

	if _, err := d.Fire(reminder()); err != nil {
		t.Fatalf("Fire failed: %v", err)
	}
	if !store.triggered["r1"] {
		t.Error("state transition must complete")
	}
	if len(store.logs) != 1 || store.logs[0].status != models.StatusPlayed {
		t.Errorf("log entry must still be written: %+v", store.logs)
	}
	if len(warnings) != 1 {
		t.Errorf("expected one speech warning, got %v", warnings)
	}
	if _, ok := d.Active(); !ok {
		t.Error("alarm must still be raised")
	}
}

func TestFireWithoutNotificationPermission(t *testing.T) {
	store := newFakeStore()
	ann := &fakeAnnouncer{notifyErr: announcer.ErrNotPermitted}
	var warnings []string
	d := newDispatcher(store, ann, &warnings)

	if _, err := d.Fire(reminder()); err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("missing permission is not a warning: %v", warnings)
	}
}

func TestFirePersistFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	var warnings []string
	d := newDispatcher(store, &fakeAnnouncer{}, &warnings)

	if _, err := d.Fire(reminder()); err != nil {
		t.Fatalf("Fire failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected save warning, got %v", warnings)
	}
	if len(store.logs) != 1 {
		t.Error("alarm should still be logged")
	}
}

func TestStop(t *testing.T) {
	ann := &fakeAnnouncer{}
	var warnings []string
	d := newDispatcher(newFakeStore(), ann, &warnings)

	if _, ok := d.Stop(); ok {
		t.Error("Stop with nothing ringing should report false")
	}
	d.Fire(reminder())
	a, ok := d.Stop()
	if !ok || a.Reminder.ID != "r1" {
		t.Errorf("Stop() = %+v, %v", a, ok)
	}
	if ann.cancels != 1 {
		t.Errorf("Stop should cancel speech, cancels = %d", ann.cancels)
	}
	if _, ok := d.Active(); ok {
		t.Error("alarm should be dismissed")
	}
}

func TestSnooze(t *testing.T) {
	store := newFakeStore()
	var warnings []string
	d := newDispatcher(store, &fakeAnnouncer{}, &warnings)

	if _, err := d.Snooze(); !errors.Is(err, ErrNoActiveAlarm) {
		t.Errorf("Snooze() = %v, want ErrNoActiveAlarm", err)
	}

	d.Fire(reminder())
	r, err := d.Snooze()
	if err != nil {
		t.Fatalf("Snooze failed: %v", err)
	}
	if want := firedAt.Add(5 * time.Minute); !r.ScheduledAt.Equal(want) {
		t.Errorf("snoozed to %v, want %v", r.ScheduledAt, want)
	}
	if r.Text != "Call mom" || !r.Active {
		t.Errorf("unexpected snoozed reminder: %+v", r)
	}
	last := store.logs[len(store.logs)-1]
	if last.status != models.StatusScheduled {
		t.Errorf("snooze should log Scheduled, got %+v", last)
	}
	if _, ok := d.Active(); ok {
		t.Error("alarm should be dismissed after snooze")
	}
}

func TestNewestAlarmReplacesPrevious(t *testing.T) {
	var warnings []string
	d := newDispatcher(newFakeStore(), &fakeAnnouncer{}, &warnings)

	d.Fire(reminder())
	second := reminder()
	second.ID, second.Text = "r2", "Stretch"
	d.Fire(second)

	a, _ := d.Active()
	if a.Reminder.ID != "r2" {
		t.Errorf("active alarm = %s, want r2", a.Reminder.ID)
	}
}
