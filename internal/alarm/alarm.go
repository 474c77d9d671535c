// Package alarm turns a due reminder into a spoken, notified and logged
// alarm that waits for the user to stop or snooze it.
package alarm

import (
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/chime/internal/announcer"
	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/models"
)

var (
	// ErrNoActiveAlarm is returned by Snooze when nothing is ringing.
	ErrNoActiveAlarm = errors.New("no active alarm")
	// ErrAlreadyTriggered is returned by Fire for a reminder that is no longer pending.
	ErrAlreadyTriggered = errors.New("reminder already triggered or removed")
)

// Alarm is the acknowledgement surface for one fired reminder.
type Alarm struct {
	Reminder models.Reminder
	FiredAt  time.Time
}

// Store is the state the dispatcher mutates. Implementations persist each
// call; a returned error means the change was applied but not saved.
type Store interface {
	MarkTriggered(id string) (bool, error)
	AppendLog(text string, category models.Category, status models.Status) error
	AddReminder(text string, at time.Time) (models.Reminder, error)
}

type Dispatcher struct {
	store     Store
	announcer announcer.Announcer
	title     string
	now       func() time.Time
	warn      func(string)
	onRaise   func(Alarm)

	mu     sync.Mutex
	active *Alarm
}

type Option func(*Dispatcher)

// WithTitle sets the desktop notification title.
func WithTitle(title string) Option {
	return func(d *Dispatcher) { d.title = title }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithWarning receives user-facing warnings such as missing speech support.
func WithWarning(fn func(string)) Option {
	return func(d *Dispatcher) { d.warn = fn }
}

// OnRaise is called with each alarm once it is ready for acknowledgement.
func OnRaise(fn func(Alarm)) Option {
	return func(d *Dispatcher) { d.onRaise = fn }
}

func New(store Store, a announcer.Announcer, opts ...Option) *Dispatcher {
	if a == nil {
		a = announcer.Nop{}
	}
	d := &Dispatcher{
		store:     store,
		announcer: a,
		title:     constants.DefaultNotificationTitle,
		now:       time.Now,
		warn:      func(string) {},
		onRaise:   func(Alarm) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fire marks the reminder triggered and persists it, then speaks, notifies,
// logs and raises the alarm. Only the first step can abort; the rest are
// independent and a failure in one is logged and skipped.
func (d *Dispatcher) Fire(r models.Reminder) (Alarm, error) {
	changed, err := d.store.MarkTriggered(r.ID)
	if !changed && err == nil {
		return Alarm{}, ErrAlreadyTriggered
	}
	if err != nil {
		logger.Error("Failed to persist triggered reminder", "id", r.ID, "error", err)
		d.warn("Could not save reminder state: " + err.Error())
	}
	r.Triggered = true
	r.Active = false

	if err := d.announcer.Speak(r.Text); err != nil {
		if errors.Is(err, announcer.ErrSpeechUnsupported) {
			d.warn("Voice not supported on this system")
		}
		logger.Warn("Speech failed", "id", r.ID, "error", err)
	}

	if err := d.announcer.Notify(d.title, r.Text); err != nil {
		if errors.Is(err, announcer.ErrNotPermitted) {
			logger.Debug("Notification skipped", "id", r.ID)
		} else {
			logger.Warn("Notification failed", "id", r.ID, "error", err)
		}
	}

	if err := d.store.AppendLog(r.Text, models.CategoryAlarm, models.StatusPlayed); err != nil {
		logger.Error("Failed to log alarm", "id", r.ID, "error", err)
	}

	a := Alarm{Reminder: r, FiredAt: d.now()}
	d.mu.Lock()
	d.active = &a
	d.mu.Unlock()
	d.onRaise(a)

	logger.Info("Alarm fired", "id", r.ID, "text", r.Text)
	return a, nil
}

// Active returns the alarm awaiting acknowledgement.
func (d *Dispatcher) Active() (Alarm, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return Alarm{}, false
	}
	return *d.active, true
}

func (d *Dispatcher) take() (Alarm, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return Alarm{}, false
	}
	a := *d.active
	d.active = nil
	return a, true
}

// Stop dismisses the alarm and silences its speech.
func (d *Dispatcher) Stop() (Alarm, bool) {
	a, ok := d.take()
	if !ok {
		return Alarm{}, false
	}
	d.announcer.Cancel()
	return a, true
}

// Snooze dismisses the alarm and schedules the same text SnoozeDuration after
// it fired.
func (d *Dispatcher) Snooze() (models.Reminder, error) {
	a, ok := d.take()
	if !ok {
		return models.Reminder{}, ErrNoActiveAlarm
	}
	d.announcer.Cancel()
	r, err := d.store.AddReminder(a.Reminder.Text, a.FiredAt.Add(constants.SnoozeDuration))
	if err != nil {
		return r, err
	}
	logger.Info("Alarm snoozed", "id", a.Reminder.ID, "until", r.ScheduledAt)
	return r, nil
}
