// Package timer implements the one-shot countdown timer. It holds no clock
// of its own: each Tick is one elapsed second.
package timer

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/chime/internal/announcer"
	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/models"
)

var (
	// ErrInvalidDuration is returned for a non-positive or non-numeric minute count.
	ErrInvalidDuration = errors.New("timer minutes must be a positive whole number")
	// ErrAlreadyRunning is returned when starting a timer that is counting down.
	ErrAlreadyRunning = errors.New("timer is already running")
)

type Reason int

const (
	// ReasonFinished speaks the message and logs the timer as played.
	ReasonFinished Reason = iota
	// ReasonManual halts without any announcement.
	ReasonManual
)

// Recorder receives the activity entry written when a timer finishes.
type Recorder interface {
	AppendLog(text string, category models.Category, status models.Status) error
}

type Timer struct {
	speaker        announcer.Speaker
	recorder       Recorder
	defaultMessage string
	onFinish       func(message string)
	interval       time.Duration

	mu        sync.Mutex
	running   bool
	total     int
	remaining int
	message   string
}

type Option func(*Timer)

// WithDefaultMessage replaces "Timer finished" for timers started without a message.
func WithDefaultMessage(msg string) Option {
	return func(t *Timer) {
		if msg != "" {
			t.defaultMessage = msg
		}
	}
}

// WithTickInterval sets the wall-clock length of one Run tick. Each tick
// still counts as one second of the countdown.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// OnFinish observes each timer that runs to zero.
func OnFinish(fn func(message string)) Option {
	return func(t *Timer) { t.onFinish = fn }
}

func New(speaker announcer.Speaker, recorder Recorder, opts ...Option) *Timer {
	if speaker == nil {
		speaker = announcer.Nop{}
	}
	t := &Timer{
		speaker:        speaker,
		recorder:       recorder,
		defaultMessage: constants.DefaultTimerMessage,
		onFinish:       func(string) {},
		interval:       constants.TickInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ParseMinutes validates user input for Start.
func ParseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, ErrInvalidDuration
	}
	return n, nil
}

func (t *Timer) Start(minutes int, message string) error {
	if minutes <= 0 {
		return ErrInvalidDuration
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = t.defaultMessage
	}
	t.total = minutes * 60
	t.remaining = t.total
	t.message = message
	t.running = true
	logger.Debug("Timer started", "minutes", minutes, "message", message)
	return nil
}

// Tick consumes one second and reports whether the timer finished on it.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return false
	}
	t.remaining--
	done := t.remaining <= 0
	t.mu.Unlock()

	if done {
		t.Stop(ReasonFinished)
	}
	return done
}

// Stop halts a running timer. Stopping an idle timer does nothing.
func (t *Timer) Stop(reason Reason) {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	message := t.message
	t.mu.Unlock()

	if reason != ReasonFinished {
		logger.Debug("Timer stopped")
		return
	}
	if err := t.speaker.Speak(message); err != nil {
		logger.Warn("Speech failed", "error", err)
	}
	if t.recorder != nil {
		if err := t.recorder.AppendLog(message, models.CategoryTimer, models.StatusPlayed); err != nil {
			logger.Error("Failed to log timer", "error", err)
		}
	}
	t.onFinish(message)
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining < 0 {
		return 0
	}
	return time.Duration(t.remaining) * time.Second
}

// DefaultMessage is spoken for timers started without a message.
func (t *Timer) DefaultMessage() string {
	return t.defaultMessage
}

func (t *Timer) Message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

// Progress is the fraction of the countdown still remaining, in [0, 1].
func (t *Timer) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total <= 0 {
		return 0
	}
	p := float64(t.remaining) / float64(t.total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Run ticks once per interval (a second by default) until the timer finishes or ctx is cancelled,
// which stops it manually.
func (t *Timer) Run(ctx context.Context, onTick func(remaining time.Duration)) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for t.Running() {
		select {
		case <-ctx.Done():
			t.Stop(ReasonManual)
			return ctx.Err()
		case <-ticker.C:
			t.Tick()
			if onTick != nil {
				onTick(t.Remaining())
			}
		}
	}
	return nil
}
