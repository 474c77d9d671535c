// Package scheduler checks the reminder store once a second and hands every
// due reminder to the alarm dispatcher.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/chime/internal/alarm"
	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/models"
)

type Source interface {
	Due(now time.Time) []models.Reminder
	NextUpcoming(now time.Time) (models.Reminder, bool)
}

type Firer interface {
	Fire(models.Reminder) (alarm.Alarm, error)
}

// Result describes one tick. Next is only meaningful when HasNext is set.
type Result struct {
	Fired   []alarm.Alarm
	Next    models.Reminder
	HasNext bool
}

type Scheduler struct {
	src      Source
	firer    Firer
	interval time.Duration
	now      func() time.Time
	onTick   func(Result)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// OnTick observes every tick run by Start.
func OnTick(fn func(Result)) Option {
	return func(s *Scheduler) { s.onTick = fn }
}

func New(src Source, firer Firer, opts ...Option) *Scheduler {
	s := &Scheduler{
		src:      src,
		firer:    firer,
		interval: constants.TickInterval,
		now:      time.Now,
		onTick:   func(Result) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick fires every reminder due at now, in store order, then looks up the
// next upcoming one. Overdue reminders fire however late the tick is.
func (s *Scheduler) Tick(now time.Time) Result {
	var res Result
	for _, r := range s.src.Due(now) {
		a, err := s.firer.Fire(r)
		if err != nil {
			logger.Warn("Reminder not fired", "id", r.ID, "error", err)
			continue
		}
		res.Fired = append(res.Fired, a)
	}
	res.Next, res.HasNext = s.src.NextUpcoming(now)
	return res
}

// Start runs Tick immediately and then every interval until ctx is done or
// Stop is called. Starting twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.onTick(s.Tick(s.now()))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.onTick(s.Tick(s.now()))
			}
		}
	}(s.done)
}

// Stop cancels the loop and waits for the running tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
