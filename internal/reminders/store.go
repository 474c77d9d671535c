// Package reminders holds the in-memory reminder collection, kept in
// ascending scheduled-time order with ties in insertion order.
package reminders

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chime/internal/models"
)

type Store struct {
	items []models.Reminder
	newID func() string
	now   func() time.Time
}

// New builds a store from previously persisted reminders. They are stably
// sorted so a hand-edited snapshot still fires in time order.
func New(items []models.Reminder) *Store {
	s := &Store{
		items: make([]models.Reminder, 0, len(items)),
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
		now:   time.Now,
	}
	for _, r := range items {
		r.Normalize()
		s.items = append(s.items, r)
	}
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].ScheduledAt.Before(s.items[j].ScheduledAt)
	})
	return s
}

// SetIDFunc overrides id generation.
func (s *Store) SetIDFunc(fn func() string) {
	s.newID = fn
}

// SetClock overrides the CreatedAt source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Add creates an active reminder and inserts it after any reminder scheduled
// at or before the same instant. Past times are accepted.
func (s *Store) Add(text string, scheduledAt time.Time) (models.Reminder, error) {
	r := models.Reminder{
		ID:          s.newID(),
		Text:        strings.TrimSpace(text),
		ScheduledAt: scheduledAt,
		Active:      true,
		CreatedAt:   s.now(),
	}
	if err := r.Validate(); err != nil {
		return models.Reminder{}, err
	}

	idx := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].ScheduledAt.After(scheduledAt)
	})
	s.items = append(s.items, models.Reminder{})
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = r
	return r, nil
}

// Delete removes the reminder with id. It reports whether one was removed.
func (s *Store) Delete(id string) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// MarkTriggered flips a reminder to triggered and inactive. It reports whether
// the call changed anything, so a second call returns false.
func (s *Store) MarkTriggered(id string) bool {
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Triggered {
			return false
		}
		s.items[i].Triggered = true
		s.items[i].Active = false
		return true
	}
	return false
}

func (s *Store) Get(id string) (models.Reminder, bool) {
	for _, r := range s.items {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reminder{}, false
}

// All returns every reminder, triggered ones included.
func (s *Store) All() []models.Reminder {
	out := make([]models.Reminder, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) ListActive() []models.Reminder {
	var out []models.Reminder
	for _, r := range s.items {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

// Due returns the reminders that should fire at now, in store order.
func (s *Store) Due(now time.Time) []models.Reminder {
	var out []models.Reminder
	for _, r := range s.items {
		if r.IsDue(now) {
			out = append(out, r)
		}
	}
	return out
}

// NextUpcoming returns the earliest active reminder strictly after now.
func (s *Store) NextUpcoming(now time.Time) (models.Reminder, bool) {
	for _, r := range s.items {
		if r.Active && r.ScheduledAt.After(now) {
			return r, true
		}
	}
	return models.Reminder{}, false
}

// PurgeTriggered drops fired reminders kept as history and returns how many.
func (s *Store) PurgeTriggered() int {
	kept := s.items[:0]
	removed := 0
	for _, r := range s.items {
		if r.Triggered {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.items = kept
	return removed
}

func (s *Store) Len() int {
	return len(s.items)
}
