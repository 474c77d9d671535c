package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/chime/internal/models"
)

func TestAppendNewestFirst(t *testing.T) {
	l := New(nil)
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	tick := 0
	l.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	l.Append("first", models.CategoryAlarm, models.StatusScheduled)
	l.Append("second", models.CategoryTimer, models.StatusPlayed)

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "second" || entries[1].Text != "first" {
		t.Errorf("entries not newest first: %q, %q", entries[0].Text, entries[1].Text)
	}
	if !entries[0].CreatedAt.After(entries[1].CreatedAt) {
		t.Error("newest entry should carry the later timestamp")
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Error("entries need distinct ids")
	}
}

func TestAppendCapsAtFifty(t *testing.T) {
	l := New(nil)
	for i := 1; i <= 51; i++ {
		l.Append(fmt.Sprintf("entry %d", i), models.CategoryAlarm, models.StatusPlayed)
	}

	entries := l.Entries()
	if len(entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(entries))
	}
	if entries[0].Text != "entry 51" {
		t.Errorf("newest entry = %q, want entry 51", entries[0].Text)
	}
	if entries[49].Text != "entry 2" {
		t.Errorf("oldest kept entry = %q, want entry 2", entries[49].Text)
	}
}

func TestNewTrimsLoadedEntries(t *testing.T) {
	loaded := make([]models.LogEntry, 60)
	for i := range loaded {
		loaded[i] = models.LogEntry{ID: fmt.Sprint(i)}
	}
	l := New(loaded)
	if l.Len() != 50 {
		t.Errorf("expected 50 entries after load, got %d", l.Len())
	}
	if l.Entries()[0].ID != "0" {
		t.Error("trimming must drop the oldest (tail) entries")
	}
}

func TestClear(t *testing.T) {
	l := New(nil)
	l.Append("x", models.CategoryAlarm, models.StatusPlayed)
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected empty log, got %d", l.Len())
	}
}

func TestEntriesIsCopy(t *testing.T) {
	l := New(nil)
	l.Append("x", models.CategoryAlarm, models.StatusPlayed)
	entries := l.Entries()
	entries[0].Text = "mutated"
	if l.Entries()[0].Text != "x" {
		t.Error("Entries must not expose internal storage")
	}
}
