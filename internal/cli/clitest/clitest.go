// Package clitest builds command contexts over in-memory or temporary stores
// for command tests.
package clitest

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/chime/internal/app"
	"github.com/julianstephens/chime/internal/cli"
	"github.com/julianstephens/chime/internal/config"
	"github.com/julianstephens/chime/internal/storage"
)

// Now is the fixed clock every context from this package uses.
var Now = time.Date(2026, 5, 12, 8, 30, 0, 0, time.Local)

// Announcer records speech and never shows a desktop notification.
type Announcer struct {
	mu     sync.Mutex
	spoken []string
}

func (a *Announcer) Speak(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spoken = append(a.spoken, text)
	return nil
}

func (a *Announcer) Cancel() {}

func (a *Announcer) Notify(string, string) error { return nil }

func (a *Announcer) Spoken() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.spoken...)
}

type Env struct {
	Context   *cli.Context
	Out       *bytes.Buffer
	Announcer *Announcer
}

// Output returns everything printed so far.
func (e *Env) Output() string {
	return e.Out.String()
}

// Input replaces stdin for confirmations and acknowledgements.
func (e *Env) Input(s string) {
	e.Context.In = strings.NewReader(s)
}

// New opens store and wraps it in a context with a fixed clock. The store is
// closed when the test ends.
func New(t testing.TB, store storage.Provider) *Env {
	t.Helper()
	if err := store.Open(); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	session := app.NewSession(store)
	session.SetClock(func() time.Time { return Now })

	out := &bytes.Buffer{}
	ann := &Announcer{}
	cfg := &config.Config{
		Storage:       config.StorageConfig{Path: store.GetConfigPath()},
		Notifications: config.NotificationsConfig{Title: "Voice Reminder"},
		Timer:         config.TimerConfig{DefaultMessage: "Timer finished"},
	}
	return &Env{
		Context: &cli.Context{
			Config:    cfg,
			Store:     store,
			Session:   session,
			Announcer: ann,
			Out:       out,
			In:        strings.NewReader(""),
			Now:       func() time.Time { return Now },
		},
		Out:       out,
		Announcer: ann,
	}
}

// Memory is New over a fresh MemoryStore.
func Memory(t testing.TB) *Env {
	t.Helper()
	return New(t, storage.NewMemoryStore())
}

// SQLite is New over a SQLite file in a temporary directory.
func SQLite(t testing.TB) *Env {
	t.Helper()
	return New(t, storage.NewSQLiteStore(t.TempDir()+"/chime.db"))
}
