package app

import (
	"github.com/julianstephens/chime/internal/alarm"
	"github.com/julianstephens/chime/internal/announcer"
	"github.com/julianstephens/chime/internal/config"
	"github.com/julianstephens/chime/internal/notifier"
	"github.com/julianstephens/chime/internal/scheduler"
	"github.com/julianstephens/chime/internal/timer"
)

// Runtime wires the session to its collaborators. Both front ends build one
// and differ only in who drives the ticks.
type Runtime struct {
	Session    *Session
	Announcer  announcer.Announcer
	Desktop    *announcer.Desktop
	Dispatcher *alarm.Dispatcher
	Scheduler  *scheduler.Scheduler
	Timer      *timer.Timer
}

type RuntimeOptions struct {
	Dispatcher []alarm.Option
	Scheduler  []scheduler.Option
	Timer      []timer.Option
}

// NewRuntime builds the announcer from cfg and asks for notification
// permission once.
func NewRuntime(session *Session, cfg *config.Config, opts RuntimeOptions) *Runtime {
	var speaker announcer.Speaker = announcer.Nop{}
	if cfg.Speech.Enabled {
		speaker = announcer.NewSpeech(cfg.Speech.Command, cfg.Speech.Args)
	}
	desktop := announcer.NewDesktop(notifier.New(cfg.Notifications.DurationMs), cfg.Notifications.Enabled)
	desktop.RequestPermission()

	return NewRuntimeWith(session, announcer.Combine(speaker, desktop), cfg, opts, desktop)
}

// NewRuntimeWith uses a caller-supplied announcer, for tests and headless use.
func NewRuntimeWith(session *Session, a announcer.Announcer, cfg *config.Config, opts RuntimeOptions, desktop *announcer.Desktop) *Runtime {
	dOpts := append([]alarm.Option{alarm.WithTitle(cfg.Notifications.Title)}, opts.Dispatcher...)
	dispatcher := alarm.New(session, a, dOpts...)

	tOpts := append([]timer.Option{timer.WithDefaultMessage(cfg.Timer.DefaultMessage)}, opts.Timer...)
	return &Runtime{
		Session:    session,
		Announcer:  a,
		Desktop:    desktop,
		Dispatcher: dispatcher,
		Scheduler:  scheduler.New(session, dispatcher, opts.Scheduler...),
		Timer:      timer.New(a, session, tOpts...),
	}
}
