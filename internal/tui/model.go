package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/chime/internal/alarm"
	"github.com/julianstephens/chime/internal/app"
	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/tui/components/activitylog"
	"github.com/julianstephens/chime/internal/tui/components/notelist"
	"github.com/julianstephens/chime/internal/tui/components/reminderlist"
)

type SessionState int

const (
	StateHome SessionState = iota
	StateAdd
	StateTimer
	StateNotes
	StateLog
	// Form states take every key until submitted or escaped
	StateAddForm
	StateTimerForm
	StateNoteForm
)

const tabCount = 5

var tabTitles = []string{"Home", "Add", "Timer", "Notes", "Log"}

type ReminderFormModel struct {
	Text string
	When string
}

type TimerFormModel struct {
	Minutes string
	Message string
}

type NoteFormModel struct {
	Title string
	Body  string
}

// Bridge collects dispatcher warnings raised during a tick so Update can show
// them as toasts.
type Bridge struct {
	mu       sync.Mutex
	warnings []string
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Options wires the bridge into a runtime.
func (b *Bridge) Options() app.RuntimeOptions {
	return app.RuntimeOptions{
		Dispatcher: []alarm.Option{alarm.WithWarning(b.push)},
	}
}

func (b *Bridge) push(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warnings = append(b.warnings, msg)
}

func (b *Bridge) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.warnings
	b.warnings = nil
	return out
}

type tickMsg time.Time

type toast struct {
	text    string
	isError bool
	until   time.Time
}

type Model struct {
	rt     *app.Runtime
	bridge *Bridge
	now    func() time.Time

	state    SessionState
	keys     KeyMap
	help     help.Model
	styles   Styles
	quitting bool
	width    int
	height   int

	reminders reminderlist.Model
	notes     notelist.Model
	logView   activitylog.Model
	bar       progress.Model

	form         *huh.Form
	reminderForm *ReminderFormModel
	timerForm    *TimerFormModel
	noteForm     *NoteFormModel
	formError    string

	toast *toast
}

type Option func(*Model)

// WithClock replaces time.Now for ticks and countdowns.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func NewModel(rt *app.Runtime, bridge *Bridge, opts ...Option) Model {
	if bridge == nil {
		bridge = NewBridge()
	}
	m := Model{
		rt:      rt,
		bridge:  bridge,
		now:     time.Now,
		state:   StateHome,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  NewStyles(rt.Session.Theme()),
		notes:   notelist.New(rt.Session.Notes(), 0, 0),
		logView: activitylog.New(0, 0),
		bar:     progress.New(progress.WithDefaultGradient()),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.reminders = reminderlist.New(rt.Session.ActiveReminders(), m.now(), 0, 0)
	m.logView.SetEntries(rt.Session.Logs())
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Theme}
	if _, ok := m.rt.Dispatcher.Active(); ok {
		return []key.Binding{m.keys.Stop, m.keys.Snooze}
	}
	switch m.state {
	case StateAdd:
		keys = append(keys, m.keys.Enter)
	case StateTimer:
		if m.rt.Timer.Running() {
			keys = append(keys, m.keys.Cancel)
		} else {
			keys = append(keys, m.keys.Enter)
		}
	case StateLog:
		keys = append(keys, m.keys.Clear)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.reminders.Init())
}

// tick schedules the next once-a-second update. Only one is ever in flight.
func tick() tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) refresh() {
	m.reminders.SetReminders(m.rt.Session.ActiveReminders(), m.now())
	m.notes.SetNotes(m.rt.Session.Notes())
	m.logView.SetEntries(m.rt.Session.Logs())
}

func (m *Model) notify(text string) {
	m.toast = &toast{text: text, until: m.now().Add(4 * time.Second)}
}

func (m *Model) fail(text string) {
	m.toast = &toast{text: text, isError: true, until: m.now().Add(6 * time.Second)}
}

func (m *Model) setSize() {
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	m.reminders.SetSize(w, max(h-8, 3))
	m.notes.SetSize(w, h)
	m.logView.SetSize(w, h)
	m.bar.Width = w / 2
	m.help.Width = m.width
}
