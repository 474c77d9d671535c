package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/chime/internal/alarm"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/notes"
	"github.com/julianstephens/chime/internal/timer"
	"github.com/julianstephens/chime/internal/tui/components/notelist"
	"github.com/julianstephens/chime/internal/tui/components/reminderlist"
	"github.com/julianstephens/chime/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.setSize()
		return m, nil

	case tickMsg:
		m.handleTick(time.Time(msg))
		return m, tick()

	case reminderlist.DeleteReminderMsg:
		if _, err := m.rt.Session.DeleteReminder(msg.ID); err != nil {
			m.fail(err.Error())
		} else {
			m.notify("Reminder deleted")
		}
		m.refresh()
		return m, nil

	case notelist.AddNoteMsg:
		m.noteForm = &NoteFormModel{}
		m.form = m.newNoteForm(m.noteForm)
		m.formError = ""
		m.state = StateNoteForm
		return m, m.form.Init()

	case notelist.DeleteNoteMsg:
		if _, err := m.rt.Session.DeleteNote(msg.ID); err != nil {
			m.fail(err.Error())
		} else {
			m.notify("Note deleted")
		}
		m.refresh()
		return m, nil

	case notelist.DraftReminderMsg:
		text, ok := m.rt.Session.DraftFromNote(msg.ID)
		if !ok {
			return m, nil
		}
		return m, m.openReminderForm(text)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if _, ringing := m.rt.Dispatcher.Active(); ringing {
			return m.handleAlarmKey(keyMsg)
		}
	}

	switch m.state {
	case StateAddForm, StateTimerForm, StateNoteForm:
		return m, m.handleForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if handled, cmd := m.handleKey(keyMsg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHome:
		m.reminders, cmd = m.reminders.Update(msg)
	case StateNotes:
		m.notes, cmd = m.notes.Update(msg)
	case StateLog:
		m.logView, cmd = m.logView.Update(msg)
	}
	return m, cmd
}

// handleTick is the only place the scheduler and timer advance.
func (m *Model) handleTick(now time.Time) {
	res := m.rt.Scheduler.Tick(now)
	if m.rt.Timer.Tick() {
		m.notify("⏱ " + m.rt.Timer.Message())
	}
	for _, w := range m.bridge.Drain() {
		m.fail(w)
	}
	if len(res.Fired) > 0 {
		logger.Debug("Alarms raised", "count", len(res.Fired))
	}
	if m.toast != nil && now.After(m.toast.until) {
		m.toast = nil
	}
	m.refresh()
}

func (m Model) handleAlarmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Stop):
		if a, ok := m.rt.Dispatcher.Stop(); ok {
			m.notify("Stopped: " + a.Reminder.Text)
		}
	case key.Matches(msg, m.keys.Snooze):
		r, err := m.rt.Dispatcher.Snooze()
		switch {
		case errors.Is(err, alarm.ErrNoActiveAlarm):
		case err != nil:
			m.fail("Snooze failed: " + err.Error())
		default:
			m.notify("Snoozed until " + utils.FormatWhen(r.ScheduledAt))
		}
		m.refresh()
	case key.Matches(msg, m.keys.Quit):
		m.rt.Dispatcher.Stop()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.state == StateNotes && m.notes.Filtering() {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return true, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return true, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return true, nil
	case key.Matches(msg, m.keys.Theme):
		theme, err := m.rt.Session.ToggleTheme()
		m.styles = NewStyles(theme)
		if err != nil {
			m.fail(err.Error())
		}
		return true, nil
	}

	switch m.state {
	case StateAdd:
		if key.Matches(msg, m.keys.Enter) {
			return true, m.openReminderForm("")
		}
	case StateTimer:
		if m.rt.Timer.Running() {
			if key.Matches(msg, m.keys.Cancel) {
				m.rt.Timer.Stop(timer.ReasonManual)
				m.notify("Timer stopped")
				return true, nil
			}
			return false, nil
		}
		if key.Matches(msg, m.keys.Enter) {
			m.timerForm = &TimerFormModel{Minutes: "5"}
			m.form = m.newTimerForm(m.timerForm)
			m.formError = ""
			m.state = StateTimerForm
			return true, m.form.Init()
		}
	case StateLog:
		if key.Matches(msg, m.keys.Clear) {
			if err := m.rt.Session.ClearLogs(); err != nil {
				m.fail(err.Error())
			} else {
				m.notify("Activity log cleared")
			}
			m.refresh()
			return true, nil
		}
	}
	return false, nil
}

func (m *Model) openReminderForm(text string) tea.Cmd {
	m.reminderForm = &ReminderFormModel{Text: text}
	m.form = m.newReminderForm(m.reminderForm)
	m.formError = ""
	m.state = StateAddForm
	return m.form.Init()
}

// parentState is the tab a form returns to.
func (m Model) parentState() SessionState {
	switch m.state {
	case StateTimerForm:
		return StateTimer
	case StateNoteForm:
		return StateNotes
	}
	return StateAdd
}

func (m *Model) handleForm(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.parentState()
		m.formError = ""
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			// Keep the user in the form to correct the value
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}
		m.formError = ""
		m.refresh()
	case huh.StateAborted:
		m.state = m.parentState()
	}
	return tea.Batch(cmds...)
}

func (m *Model) submitForm() error {
	switch m.state {
	case StateAddForm:
		at, err := utils.ParseWhen(m.reminderForm.When, m.now(), time.Local)
		if err != nil {
			return err
		}
		r, err := m.rt.Session.AddReminder(m.reminderForm.Text, at)
		if err != nil && (errors.Is(err, models.ErrEmptyText) || errors.Is(err, models.ErrMissingTime)) {
			return err
		}
		m.state = StateHome
		if err != nil {
			m.fail(err.Error())
			return nil
		}
		m.notify(fmt.Sprintf("Reminder set for %s", utils.FormatWhen(r.ScheduledAt)))

	case StateTimerForm:
		minutes, err := timer.ParseMinutes(m.timerForm.Minutes)
		if err != nil {
			return err
		}
		if err := m.rt.Timer.Start(minutes, m.timerForm.Message); err != nil {
			return err
		}
		m.state = StateTimer

	case StateNoteForm:
		_, err := m.rt.Session.SaveNote(m.noteForm.Title, m.noteForm.Body)
		if errors.Is(err, notes.ErrEmptyNote) {
			return err
		}
		m.state = StateNotes
		if err != nil {
			m.fail(err.Error())
		}
	}
	return nil
}

func (m Model) formTheme() *huh.Theme {
	if m.rt.Session.Theme() == models.ThemeDark {
		return huh.ThemeDracula()
	}
	return huh.ThemeCharm()
}

func (m Model) newReminderForm(fm *ReminderFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder").
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return models.ErrEmptyText
					}
					return nil
				}),
			huh.NewInput().
				Title("When").
				Description(`"YYYY-MM-DD HH:MM", "HH:MM" or "+10m"`).
				Value(&fm.When).
				Validate(func(s string) error {
					_, err := utils.ParseWhen(s, m.now(), time.Local)
					return err
				}),
		),
	).WithTheme(m.formTheme())
}

func (m Model) newTimerForm(fm *TimerFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minutes").
				Value(&fm.Minutes).
				Validate(func(s string) error {
					_, err := timer.ParseMinutes(s)
					return err
				}),
			huh.NewInput().
				Title("Message").
				Description("Spoken when the timer ends").
				Placeholder(m.rt.Timer.DefaultMessage()).
				Value(&fm.Message),
		),
	).WithTheme(m.formTheme())
}

func (m Model) newNoteForm(fm *NoteFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title),
			huh.NewText().
				Title("Note").
				Value(&fm.Body).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" && strings.TrimSpace(fm.Title) == "" {
						return notes.ErrEmptyNote
					}
					return nil
				}),
		),
	).WithTheme(m.formTheme())
}
