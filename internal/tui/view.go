package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/chime/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if a, ok := m.rt.Dispatcher.Active(); ok {
		return m.viewAlarm(a.Reminder.Text, utils.FormatWhen(a.FiredAt))
	}

	var content string
	switch m.state {
	case StateHome:
		content = m.viewHome()
	case StateAdd:
		content = m.viewPrompt("Press enter to schedule a reminder.")
	case StateTimer:
		content = m.viewTimer()
	case StateNotes:
		content = m.styles.Doc.Render(m.notes.View())
	case StateLog:
		content = m.styles.Doc.Render(m.logView.View())
	case StateAddForm, StateTimerForm, StateNoteForm:
		content = m.viewForm()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewToast(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if m.state >= tabCount {
		active = m.parentState()
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, m.styles.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHome() string {
	var hero string
	if next, ok := m.rt.Session.NextUpcoming(m.now()); ok {
		hero = lipgloss.JoinVertical(lipgloss.Center,
			m.styles.HeroLabel.Render("Next: "+next.Text),
			m.styles.Hero.Render(utils.FormatClock(next.Until(m.now()))),
			m.styles.Muted.Render(utils.FormatWhen(next.ScheduledAt)),
		)
	} else {
		hero = lipgloss.JoinVertical(lipgloss.Center,
			m.styles.HeroLabel.Render("No upcoming reminders"),
			m.styles.Hero.Render("--:--"),
		)
	}
	return m.styles.Doc.Render(lipgloss.JoinVertical(lipgloss.Left, hero, "", m.reminders.View()))
}

func (m Model) viewPrompt(text string) string {
	return m.styles.Doc.Render(m.styles.Muted.Render(text))
}

func (m Model) viewTimer() string {
	t := m.rt.Timer
	if !t.Running() {
		return m.viewPrompt(fmt.Sprintf("Press enter to start a countdown. It will say %q.", t.DefaultMessage()))
	}
	return m.styles.Doc.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Hero.Render(utils.FormatClock(t.Remaining())),
		"",
		m.bar.ViewAs(t.Progress()),
		"",
		m.styles.Muted.Render(t.Message()),
	))
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.form.View())
	if m.formError != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Danger.Render("Error: " + m.formError))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("esc to cancel"))
	return m.styles.Doc.Render(b.String())
}

func (m Model) viewAlarm(text, firedAt string) string {
	box := m.styles.Overlay.Render(lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Danger.Render("🔔 "+text),
		"",
		m.styles.Muted.Render("since "+firedAt),
		"",
		"[s] stop    [z] snooze 5m",
	))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) viewToast() string {
	if m.toast == nil {
		return ""
	}
	if m.toast.isError {
		return m.styles.Warning.Render("⚠ " + m.toast.text)
	}
	return m.styles.Muted.Render("✓ " + m.toast.text)
}
