package reminderlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/utils"
)

type DeleteReminderMsg struct {
	ID string
}

type Item struct {
	Reminder models.Reminder
	now      time.Time
}

func (i Item) Title() string { return "⏰ " + i.Reminder.Text }

func (i Item) Description() string {
	in := utils.FormatClock(i.Reminder.Until(i.now))
	return fmt.Sprintf("%s | in %s", utils.FormatWhen(i.Reminder.ScheduledAt), in)
}

func (i Item) FilterValue() string { return i.Reminder.Text }

type KeyMap struct {
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(reminders []models.Reminder, now time.Time, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Reminders"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Delete}
	}

	m := Model{list: l, keys: keys}
	m.SetReminders(reminders, now)
	return m
}

// SetReminders replaces the items, keeping the cursor where possible.
func (m *Model) SetReminders(reminders []models.Reminder, now time.Time) {
	items := make([]list.Item, len(reminders))
	for i, r := range reminders {
		items[i] = Item{Reminder: r, now: now}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Delete) {
		if i, ok := m.list.SelectedItem().(Item); ok {
			return m, func() tea.Msg { return DeleteReminderMsg{ID: i.Reminder.ID} }
		}
		return m, nil
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No reminders yet.\n  Open the Add tab to schedule one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
