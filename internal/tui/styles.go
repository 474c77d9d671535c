package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/chime/internal/models"
)

type palette struct {
	accent  lipgloss.Color
	muted   lipgloss.Color
	tabBg   lipgloss.Color
	text    lipgloss.Color
	danger  lipgloss.Color
	warning lipgloss.Color
}

var palettes = map[models.Theme]palette{
	models.ThemeLight: {
		accent:  lipgloss.Color("127"),
		muted:   lipgloss.Color("245"),
		tabBg:   lipgloss.Color("254"),
		text:    lipgloss.Color("235"),
		danger:  lipgloss.Color("160"),
		warning: lipgloss.Color("166"),
	},
	models.ThemeDark: {
		accent:  lipgloss.Color("205"),
		muted:   lipgloss.Color("240"),
		tabBg:   lipgloss.Color("236"),
		text:    lipgloss.Color("252"),
		danger:  lipgloss.Color("196"),
		warning: lipgloss.Color("214"),
	},
}

type Styles struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Hero        lipgloss.Style
	HeroLabel   lipgloss.Style
	Danger      lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Overlay     lipgloss.Style
	Doc         lipgloss.Style
}

func NewStyles(theme models.Theme) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[models.ThemeLight]
	}
	return Styles{
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.accent).
			Background(p.tabBg).
			Padding(0, 1).
			Bold(true),
		InactiveTab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		Hero: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent),
		HeroLabel: lipgloss.NewStyle().
			Foreground(p.text),
		Danger: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning).
			Italic(true),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.danger).
			Padding(1, 4),
		Doc: lipgloss.NewStyle().Padding(1, 2),
	}
}
