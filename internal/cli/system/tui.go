package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/chime/internal/cli"
	"github.com/julianstephens/chime/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	bridge := tui.NewBridge()
	rt := ctx.NewRuntime(bridge.Options())
	defer rt.Announcer.Cancel()

	p := tea.NewProgram(tui.NewModel(rt, bridge), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	rt.Dispatcher.Stop()
	return nil
}
