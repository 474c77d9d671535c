package settings

import (
	"fmt"

	"github.com/julianstephens/chime/internal/cli"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/models"
)

// ThemeCmd prints the theme, or sets it when given light, dark or toggle.
type ThemeCmd struct {
	Value string `arg:"" optional:"" help:"light, dark or toggle. Omit to print the current theme."`
}

func (c *ThemeCmd) Run(ctx *cli.Context) error {
	switch c.Value {
	case "":
		ctx.Printf("Theme: %s\n", ctx.Session.Theme())
		return nil
	case "toggle":
		t, err := ctx.Session.ToggleTheme()
		if err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		ctx.Printf("✓ Theme set to %s\n", t)
		return nil
	}

	t, err := models.ParseTheme(c.Value)
	if err != nil {
		return apperrors.Usage(err)
	}
	if err := ctx.Session.SetTheme(t); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	ctx.Printf("✓ Theme set to %s\n", t)
	return nil
}
