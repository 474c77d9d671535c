package activity

import (
	"fmt"
	"strings"

	"github.com/julianstephens/chime/internal/cli"
	"github.com/julianstephens/chime/internal/constants"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/utils"
)

type LogListCmd struct {
	Category string `help:"Only show entries of this category (alarm|timer)."`
	Limit    int    `help:"Maximum number of entries to show." default:"0"`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	entries := ctx.Session.Logs()

	if c.Category != "" {
		want, ok := models.ParseCategory(c.Category)
		if !ok {
			return apperrors.Usage(fmt.Errorf("invalid category %q (must be alarm or timer)", c.Category))
		}
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Category == want {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	if len(entries) == 0 {
		ctx.Println("No activity yet.")
		return nil
	}

	ctx.Printf("%-16s %-6s %-10s %s\n", "When", "Type", "Status", "Text")
	ctx.Println(strings.Repeat("-", 80))
	for _, e := range entries {
		ctx.Printf("%-16s %-6s %-10s %s\n", utils.FormatWhen(e.CreatedAt), e.Category, e.Status, cli.Truncate(e.Text, 44))
	}
	ctx.Printf("\n%d of at most %d entries kept\n", len(ctx.Session.Logs()), constants.MaxLogEntries)
	return nil
}

type LogClearCmd struct{}

func (c *LogClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.ClearLogs(); err != nil {
		return fmt.Errorf("failed to clear activity log: %w", err)
	}
	ctx.Println("✓ Activity log cleared")
	return nil
}

type LogCmd struct {
	List  LogListCmd  `cmd:"" help:"Show recent activity, newest first." default:"1"`
	Clear LogClearCmd `cmd:"" help:"Clear the activity log."`
}
