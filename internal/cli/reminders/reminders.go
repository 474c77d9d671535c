package reminders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/chime/internal/cli"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/utils"
)

type ReminderAddCmd struct {
	Text string   `arg:"" help:"What to say when the reminder fires."`
	At   []string `arg:"" help:"When: \"YYYY-MM-DD HH:MM\", \"HH:MM\" or \"+10m\"."`
}

func (c *ReminderAddCmd) Run(ctx *cli.Context) error {
	at, err := ctx.ParseWhen(strings.Join(c.At, " "))
	if err != nil {
		return apperrors.Usage(err)
	}

	r, err := ctx.Session.AddReminder(c.Text, at)
	if err != nil {
		if errors.Is(err, models.ErrEmptyText) || errors.Is(err, models.ErrMissingTime) {
			return apperrors.Usage(err)
		}
		return fmt.Errorf("failed to add reminder: %w", err)
	}

	ctx.Printf("✓ Reminder set: %q at %s\n", r.Text, utils.FormatWhen(r.ScheduledAt))
	if !r.ScheduledAt.After(ctx.Clock()) {
		ctx.Println("ℹ That time has already passed; the reminder will fire on the next check.")
	}
	return nil
}

type ReminderListCmd struct {
	All bool `help:"Include reminders that have already fired."`
}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	list := ctx.Session.ActiveReminders()
	if c.All {
		list = ctx.Session.Reminders()
	}

	if len(list) == 0 {
		ctx.Println("No reminders scheduled.")
		return nil
	}

	now := ctx.Clock()
	ctx.Printf("%-36s %-16s %-12s %s\n", "ID", "When", "In", "Text")
	ctx.Println(strings.Repeat("-", 100))
	for _, r := range list {
		in := utils.FormatClock(r.Until(now))
		if r.Triggered {
			in = "fired"
		}
		ctx.Printf("%-36s %-16s %-12s %s\n", r.ID, utils.FormatWhen(r.ScheduledAt), in, cli.Truncate(r.Text, 40))
	}
	return nil
}

type ReminderDeleteCmd struct {
	ID string `arg:"" help:"Reminder ID or a unique prefix of it."`
}

func (c *ReminderDeleteCmd) Run(ctx *cli.Context) error {
	all := ctx.Session.Reminders()
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	id, err := cli.ResolveID(ids, c.ID)
	if err != nil {
		return apperrors.Usage(err)
	}

	removed, err := ctx.Session.DeleteReminder(id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if !removed {
		ctx.Println("ℹ Reminder already removed.")
		return nil
	}
	ctx.Printf("✓ Reminder deleted: %s\n", id)
	return nil
}

type ReminderPurgeCmd struct{}

func (c *ReminderPurgeCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Session.PurgeTriggered()
	if err != nil {
		return fmt.Errorf("failed to purge reminders: %w", err)
	}
	ctx.Printf("✓ Removed %d fired reminder(s)\n", n)
	return nil
}

type ReminderCmd struct {
	Add    ReminderAddCmd    `cmd:"" help:"Schedule a voice reminder."`
	List   ReminderListCmd   `cmd:"" help:"List reminders, soonest first." default:"1"`
	Delete ReminderDeleteCmd `cmd:"" help:"Delete a reminder."`
	Purge  ReminderPurgeCmd  `cmd:"" help:"Remove reminders that have already fired."`
}
