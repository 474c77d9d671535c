package timers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/julianstephens/chime/internal/app"
	"github.com/julianstephens/chime/internal/cli"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/timer"
	"github.com/julianstephens/chime/internal/utils"
)

// TimerCmd counts down in the foreground and speaks the message at zero.
// Ctrl+C stops it without an announcement.
type TimerCmd struct {
	Minutes string   `arg:"" help:"Whole minutes to count down."`
	Message []string `arg:"" optional:"" help:"What to say when the timer ends."`

	tick time.Duration `kong:"-"`
}

func (c *TimerCmd) Run(ctx *cli.Context) error {
	minutes, err := timer.ParseMinutes(c.Minutes)
	if err != nil {
		return apperrors.Usage(err)
	}

	var finished string
	rt := ctx.NewRuntime(app.RuntimeOptions{
		Timer: []timer.Option{
			timer.OnFinish(func(msg string) { finished = msg }),
			timer.WithTickInterval(c.tick),
		},
	})
	if err := rt.Timer.Start(minutes, strings.Join(c.Message, " ")); err != nil {
		return apperrors.Usage(err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	draw := func(remaining time.Duration) {
		ctx.Printf("\r%s %s ", bar.ViewAs(rt.Timer.Progress()), utils.FormatClock(remaining))
	}
	draw(rt.Timer.Remaining())

	err = rt.Timer.Run(sigCtx, draw)
	ctx.Println()
	if errors.Is(err, context.Canceled) {
		ctx.Println("ℹ Timer stopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("timer failed: %w", err)
	}
	ctx.Printf("✓ %s\n", finished)
	return nil
}
