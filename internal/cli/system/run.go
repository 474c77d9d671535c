package system

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julianstephens/chime/internal/alarm"
	"github.com/julianstephens/chime/internal/app"
	"github.com/julianstephens/chime/internal/cli"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/utils"
)

// RunCmd watches reminders without the TUI. Alarms are acknowledged by
// typing s (stop) or z (snooze) followed by Enter.
type RunCmd struct {
	For time.Duration `help:"Exit after this long. Zero runs until interrupted." default:"0s"`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if c.For > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, c.For)
		defer cancel()
	}

	rt := ctx.NewRuntime(app.RuntimeOptions{
		Dispatcher: []alarm.Option{
			alarm.OnRaise(func(a alarm.Alarm) {
				ctx.Printf("🔔 %s  [s]top / [z] snooze\n", a.Reminder.Text)
			}),
			alarm.WithWarning(func(msg string) {
				ctx.Printf("⚠ %s\n", msg)
			}),
		},
	})

	if next, ok := rt.Session.NextUpcoming(ctx.Clock()); ok {
		ctx.Printf("Watching reminders. Next: %q at %s\n", next.Text, utils.FormatWhen(next.ScheduledAt))
	} else {
		ctx.Println("Watching reminders. Nothing scheduled yet.")
	}

	rt.Scheduler.Start(runCtx)
	defer rt.Scheduler.Stop()

	acked := make(chan struct{})
	go func() {
		defer close(acked)
		acknowledge(runCtx, ctx, rt, stop)
	}()

	<-runCtx.Done()
	<-acked
	rt.Dispatcher.Stop()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil
	}
	ctx.Println("\nStopped.")
	return nil
}

// readLines sends stdin lines until EOF or ctx is done. A read that is
// already blocked returns with the next line; that line is dropped.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// acknowledge handles stop, snooze and quit commands until stdin ends or
// ctx is done.
func acknowledge(ctx context.Context, cctx *cli.Context, rt *app.Runtime, quit func()) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, cctx.Stdin())
	for {
		var line string
		select {
		case <-ctx.Done():
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = l
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "stop":
			if a, ok := rt.Dispatcher.Stop(); ok {
				cctx.Printf("✓ Stopped: %s\n", a.Reminder.Text)
			} else {
				cctx.Println("ℹ No alarm is ringing.")
			}
		case "z", "snooze":
			r, err := rt.Dispatcher.Snooze()
			switch {
			case errors.Is(err, alarm.ErrNoActiveAlarm):
				cctx.Println("ℹ No alarm is ringing.")
			case err != nil:
				logger.Error("Snooze failed", "error", err)
				cctx.Printf("⚠ Snooze failed: %v\n", err)
			default:
				cctx.Printf("✓ Snoozed until %s\n", utils.FormatWhen(r.ScheduledAt))
			}
		case "q", "quit":
			quit()
			return
		}
	}
}
