package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/chime/internal/announcer"
	"github.com/julianstephens/chime/internal/app"
	"github.com/julianstephens/chime/internal/backup"
	"github.com/julianstephens/chime/internal/config"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/storage"
	"github.com/julianstephens/chime/internal/utils"
)

type Context struct {
	Config  *config.Config
	Store   storage.Provider
	Session *app.Session

	// Announcer replaces the speech and desktop announcer built from Config.
	Announcer announcer.Announcer
	// Out receives command output. Nil means stdout.
	Out io.Writer
	// In supplies confirmations and alarm acknowledgements. Nil means stdin.
	In io.Reader
	// Now is the clock used for parsing relative times. Nil means time.Now.
	Now func() time.Time

	outMu sync.Mutex
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Printf and Println are safe to call from scheduler callbacks.
func (c *Context) Printf(format string, args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// NewRuntime builds the scheduler, dispatcher and timer over the session.
func (c *Context) NewRuntime(opts app.RuntimeOptions) *app.Runtime {
	if c.Announcer != nil {
		return app.NewRuntimeWith(c.Session, c.Announcer, c.Config, opts, nil)
	}
	return app.NewRuntime(c.Session, c.Config, opts)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := backup.NewManager(c.Store.GetConfigPath())
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseWhen resolves reminder time input in the local zone.
func (c *Context) ParseWhen(input string) (time.Time, error) {
	return utils.ParseWhen(input, c.Clock(), time.Local)
}

// Truncate shortens s to width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// ResolveID finds the single id that equals or starts with prefix.
func ResolveID(ids []string, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("id cannot be empty")
	}
	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no item matches id %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
