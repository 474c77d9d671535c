package system

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/chime/internal/announcer"
	"github.com/julianstephens/chime/internal/backup"
	"github.com/julianstephens/chime/internal/cli"
	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/notifier"
	"github.com/julianstephens/chime/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// needsDB checks are skipped when the store is unreachable
	needsDB bool
	// warnOnly failures do not fail the command
	warnOnly bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Data integrity", run: checkDataIntegrity, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Speech synthesis", run: checkSpeech, warnOnly: true},
	{name: "Desktop notifications", run: checkNotifications, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Log file", run: checkLogFile, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkStoreReachable(ctx); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Store reachable: OK (%s)\n", ctx.Store.Backend())
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	switch s := ctx.Store.(type) {
	case storage.SQLProvider:
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	case *storage.JSONStore:
		f, err := os.Open(s.GetConfigPath())
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to open store file: %w", err)
		}
		f.Close()
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := ctx.Store.(storage.SQLProvider)
	if !ok {
		return nil
	}
	runner, err := s.Runner()
	if err != nil {
		return err
	}
	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	s, ok := ctx.Store.(storage.SQLProvider)
	if !ok {
		return nil
	}
	runner, err := s.Runner()
	if err != nil {
		return err
	}
	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("%d pending migration(s) (at %d, latest %d)", latest-current, current, latest)
	}
	return nil
}

func checkDataIntegrity(ctx *cli.Context) error {
	snap := ctx.Session.Snapshot()
	seen := make(map[string]bool, len(snap.Reminders))
	for i, r := range snap.Reminders {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("reminder %s: %w", r.ID, err)
		}
		if r.Triggered && r.Active {
			return fmt.Errorf("reminder %s is both triggered and active", r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate reminder id %s", r.ID)
		}
		seen[r.ID] = true
		if i > 0 && r.ScheduledAt.Before(snap.Reminders[i-1].ScheduledAt) {
			return fmt.Errorf("reminders are not sorted by time")
		}
	}
	if len(snap.Logs) > constants.MaxLogEntries {
		return fmt.Errorf("activity log has %d entries (limit %d)", len(snap.Logs), constants.MaxLogEntries)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := backup.NewManager(ctx.Store.GetConfigPath())
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s. Run 'chime backup' to create one", mgr.Dir())
	}
	latest := backups[0]
	if age := time.Since(latest.Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkSpeech(ctx *cli.Context) error {
	if !ctx.Config.Speech.Enabled {
		return fmt.Errorf("speech is disabled in config")
	}
	if _, err := announcer.NewSpeech(ctx.Config.Speech.Command, ctx.Config.Speech.Args).Resolve(); err != nil {
		return fmt.Errorf("no speech command found (install espeak-ng or set speech.command): %w", err)
	}
	return nil
}

func checkNotifications(ctx *cli.Context) error {
	if !ctx.Config.Notifications.Enabled {
		return fmt.Errorf("notifications are disabled in config")
	}
	return notifier.New(ctx.Config.Notifications.DurationMs).Probe()
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if tz := os.Getenv("TZ"); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("TZ=%q is not a valid timezone: %w", tz, err)
		}
	}
	return nil
}

func checkLogFile(ctx *cli.Context) error {
	path := logger.Path()
	if path == "" {
		return fmt.Errorf("logging is not initialized")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("log file %s is not writable: %w", path, err)
	}
	return f.Close()
}
