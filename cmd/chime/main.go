package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/chime/internal/app"
	"github.com/julianstephens/chime/internal/cli"
	"github.com/julianstephens/chime/internal/cli/activity"
	"github.com/julianstephens/chime/internal/cli/backups"
	"github.com/julianstephens/chime/internal/cli/notes"
	"github.com/julianstephens/chime/internal/cli/reminders"
	"github.com/julianstephens/chime/internal/cli/settings"
	"github.com/julianstephens/chime/internal/cli/system"
	"github.com/julianstephens/chime/internal/cli/timers"
	"github.com/julianstephens/chime/internal/config"
	"github.com/julianstephens/chime/internal/constants"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_file}"`
	Storage string `help:"Override storage.path: a SQLite file, a .json file, or 'postgres' to use the keyring/env connection string." type:"string"`
	Debug   bool   `help:"Enable debug logging."`

	Tui      system.TuiCmd         `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Run      system.RunCmd         `cmd:"" help:"Watch reminders and ring alarms without the TUI."`
	Reminder reminders.ReminderCmd `cmd:"" aliases:"r" help:"Manage reminders."`
	Note     notes.NoteCmd         `cmd:"" aliases:"n" help:"Manage notes."`
	Log      activity.LogCmd       `cmd:"" help:"Show or clear the activity log."`
	Timer    timers.TimerCmd       `cmd:"" help:"Run a countdown timer in the terminal."`
	Theme    settings.ThemeCmd     `cmd:"" help:"Show, set or toggle the theme."`
	Export   system.ExportCmd      `cmd:"" help:"Export all data as JSON or YAML."`
	Import   system.ImportCmd      `cmd:"" help:"Replace all data from an export file."`
	Backup   backups.BackupCmd     `cmd:"" help:"Manage backups of file stores."`
	Keyring  system.KeyringCmd     `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor   system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Voice reminders, countdown timers and notes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(apperrors.Usage(err))
	}
	if CLI.Storage != "" {
		cfg.Storage.Path = config.ExpandPath(CLI.Storage)
	}
	if CLI.Debug {
		cfg.Logging.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Logging.Debug,
		Level:     cfg.Logging.Level,
		ConfigDir: cfg.ConfigDir(),
		Quiet:     ctx.Command() == "tui",
	}); err != nil {
		apperrors.Fatal(err)
	}

	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		apperrors.Fatal(apperrors.Usage(err))
	}
	if err := store.Open(); err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config:  cfg,
		Store:   store,
		Session: app.NewSession(store),
	}

	err = ctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	apperrors.Fatal(err)
}
