package constants

import "time"

const (
	AppName            = "chime"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/chime"
	DefaultStoragePath = "~/.config/chime/chime.db"
	DefaultConfigFile  = "~/.config/chime/config.yaml"
	Version            = "v0.3.0"

	// EnvPrefix is the prefix for configuration environment variables
	EnvPrefix = "CHIME_"
	// EnvDBConnection holds a PostgreSQL connection string when the keyring is not used
	EnvDBConnection = "CHIME_DB_CONNECTION"
	// PostgresAlias as storage.path reads the connection string from the
	// environment or the OS keyring
	PostgresAlias = "postgres"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is the user-facing date and time input format
	DateTimeFormat = "2006-01-02 15:04"

	// LocalDateTimeFormat is the datetime-local form written by the browser build
	LocalDateTimeFormat = "2006-01-02T15:04"

	// Scheduling constants
	TickInterval   = time.Second
	SnoozeDuration = 5 * time.Minute
	MaxLogEntries  = 50

	// Timer constants
	DefaultTimerMessage = "Timer finished"

	// Notification constants
	DefaultNotificationTitle = "Voice Reminder"
	NotifierLockfileName     = "chime-notifier.lock"
	NotificationDurationMs   = 5000
	TrayAppIdentifier        = "com.julianstephens.chime"
	TrayExecutablePrefix     = "chime-tray"
	TraySecretHeader         = "X-Chime-Secret"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "chime-"

	// Storage keys
	KeyVersion   = "version"
	KeyReminders = "reminders"
	KeyNotes     = "notes"
	KeyLogs      = "logs"
	KeyTheme     = "theme"

	// SnapshotVersion is the schema version written by Save
	SnapshotVersion = 1
)
