package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/chime/internal/constants"
)

type Config struct {
	Storage       StorageConfig       `koanf:"storage"`
	Speech        SpeechConfig        `koanf:"speech"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Timer         TimerConfig         `koanf:"timer"`
	Logging       LoggingConfig       `koanf:"logging"`
}

type StorageConfig struct {
	// Path is a SQLite file, a .json file, or a postgres:// connection string
	Path string `koanf:"path"`
}

type SpeechConfig struct {
	Enabled bool     `koanf:"enabled"`
	Command string   `koanf:"command"` // say, espeak-ng, espeak, spd-say, or any binary taking the text as last arg
	Args    []string `koanf:"args"`
}

type NotificationsConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Title      string `koanf:"title"`
	DurationMs int    `koanf:"duration_ms"`
}

type TimerConfig struct {
	DefaultMessage string `koanf:"default_message"`
}

type LoggingConfig struct {
	Debug bool   `koanf:"debug"`
	Level string `koanf:"level"`
}

// Load layers defaults, the YAML file at configPath (if it exists) and
// CHIME_ environment variables. Nested keys use a double underscore:
// CHIME_STORAGE__PATH sets storage.path.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = ExpandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(constants.EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, constants.EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Notifications.DurationMs < 0 {
		return fmt.Errorf("notifications.duration_ms must not be negative")
	}
	if c.Timer.DefaultMessage == "" {
		c.Timer.DefaultMessage = constants.DefaultTimerMessage
	}
	if c.Notifications.Title == "" {
		c.Notifications.Title = constants.DefaultNotificationTitle
	}
	return nil
}

// ConfigDir returns the directory holding logs and backups: the parent of a
// file-backed store, or the default config directory for PostgreSQL.
func (c *Config) ConfigDir() string {
	if IsPostgres(c.Storage.Path) {
		return ExpandPath(constants.DefaultConfigDir)
	}
	return filepath.Dir(c.Storage.Path)
}

// IsPostgres reports whether path is a PostgreSQL connection string or the
// keyring alias.
func IsPostgres(path string) bool {
	return path == constants.PostgresAlias ||
		strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

// ExpandPath replaces a leading ~/ with the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
