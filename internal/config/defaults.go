package config

import (
	"github.com/knadh/koanf/providers/confmap"

	"github.com/julianstephens/chime/internal/constants"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage": map[string]interface{}{
			"path": constants.DefaultStoragePath,
		},
		"speech": map[string]interface{}{
			"enabled": true,
			"command": "", // empty means autodetect
			"args":    []string{},
		},
		"notifications": map[string]interface{}{
			"enabled":     true,
			"title":       constants.DefaultNotificationTitle,
			"duration_ms": constants.NotificationDurationMs,
		},
		"timer": map[string]interface{}{
			"default_message": constants.DefaultTimerMessage,
		},
		"logging": map[string]interface{}{
			"debug": false,
			"level": "info",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return constants.DefaultConfigFile
}
