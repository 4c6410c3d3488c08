package config

import (
	"gocollab/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `env:"AUTH_LOGGER_LEVEL" env-default:"info"`
	Mode  string `env:"AUTH_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment переводит режим в logger.Environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == string(logger.Production) {
		return logger.Production
	}
	return logger.Development
}
