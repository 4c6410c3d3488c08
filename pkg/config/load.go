// Package config загружает конфигурацию сервисов из .env файла или переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"gocollab/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"
	msgEnvFileMissing          = "env file not found, reading process environment"

	errFailedLoadConfiguration = "failed to load configuration"
	errFailedStatEnvFile       = "failed to stat env file"

	attrService = "service"
	attrPath    = "path"
)

// Validator реализуется конфигурациями, которые проверяют себя после загрузки.
type Validator interface {
	Validate() error
}

// Load читает конфигурацию типа T. Если envPath указывает на существующий файл,
// значения берутся из него (переменные окружения имеют приоритет), иначе только
// из окружения процесса. Если *T реализует Validator, результат проверяется.
func Load[T any](ctx context.Context, serviceName, envPath string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))

	log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, envPath))

	var cfg T
	if err := read(ctx, log, envPath, &cfg); err != nil {
		log.Error(ctx, msgFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	if v, ok := any(&cfg).(Validator); ok {
		if err := v.Validate(); err != nil {
			log.Error(ctx, msgFailedLoadConfiguration, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
		}
	}

	log.Info(ctx, msgConfigurationLoaded)

	return &cfg, nil
}

func read(ctx context.Context, log *logger.Logger, envPath string, cfg any) error {
	if envPath == "" {
		return cleanenv.ReadEnv(cfg)
	}

	_, err := os.Stat(envPath)
	switch {
	case err == nil:
		return cleanenv.ReadConfig(envPath, cfg)
	case errors.Is(err, fs.ErrNotExist):
		log.Debug(ctx, msgEnvFileMissing, zap.String(attrPath, envPath))
		return cleanenv.ReadEnv(cfg)
	default:
		return fmt.Errorf("%s: %w", errFailedStatEnvFile, err)
	}
}
