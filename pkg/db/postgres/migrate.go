package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // драйвер postgres:// для migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // источник file:// для migrate
	"go.uber.org/zap"

	"gocollab/pkg/logger"
)

const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrMigrationsPathRequired  = "migrations path is required"
)

// MigrateDSN применяет все миграции из migrationsPath (формат file://...).
func MigrateDSN(ctx context.Context, dsn, migrationsPath string) error {
	log := logger.Log(ctx).With(zap.String("path", migrationsPath))

	if migrationsPath == "" {
		return errors.New(ErrMigrationsPathRequired)
	}

	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn(ctx, "failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Warn(ctx, "failed to read migration version", zap.Error(verr))
	}
	log.Info(ctx, LogMigrationsApplied, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
