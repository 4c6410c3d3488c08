// Package db инициализирует базу данных сервиса аутентификации.
package db

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gocollab/internal/auth/config"
	"gocollab/pkg/db/postgres"
	"gocollab/pkg/logger"
	"gocollab/pkg/resilience"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing authentication database"
	LogDBInitialized     = "authentication database initialized successfully"
	LogMigrationStarting = "starting database migrations for authentication service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply authentication database migrations"
	ErrDBConnection = "failed to connect to authentication database"
	ErrGetPath      = "failed to get path"
)

// DB представляет соединение с базой данных сервиса авторизации.
type DB struct {
	database *postgres.Database
}

// New применяет миграции и открывает пул соединений с повторными попытками.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	migrationsPath, err := MigrationsURL(cfg.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsPath))
	if err := postgres.MigrateDSN(ctx, cfg.GetConnectionURL(), migrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.ConnectRetries
	retry.MaxBackoff = 5 * time.Second

	database, err := postgres.New(ctx, postgres.Options{
		DSN:      cfg.GetDSN(),
		MinConns: cfg.MinConn,
		MaxConns: cfg.MaxConn,
		Retry:    retry,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

// MigrationsURL переводит каталог миграций в URL источника file://.
func MigrationsURL(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return "file://" + dir, nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrGetPath, err)
	}
	return "file://" + absPath, nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) error {
	return db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
