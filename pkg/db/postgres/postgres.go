// Package postgres управляет пулом соединений с Postgres и миграциями схемы.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gocollab/pkg/logger"
	"gocollab/pkg/resilience"
)

const (
	LogConnecting        = "connecting to Postgres database"
	LogConnected         = "successfully connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"
)

const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// Options описывает параметры пула соединений.
type Options struct {
	DSN             string
	MinConns        int
	MaxConns        int
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration
	// Retry задает политику повторных попыток подключения. Нулевое значение - одна попытка.
	Retry resilience.RetryConfig
}

// Database представляет соединение с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New создает пул соединений и проверяет его доступность, повторяя
// подключение согласно opts.Retry.
func New(ctx context.Context, opts Options) (*Database, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogConnecting,
		zap.Int("min_conns", opts.MinConns),
		zap.Int("max_conns", opts.MaxConns))

	poolCfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}

	if opts.MinConns > 0 {
		poolCfg.MinConns = int32(opts.MinConns) //nolint:gosec
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = int32(opts.MaxConns) //nolint:gosec
	}
	if opts.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	retryCfg := opts.Retry
	if retryCfg.MaxAttempts <= 0 {
		retryCfg.MaxAttempts = 1
	}

	var pool *pgxpool.Pool
	err = resilience.NewRetry("postgres", retryCfg).Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrCreatePool, err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return fmt.Errorf("%s: %w", ErrPingDatabase, err)
		}
		pool = p
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, err
	}

	log.Info(ctx, LogConnected)
	return &Database{pool: pool}, nil
}

// Pool возвращает пул соединений.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Close закрывает пул соединений.
func (db *Database) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, LogClosing)
	db.pool.Close()
	return nil
}

// Ping проверяет доступность базы данных.
func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
