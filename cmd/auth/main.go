// Package main реализует точку входа службы аутентификации.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	authhttp "gocollab/internal/auth/adapters/http"
	"gocollab/internal/auth/adapters/http/middleware"
	"gocollab/internal/auth/adapters/memory"
	"gocollab/internal/auth/adapters/postgres"
	authredis "gocollab/internal/auth/adapters/redis"
	"gocollab/internal/auth/adapters/services"
	"gocollab/internal/auth/app"
	"gocollab/internal/auth/config"
	"gocollab/internal/auth/db"
	"gocollab/internal/auth/ports/repositories"
	redisdb "gocollab/pkg/db/redis"
	"gocollab/pkg/logger"
	"gocollab/pkg/resilience"
	"gocollab/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AUTH_LOGGER_MODE"
	EnvLoggerLevel = "AUTH_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to initialize redis"
	ErrInitServices         = "failed to initialize services"
	ErrServe                = "HTTP server stopped unexpectedly"
	ErrShutdown             = "graceful shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "authentication service started"
	LogServiceShutdownDone = "authentication service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing redis connection"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogLimiterDisabled     = "login limiter disabled"
)

func main() {
	envPath := flag.String("env", ".env", "path to .env file")
	flag.Parse()

	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == string(logger.Production) {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}
	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	exitCode := run(ctx, *envPath)

	if err := logger.Log(ctx).Sync(); err != nil {
		errMsg := err.Error()
		if !strings.Contains(errMsg, ErrSyncStderr) && !strings.Contains(errMsg, ErrSyncStdout) {
			if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
				panic(writeErr)
			}
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func run(ctx context.Context, envPath string) int {
	log := logger.Log(ctx)

	cfg, err := config.Load(ctx, envPath)
	if err != nil {
		log.Error(ctx, ErrLoadConfig, zap.Error(err))
		return 1
	}

	finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
	if err != nil {
		log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
		return 1
	}
	logger.SetGlobalLogger(finalLogger)
	log = finalLogger

	// closers выполняются по порядку после остановки HTTP сервера.
	var closers []shutdown.Hook

	log.Info(ctx, LogInitRepo, zap.String("driver", cfg.Storage.Driver))
	var repo repositories.AccountRepository
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		repo = memory.NewAccountRepository()
	default:
		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			return 1
		}
		closers = append(closers, func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			return database.Close(ctx)
		})
		repo = postgres.NewRepositoryFactory(database.Pool(), cfg.Postgres.GetQueryTimeout()).AccountRepository()
	}

	log.Info(ctx, LogInitServices)
	factory, err := services.NewServiceFactory(services.FactoryConfig{
		JWT:                 cfg.JWT.Domain(),
		HashAlgorithm:       cfg.Password.HashAlgorithm(),
		HashCost:            cfg.Password.Cost,
		MaxConcurrentHashes: cfg.Password.MaxConcurrent,
	})
	if err != nil {
		log.Error(ctx, ErrInitServices, zap.Error(err))
		return 1
	}

	var authOpts []app.AuthOption
	if cfg.Security.LoginLimiterEnabled {
		client, err := redisdb.NewClient(ctx, cfg.Redis.Client())
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			return 1
		}
		closers = append(closers, func(ctx context.Context) error {
			log.Info(ctx, LogClosingRedis)
			return client.Close(ctx)
		})
		breaker := resilience.NewCircuitBreaker("login-limiter", resilience.DefaultCircuitBreakerConfig())
		limiter := authredis.NewLoginLimiter(client.RawClient(),
			cfg.Security.LoginMaxFailures, cfg.Security.LoginFailureWindow, breaker)
		authOpts = append(authOpts, app.WithLoginLimiter(limiter))
	} else {
		log.Info(ctx, LogLimiterDisabled)
	}

	log.Info(ctx, LogInitUseCases)
	authUseCase := app.NewAuthUseCase(repo, factory.PasswordService(), factory.TokenService(), authOpts...)
	accountUseCase := app.NewAccountUseCase(repo, factory.PasswordService())

	log.Info(ctx, LogInitHTTPServer)
	server := authhttp.New(authhttp.ServerConfig{
		Address:              cfg.HTTP.Address(),
		ReadTimeout:          cfg.HTTP.ReadTimeout,
		WriteTimeout:         cfg.HTTP.WriteTimeout,
		IdleTimeout:          cfg.HTTP.IdleTimeout,
		BodyLimit:            cfg.HTTP.BodyLimit,
		HideAccountExistence: cfg.Security.HideAccountExistence,
		RateLimit: middleware.RateLimitConfig{
			Limit:     cfg.HTTP.RateLimit,
			Burst:     cfg.HTTP.RateBurst,
			CacheSize: cfg.HTTP.RateCacheSize,
			EntryTTL:  cfg.HTTP.RateEntryTTL,
		},
	}, authUseCase, accountUseCase)

	stopAll := func(ctx context.Context) error {
		log.Info(ctx, LogStoppingHTTP)
		errs := []error{server.Stop(ctx)}
		for _, closeFn := range closers {
			errs = append(errs, closeFn(ctx))
		}
		return errors.Join(errs...)
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	waitCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	var serveFailed atomic.Bool
	serveErr := server.Start(ctx)
	go func() {
		if err, ok := <-serveErr; ok && err != nil {
			log.Error(ctx, ErrServe, zap.Error(err))
			serveFailed.Store(true)
			cancel()
		}
	}()

	log.Info(ctx, LogServiceStarted,
		zap.String("address", cfg.HTTP.Address()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	exitCode := 0
	if err := shutdown.WaitContext(waitCtx, cfg.Shutdown.GetTimeout(), stopAll); err != nil {
		log.Error(ctx, ErrShutdown, zap.Error(err))
		exitCode = 1
	}
	if serveFailed.Load() {
		exitCode = 1
	}

	log.Info(ctx, LogServiceShutdownDone)
	return exitCode
}
