// Package main реализует точку входа сервиса каталога фильмов.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	grpcadapter "filmorate/internal/filmorate/adapters/grpc"
	httpadapter "filmorate/internal/filmorate/adapters/http"
	"filmorate/internal/filmorate/adapters/http/middleware"
	"filmorate/internal/filmorate/app"
	"filmorate/internal/filmorate/config"
	"filmorate/pkg/logger"
	"filmorate/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "FILMORATE_LOGGER_MODE"
	EnvLoggerLevel = "FILMORATE_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitStorage          = "failed to initialize storage"
	ErrStartGRPC            = "failed to start gRPC server"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrShutdown             = "graceful shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "filmorate service started"
	LogServiceShutdownDone = "filmorate service shutdown complete"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingGRPC        = "stopping gRPC server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger
		ctx = logger.NewContext(ctx, log)

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("storage", cfg.Storage.Type),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		st, err := newStores(ctx, cfg)
		if err != nil {
			log.Error(ctx, ErrInitStorage, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitUseCases)
		services := httpadapter.Services{
			Users:        app.NewUserUseCase(st.users),
			Films:        app.NewFilmUseCase(st.films),
			Dictionaries: app.NewDictionaryUseCase(st.genres, st.mpa),
		}

		grpcServer := grpcadapter.New(&cfg.GRPC)
		if err := grpcServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartGRPC, zap.Error(err))
			_ = shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), st.hooks...)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitHTTPServer)
		httpOpts := httpadapter.Options{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			Logger:       log,
		}
		if cfg.HTTP.MetricsEnabled {
			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			httpOpts.Metrics = middleware.NewMetrics(registry)
		}
		httpApp := httpadapter.NewApp(httpOpts, services)

		serveCtx, stopServing := context.WithCancel(ctx)
		defer stopServing()

		var listenFailed atomic.Bool

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := httpApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
				listenFailed.Store(true)
				stopServing()
			}
		}()

		hooks := []shutdown.Hook{
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return httpApp.ShutdownWithContext(ctx)
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingGRPC)
				grpcServer.Stop(ctx)
				return nil
			},
		}

		if err := shutdown.Wait(serveCtx, cfg.Shutdown.GetTimeout(), hooks...); err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}
		if listenFailed.Load() {
			exitCode = 1
		}

		// Хранилища закрываются после остановки серверов.
		if err := shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), st.hooks...); err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
