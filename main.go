package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/PressureTank/TextGen/backend/database/sqlite"
	"github.com/PressureTank/TextGen/backend/generator"
	"github.com/PressureTank/TextGen/backend/handler"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() // Flushes buffer, if any

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

// run starts the server and blocks until ctx is cancelled or the listener fails.
func run(ctx context.Context, config *Config, logger *zap.Logger) (err error) {
	// Initialize SQLite database
	db, err := sqlite.Open(config.DatabasePath)
	if err != nil {
		return err
	}
	store := sqlite.NewSQLiteDB(db, logger)

	server, err := newServer(ctx, config, store, logger)
	if err != nil {
		return multierr.Append(err, store.Close())
	}
	// The server owns the store from here on.
	defer func() {
		err = multierr.Append(err, server.Close())
	}()

	httpServer := &http.Server{
		Addr:    config.Addr,
		Handler: server,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", config.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newServer(ctx context.Context, config *Config, store *sqlite.SQLiteDB, logger *zap.Logger) (*handler.Server, error) {
	if err := store.Init(ctx); err != nil {
		return nil, err
	}

	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	return handler.NewServer(store, logger, handler.Options{
		SessionSecret: config.SessionSecret,
		SecureCookies: config.SecureCookies,
		Clock:         generator.LocalClock(loc),
	})
}

func newLogger(config *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}

	zapConfig := zap.NewProductionConfig()
	if config.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}
