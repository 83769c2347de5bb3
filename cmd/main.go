package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vitormoschetta/secretai-gateway/internal/config"
	"github.com/vitormoschetta/secretai-gateway/internal/logging"
	"github.com/vitormoschetta/secretai-gateway/internal/provider"
	"github.com/vitormoschetta/secretai-gateway/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine, the process environment is used as is.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("could not load .env file", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	completer, err := provider.NewCompleter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create completion provider: %w", err)
	}
	checkout := provider.NewCheckoutCreator(cfg, logger)

	srv := server.New(cfg, logger, completer, checkout)
	srv.SetupRouter()

	return srv.Start(ctx)
}
