package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/crashdash/crashdash/internal/api"
	"github.com/crashdash/crashdash/internal/clipboard"
	"github.com/crashdash/crashdash/internal/config"
	"github.com/crashdash/crashdash/internal/localstore"
	"github.com/crashdash/crashdash/internal/session"
	"github.com/crashdash/crashdash/internal/term"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr to keep stdout clean for the dashboard itself.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureStoreDir(cfg.Store.Path); err != nil {
		logger.Error("failed to prepare store path", "error", err)
		os.Exit(1)
	}

	store, err := localstore.OpenSQLite(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open local store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Tokens:  api.StoredTokenSource(store),
		Logger:  logger,
	})

	shell := term.NewShell(term.Config{
		Client:    client,
		BaseURL:   client.BaseURL(),
		Clipboard: &clipboard.OSC52{Out: os.Stdout},
		Logger:    logger,
		In:        os.Stdin,
		Out:       os.Stdout,
	})

	// The shell doubles as the session's navigator, so it binds after
	// the store is built.
	sess := session.NewStore(client, store, shell, logger)
	shell.Bind(sess)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := shell.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("shell error", "error", err)
		os.Exit(1)
	}
}

func ensureStoreDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
