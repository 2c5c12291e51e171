package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlovrec/curio/internal/api"
	"github.com/mlovrec/curio/internal/config"
	"github.com/mlovrec/curio/internal/db"
	"github.com/mlovrec/curio/internal/store"
	"github.com/mlovrec/curio/internal/suggest"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	fs := flag.NewFlagSet("curio", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: curio [flags]

Flags:
  -c, -config <path>   YAML config file (default: environment variables only)
  -h, -help            show this help and exit

Environment:
  CURIO_ADDR                 listen address (default: :8080)
  CURIO_STORAGE              storage backend, sqlite or file (default: sqlite)
  CURIO_DB_PATH              SQLite database path (default: curio.sqlite3)
  CURIO_DATA_PATH            JSON data path for the file backend (default: curio.json)
  CURIO_PHOTO_DIR            directory for item photos (default: photos)
  CURIO_LOG_PATH             log file path (default: no file, stdout/stderr only)
  CURIO_GATEWAY_URL          price suggestion endpoint (default: suggestions disabled)
  CURIO_GATEWAY_API_KEY      credential for the suggestion endpoint
  CURIO_GATEWAY_MODEL        model name sent to the endpoint
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	logger := slog.Default()

	// Pick the storage backend.
	var repo store.Repository
	switch cfg.Storage {
	case config.StorageSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := db.EnsureSchema(database); err != nil {
			slog.Error("failed to ensure database schema", "error", err)
			os.Exit(1)
		}

		slog.Info("database ready", "path", cfg.DBPath)
		repo = store.NewSQLiteRepository(database, logger)
	case config.StorageFile:
		slog.Info("using file storage", "path", cfg.DataPath)
		repo = store.NewFileRepository(cfg.DataPath, logger)
	}

	st := store.New(repo, logger)
	st.Load(context.Background())

	// Suggestions stay off unless a gateway is configured.
	var client *suggest.Client
	if cfg.Gateway.BaseURL != "" {
		client = suggest.NewClient(suggest.Options{
			BaseURL:     cfg.Gateway.BaseURL,
			APIKey:      cfg.Gateway.APIKey,
			Model:       cfg.Gateway.Model,
			Temperature: cfg.Gateway.Temperature,
			MaxTokens:   cfg.Gateway.MaxTokens,
		}, logger)
		slog.Info("price suggestions enabled", "model", cfg.Gateway.Model)
	}

	handler := api.NewRouter(st, client, cfg.PhotoDir)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
