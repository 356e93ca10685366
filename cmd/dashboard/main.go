// Command dashboard serves the interactive accident dashboard for a yearly
// extract produced by cmd/preprocess.
//
// Usage:
//
//	go run ./cmd/dashboard -extract data/processed/uk_accidents_2016.csv
//	go run ./cmd/dashboard -out-dir data/processed -debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/uk-accident-insights/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/uk-accident-insights/internal/adapter/http"
	"github.com/couchcryptid/uk-accident-insights/internal/config"
	"github.com/couchcryptid/uk-accident-insights/internal/dashboard"
	"github.com/couchcryptid/uk-accident-insights/internal/domain"
	"github.com/couchcryptid/uk-accident-insights/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	flag.StringVar(&cfg.ExtractPath, "extract", cfg.ExtractPath, "extract CSV to display (default: newest in -out-dir)")
	flag.StringVar(&cfg.OutputDir, "out-dir", cfg.OutputDir, "directory searched for extracts")
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging and rebuild the page on every request")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid flags", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)

	path, err := resolveExtract(cfg)
	if err != nil {
		return reportLoadError(os.Stderr, logger, cfg, err)
	}
	year, _ := domain.ParseExtractFileName(filepath.Base(path))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := dashboard.NewService(
		csvfile.ExtractFile{Path: path},
		year,
		dashboard.Options{
			SampleSize:            cfg.SampleSize,
			SampleSeed:            cfg.SampleSeed,
			SampleAfterTimeFilter: cfg.SampleAfterTimeFilter,
		},
		cfg.Debug,
		logger,
		observability.NewDashboardMetrics(),
	)
	if err := svc.Refresh(ctx); err != nil {
		return reportLoadError(os.Stderr, logger, cfg, err)
	}
	logger.Info("extract loaded", "path", path, "reload", cfg.Debug)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	code := 0
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("http server error", "error", err)
		code = 1
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return code
}

// resolveExtract returns the configured extract path, or the newest extract
// in the output directory.
func resolveExtract(cfg *config.Config) (string, error) {
	if cfg.ExtractPath != "" {
		if _, err := os.Stat(cfg.ExtractPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, cfg.ExtractPath)
			}
			return "", err
		}
		return cfg.ExtractPath, nil
	}
	return csvfile.LatestExtract(cfg.OutputDir)
}

// reportLoadError prints a plain message for a missing extract and logs
// anything else. It returns the exit status.
func reportLoadError(w io.Writer, logger *slog.Logger, cfg *config.Config, err error) int {
	if errors.Is(err, domain.ErrFileNotFound) {
		fmt.Fprintf(w, "Error: the accident extract was not found (%v).\n", err)
		fmt.Fprintf(w, "Please make sure the path is correct and the preprocessor has been run (go run ./cmd/preprocess -out-dir %s).\n", cfg.OutputDir)
		return 1
	}
	logger.Error("failed to build dashboard", "error", err)
	return 1
}
