// Command preprocess joins the raw accident and vehicle tables, drops
// incomplete rows and writes the most recent year as a CSV extract.
//
// Usage:
//
//	go run ./cmd/preprocess \
//	  -accidents data/raw/Accident_Information.csv \
//	  -vehicles data/raw/Vehicle_Information.csv \
//	  -out-dir data/processed
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/uk-accident-insights/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/uk-accident-insights/internal/adapter/kafka"
	"github.com/couchcryptid/uk-accident-insights/internal/config"
	"github.com/couchcryptid/uk-accident-insights/internal/domain"
	"github.com/couchcryptid/uk-accident-insights/internal/observability"
	"github.com/couchcryptid/uk-accident-insights/internal/pipeline"
)

const pushJob = "uk_accidents_preprocess"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	flag.StringVar(&cfg.AccidentsPath, "accidents", cfg.AccidentsPath, "path to the raw accident CSV")
	flag.StringVar(&cfg.VehiclesPath, "vehicles", cfg.VehiclesPath, "path to the raw vehicle CSV (Latin-1)")
	flag.StringVar(&cfg.OutputDir, "out-dir", cfg.OutputDir, "directory for the yearly extract")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid flags", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	reg := prometheus.NewRegistry()
	metrics := observability.NewPipelineMetrics(reg)

	var notifier pipeline.Notifier
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		notifier = writer
		logger.Info("extract notices enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(
		csvfile.NewSource(cfg.AccidentsPath, cfg.VehiclesPath),
		csvfile.NewSink(cfg.OutputDir),
		notifier,
		logger,
		metrics,
	)

	_, runErr := p.Run(ctx)

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := observability.PushMetrics(pushCtx, cfg.PushgatewayURL, pushJob, reg); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
		cancel()
	}

	if runErr != nil {
		if errors.Is(runErr, domain.ErrFileNotFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			fmt.Fprintln(os.Stderr, "Please make sure the raw dataset paths are correct (-accidents, -vehicles).")
			return 1
		}
		logger.Error("preprocess failed", "error", runErr)
		return 1
	}
	return 0
}
