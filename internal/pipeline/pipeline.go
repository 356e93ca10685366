// Package pipeline turns the raw accident and vehicle tables into a
// single-year extract.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
	"github.com/couchcryptid/uk-accident-insights/internal/observability"
)

// Extractor reads the raw input tables.
type Extractor interface {
	ExtractAccidents(ctx context.Context) ([]domain.AccidentRecord, error)
	ExtractVehicles(ctx context.Context) ([]domain.VehicleRecord, error)
}

// Loader persists the extract for a year and returns where it was written.
type Loader interface {
	Load(ctx context.Context, year int, records []domain.Record) (string, error)
}

// Notifier announces a persisted extract to downstream consumers.
type Notifier interface {
	Notify(ctx context.Context, notice domain.ExtractNotice) error
}

// Pipeline runs the extract-transform-load sequence once.
type Pipeline struct {
	extractor Extractor
	loader    Loader
	notifier  Notifier
	logger    *slog.Logger
	metrics   *observability.PipelineMetrics
}

// New creates a Pipeline. Pass a nil notifier to skip extract notices.
func New(e Extractor, l Loader, n Notifier, logger *slog.Logger, metrics *observability.PipelineMetrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		loader:    l,
		notifier:  n,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run reads both inputs, derives the latest-year extract and persists it.
// A failed notice is logged and does not fail the run.
func (p *Pipeline) Run(ctx context.Context) (domain.ExtractNotice, error) {
	start := domain.Now()
	p.logger.Info("preprocess started")

	accidents, err := p.extractor.ExtractAccidents(ctx)
	if err != nil {
		return domain.ExtractNotice{}, fmt.Errorf("extract accidents: %w", err)
	}
	p.shape("accidents", len(accidents), len(domain.AccidentColumns))

	vehicles, err := p.extractor.ExtractVehicles(ctx)
	if err != nil {
		return domain.ExtractNotice{}, fmt.Errorf("extract vehicles: %w", err)
	}
	p.shape("vehicles", len(vehicles), len(domain.VehicleColumns))

	year, records, err := p.transform(accidents, vehicles)
	if err != nil {
		return domain.ExtractNotice{}, err
	}

	path, err := p.loader.Load(ctx, year, records)
	if err != nil {
		return domain.ExtractNotice{}, fmt.Errorf("load extract: %w", err)
	}

	notice := domain.NewExtractNotice(year, path, len(records))
	p.logger.Info("extract saved", "path", path, "year", year, "rows", len(records))

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, notice); err != nil {
			p.logger.Warn("extract notice failed", "error", err, "path", path)
		}
	}

	p.metrics.LatestYear.Set(float64(year))
	p.metrics.LastSuccess.Set(float64(notice.GeneratedAt.Unix()))
	p.metrics.Duration.Set(domain.Now().Sub(start).Seconds())
	return notice, nil
}

// shape logs and records the size of the table after a stage.
func (p *Pipeline) shape(stage string, rows, cols int) {
	p.logger.Info("stage complete", "stage", stage, "rows", rows, "cols", cols)
	p.metrics.StageRows.WithLabelValues(stage).Set(float64(rows))
}
