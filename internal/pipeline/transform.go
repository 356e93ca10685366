package pipeline

import (
	"fmt"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

// Column counts of the joined table before and after Year is added.
var (
	joinedCols  = len(domain.ExtractColumns) - 1
	extractCols = len(domain.ExtractColumns)
)

// transform joins the inputs, drops incomplete rows and keeps the latest
// year. Each stage is logged with the table shape.
func (p *Pipeline) transform(accidents []domain.AccidentRecord, vehicles []domain.VehicleRecord) (int, []domain.Record, error) {
	records := domain.JoinVehicles(accidents, vehicles)
	p.shape("joined", len(records), joinedCols)

	records = p.drop("with_vehicle", "missing_vehicle", records, domain.DropMissingVehicle)
	records = p.drop("with_location", "missing_location", records, domain.DropMissingLocation)
	records = p.drop("dated", "invalid_date", records, domain.ParseDates)

	year, err := domain.LatestYear(records)
	if err != nil {
		return 0, nil, fmt.Errorf("select year: %w", err)
	}
	p.logger.Info("latest year selected", "year", year)

	records = p.drop("extract", "other_year", records, func(rs []domain.Record) []domain.Record {
		return domain.FilterYear(rs, year)
	})
	return year, records, nil
}

// drop applies a filtering stage and accounts for the removed rows.
func (p *Pipeline) drop(stage, reason string, records []domain.Record, fn func([]domain.Record) []domain.Record) []domain.Record {
	before := len(records)
	records = fn(records)
	if dropped := before - len(records); dropped > 0 {
		p.metrics.DroppedRows.WithLabelValues(reason).Add(float64(dropped))
		p.logger.Debug("rows dropped", "stage", stage, "reason", reason, "dropped", dropped)
	}
	cols := joinedCols
	if stage == "dated" || stage == "extract" {
		cols = extractCols
	}
	p.shape(stage, len(records), cols)
	return records
}
