package csvfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

// Source reads the raw accident and vehicle tables.
type Source struct {
	AccidentsPath string
	VehiclesPath  string
}

// NewSource creates a Source for the given raw file paths.
func NewSource(accidentsPath, vehiclesPath string) *Source {
	return &Source{AccidentsPath: accidentsPath, VehiclesPath: vehiclesPath}
}

// ExtractAccidents reads the accident table as UTF-8.
func (s *Source) ExtractAccidents(ctx context.Context) ([]domain.AccidentRecord, error) {
	return readAll[domain.AccidentRecord](ctx, s.AccidentsPath, utf8Text, domain.AccidentColumns)
}

// ExtractVehicles reads the vehicle table, which is published as Latin-1.
func (s *Source) ExtractVehicles(ctx context.Context) ([]domain.VehicleRecord, error) {
	return readAll[domain.VehicleRecord](ctx, s.VehiclesPath, latin1Text, domain.VehicleColumns)
}

// ExtractFile reads a persisted extract.
type ExtractFile struct {
	Path string
}

// LoadRecords reads every row of the extract.
func (e ExtractFile) LoadRecords(ctx context.Context) ([]domain.Record, error) {
	return readAll[domain.Record](ctx, e.Path, utf8Text, domain.ExtractColumns)
}

// LatestExtract returns the path of the extract with the highest year in dir.
func LatestExtract(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, dir)
		}
		return "", fmt.Errorf("list %s: %w", dir, err)
	}

	best, bestYear := "", 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		year, ok := domain.ParseExtractFileName(e.Name())
		if ok && year > bestYear {
			best, bestYear = e.Name(), year
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no extract in %s", domain.ErrFileNotFound, dir)
	}
	return filepath.Join(dir, best), nil
}
