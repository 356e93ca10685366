// Command validate checks a yearly extract: its header, the completeness of
// every row, parity with a fresh run over the raw inputs, and the
// consistency of the dashboard aggregates built from it.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -extract data/processed/uk_accidents_2016.csv \
//	  -accidents data/raw/Accident_Information.csv \
//	  -vehicles data/raw/Vehicle_Information.csv
//
// The raw inputs are optional; without them the parity phase is skipped.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/uk-accident-insights/internal/adapter/csvfile"
	"github.com/couchcryptid/uk-accident-insights/internal/config"
	"github.com/couchcryptid/uk-accident-insights/internal/dashboard"
	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	skipped bool
	errors  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

const maxErrorsShown = 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: config: %v\n", err)
		os.Exit(1)
	}

	extract := flag.String("extract", cfg.ExtractPath, "extract CSV to validate (default: newest in -out-dir)")
	outDir := flag.String("out-dir", cfg.OutputDir, "directory searched for extracts")
	accidents := flag.String("accidents", "", "raw accident CSV for the parity phase")
	vehicles := flag.String("vehicles", "", "raw vehicle CSV for the parity phase")
	flag.Parse()

	path := *extract
	if path == "" {
		latest, err := csvfile.LatestExtract(*outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
		path = latest
	}

	opts := dashboard.Options{
		SampleSize:            cfg.SampleSize,
		SampleSeed:            cfg.SampleSeed,
		SampleAfterTimeFilter: cfg.SampleAfterTimeFilter,
	}
	os.Exit(run(context.Background(), path, *accidents, *vehicles, opts))
}

func run(ctx context.Context, path, accidentsPath, vehiclesPath string, opts dashboard.Options) int {
	fmt.Println("=== Accident Extract Validation ===")
	fmt.Printf("Extract: %s\n", path)

	header, err := readHeader(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read header: %v\n", err)
		return 1
	}

	records, err := csvfile.ExtractFile{Path: path}.LoadRecords(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load extract: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHeader(header),
		validateRows(path, records),
		validateParity(ctx, records, accidentsPath, vehiclesPath),
		validateViews(records, opts),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		switch {
		case p.skipped:
			status = "\033[33mSKIP\033[0m"
		case !p.passed():
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d\n", len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrorsShown {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxErrorsShown)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).Read()
}

// ── Phase 1: Header ──

func validateHeader(header []string) *phase {
	p := &phase{name: "Phase 1: Header (columns and order)"}
	if !slices.Equal(header, domain.ExtractColumns) {
		p.errorf("header %v, want %v", header, domain.ExtractColumns)
	}
	return p
}

// ── Phase 2: Row integrity ──

func validateRows(path string, records []domain.Record) *phase {
	p := &phase{name: "Phase 2: Rows (complete, single year)"}

	fileYear, ok := domain.ParseExtractFileName(filepath.Base(path))
	if !ok {
		p.errorf("file name %q does not follow uk_accidents_<year>.csv", filepath.Base(path))
	}

	for i := range records {
		r := &records[i]
		line := i + 2
		if domain.IsNull(r.VehicleType) {
			p.errorf("line %d (%s): empty Vehicle_Type", line, r.AccidentIndex)
		}
		if domain.IsNull(r.Latitude) || domain.IsNull(r.Longitude) {
			p.errorf("line %d (%s): missing coordinates", line, r.AccidentIndex)
		}
		date, ok := domain.ParseDate(r.Date)
		switch {
		case !ok:
			p.errorf("line %d (%s): Date %q is not YYYY-MM-DD", line, r.AccidentIndex, r.Date)
		case date.Year() != r.Year:
			p.errorf("line %d (%s): Date %s disagrees with Year %d", line, r.AccidentIndex, r.Date, r.Year)
		}
		if fileYear != 0 && r.Year != fileYear {
			p.errorf("line %d (%s): Year %d, file is for %d", line, r.AccidentIndex, r.Year, fileYear)
		}
	}
	return p
}

// ── Phase 3: Parity with raw inputs ──

func validateParity(ctx context.Context, records []domain.Record, accidentsPath, vehiclesPath string) *phase {
	p := &phase{name: "Phase 3: Parity (re-derived from raw)"}
	if accidentsPath == "" || vehiclesPath == "" {
		p.skipped = true
		return p
	}

	src := csvfile.NewSource(accidentsPath, vehiclesPath)
	accidents, err := src.ExtractAccidents(ctx)
	if err != nil {
		p.errorf("read accidents: %v", err)
		return p
	}
	vehicles, err := src.ExtractVehicles(ctx)
	if err != nil {
		p.errorf("read vehicles: %v", err)
		return p
	}

	want := domain.JoinVehicles(accidents, vehicles)
	want = domain.DropMissingVehicle(want)
	want = domain.DropMissingLocation(want)
	want = domain.ParseDates(want)
	year, err := domain.LatestYear(want)
	if err != nil {
		p.errorf("latest year: %v", err)
		return p
	}
	want = domain.FilterYear(want, year)

	if len(want) != len(records) {
		p.errorf("row count: re-derived %d, extract has %d", len(want), len(records))
	}
	for i := range min(len(want), len(records)) {
		if want[i] != records[i] {
			p.errorf("line %d: extract row %s differs from re-derived row %s", i+2, records[i].AccidentIndex, want[i].AccidentIndex)
		}
	}
	return p
}

// ── Phase 4: Dashboard aggregates ──

func validateViews(records []domain.Record, opts dashboard.Options) *phase {
	p := &phase{name: "Phase 4: Views (dashboard aggregates)"}

	v := dashboard.BuildViews(records, 0, opts)

	total := 0
	for i, h := range v.Hourly {
		total += h.N
		if h.Hour < 0 || h.Hour > 23 {
			p.errorf("hour %d out of range", h.Hour)
		}
		if i > 0 && v.Hourly[i-1].Hour >= h.Hour {
			p.errorf("hours not ascending at %d", h.Hour)
		}
	}
	if total != v.TimedRows {
		p.errorf("hourly counts sum to %d, %d rows have a valid time", total, v.TimedRows)
	}

	checkDescending(p, "weather", v.Weather)
	checkDescending(p, "road type", v.RoadTypes)

	again := dashboard.BuildViews(records, 0, opts)
	if !slices.Equal(v.Points, again.Points) {
		p.errorf("map sample differs between builds with the same seed")
	}
	return p
}

func checkDescending(p *phase, name string, counts []dashboard.Count) {
	for i := 1; i < len(counts); i++ {
		if counts[i].N > counts[i-1].N {
			p.errorf("%s counts not descending: %s=%d after %s=%d",
				name, counts[i].Label, counts[i].N, counts[i-1].Label, counts[i-1].N)
		}
	}
}
