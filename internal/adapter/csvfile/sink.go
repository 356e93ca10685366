package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

// Sink writes yearly extracts into a directory.
type Sink struct {
	Dir string
}

// NewSink creates a Sink writing into dir.
func NewSink(dir string) *Sink {
	return &Sink{Dir: dir}
}

// Load writes records to the extract file for year and returns its path.
// The file is written beside its final name and renamed into place, so a
// reader never sees a partial extract.
func (s *Sink) Load(ctx context.Context, year int, records []domain.Record) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.Dir, domain.ExtractFileName(year))
	tmp, err := os.CreateTemp(s.Dir, ".uk_accidents_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp extract: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if err := writeRecords(ctx, tmp, records); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp extract: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod temp extract: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename extract: %w", err)
	}
	return path, nil
}

func writeRecords(ctx context.Context, f *os.File, records []domain.Record) error {
	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)

	if len(records) == 0 {
		if err := enc.EncodeHeader(domain.Record{}); err != nil {
			return err
		}
	}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(records[i]); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
