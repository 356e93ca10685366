package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// extractNameRe matches extract file names produced by ExtractFileName.
var extractNameRe = regexp.MustCompile(`^uk_accidents_(\d{4})\.csv$`)

// ExtractFileName returns the file name of the extract for a year.
func ExtractFileName(year int) string {
	return fmt.Sprintf("uk_accidents_%d.csv", year)
}

// ParseExtractFileName returns the year embedded in an extract file name.
func ParseExtractFileName(name string) (int, bool) {
	m := extractNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// ExtractNotice describes a persisted extract.
type ExtractNotice struct {
	Year        int       `json:"year"`
	Path        string    `json:"path"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewExtractNotice builds the notice for an extract written to path.
func NewExtractNotice(year int, path string, rows int) ExtractNotice {
	return ExtractNotice{
		Year:        year,
		Path:        path,
		Rows:        rows,
		Columns:     ExtractColumns,
		GeneratedAt: clock.Now().UTC(),
	}
}
