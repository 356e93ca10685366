// Package csvfile reads the raw accident and vehicle tables and reads and
// writes the yearly extract as CSV files on local disk.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jszwec/csvutil"
	"golang.org/x/text/encoding/charmap"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

const bom = "\ufeff"

// encoding selects how a file's bytes are turned into text.
type encoding int

const (
	utf8Text encoding = iota
	latin1Text
)

func (e encoding) String() string {
	if e == latin1Text {
		return "latin-1"
	}
	return "utf-8"
}

// readAll decodes every row of the CSV file at path into T. The header must
// contain all of required; other columns are ignored.
func readAll[T any](ctx context.Context, path string, enc encoding, required []string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var src io.Reader = f
	if enc == latin1Text {
		src = charmap.ISO8859_1.NewDecoder().Reader(f)
	}

	r := &validatingReader{r: csv.NewReader(src), path: path, checkUTF8: enc == utf8Text}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyFile, path)
	}
	if err != nil {
		return nil, wrapReadErr(path, err)
	}
	header[0] = strings.TrimPrefix(header[0], bom)
	if missing := missingColumns(header, required); len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Path: path, Columns: missing}
	}

	dec, err := csvutil.NewDecoder(r, header...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var out []T
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapReadErr(path, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func wrapReadErr(path string, err error) error {
	var encErr *domain.EncodingError
	if errors.As(err, &encErr) {
		return encErr
	}
	return fmt.Errorf("read %s: %w", path, err)
}

// missingColumns returns the required columns absent from header, in
// required order.
func missingColumns(header, required []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range required {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// validatingReader rejects records that are not valid UTF-8.
type validatingReader struct {
	r         *csv.Reader
	path      string
	checkUTF8 bool
}

func (v *validatingReader) Read() ([]string, error) {
	record, err := v.r.Read()
	if err != nil || !v.checkUTF8 {
		return record, err
	}
	for i, field := range record {
		if !utf8.ValidString(field) {
			line, _ := v.r.FieldPos(i)
			return nil, &domain.EncodingError{Path: v.path, Line: line, Encoding: utf8Text.String()}
		}
	}
	return record, nil
}
