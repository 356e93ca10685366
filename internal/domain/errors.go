package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound is returned when an input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrEmptyFile is returned when an input file has no header row.
	ErrEmptyFile = errors.New("file has no header row")

	// ErrNoDatedRows is returned when no row survives date parsing, so no
	// latest year can be chosen.
	ErrNoDatedRows = errors.New("no rows with a valid date")
)

// MissingColumnsError reports required columns absent from a file header.
type MissingColumnsError struct {
	Path    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Columns, ", "))
}

// EncodingError reports text that is not valid in the file's declared encoding.
type EncodingError struct {
	Path     string
	Line     int
	Encoding string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s:%d: invalid %s text", e.Path, e.Line, e.Encoding)
}
