// Package tabular reads and writes row sets as delimited text or JSON.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/domrows/internal/domrow"
)

var (
	// ErrMissingColumn is returned when a row set lacks a required field.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat is returned for unknown row-set file types.
	ErrUnsupportedFormat = errors.New("unsupported row-set format")
)

// Column names. Path is written as "xpath"; "path" is accepted on read.
const (
	ColID         = "id"
	ColPath       = "xpath"
	ColPathAlias  = "path"
	ColAttributes = "attributes"
	ColContents   = "contents"
)

// Codec reads and writes a row set.
type Codec interface {
	Read(r io.Reader) ([]domrow.Row, error)
	Write(w io.Writer, rows []domrow.Row) error
	ContentType() string
}

// Extensions maps row-set file extensions to format names.
var Extensions = map[string]string{
	".csv":  "csv",
	".tsv":  "tsv",
	".json": "json",
}

// ForFormat returns the codec for a format name: csv, tsv or json.
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		return &CSV{Comma: ','}, nil
	case "tsv":
		return &CSV{Comma: '\t'}, nil
	case "json":
		return &JSON{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// ForFile returns the codec for a filename based on its extension.
func ForFile(filename string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := Extensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return ForFormat(format)
}

// IsRowSetFile reports whether filename has a row-set extension.
func IsRowSetFile(filename string) bool {
	_, ok := Extensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}
