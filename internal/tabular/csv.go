package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/domrows/internal/domrow"
)

// CSV handles comma- or tab-separated row sets with a header row.
type CSV struct {
	Comma rune
}

func (c *CSV) ContentType() string {
	if c.Comma == '\t' {
		return "text/tab-separated-values; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

func (c *CSV) Read(r io.Reader) ([]domrow.Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.comma()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s (empty input)", ErrMissingColumn, ColID)
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []domrow.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse rows: %w", err)
		}
		line, _ := reader.FieldPos(0)

		idCell := cell(record, cols.id)
		id, err := parseID(idCell)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q: %w", line, idCell, err)
		}
		row := domrow.Row{
			ID:         id,
			Path:       cell(record, cols.path),
			Attributes: cell(record, cols.attributes),
		}
		if contents := cell(record, cols.contents); !domrow.IsAbsent(contents) {
			row.Contents = &contents
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *CSV) Write(w io.Writer, rows []domrow.Row) error {
	writer := csv.NewWriter(w)
	writer.Comma = c.comma()

	if err := writer.Write([]string{ColID, ColPath, ColAttributes, ColContents}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		contents := ""
		if r.Contents != nil {
			contents = *r.Contents
		}
		attrs := r.Attributes
		if attrs == "" {
			attrs = "{}"
		}
		if err := writer.Write([]string{strconv.Itoa(r.ID), r.Path, attrs, contents}); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (c *CSV) comma() rune {
	if c.Comma == 0 {
		return ','
	}
	return c.Comma
}

type columns struct {
	id, path, attributes, contents int
}

func columnIndex(header []string) (columns, error) {
	cols := columns{id: -1, path: -1, attributes: -1, contents: -1}
	for i, h := range header {
		// Spreadsheet exports often start with a byte order mark.
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch h {
		case ColID:
			cols.id = i
		case ColPath, ColPathAlias:
			if cols.path < 0 {
				cols.path = i
			}
		case ColAttributes:
			cols.attributes = i
		case ColContents:
			cols.contents = i
		}
	}

	var missing []string
	if cols.id < 0 {
		missing = append(missing, ColID)
	}
	if cols.path < 0 {
		missing = append(missing, ColPath)
	}
	if cols.attributes < 0 {
		missing = append(missing, ColAttributes)
	}
	if cols.contents < 0 {
		missing = append(missing, ColContents)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// parseID accepts integers and integral floats such as "3.0", which some
// spreadsheet tools write for integer columns.
func parseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative id")
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("not a non-negative integer")
	}
	return int(f), nil
}
