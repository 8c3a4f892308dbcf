package tabular

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/domrows/internal/domrow"
)

// JSON handles row sets as a JSON array of objects with the same four
// fields as the CSV header. Absent contents are null.
type JSON struct{}

func (j *JSON) ContentType() string { return "application/json" }

func (j *JSON) Read(r io.Reader) ([]domrow.Row, error) {
	var raw []map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json rows: %w", err)
	}

	rows := make([]domrow.Row, 0, len(raw))
	for i, obj := range raw {
		var row domrow.Row
		idRaw, ok := obj[ColID]
		if !ok {
			return nil, fmt.Errorf("%w: %s (row %d)", ErrMissingColumn, ColID, i)
		}
		if err := json.Unmarshal(idRaw, &row.ID); err != nil {
			return nil, fmt.Errorf("row %d: invalid id: %w", i, err)
		}
		pathRaw, ok := obj[ColPath]
		if !ok {
			pathRaw, ok = obj[ColPathAlias]
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s (row %d)", ErrMissingColumn, ColPath, i)
		}
		if err := json.Unmarshal(pathRaw, &row.Path); err != nil {
			return nil, fmt.Errorf("row %d: invalid path: %w", i, err)
		}
		attrsRaw, ok := obj[ColAttributes]
		if !ok {
			return nil, fmt.Errorf("%w: %s (row %d)", ErrMissingColumn, ColAttributes, i)
		}
		// Attributes may be a serialized string or an inline object.
		if err := json.Unmarshal(attrsRaw, &row.Attributes); err != nil {
			row.Attributes = string(attrsRaw)
		}
		if contentsRaw, ok := obj[ColContents]; ok {
			var contents *string
			if err := json.Unmarshal(contentsRaw, &contents); err != nil {
				return nil, fmt.Errorf("row %d: invalid contents: %w", i, err)
			}
			if contents != nil && !domrow.IsAbsent(*contents) {
				row.Contents = contents
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (j *JSON) Write(w io.Writer, rows []domrow.Row) error {
	if rows == nil {
		rows = []domrow.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
