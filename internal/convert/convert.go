// Package convert runs whole-file conversions between source documents,
// row sets and rendered HTML.
package convert

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"golang.org/x/net/html"

	"github.com/dgallion1/domrows/internal/domrow"
	"github.com/dgallion1/domrows/internal/render"
	"github.com/dgallion1/domrows/internal/source"
	"github.com/dgallion1/domrows/internal/stats"
	"github.com/dgallion1/domrows/internal/tabular"
)

// Converter links the loaders, codecs and renderer, and records every
// conversion in Stats when set.
type Converter struct {
	Stats  *stats.Set
	Source source.Options
}

// Linearize loads a source document and returns its rows.
func (c *Converter) Linearize(r io.Reader, filename string) (rows []domrow.Row, err error) {
	start := time.Now()
	defer func() {
		c.Stats.Observe(stats.OpLinearize, stats.Conversion{Duration: time.Since(start), Rows: len(rows), Err: err})
	}()

	doc, err := c.load(r, filename)
	if err != nil {
		return nil, err
	}
	return linearize(doc), nil
}

// LinearizeTo loads a source document and writes its rows in format.
func (c *Converter) LinearizeTo(w io.Writer, r io.Reader, filename, format string) ([]domrow.Row, error) {
	codec, err := tabular.ForFormat(format)
	if err != nil {
		return nil, err
	}
	rows, err := c.Linearize(r, filename)
	if err != nil {
		return nil, err
	}
	if err := codec.Write(w, rows); err != nil {
		return nil, fmt.Errorf("write rows: %w", err)
	}
	return rows, nil
}

// Build reads a row-set file, reconstructs the tree and renders it.
func (c *Converter) Build(r io.Reader, filename string, mode render.Mode) ([]byte, error) {
	codec, err := tabular.ForFile(filename)
	if err != nil {
		return nil, err
	}
	rows, err := codec.Read(r)
	if err != nil {
		c.Stats.Observe(stats.OpBuild, stats.Conversion{Err: err})
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return c.BuildRows(rows, mode)
}

// BuildRows reconstructs and renders an in-memory row set.
func (c *Converter) BuildRows(rows []domrow.Row, mode render.Mode) (out []byte, err error) {
	start := time.Now()
	defer func() {
		c.Stats.Observe(stats.OpBuild, stats.Conversion{Duration: time.Since(start), Rows: len(rows), Err: err})
	}()

	root, err := domrow.Build(rows)
	if err != nil {
		return nil, err
	}
	return render.Bytes(root, mode)
}

// RoundTrip is the outcome of linearizing a document and building it back.
type RoundTrip struct {
	Rows    []domrow.Row
	HTML    []byte
	Matches bool
}

// RoundTrip linearizes a source document, rebuilds it and compares the
// rebuilt tree with the loaded one.
func (c *Converter) RoundTrip(r io.Reader, filename string, mode render.Mode) (*RoundTrip, error) {
	doc, err := c.load(r, filename)
	if err != nil {
		return nil, err
	}
	rows := linearize(doc)

	root, err := domrow.Build(rows)
	if err != nil {
		return nil, err
	}
	out, err := render.Bytes(root, mode)
	if err != nil {
		return nil, err
	}
	return &RoundTrip{
		Rows:    rows,
		HTML:    out,
		Matches: domrow.Equal(domrow.DocumentRoot(doc), root),
	}, nil
}

func (c *Converter) load(r io.Reader, filename string) (*html.Node, error) {
	loader, err := source.ForFile(filename, c.Source)
	if err != nil {
		return nil, err
	}
	doc, err := loader.Load(r, filename)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return doc, nil
}

func linearize(doc *html.Node) []domrow.Row {
	rows := domrow.LinearizeDocument(doc)
	if rows == nil {
		rows = []domrow.Row{}
	}
	return rows
}

// EncodeRows writes rows in format into a byte slice and returns it with
// the codec's content type.
func EncodeRows(rows []domrow.Row, format string) ([]byte, string, error) {
	codec, err := tabular.ForFormat(format)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := codec.Write(&buf, rows); err != nil {
		return nil, "", fmt.Errorf("write rows: %w", err)
	}
	return buf.Bytes(), codec.ContentType(), nil
}
