package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// MarkdownLoader renders Markdown with goldmark and places the result in
// the body of a new document titled after the file.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (*html.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rendered bytes.Buffer
	if err := goldmark.New().Convert(src, &rendered); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	doc, body := newDocument(titleFromFilename(filename))
	nodes, err := html.ParseFragment(&rendered, body)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return doc, nil
}
