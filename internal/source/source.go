// Package source loads documents of various formats as HTML trees ready
// for linearization.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnsupportedFormat is returned for file types with no loader.
var ErrUnsupportedFormat = errors.New("unsupported source format")

// Loader converts raw document bytes into a parsed HTML document.
type Loader interface {
	Load(r io.Reader, filename string) (*html.Node, error)
}

// Options tune individual loaders.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions with a loader.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".docx":     true,
	".pdf":      true,
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm", ".xhtml":
		return &HTMLLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".txt":
		return &TextLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// newDocument builds <html><head><title/></head><body/></html> and returns
// the document node and its body.
func newDocument(title string) (*html.Node, *html.Node) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := newElement(atom.Html)
	doc.AppendChild(root)

	head := newElement(atom.Head)
	root.AppendChild(head)
	if title != "" {
		appendTextElement(head, atom.Title, title)
	}

	body := newElement(atom.Body)
	root.AppendChild(body)
	return doc, body
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func appendTextElement(parent *html.Node, a atom.Atom, text string) *html.Node {
	el := newElement(a)
	el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	parent.AppendChild(el)
	return el
}

// titleFromFilename strips the directory and extension.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// headingAtom returns h1..h6 for levels 1..6.
func headingAtom(level int) atom.Atom {
	if level < 1 {
		level = 1
	}
	if level > len(headingAtoms) {
		level = len(headingAtoms)
	}
	return headingAtoms[level-1]
}
