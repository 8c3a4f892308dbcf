// Package render writes element trees as HTML text.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
)

// Mode selects the output layout.
type Mode string

const (
	ModePretty  Mode = "pretty"  // one node per line, indented by depth
	ModeCompact Mode = "compact" // html.Render output
	ModeMinify  Mode = "minify"  // compact output run through an HTML minifier
)

// ParseMode validates a mode name. An empty name means ModePretty.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePretty, nil
	case ModePretty, ModeCompact, ModeMinify:
		return m, nil
	}
	return "", fmt.Errorf("unknown output mode %q (want pretty, compact or minify)", s)
}

// Render writes n to w in the given mode.
func Render(w io.Writer, n *html.Node, mode Mode) error {
	switch mode {
	case ModePretty, "":
		return Pretty(w, n)
	case ModeCompact:
		return html.Render(w, n)
	case ModeMinify:
		var buf bytes.Buffer
		if err := html.Render(&buf, n); err != nil {
			return err
		}
		return getMinifier().Minify("text/html", w, &buf)
	}
	return fmt.Errorf("unknown output mode %q", mode)
}

// Bytes renders n into a byte slice.
func Bytes(n *html.Node, mode Mode) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n, mode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	minifier *minify.M
	once     sync.Once
)

func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &minhtml.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
	})
	return minifier
}
