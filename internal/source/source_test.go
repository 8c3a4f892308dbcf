package source

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// elementTexts returns the trimmed text of every element with the given tag,
// in document order.
func elementTexts(n *html.Node, tag string) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, strings.TrimSpace(textContent(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"page.html", "*source.HTMLLoader"},
		{"PAGE.HTM", "*source.HTMLLoader"},
		{"readme.md", "*source.MarkdownLoader"},
		{"notes.markdown", "*source.MarkdownLoader"},
		{"notes.txt", "*source.TextLoader"},
		{"report.docx", "*source.DOCXLoader"},
		{"scan.pdf", "*source.PDFLoader"},
	}
	for _, tt := range tests {
		l, err := ForFile(tt.filename, Options{})
		if err != nil {
			t.Errorf("ForFile(%q): unexpected error %v", tt.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", l); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}

	if _, err := ForFile("rows.csv", Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if IsSupportedExtension("image.png") {
		t.Error("png should not be supported")
	}
}

func TestForFile_PDFOptions(t *testing.T) {
	l, err := ForFile("a.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.(*PDFLoader).FallbackPdftotext {
		t.Error("expected pdftotext fallback to be enabled")
	}
}

func TestHTMLLoader(t *testing.T) {
	doc, err := (&HTMLLoader{}).Load(strings.NewReader("<p>one</p><p>two</p>"), "x.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := elementTexts(doc, "p")
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("unexpected paragraphs %v", got)
	}
	if len(elementTexts(doc, "body")) != 1 {
		t.Error("expected the parser to supply a body")
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("first\nline\r\n\r\n\n\nsecond\n\n  \n")
	if len(got) != 2 || got[0] != "first\nline" || got[1] != "second" {
		t.Errorf("unexpected paragraphs %q", got)
	}
}

func TestHeadingAtomClamps(t *testing.T) {
	if headingAtom(0).String() != "h1" || headingAtom(3).String() != "h3" || headingAtom(9).String() != "h6" {
		t.Error("heading levels should clamp to h1..h6")
	}
}
