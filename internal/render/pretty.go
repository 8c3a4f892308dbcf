package render

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Elements whose content is whitespace sensitive or raw text. They are
// written on a single line with html.Render.
var verbatim = map[string]bool{
	"pre":       true,
	"textarea":  true,
	"script":    true,
	"style":     true,
	"xmp":       true,
	"plaintext": true,
	"iframe":    true,
	"noscript":  true,
	"noembed":   true,
	"noframes":  true,
}

var void = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Pretty writes n with one node per line, each nested level indented by
// one more space. Text is trimmed and whitespace-only text is omitted.
func Pretty(w io.Writer, n *html.Node) error {
	bw := bufio.NewWriter(w)
	if err := pretty(bw, n, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func pretty(w *bufio.Writer, n *html.Node, depth int) error {
	indent := strings.Repeat(" ", depth)
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := pretty(w, c, depth); err != nil {
				return err
			}
		}
		return nil

	case html.DoctypeNode:
		_, err := w.WriteString(indent + "<!DOCTYPE " + n.Data + ">\n")
		return err

	case html.CommentNode:
		_, err := w.WriteString(indent + "<!--" + n.Data + "-->\n")
		return err

	case html.TextNode:
		t := strings.TrimSpace(n.Data)
		if t == "" {
			return nil
		}
		_, err := w.WriteString(indent + html.EscapeString(t) + "\n")
		return err

	case html.ElementNode:
		if verbatim[n.Data] {
			w.WriteString(indent)
			if err := html.Render(w, n); err != nil {
				return err
			}
			return w.WriteByte('\n')
		}

		w.WriteString(indent)
		writeStartTag(w, n)
		w.WriteByte('\n')
		if void[n.Data] && n.FirstChild == nil {
			return nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := pretty(w, c, depth+1); err != nil {
				return err
			}
		}
		_, err := w.WriteString(indent + "</" + n.Data + ">\n")
		return err
	}
	return nil
}

func writeStartTag(w *bufio.Writer, n *html.Node) {
	w.WriteByte('<')
	w.WriteString(n.Data)
	for _, a := range n.Attr {
		w.WriteByte(' ')
		if a.Namespace != "" {
			w.WriteString(a.Namespace)
			w.WriteByte(':')
		}
		w.WriteString(a.Key)
		w.WriteString(`="`)
		w.WriteString(html.EscapeString(a.Val))
		w.WriteByte('"')
	}
	w.WriteByte('>')
}
