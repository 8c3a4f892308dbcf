package domrow

import (
	"strings"

	"golang.org/x/net/html"
)

// Equal reports whether two element trees match in tag names, attributes,
// text and structure. Comments and whitespace-only text are ignored, and
// text is compared with whitespace runs collapsed and consecutive text
// joined by a single space, which is how rows carry it.
func Equal(a, b *html.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != html.ElementNode || b.Type != html.ElementNode {
		return false
	}
	if a.Data != b.Data || !equalAttrs(a.Attr, b.Attr) {
		return false
	}
	ac, bc := significantChildren(a), significantChildren(b)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if ac[i].text != bc[i].text {
			return false
		}
		if ac[i].node != nil || bc[i].node != nil {
			if !Equal(ac[i].node, bc[i].node) {
				return false
			}
		}
	}
	return true
}

func equalAttrs(a, b []html.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if qualifiedKey(a[i]) != qualifiedKey(b[i]) || a[i].Val != b[i].Val {
			return false
		}
	}
	return true
}

type significant struct {
	node *html.Node // nil for text
	text string
}

func significantChildren(n *html.Node) []significant {
	var out []significant
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			out = append(out, significant{node: c})
		case html.TextNode:
			t := strings.Join(strings.Fields(c.Data), " ")
			if t == "" {
				continue
			}
			if len(out) > 0 && out[len(out)-1].node == nil {
				out[len(out)-1].text += " " + t
				continue
			}
			out = append(out, significant{text: t})
		}
	}
	return out
}
