package domrow

import (
	"strings"

	"golang.org/x/net/html"
)

// Linearize turns the element tree rooted at root into rows, one per
// element, in pre-order. The root gets id 0. It returns nil when root is
// not an element.
//
// Ids and paths for every element are assigned before any contents are
// extracted, since an element's contents refer to its children's ids.
func Linearize(root *html.Node) []Row {
	if root == nil || root.Type != html.ElementNode {
		return nil
	}

	l := &linearizer{
		root:     root,
		pathToID: make(map[string]int),
		visited:  make(map[*html.Node]bool),
	}
	l.assign(root, 0)

	rows := make([]Row, len(l.entries))
	for i, e := range l.entries {
		rows[i] = Row{
			ID:         e.id,
			Path:       e.path,
			Attributes: MarshalAttributes(e.node.Attr),
			Contents:   l.contents(e.node),
		}
	}
	return rows
}

// LinearizeDocument linearizes a parsed document starting at its top-level
// element. An element passed directly is linearized as-is.
func LinearizeDocument(doc *html.Node) []Row {
	return Linearize(DocumentRoot(doc))
}

// DocumentRoot returns the first element child of a document node, or doc
// itself when it is already an element. It returns nil when there is none.
func DocumentRoot(doc *html.Node) *html.Node {
	if doc == nil || doc.Type == html.ElementNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

type linearizer struct {
	root     *html.Node
	pathToID map[string]int
	visited  map[*html.Node]bool
	entries  []entry
}

type entry struct {
	node *html.Node
	id   int
	path string
}

// assign numbers n and its element descendants in pre-order starting at
// next, and returns the next unused id.
func (l *linearizer) assign(n *html.Node, next int) int {
	if l.visited[n] {
		return next
	}
	l.visited[n] = true

	path := ComputePath(n, l.root)
	l.pathToID[path] = next
	l.entries = append(l.entries, entry{node: n, id: next, path: path})
	next++

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			next = l.assign(c, next)
		}
	}
	return next
}

// contents serializes the direct children of n. Comments are skipped.
func (l *linearizer) contents(n *html.Node) *string {
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := EscapeText(c.Data); t != "" {
				parts = append(parts, t)
			}
		case html.ElementNode:
			id, ok := l.pathToID[ComputePath(c, l.root)]
			if !ok {
				parts = append(parts, MissingPathMarker)
				continue
			}
			parts = append(parts, RefToken(id))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, " ")
	return &s
}
