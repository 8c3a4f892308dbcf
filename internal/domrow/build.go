package domrow

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Build reconstructs the element tree described by rows and returns the
// element with id 0. Rows may arrive in any order.
//
// Every element is created first, then contents are resolved. A reference
// adopts the referenced element as a child; each element can be adopted
// once. References to unknown ids, to the root, to an element that was
// already adopted, or that would create a cycle are replaced with a visible
// "[ID_REF_ERROR: N]" text marker rather than failing the build. Text
// between references is appended as written. Contents of void elements
// (br, img, ...) are ignored, since those elements cannot hold children.
func Build(rows []Row) (*html.Node, error) {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int { return cmp.Compare(a.ID, b.ID) })

	nodes := make(map[int]*html.Node, len(sorted))
	for _, r := range sorted {
		if _, dup := nodes[r.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		attrs, err := ParseAttributes(r.Attributes)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.ID, err)
		}
		tag := TagFromPath(r.Path)
		nodes[r.ID] = &html.Node{
			Type:     html.ElementNode,
			Data:     tag,
			DataAtom: atom.Lookup([]byte(tag)),
			Attr:     attrs,
		}
	}

	root, ok := nodes[0]
	if !ok {
		return nil, ErrRootNotFound
	}

	// unowned holds the elements that can still be adopted.
	unowned := make(map[int]*html.Node, len(nodes))
	for id, n := range nodes {
		if id != 0 {
			unowned[id] = n
		}
	}

	for _, r := range sorted {
		parent := nodes[r.ID]
		if !r.HasContents() || voidElements[parent.DataAtom] {
			continue
		}
		for _, it := range resolve(parent, Tokenize(*r.Contents), unowned) {
			if it.node != nil {
				parent.AppendChild(it.node)
				continue
			}
			appendText(parent, it.text)
		}
	}

	return root, nil
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Keygen: true, atom.Link: true, atom.Meta: true, atom.Param: true,
	atom.Source: true, atom.Track: true, atom.Wbr: true,
}

// item is a resolved content token: an adopted element or literal text.
type item struct {
	node *html.Node
	text string
}

// resolve adopts the elements referenced by tokens out of unowned.
// Unresolvable references become marker text.
func resolve(parent *html.Node, tokens []Token, unowned map[int]*html.Node) []item {
	items := make([]item, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == TokenText {
			items = append(items, item{text: tok.Text})
			continue
		}
		child, ok := unowned[tok.ID]
		if !ok || isAncestorOrSelf(child, parent) {
			items = append(items, item{text: fmt.Sprintf(missingRefFormat, refLabel(tok))})
			continue
		}
		delete(unowned, tok.ID)
		items = append(items, item{node: child})
	}
	return items
}

func refLabel(tok Token) string {
	if tok.ID < 0 {
		return tok.Text
	}
	return strconv.Itoa(tok.ID)
}

func isAncestorOrSelf(candidate, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// appendText adds text to n, merging with a trailing text child.
func appendText(n *html.Node, text string) {
	if text == "" {
		return
	}
	if last := n.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += text
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
