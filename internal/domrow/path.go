package domrow

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ComputePath returns the slash-separated path of n, from root down to n.
// Each segment is the element's tag name, suffixed with [i] when its parent
// has more than one element child of that tag, where i is the zero-based
// rank among those same-tag siblings. A nil root walks up to the document.
func ComputePath(n, root *html.Node) string {
	var segments []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		segments = append(segments, pathSegment(cur))
		if cur == root {
			break
		}
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/")
}

func pathSegment(n *html.Node) string {
	if n.Parent == nil {
		return n.Data
	}
	index, count := -1, 0
	for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode || s.Data != n.Data {
			continue
		}
		if s == n {
			index = count
		}
		count++
	}
	if count <= 1 || index < 0 {
		return n.Data
	}
	return n.Data + "[" + strconv.Itoa(index) + "]"
}

var segmentIndex = regexp.MustCompile(`\[\d+\]`)

// TagFromPath returns the tag name of the last path segment.
func TagFromPath(path string) string {
	last := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		last = path[i+1:]
	}
	return strings.TrimSpace(segmentIndex.ReplaceAllString(last, ""))
}
