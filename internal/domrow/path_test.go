package domrow

import (
	"testing"

	"golang.org/x/net/html"
)

func TestComputePath_SiblingDisambiguation(t *testing.T) {
	ul := parseFragment(t, `<ul><li>a</li><li>b</li><p>x</p><li>c</li></ul>`)

	var got []string
	for c := ul.FirstChild; c != nil; c = c.NextSibling {
		got = append(got, ComputePath(c, ul))
	}
	want := []string{"ul/li[0]", "ul/li[1]", "ul/p", "ul/li[2]"}
	if len(got) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestComputePath_IgnoresCommentsAndText(t *testing.T) {
	div := parseFragment(t, `<div>text<!-- a comment --><span>only</span> more text</div>`)
	span := findElement(div, "span")
	if got := ComputePath(span, div); got != "div/span" {
		t.Errorf("expected %q, got %q", "div/span", got)
	}
}

func TestComputePath_WholeDocument(t *testing.T) {
	doc := parseDocument(t, `<html><body><div></div><div><span></span></div></body></html>`)
	body := findElement(doc, "body")
	second := body.FirstChild.NextSibling
	span := second.FirstChild

	if got := ComputePath(span, nil); got != "html/body/div[1]/span" {
		t.Errorf("nil root: got %q", got)
	}
	if got := ComputePath(span, body); got != "body/div[1]/span" {
		t.Errorf("body root: got %q", got)
	}
	if got := ComputePath(findElement(doc, "html"), nil); got != "html" {
		t.Errorf("html element: got %q", got)
	}
}

func TestComputePath_DetachedElement(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "section"}
	if got := ComputePath(n, nil); got != "section" {
		t.Errorf("expected bare tag, got %q", got)
	}
}

func TestTagFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"html/body/div[2]", "div"},
		{"p", "p"},
		{"ul/li[10]", "li"},
		{"div/p[0]", "p"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TagFromPath(tt.path); got != tt.want {
			t.Errorf("TagFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
