package domrow

import (
	"reflect"
	"testing"

	"golang.org/x/net/html"
)

func TestLinearize_ConcreteScenario(t *testing.T) {
	div := parseFragment(t, `<div><p>Hello</p><p>World</p></div>`)
	rows := Linearize(div)

	want := []Row{
		{ID: 0, Path: "div", Attributes: "{}", Contents: StringPtr("{id1} {id2}")},
		{ID: 1, Path: "div/p[0]", Attributes: "{}", Contents: StringPtr("Hello")},
		{ID: 2, Path: "div/p[1]", Attributes: "{}", Contents: StringPtr("World")},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected rows:\n got: %+v\nwant: %+v", rows, want)
	}
}

func TestLinearize_PreOrderIDs(t *testing.T) {
	root := parseFragment(t, `<section><header><h1>T</h1></header><article><p>a</p><p>b</p></article><footer></footer></section>`)
	rows := Linearize(root)

	wantPaths := []string{
		"section",
		"section/header",
		"section/header/h1",
		"section/article",
		"section/article/p[0]",
		"section/article/p[1]",
		"section/footer",
	}
	if len(rows) != len(wantPaths) {
		t.Fatalf("expected %d rows, got %d", len(wantPaths), len(rows))
	}
	for i, r := range rows {
		if r.ID != i {
			t.Errorf("row %d: expected id %d, got %d", i, i, r.ID)
		}
		if r.Path != wantPaths[i] {
			t.Errorf("row %d: expected path %q, got %q", i, wantPaths[i], r.Path)
		}
	}
	if got := contentsOf(rows[0]); got != "{id1} {id3} {id6}" {
		t.Errorf("section contents: got %q", got)
	}
	if rows[6].Contents != nil {
		t.Errorf("empty footer should have absent contents, got %q", *rows[6].Contents)
	}
}

func TestLinearize_MixedContent(t *testing.T) {
	p := parseFragment(t, "<p>\n  Hello <b>bold</b>\n world <!-- skipped --> {braced}\n</p>")
	rows := Linearize(p)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := `Hello {id1} world \{braced\}`
	if got := contentsOf(rows[0]); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := contentsOf(rows[1]); got != "bold" {
		t.Errorf("expected %q, got %q", "bold", got)
	}
}

func TestLinearize_Attributes(t *testing.T) {
	a := parseFragment(t, `<a href="/x?a=1&amp;b=2" class="nav item" data-x="">go</a>`)
	rows := Linearize(a)
	want := `{"href": "/x?a=1&b=2", "class": "nav item", "data-x": ""}`
	if rows[0].Attributes != want {
		t.Errorf("expected %s, got %s", want, rows[0].Attributes)
	}
}

func TestLinearize_Deterministic(t *testing.T) {
	doc := parseDocument(t, `<html><body><ul><li>1</li><li>2</li></ul><p>x</p></body></html>`)
	first := LinearizeDocument(doc)
	second := LinearizeDocument(doc)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical rows from repeated linearization")
	}
}

func TestLinearizeDocument_StartsAtHTML(t *testing.T) {
	doc := parseDocument(t, `<!DOCTYPE html><html lang="en"><head><title>Demo</title></head><body><p>x</p></body></html>`)
	rows := LinearizeDocument(doc)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0].Path != "html" || rows[0].Attributes != `{"lang": "en"}` {
		t.Errorf("unexpected root row %+v", rows[0])
	}
	if rows[2].Path != "html/head/title" || contentsOf(rows[2]) != "Demo" {
		t.Errorf("unexpected title row %+v", rows[2])
	}
	if rows[4].Path != "html/body/p" {
		t.Errorf("unexpected paragraph path %q", rows[4].Path)
	}
}

func TestLinearize_NoRoot(t *testing.T) {
	if rows := Linearize(nil); rows != nil {
		t.Errorf("expected nil rows for nil root, got %d", len(rows))
	}
	if rows := LinearizeDocument(nil); rows != nil {
		t.Errorf("expected nil rows for nil document, got %d", len(rows))
	}
}

func TestLinearize_MissingPathMarker(t *testing.T) {
	div := parseFragment(t, `<div>before<span>x</span></div>`)
	l := &linearizer{root: div, pathToID: map[string]int{}, visited: map[*html.Node]bool{}}
	got := l.contents(div)
	if got == nil || *got != "before "+MissingPathMarker {
		t.Errorf("expected missing-path marker, got %v", got)
	}
}
