package domrow

import (
	"errors"
	"testing"
)

func row(id int, path, attrs string, contents *string) Row {
	return Row{ID: id, Path: path, Attributes: attrs, Contents: contents}
}

func TestBuild_ConcreteScenario(t *testing.T) {
	rows := []Row{
		row(0, "div", "{}", StringPtr("{id1} {id2}")),
		row(1, "div/p[0]", "{}", StringPtr("Hello")),
		row(2, "div/p[1]", "{}", StringPtr("World")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<div><p>Hello</p> <p>World</p></div>"
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuild_UnorderedRows(t *testing.T) {
	rows := []Row{
		row(2, "div/p[1]", "{}", StringPtr("World")),
		row(0, "div", `{"id": "box"}`, StringPtr("Intro {id1} {id2} outro")),
		row(1, "div/p[0]", "{}", StringPtr("Hello")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div id="box">Intro <p>Hello</p> <p>World</p> outro</div>`
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if rows[0].ID != 2 {
		t.Error("Build must not reorder the caller's slice")
	}
}

func TestBuild_DanglingReference(t *testing.T) {
	rows := []Row{
		row(0, "div", "{}", StringPtr("a {id7} b {id1}")),
		row(1, "div/i", "{}", StringPtr("ok")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("dangling reference should not fail the build: %v", err)
	}
	want := "<div>a [ID_REF_ERROR: 7] b <i>ok</i></div>"
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuild_MissingRoot(t *testing.T) {
	rows := []Row{
		row(1, "div/p", "{}", StringPtr("a")),
		row(2, "div/p", "{}", StringPtr("b")),
		row(3, "div/p", "{}", nil),
	}
	root, err := Build(rows)
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
	if root != nil {
		t.Error("expected no tree when the root is missing")
	}
}

func TestBuild_EmptyRowSet(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestBuild_MalformedAttributes(t *testing.T) {
	rows := []Row{
		row(0, "div", "{}", StringPtr("{id1}")),
		row(1, "div/p", "{broken", nil),
	}
	_, err := Build(rows)
	if !errors.Is(err, ErrMalformedAttributes) {
		t.Fatalf("expected ErrMalformedAttributes, got %v", err)
	}
}

func TestBuild_DuplicateID(t *testing.T) {
	rows := []Row{
		row(0, "div", "{}", nil),
		row(1, "div/p", "{}", nil),
		row(1, "div/span", "{}", nil),
	}
	if _, err := Build(rows); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestBuild_ElementAdoptedOnce(t *testing.T) {
	rows := []Row{
		row(0, "div", "{}", StringPtr("{id1} {id1}")),
		row(1, "div/p", "{}", StringPtr("x")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<div><p>x</p> [ID_REF_ERROR: 1]</div>"
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuild_RootCannotBeAdopted(t *testing.T) {
	root, err := Build([]Row{row(0, "div", "{}", StringPtr("{id0}"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := renderString(t, root); got != "<div>[ID_REF_ERROR: 0]</div>" {
		t.Errorf("unexpected %s", got)
	}
}

func TestBuild_CycleRejected(t *testing.T) {
	rows := []Row{
		row(0, "div", "{}", StringPtr("{id1}")),
		row(1, "div/span", "{}", StringPtr("{id2}")),
		row(2, "div/span/em", "{}", StringPtr("{id1}")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<div><span><em>[ID_REF_ERROR: 1]</em></span></div>"
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuild_AbsentMarkers(t *testing.T) {
	for _, marker := range []string{"None", "nan", ""} {
		root, err := Build([]Row{row(0, "div", "{}", StringPtr(marker))})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if root.FirstChild != nil {
			t.Errorf("contents %q: expected no children", marker)
		}
	}
}

func TestBuild_EscapedBracesStayLiteral(t *testing.T) {
	rows := []Row{
		row(0, "p", "{}", StringPtr(`x \{id1\} y`)),
		row(1, "p/b", "{}", StringPtr("never adopted")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := renderString(t, root); got != "<p>x {id1} y</p>" {
		t.Errorf("unexpected %s", got)
	}
}

func TestBuild_TagAndAttributesFromRow(t *testing.T) {
	rows := []Row{
		row(0, "html/body/ul[3]", `{"class": ["menu", "wide"], "id": "nav"}`, nil),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<ul class="menu wide" id="nav"></ul>`
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuild_TextAroundReferencesKept(t *testing.T) {
	rows := []Row{
		row(0, "p", "{}", StringPtr("Hello {id1} world")),
		row(1, "p/b", "{}", StringPtr("big")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<p>Hello <b>big</b> world</p>"
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuild_OutOfRangeReference(t *testing.T) {
	root, err := Build([]Row{row(0, "p", "{}", StringPtr("a {id99999999999999999999} b"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<p>a [ID_REF_ERROR: 99999999999999999999] b</p>"
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuild_VoidElementContentsIgnored(t *testing.T) {
	rows := []Row{
		row(0, "div", "{}", StringPtr("a {id1} b")),
		row(1, "div/br", "{}", StringPtr("text {id2}")),
		row(2, "div/br/span", "{}", StringPtr("lost")),
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br := root.FirstChild.NextSibling; br.Data != "br" || br.FirstChild != nil {
		t.Fatalf("expected childless <br>, got %s", renderString(t, root))
	}
	want := "<div>a <br/> b</div>"
	if got := renderString(t, root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
