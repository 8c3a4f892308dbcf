package source

import (
	"strings"
	"testing"
)

func TestMarkdownLoader_Headings(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content with *emphasis*.

## Section B

- one
- two
`
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(input), "docs/guide.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if title := elementTexts(doc, "title"); len(title) != 1 || title[0] != "guide" {
		t.Errorf("expected title %q, got %v", "guide", title)
	}
	if h1 := elementTexts(doc, "h1"); len(h1) != 1 || h1[0] != "Title" {
		t.Errorf("unexpected h1 %v", h1)
	}
	h2 := elementTexts(doc, "h2")
	if len(h2) != 2 || h2[0] != "Section A" || h2[1] != "Section B" {
		t.Errorf("unexpected h2 %v", h2)
	}
	if em := elementTexts(doc, "em"); len(em) != 1 || em[0] != "emphasis" {
		t.Errorf("unexpected em %v", em)
	}
	if li := elementTexts(doc, "li"); len(li) != 2 {
		t.Errorf("expected 2 list items, got %v", li)
	}
}

func TestMarkdownLoader_CodeBlock(t *testing.T) {
	input := "Endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n"
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code := elementTexts(doc, "code")
	if len(code) != 1 || !strings.Contains(code[0], "GET /api/users") {
		t.Errorf("expected code block content, got %v", code)
	}
}

func TestMarkdownLoader_EmptyInput(t *testing.T) {
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elementTexts(doc, "body")) != 1 {
		t.Error("expected a body even for empty markdown")
	}
}
