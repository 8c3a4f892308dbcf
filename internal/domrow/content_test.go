package domrow

import (
	"slices"
	"testing"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello", "Hello"},
		{"  padded\t", "padded"},
		{"line one\nline two", "line one line two"},
		{"crlf\r\nbreak", "crlf break"},
		{"{braces}", `\{braces\}`},
		{"set {id3} literal", `set \{id3\} literal`},
		{"\n   \n", ""},
	}
	for _, tt := range tests {
		if got := EscapeText(tt.in); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	text := func(s string) Token { return Token{Kind: TokenText, Text: s} }
	ref := func(id int) Token { return Token{Kind: TokenRef, ID: id} }

	tests := []struct {
		in   string
		want []Token
	}{
		{"", nil},
		{"Hello", []Token{text("Hello")}},
		{"{id1} {id2}", []Token{ref(1), text(" "), ref(2)}},
		{"a{id3}b", []Token{text("a"), ref(3), text("b")}},
		{`a \{b\}`, []Token{text("a {b}")}},
		{`\{id3\}`, []Token{text("{id3}")}},
		{`\{id3}`, []Token{text("{id3}")}},
		{"{id}", []Token{text("{id}")}},
		{"{idx1}", []Token{text("{idx1}")}},
		{"{id12", []Token{text("{id12")}},
		{"{id0}", []Token{ref(0)}},
		{"tail {id42}", []Token{text("tail "), ref(42)}},
		{"héllo {id1} wörld", []Token{text("héllo "), ref(1), text(" wörld")}},
		{"{id99999999999999999999}", []Token{{Kind: TokenRef, ID: -1, Text: "99999999999999999999"}}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Tokenize(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestEscapeThenTokenizeIsIdentity(t *testing.T) {
	for _, s := range []string{"plain", "{x}", "a } b { c", "{id9}", `back\slash {`} {
		tokens := Tokenize(EscapeText(s))
		if len(tokens) != 1 || tokens[0].Kind != TokenText || tokens[0].Text != s {
			t.Errorf("round trip of %q produced %+v", s, tokens)
		}
	}
}

func TestRefToken(t *testing.T) {
	if got := RefToken(17); got != "{id17}" {
		t.Errorf("RefToken(17) = %q", got)
	}
}

func TestIsAbsent(t *testing.T) {
	for _, s := range []string{"", "None", "nan", "NaN", "  "} {
		if !IsAbsent(s) {
			t.Errorf("expected %q to be absent", s)
		}
	}
	for _, s := range []string{"0", "none", "text", "{id1}"} {
		if IsAbsent(s) {
			t.Errorf("expected %q to be present", s)
		}
	}
}
