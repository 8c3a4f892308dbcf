package domrow

import (
	"strconv"
	"strings"
)

// TokenKind distinguishes literal text from child references in a row's
// contents.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenRef
)

// Token is one piece of a parsed contents string.
type Token struct {
	Kind TokenKind
	Text string // TokenText with escapes removed, or the digits of an out-of-range TokenRef
	ID   int    // set for TokenRef; -1 when the digits do not fit an int
}

var textEscaper = strings.NewReplacer(
	"{", `\{`,
	"}", `\}`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// EscapeText prepares a text node for a contents field: it trims
// surrounding whitespace, escapes braces and turns line breaks into spaces.
// The result is empty when the text is whitespace only.
func EscapeText(s string) string {
	return textEscaper.Replace(strings.TrimSpace(s))
}

// RefToken formats a reference to the row with the given id.
func RefToken(id int) string {
	return "{id" + strconv.Itoa(id) + "}"
}

// Tokenize splits a contents string into text and reference tokens.
// Escaped braces (\{ and \}) are literal and never start or end a reference.
// Adjacent text is merged, so text and reference tokens alternate.
func Tokenize(contents string) []Token {
	var tokens []Token
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(contents); {
		c := contents[i]
		if c == '\\' && i+1 < len(contents) && (contents[i+1] == '{' || contents[i+1] == '}') {
			text.WriteByte(contents[i+1])
			i += 2
			continue
		}
		if c == '{' {
			if ref, n, ok := scanRef(contents[i:]); ok {
				flush()
				tokens = append(tokens, ref)
				i += n
				continue
			}
		}
		text.WriteByte(c)
		i++
	}
	flush()
	return tokens
}

// scanRef matches {id<digits>} at the start of s and returns the reference
// token and the number of bytes consumed.
func scanRef(s string) (Token, int, bool) {
	if !strings.HasPrefix(s, "{id") {
		return Token{}, 0, false
	}
	end := 3
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 3 || end >= len(s) || s[end] != '}' {
		return Token{}, 0, false
	}
	digits := s[3:end]
	id, err := strconv.Atoi(digits)
	if err != nil {
		return Token{Kind: TokenRef, ID: -1, Text: digits}, end + 1, true
	}
	return Token{Kind: TokenRef, ID: id}, end + 1, true
}
