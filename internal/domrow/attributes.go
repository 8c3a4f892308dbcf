package domrow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// MarshalAttributes serializes attributes as a JSON object in document order.
func MarshalAttributes(attrs []html.Attribute) string {
	if len(attrs) == 0 {
		return "{}"
	}
	var buf strings.Builder
	buf.WriteByte('{')
	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(quoteJSON(qualifiedKey(a)))
		buf.WriteString(": ")
		buf.WriteString(quoteJSON(a.Val))
	}
	buf.WriteByte('}')
	return buf.String()
}

// ParseAttributes reads a JSON object of attributes, preserving key order.
// String values are used as-is. Arrays (multi-valued attributes such as a
// class list) are joined with single spaces. Other scalars keep their JSON
// text and null becomes the empty string. A blank input means no attributes.
func ParseAttributes(s string) ([]html.Attribute, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedAttributes)
	}
	obj := gjson.Parse(s)
	if !obj.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrMalformedAttributes, obj.Type)
	}

	var attrs []html.Attribute
	seen := make(map[string]bool)
	obj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if seen[k] {
			return true
		}
		seen[k] = true
		attrs = append(attrs, html.Attribute{Key: k, Val: attributeValue(value)})
		return true
	})
	return attrs, nil
}

func attributeValue(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.String()
	case v.Type == gjson.Null:
		return ""
	case v.IsArray():
		parts := make([]string, 0, len(v.Array()))
		for _, item := range v.Array() {
			parts = append(parts, attributeValue(item))
		}
		return strings.Join(parts, " ")
	default:
		return v.Raw
	}
}

func qualifiedKey(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// quoteJSON encodes s as a JSON string without escaping HTML characters.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a string cannot fail.
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
