// Package template scans question templates for {token} placeholders and
// renders them either as an authoring preview or as interactive segments.
//
// A token is an opening brace, one or more ASCII letters, digits or
// underscores, and a closing brace. Everything else, including unclosed or
// empty braces, is literal text. Tokens resolve strictly left to right and an
// unresolvable token renders as its literal source text.
package template

import (
	"strings"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
)

// TableToken is the singleton token marking where a grid is rendered.
const TableToken = "table"

// DropdownPrefix starts the name of every dropdown token.
const DropdownPrefix = "dropdown"

// Node is either literal text or a token occurrence.
type Node struct {
	Text  string `json:"text,omitempty"`
	Token string `json:"token,omitempty"`
	// Offset is the byte position of the node in the source.
	Offset int `json:"offset"`
}

// IsToken reports whether the node is a token.
func (n Node) IsToken() bool {
	return n.Token != ""
}

// Source returns the node as it appears in the template.
func (n Node) Source() string {
	if n.IsToken() {
		return "{" + n.Token + "}"
	}
	return n.Text
}

// Parse splits src into text and token nodes in source order. Adjacent text
// is merged, so no two text nodes follow each other.
func Parse(src string) []Node {
	var nodes []Node
	var text strings.Builder
	textStart := 0

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, Node{Text: text.String(), Offset: textStart})
			text.Reset()
		}
	}

	for i := 0; i < len(src); {
		if src[i] == '{' {
			if end := tokenEnd(src, i); end > 0 {
				flush()
				nodes = append(nodes, Node{Token: src[i+1 : end], Offset: i})
				i = end + 1
				textStart = i
				continue
			}
		}
		if text.Len() == 0 {
			textStart = i
		}
		text.WriteByte(src[i])
		i++
	}
	flush()
	return nodes
}

// tokenEnd returns the index of the closing brace of a token opened at
// start, or -1 when the brace does not open a token.
func tokenEnd(src string, start int) int {
	for j := start + 1; j < len(src); j++ {
		c := src[j]
		switch {
		case c == '}':
			if j == start+1 {
				return -1
			}
			return j
		case isTokenByte(c):
		default:
			return -1
		}
	}
	return -1
}

func isTokenByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// IsDropdownToken reports whether name has the dropdownK shape.
func IsDropdownToken(name string) bool {
	rest, ok := strings.CutPrefix(name, DropdownPrefix)
	if !ok || rest == "" {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}

// Tokens returns the token names of src in order of appearance.
func Tokens(src string) []string {
	var names []string
	for _, n := range Parse(src) {
		if n.IsToken() {
			names = append(names, n.Token)
		}
	}
	return names
}

// PreviewOption customises EditPreview.
type PreviewOption func(*previewConfig)

type previewConfig struct {
	table func() string
}

// WithTableRenderer replaces the first {table} token with the renderer output.
func WithTableRenderer(render func() string) PreviewOption {
	return func(c *previewConfig) {
		c.table = render
	}
}

// EditPreview renders src for authors: every {dropdownK} becomes
// [dropdownK] and every other token stays as written, except {table} when a
// table renderer is given.
func EditPreview(src string, opts ...PreviewOption) string {
	cfg := previewConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var out strings.Builder
	tableDone := false
	for _, n := range Parse(src) {
		switch {
		case !n.IsToken():
			out.WriteString(n.Text)
		case IsDropdownToken(n.Token):
			out.WriteString("[" + n.Token + "]")
		case n.Token == TableToken && cfg.table != nil && !tableDone:
			out.WriteString(cfg.table())
			tableDone = true
		default:
			out.WriteString(n.Source())
		}
	}
	return out.String()
}

// SplitTable returns the text before and after the first {table} token.
// found is false when the template has no table token, in which case before
// holds the whole template.
func SplitTable(src string) (before, after string, found bool) {
	for _, n := range Parse(src) {
		if n.IsToken() && n.Token == TableToken {
			end := n.Offset + len(TableToken) + 2
			return src[:n.Offset], src[end:], true
		}
	}
	return src, "", false
}

// DropdownLookup indexes dropdowns by token name. The first dropdown wins
// when two share a placeholder.
func DropdownLookup(dropdowns []models.Dropdown) map[string]int {
	lookup := make(map[string]int, len(dropdowns))
	for i := range dropdowns {
		name := dropdowns[i].TokenName()
		if _, exists := lookup[name]; !exists && name != "" {
			lookup[name] = i
		}
	}
	return lookup
}
