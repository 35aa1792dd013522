package template

import (
	"strings"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
)

type SegmentKind string

const (
	SegmentText     SegmentKind = "text"
	SegmentDropdown SegmentKind = "dropdown"
	SegmentTable    SegmentKind = "table"
)

// Segment is one piece of an interactive rendering. Text segments carry
// Text; dropdown segments describe a bound selector; the table segment
// carries the grid to draw at that point.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text,omitempty"`

	DropdownID int      `json:"dropdownId,omitempty"`
	Token      string   `json:"token,omitempty"`
	Options    []string `json:"options,omitempty"`
	Selected   string   `json:"selected,omitempty"`

	Table       *models.Grid `json:"table,omitempty"`
	TableTitle  string       `json:"tableTitle,omitempty"`
	FooterTitle string       `json:"footerTitle,omitempty"`
}

// Bindings are the values tokens resolve against.
type Bindings struct {
	Dropdowns   []models.Dropdown
	Table       *models.Grid
	TableTitle  string
	FooterTitle string
}

// Resolve renders src interactively. Text is emitted verbatim, {dropdownK}
// tokens with a matching dropdown become dropdown segments and the first
// {table} token becomes a table segment when a grid is bound. Any other
// token is emitted as literal text.
func Resolve(src string, b Bindings) []Segment {
	lookup := DropdownLookup(b.Dropdowns)
	tableDone := false

	var segments []Segment
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentText, Text: text.String()})
			text.Reset()
		}
	}

	for _, n := range Parse(src) {
		if !n.IsToken() {
			text.WriteString(n.Text)
			continue
		}

		if n.Token == TableToken && b.Table != nil && !tableDone {
			flush()
			segments = append(segments, Segment{
				Kind:        SegmentTable,
				Token:       n.Token,
				Table:       b.Table.Clone(),
				TableTitle:  b.TableTitle,
				FooterTitle: b.FooterTitle,
			})
			tableDone = true
			continue
		}

		if i, ok := lookup[n.Token]; ok {
			d := b.Dropdowns[i]
			flush()
			segments = append(segments, Segment{
				Kind:       SegmentDropdown,
				DropdownID: d.ID,
				Token:      n.Token,
				Options:    append([]string{}, d.Options...),
				Selected:   d.SelectedValue,
			})
			continue
		}

		text.WriteString(n.Source())
	}
	flush()
	return segments
}

// PlainText flattens segments back to text, showing dropdowns by their
// selected value (or [token] when unselected) and tables by their token.
func PlainText(segments []Segment) string {
	var out strings.Builder
	for _, s := range segments {
		switch s.Kind {
		case SegmentText:
			out.WriteString(s.Text)
		case SegmentDropdown:
			if s.Selected != "" {
				out.WriteString(s.Selected)
			} else {
				out.WriteString("[" + s.Token + "]")
			}
		case SegmentTable:
			out.WriteString("{" + s.Token + "}")
		}
	}
	return out.String()
}

// Unresolved returns dropdown-shaped tokens of src with no matching dropdown.
func Unresolved(src string, dropdowns []models.Dropdown) []string {
	lookup := DropdownLookup(dropdowns)
	var missing []string
	for _, name := range Tokens(src) {
		if !IsDropdownToken(name) {
			continue
		}
		if _, ok := lookup[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
