package template

import (
	"testing"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratioDropdowns() []models.Dropdown {
	return []models.Dropdown{
		{ID: 1, Placeholder: "dropdown1", Options: []string{"1", "2", "3"}, SelectedValue: "2"},
		{ID: 2, Placeholder: "dropdown2", Options: []string{"4", "5"}, SelectedValue: "5"},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Node
	}{
		{
			name: "plain text",
			src:  "no tokens here",
			want: []Node{{Text: "no tokens here"}},
		},
		{
			name: "tokens in order",
			src:  "a {dropdown1} b {table}",
			want: []Node{
				{Text: "a ", Offset: 0},
				{Token: "dropdown1", Offset: 2},
				{Text: " b ", Offset: 13},
				{Token: "table", Offset: 16},
			},
		},
		{
			name: "unclosed and empty braces are text",
			src:  "x {} y {open",
			want: []Node{{Text: "x {} y {open"}},
		},
		{
			name: "nested brace keeps outer as text",
			src:  "{{dropdown1}}",
			want: []Node{
				{Text: "{", Offset: 0},
				{Token: "dropdown1", Offset: 1},
				{Text: "}", Offset: 12},
			},
		},
		{
			name: "spaces disqualify a token",
			src:  "{drop down}",
			want: []Node{{Text: "{drop down}"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.src))
		})
	}
}

func TestEditPreview(t *testing.T) {
	src := "Ratio is {dropdown1} to {dropdown2}."
	assert.Equal(t, "Ratio is [dropdown1] to [dropdown2].", EditPreview(src))

	assert.Equal(t, "see {table} and {other}", EditPreview("see {table} and {other}"))

	rendered := EditPreview("before {table} after {table}", WithTableRenderer(func() string { return "<grid>" }))
	assert.Equal(t, "before <grid> after {table}", rendered)
}

func TestResolve_DropdownExample(t *testing.T) {
	segments := Resolve("Ratio is {dropdown1} to {dropdown2}.", Bindings{Dropdowns: ratioDropdowns()})

	require.Len(t, segments, 5)
	assert.Equal(t, Segment{Kind: SegmentText, Text: "Ratio is "}, segments[0])
	assert.Equal(t, SegmentDropdown, segments[1].Kind)
	assert.Equal(t, 1, segments[1].DropdownID)
	assert.Equal(t, "2", segments[1].Selected)
	assert.Equal(t, []string{"1", "2", "3"}, segments[1].Options)
	assert.Equal(t, Segment{Kind: SegmentText, Text: " to "}, segments[2])
	assert.Equal(t, "5", segments[3].Selected)
	assert.Equal(t, Segment{Kind: SegmentText, Text: "."}, segments[4])

	assert.Equal(t, "Ratio is 2 to 5.", PlainText(segments))
}

func TestResolve_UnmatchedTokensDegradeToText(t *testing.T) {
	segments := Resolve("A {dropdown9} B {table} C {mystery}", Bindings{Dropdowns: ratioDropdowns()})

	require.Len(t, segments, 1)
	assert.Equal(t, "A {dropdown9} B {table} C {mystery}", segments[0].Text)
	assert.Equal(t, []string{"dropdown9"}, Unresolved("A {dropdown9} {dropdown1}", ratioDropdowns()))
}

func TestResolve_TableSplitsTemplate(t *testing.T) {
	grid := &models.Grid{Headers: []string{"A"}, Rows: [][]string{{"1"}}}
	segments := Resolve("Before\n{table}\nAfter {table}", Bindings{
		Table:      grid,
		TableTitle: "Sales",
	})

	require.Len(t, segments, 3)
	assert.Equal(t, "Before\n", segments[0].Text)
	assert.Equal(t, SegmentTable, segments[1].Kind)
	assert.Equal(t, "Sales", segments[1].TableTitle)
	assert.Equal(t, grid, segments[1].Table)
	assert.Equal(t, "\nAfter {table}", segments[2].Text, "only the first table token renders")

	before, after, found := SplitTable("Before\n{table}\nAfter")
	assert.True(t, found)
	assert.Equal(t, "Before\n", before)
	assert.Equal(t, "\nAfter", after)

	before, after, found = SplitTable("no table")
	assert.False(t, found)
	assert.Equal(t, "no table", before)
	assert.Empty(t, after)
}

func TestResolve_SelectingMutatesOnlyThatDropdown(t *testing.T) {
	draft := &models.GraphicsInterpretationDraft{
		ConclusionTemplate: "Ratio is {dropdown1} to {dropdown2}.",
		Dropdowns:          ratioDropdowns(),
	}

	segments := Resolve(draft.ConclusionTemplate, Bindings{Dropdowns: draft.Dropdowns})
	require.NoError(t, draft.SelectOption(segments[1].DropdownID, "3"))

	assert.Equal(t, "3", draft.Dropdowns[0].SelectedValue)
	assert.Equal(t, "5", draft.Dropdowns[1].SelectedValue)
	assert.Equal(t, "Ratio is {dropdown1} to {dropdown2}.", draft.ConclusionTemplate)
	assert.Equal(t, "2", segments[1].Selected, "segments are a snapshot")
}

func TestIsDropdownToken(t *testing.T) {
	assert.True(t, IsDropdownToken("dropdown1"))
	assert.True(t, IsDropdownToken("dropdown12"))
	assert.False(t, IsDropdownToken("dropdown"))
	assert.False(t, IsDropdownToken("dropdownA"))
	assert.False(t, IsDropdownToken("table"))
}
