package models

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// Grid is a rectangular table of string cells. Headers may be empty, in
// which case the width of the grid is the width of its first row.
type Grid struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// NewGrid creates a grid with the given headers and rowCount empty rows.
func NewGrid(headers []string, rowCount int) *Grid {
	g := &Grid{
		Headers: append([]string{}, headers...),
		Rows:    make([][]string, 0, rowCount),
	}
	for i := 0; i < rowCount; i++ {
		g.Rows = append(g.Rows, make([]string, len(headers)))
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	if len(g.Headers) > 0 {
		return len(g.Headers)
	}
	if len(g.Rows) > 0 {
		return len(g.Rows[0])
	}
	return 0
}

// HasHeaders reports whether columns are named.
func (g *Grid) HasHeaders() bool {
	return len(g.Headers) > 0
}

// AddRow appends a row of empty cells.
func (g *Grid) AddRow() {
	g.Rows = append(g.Rows, make([]string, g.Width()))
}

// RemoveRow deletes the row at index. The last remaining row cannot be removed.
func (g *Grid) RemoveRow(index int) error {
	if len(g.Rows) <= 1 {
		return apperrors.NewPreconditionError("remove_row", "grid must keep at least one row")
	}
	if index < 0 || index >= len(g.Rows) {
		return apperrors.NewPreconditionError("remove_row", fmt.Sprintf("row %d out of range", index))
	}
	g.Rows = append(g.Rows[:index], g.Rows[index+1:]...)
	return nil
}

// AddColumn appends an anonymous column. Header-less grids only gain a cell
// per row so that they stay header-less.
func (g *Grid) AddColumn() {
	if g.HasHeaders() || len(g.Rows) == 0 {
		g.Headers = append(g.Headers, "")
	}
	for i := range g.Rows {
		g.Rows[i] = append(g.Rows[i], "")
	}
}

// RemoveColumn deletes the column at index from the headers and every row.
// The last remaining column cannot be removed.
func (g *Grid) RemoveColumn(index int) error {
	width := g.Width()
	if width <= 1 {
		return apperrors.NewPreconditionError("remove_column", "grid must keep at least one column")
	}
	if index < 0 || index >= width {
		return apperrors.NewPreconditionError("remove_column", fmt.Sprintf("column %d out of range", index))
	}
	if g.HasHeaders() {
		g.Headers = append(g.Headers[:index], g.Headers[index+1:]...)
	}
	for i, row := range g.Rows {
		g.Rows[i] = append(row[:index], row[index+1:]...)
	}
	return nil
}

// SetCell replaces the content of a single cell. Any text is accepted.
func (g *Grid) SetCell(row, col int, value string) error {
	if row < 0 || row >= len(g.Rows) {
		return apperrors.NewPreconditionError("set_cell", fmt.Sprintf("row %d out of range", row))
	}
	if col < 0 || col >= len(g.Rows[row]) {
		return apperrors.NewPreconditionError("set_cell", fmt.Sprintf("column %d out of range", col))
	}
	g.Rows[row][col] = value
	return nil
}

// SetHeader renames a column.
func (g *Grid) SetHeader(col int, value string) error {
	if col < 0 || col >= len(g.Headers) {
		return apperrors.NewPreconditionError("set_header", fmt.Sprintf("column %d out of range", col))
	}
	g.Headers[col] = value
	return nil
}

// ColumnIndex returns the index of the first column named header, or -1.
func (g *Grid) ColumnIndex(header string) int {
	if header == "" {
		return -1
	}
	for i, h := range g.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// IsRectangular reports whether every row has Width cells.
func (g *Grid) IsRectangular() bool {
	width := g.Width()
	for _, row := range g.Rows {
		if len(row) != width {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	clone := &Grid{}
	if g.Headers != nil {
		clone.Headers = append([]string{}, g.Headers...)
	}
	if g.Rows != nil {
		clone.Rows = make([][]string, len(g.Rows))
		for i, row := range g.Rows {
			clone.Rows[i] = append([]string{}, row...)
		}
	}
	return clone
}

// Replace swaps in new headers and rows. Rows are padded to the header width;
// a row wider than the headers is rejected before anything changes.
func (g *Grid) Replace(headers []string, rows [][]string) error {
	width := len(headers)
	normalized := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) > width {
			return apperrors.NewPreconditionError("replace_grid", fmt.Sprintf("row %d has %d cells, expected %d", i, len(row), width))
		}
		padded := make([]string, width)
		copy(padded, row)
		normalized = append(normalized, padded)
	}
	g.Headers = append([]string{}, headers...)
	g.Rows = normalized
	return nil
}
