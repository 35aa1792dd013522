package models

// TableAnalysisDraft is a sortable table with yes/no statements about it.
// SortBy names a header of Table, or is empty for the authored order.
type TableAnalysisDraft struct {
	Instructions string     `json:"instructions"`
	Table        *Grid      `json:"table" validate:"required"`
	SortBy       string     `json:"sortBy"`
	Statements   Statements `json:"statements" validate:"dive"`
}

func NewTableAnalysisDraft() *TableAnalysisDraft {
	return &TableAnalysisDraft{
		Table:      NewGrid([]string{"Column 1", "Column 2"}, 1),
		Statements: Statements{},
	}
}

func (d *TableAnalysisDraft) Type() QuestionType { return TableAnalysis }

func (d *TableAnalysisDraft) Clone() Draft {
	clone := *d
	clone.Table = d.Table.Clone()
	clone.Statements = d.Statements.clone()
	return &clone
}

// RemoveColumn removes a column and keeps SortBy pointing at an existing
// header: the new first header, or empty when no headers remain.
func (d *TableAnalysisDraft) RemoveColumn(index int) error {
	removed := ""
	if index >= 0 && index < len(d.Table.Headers) {
		removed = d.Table.Headers[index]
	}
	if err := d.Table.RemoveColumn(index); err != nil {
		return err
	}
	if d.SortBy != "" && d.SortBy == removed && d.Table.ColumnIndex(removed) < 0 {
		d.resetSortBy()
	}
	return nil
}

// SetHeader renames a column and follows the rename with SortBy.
func (d *TableAnalysisDraft) SetHeader(col int, value string) error {
	previous := ""
	if col >= 0 && col < len(d.Table.Headers) {
		previous = d.Table.Headers[col]
	}
	if err := d.Table.SetHeader(col, value); err != nil {
		return err
	}
	if d.SortBy != "" && d.SortBy == previous && d.Table.ColumnIndex(previous) < 0 {
		d.SortBy = value
	}
	return nil
}

// ReplaceTable swaps in imported headers and rows, dropping a SortBy that no
// longer names a header.
func (d *TableAnalysisDraft) ReplaceTable(headers []string, rows [][]string) error {
	if err := d.Table.Replace(headers, rows); err != nil {
		return err
	}
	if d.SortBy != "" && d.Table.ColumnIndex(d.SortBy) < 0 {
		d.resetSortBy()
	}
	return nil
}

// SetSortBy selects the sort column; names that are not headers are kept
// as-is and sort as a no-op.
func (d *TableAnalysisDraft) SetSortBy(header string) {
	d.SortBy = header
}

func (d *TableAnalysisDraft) resetSortBy() {
	if len(d.Table.Headers) > 0 {
		d.SortBy = d.Table.Headers[0]
		return
	}
	d.SortBy = ""
}
