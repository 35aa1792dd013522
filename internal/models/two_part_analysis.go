package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// AnswerKey holds the correct row of every answered column of a Two-Part
// Analysis table. Keying by column makes "one answer per column" structural.
//
// On the wire it is the sparse {"row-col": true} map used by the editor.
type AnswerKey map[int]int

// Selected reports whether (row, col) is marked correct.
func (k AnswerKey) Selected(row, col int) bool {
	r, ok := k[col]
	return ok && r == row
}

// Cells returns the selected cells ordered by column.
func (k AnswerKey) Cells() [][2]int {
	cols := make([]int, 0, len(k))
	for col := range k {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	cells := make([][2]int, 0, len(cols))
	for _, col := range cols {
		cells = append(cells, [2]int{k[col], col})
	}
	return cells
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	wire := make(map[string]bool, len(k))
	for col, row := range k {
		wire[fmt.Sprintf("%d-%d", row, col)] = true
	}
	return json.Marshal(wire)
}

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	var wire map[string]bool
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	key := make(AnswerKey, len(wire))
	for cell, selected := range wire {
		if !selected {
			continue
		}
		rowPart, colPart, ok := strings.Cut(cell, "-")
		if !ok {
			return fmt.Errorf("answer cell %q must be formatted as row-col", cell)
		}
		row, err := strconv.Atoi(rowPart)
		if err != nil || row < 0 {
			return fmt.Errorf("answer cell %q has an invalid row", cell)
		}
		col, err := strconv.Atoi(colPart)
		if err != nil || col < 0 {
			return fmt.Errorf("answer cell %q has an invalid column", cell)
		}
		if existing, taken := key[col]; taken && existing != row {
			return fmt.Errorf("column %d has more than one correct answer", col)
		}
		key[col] = row
	}
	*k = key
	return nil
}

// TwoPartAnalysisDraft is a Two-Part Analysis item. TableHeaders are the
// answer columns, TableRows the row labels and TableValues the value shown in
// each row.
type TwoPartAnalysisDraft struct {
	Context        string    `json:"context"`
	Instruction    string    `json:"instruction"`
	TableHeaders   []string  `json:"tableHeaders"`
	TableRows      []string  `json:"tableRows"`
	TableValues    []string  `json:"tableValues"`
	CorrectAnswers AnswerKey `json:"correctAnswers"`
}

func NewTwoPartAnalysisDraft() *TwoPartAnalysisDraft {
	return &TwoPartAnalysisDraft{
		TableHeaders:   []string{"Part 1", "Part 2"},
		TableRows:      []string{""},
		TableValues:    []string{""},
		CorrectAnswers: AnswerKey{},
	}
}

func (d *TwoPartAnalysisDraft) Type() QuestionType { return TwoPartAnalysis }

func (d *TwoPartAnalysisDraft) Clone() Draft {
	clone := *d
	clone.TableHeaders = cloneStrings(d.TableHeaders)
	clone.TableRows = cloneStrings(d.TableRows)
	clone.TableValues = cloneStrings(d.TableValues)
	if d.CorrectAnswers != nil {
		clone.CorrectAnswers = make(AnswerKey, len(d.CorrectAnswers))
		for col, row := range d.CorrectAnswers {
			clone.CorrectAnswers[col] = row
		}
	}
	return &clone
}

// SelectAnswer marks (row, col) correct, replacing any earlier selection in
// the same column.
func (d *TwoPartAnalysisDraft) SelectAnswer(row, col int) error {
	if row < 0 || row >= len(d.TableRows) {
		return apperrors.NewPreconditionError("select_answer", fmt.Sprintf("row %d out of range", row))
	}
	if col < 0 || col >= len(d.TableHeaders) {
		return apperrors.NewPreconditionError("select_answer", fmt.Sprintf("column %d out of range", col))
	}
	if d.CorrectAnswers == nil {
		d.CorrectAnswers = AnswerKey{}
	}
	d.CorrectAnswers[col] = row
	return nil
}

// AddRow appends a labelled row together with its value.
func (d *TwoPartAnalysisDraft) AddRow(label, value string) {
	d.TableRows = append(d.TableRows, label)
	d.TableValues = append(d.TableValues, value)
}

// RemoveRow deletes a row and shifts answers below it up by one.
func (d *TwoPartAnalysisDraft) RemoveRow(index int) error {
	if len(d.TableRows) <= 1 {
		return apperrors.NewPreconditionError("remove_row", "table must keep at least one row")
	}
	if index < 0 || index >= len(d.TableRows) {
		return apperrors.NewPreconditionError("remove_row", fmt.Sprintf("row %d out of range", index))
	}
	d.TableRows = append(d.TableRows[:index], d.TableRows[index+1:]...)
	if index < len(d.TableValues) {
		d.TableValues = append(d.TableValues[:index], d.TableValues[index+1:]...)
	}
	for col, row := range d.CorrectAnswers {
		switch {
		case row == index:
			delete(d.CorrectAnswers, col)
		case row > index:
			d.CorrectAnswers[col] = row - 1
		}
	}
	return nil
}

// AddColumn appends an answer column.
func (d *TwoPartAnalysisDraft) AddColumn(header string) {
	d.TableHeaders = append(d.TableHeaders, header)
}

// RemoveColumn deletes an answer column and its answer, shifting the answers
// of later columns left.
func (d *TwoPartAnalysisDraft) RemoveColumn(index int) error {
	if len(d.TableHeaders) <= 1 {
		return apperrors.NewPreconditionError("remove_column", "table must keep at least one column")
	}
	if index < 0 || index >= len(d.TableHeaders) {
		return apperrors.NewPreconditionError("remove_column", fmt.Sprintf("column %d out of range", index))
	}
	d.TableHeaders = append(d.TableHeaders[:index], d.TableHeaders[index+1:]...)
	shifted := make(AnswerKey, len(d.CorrectAnswers))
	for col, row := range d.CorrectAnswers {
		switch {
		case col < index:
			shifted[col] = row
		case col > index:
			shifted[col-1] = row
		}
	}
	d.CorrectAnswers = shifted
	return nil
}

// SetHeader renames an answer column.
func (d *TwoPartAnalysisDraft) SetHeader(col int, value string) error {
	if col < 0 || col >= len(d.TableHeaders) {
		return apperrors.NewPreconditionError("set_header", fmt.Sprintf("column %d out of range", col))
	}
	d.TableHeaders[col] = value
	return nil
}

// SetRow rewrites the label and value of a row.
func (d *TwoPartAnalysisDraft) SetRow(index int, label, value string) error {
	if index < 0 || index >= len(d.TableRows) {
		return apperrors.NewPreconditionError("set_row", fmt.Sprintf("row %d out of range", index))
	}
	d.TableRows[index] = label
	for len(d.TableValues) <= index {
		d.TableValues = append(d.TableValues, "")
	}
	d.TableValues[index] = value
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
