package models

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// MultiSourceDraft is a Multi-Source Reasoning item: tabbed sources plus
// yes/no statements judged against them.
type MultiSourceDraft struct {
	Sources               []DataSource `json:"sources" validate:"dive"`
	Statements            Statements   `json:"statements" validate:"dive"`
	StatementsInstruction string       `json:"statementsInstruction"`
}

func NewMultiSourceDraft() *MultiSourceDraft {
	first, _ := NewDataSource(1, SourceInstructions, "Tab 1")
	return &MultiSourceDraft{
		Sources:    []DataSource{first},
		Statements: Statements{},
	}
}

func (d *MultiSourceDraft) Type() QuestionType { return MultiSource }

func (d *MultiSourceDraft) Clone() Draft {
	clone := *d
	if d.Sources != nil {
		clone.Sources = make([]DataSource, len(d.Sources))
		for i, src := range d.Sources {
			clone.Sources[i] = src.clone()
		}
	}
	clone.Statements = d.Statements.clone()
	return &clone
}

// AddSource appends a tab of the given kind and returns its id.
func (d *MultiSourceDraft) AddSource(kind DataSourceKind, title string) (int, error) {
	next := 1
	for _, src := range d.Sources {
		if src.ID >= next {
			next = src.ID + 1
		}
	}
	if title == "" {
		title = fmt.Sprintf("Tab %d", len(d.Sources)+1)
	}
	src, err := NewDataSource(next, kind, title)
	if err != nil {
		return 0, err
	}
	d.Sources = append(d.Sources, src)
	return next, nil
}

// RemoveSource deletes a tab. The last tab cannot be removed.
func (d *MultiSourceDraft) RemoveSource(id int) error {
	if len(d.Sources) <= 1 {
		return apperrors.NewPreconditionError("remove_source", "draft must keep at least one source")
	}
	for i := range d.Sources {
		if d.Sources[i].ID == id {
			d.Sources = append(d.Sources[:i], d.Sources[i+1:]...)
			return nil
		}
	}
	return apperrors.NewPreconditionError("remove_source", fmt.Sprintf("source %d not found", id))
}

// Source returns the tab with the given id.
func (d *MultiSourceDraft) Source(id int) (*DataSource, error) {
	for i := range d.Sources {
		if d.Sources[i].ID == id {
			return &d.Sources[i], nil
		}
	}
	return nil, apperrors.NewPreconditionError("source", fmt.Sprintf("source %d not found", id))
}

// Grids returns the table of every table tab in tab order.
func (d *MultiSourceDraft) Grids() []*DataSource {
	var tables []*DataSource
	for i := range d.Sources {
		if d.Sources[i].Kind == SourceTable && d.Sources[i].Table != nil {
			tables = append(tables, &d.Sources[i])
		}
	}
	return tables
}
