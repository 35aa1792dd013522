package models

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// GraphicsInterpretationDraft pairs a chart image with a conclusion template
// whose {dropdownN} tokens are answered through Dropdowns.
type GraphicsInterpretationDraft struct {
	Image              string     `json:"image"`
	Description        string     `json:"description"`
	Instruction        string     `json:"instruction"`
	ConclusionTemplate string     `json:"conclusionTemplate"`
	Dropdowns          []Dropdown `json:"dropdowns" validate:"dive"`
}

func NewGraphicsInterpretationDraft() *GraphicsInterpretationDraft {
	return &GraphicsInterpretationDraft{Dropdowns: []Dropdown{}}
}

func (d *GraphicsInterpretationDraft) Type() QuestionType { return GraphicsInterpretation }

func (d *GraphicsInterpretationDraft) Clone() Draft {
	clone := *d
	clone.Dropdowns = cloneDropdowns(d.Dropdowns)
	return &clone
}

// AddDropdown appends a dropdown with the next free id. The returned pointer
// is only valid until the dropdown list changes again.
func (d *GraphicsInterpretationDraft) AddDropdown() *Dropdown {
	next := 1
	for _, dd := range d.Dropdowns {
		if dd.ID >= next {
			next = dd.ID + 1
		}
	}
	d.Dropdowns = append(d.Dropdowns, NewDropdown(next))
	return &d.Dropdowns[len(d.Dropdowns)-1]
}

// RemoveDropdown deletes a dropdown. Its token, if still in the template,
// renders as literal text afterwards.
func (d *GraphicsInterpretationDraft) RemoveDropdown(id int) error {
	for i := range d.Dropdowns {
		if d.Dropdowns[i].ID == id {
			d.Dropdowns = append(d.Dropdowns[:i], d.Dropdowns[i+1:]...)
			return nil
		}
	}
	return apperrors.NewPreconditionError("remove_dropdown", fmt.Sprintf("dropdown %d not found", id))
}

// Dropdown returns the dropdown with the given id.
func (d *GraphicsInterpretationDraft) Dropdown(id int) (*Dropdown, error) {
	for i := range d.Dropdowns {
		if d.Dropdowns[i].ID == id {
			return &d.Dropdowns[i], nil
		}
	}
	return nil, apperrors.NewPreconditionError("dropdown", fmt.Sprintf("dropdown %d not found", id))
}

// SelectOption changes the selected value of one dropdown and nothing else.
func (d *GraphicsInterpretationDraft) SelectOption(id int, value string) error {
	dd, err := d.Dropdown(id)
	if err != nil {
		return err
	}
	return dd.Select(value)
}
