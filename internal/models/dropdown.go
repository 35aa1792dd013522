package models

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// Dropdown is a selectable blank inside a conclusion template. Placeholder is
// the token name without braces, e.g. "dropdown1".
type Dropdown struct {
	ID            int      `json:"id"`
	Placeholder   string   `json:"placeholder" validate:"required"`
	Options       []string `json:"options"`
	SelectedValue string   `json:"selectedValue"`
}

// NewDropdown creates a dropdown bound to the {dropdown<id>} token.
func NewDropdown(id int) Dropdown {
	return Dropdown{
		ID:          id,
		Placeholder: fmt.Sprintf("dropdown%d", id),
		Options:     []string{},
	}
}

// TokenName returns the placeholder with surrounding braces removed.
func (d *Dropdown) TokenName() string {
	return strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(d.Placeholder), "{"), "}")
}

// HasOption reports whether value is one of the options.
func (d *Dropdown) HasOption(value string) bool {
	return slices.Contains(d.Options, value)
}

// Select sets the selected value. An empty value clears the selection; any
// other value must be one of the options.
func (d *Dropdown) Select(value string) error {
	if value != "" && !d.HasOption(value) {
		return apperrors.NewPreconditionError("select_option", fmt.Sprintf("%q is not an option of %s", value, d.TokenName()))
	}
	d.SelectedValue = value
	return nil
}

// AddOption appends an option. Duplicates are allowed.
func (d *Dropdown) AddOption(value string) {
	d.Options = append(d.Options, value)
}

// SetOption rewrites the option at index, keeping the selection valid.
func (d *Dropdown) SetOption(index int, value string) error {
	if index < 0 || index >= len(d.Options) {
		return apperrors.NewPreconditionError("set_option", fmt.Sprintf("option %d out of range", index))
	}
	previous := d.Options[index]
	d.Options[index] = value
	if d.SelectedValue == previous && !d.HasOption(previous) {
		d.SelectedValue = ""
	}
	return nil
}

// RemoveOption deletes the option at index. The last option cannot be removed
// through this path; use ClearOptions instead.
func (d *Dropdown) RemoveOption(index int) error {
	if len(d.Options) <= 1 {
		return apperrors.NewPreconditionError("remove_option", "dropdown must keep at least one option")
	}
	if index < 0 || index >= len(d.Options) {
		return apperrors.NewPreconditionError("remove_option", fmt.Sprintf("option %d out of range", index))
	}
	d.Options = append(d.Options[:index], d.Options[index+1:]...)
	if d.SelectedValue != "" && !d.HasOption(d.SelectedValue) {
		d.SelectedValue = ""
	}
	return nil
}

// ClearOptions drops every option and the selection with them.
func (d *Dropdown) ClearOptions() {
	d.Options = []string{}
	d.SelectedValue = ""
}

func cloneDropdowns(in []Dropdown) []Dropdown {
	if in == nil {
		return nil
	}
	out := make([]Dropdown, len(in))
	for i, d := range in {
		out[i] = d
		if d.Options != nil {
			out[i].Options = append([]string{}, d.Options...)
		}
	}
	return out
}
