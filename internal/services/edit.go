package services

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/SAP-F-2025/di-authoring-service/internal/models"
)

// EditOp names one editor mutation.
type EditOp string

const (
	// Scalar fields
	OpSetField         EditOp = "set_field"
	OpSetCorrectAnswer EditOp = "set_correct_answer"

	// Grids: the Table Analysis table, a Multi-Source table tab (Source) or
	// the Two-Part answer table
	OpAddRow       EditOp = "add_row"
	OpRemoveRow    EditOp = "remove_row"
	OpAddColumn    EditOp = "add_column"
	OpRemoveColumn EditOp = "remove_column"
	OpSetCell      EditOp = "set_cell"
	OpSetHeader    EditOp = "set_header"
	OpSetRow       EditOp = "set_row"
	OpSetSortBy    EditOp = "set_sort_by"

	// Statements
	OpAddStatement       EditOp = "add_statement"
	OpRemoveStatement    EditOp = "remove_statement"
	OpSetStatementText   EditOp = "set_statement_text"
	OpSetStatementAnswer EditOp = "set_statement_answer"

	// Dropdowns
	OpAddDropdown    EditOp = "add_dropdown"
	OpRemoveDropdown EditOp = "remove_dropdown"
	OpAddOption      EditOp = "add_option"
	OpSetOption      EditOp = "set_option"
	OpRemoveOption   EditOp = "remove_option"
	OpClearOptions   EditOp = "clear_options"
	OpSelectOption   EditOp = "select_option"

	// Multi-Source tabs
	OpAddSource      EditOp = "add_source"
	OpRemoveSource   EditOp = "remove_source"
	OpSetSourceKind  EditOp = "set_source_kind"
	OpSetSourceField EditOp = "set_source_field"

	// Two-Part answer key
	OpSelectAnswer EditOp = "select_answer"
	OpClearAnswer  EditOp = "clear_answer"
)

// EditCommand is one mutation sent by the editor. Which fields matter
// depends on Op: ID addresses statements, dropdowns and tabs, Source picks
// the Multi-Source tab whose table a grid op targets.
type EditCommand struct {
	Op     EditOp `json:"op" binding:"required"`
	Field  string `json:"field,omitempty"`
	Source int    `json:"source,omitempty"`
	ID     int    `json:"id,omitempty"`
	Row    int    `json:"row,omitempty"`
	Col    int    `json:"col,omitempty"`
	Index  int    `json:"index,omitempty"`
	Value  string `json:"value,omitempty"`
	Label  string `json:"label,omitempty"`
	Choice *int   `json:"choice,omitempty"`
}

// ApplyEdit mutates draft in place. Errors leave the draft in an
// unspecified state, so callers apply edits to a copy.
func ApplyEdit(draft models.Draft, cmd EditCommand) error {
	switch cmd.Op {
	case OpSetField:
		return setField(draft, cmd.Field, cmd.Value)
	case OpSetCorrectAnswer:
		ds, ok := draft.(*models.DataSufficiencyDraft)
		if !ok {
			return wrongType(cmd.Op, draft)
		}
		return ds.SetCorrectAnswer(cmd.Choice)

	case OpAddRow, OpRemoveRow, OpAddColumn, OpRemoveColumn, OpSetCell, OpSetHeader, OpSetRow, OpSetSortBy:
		return applyGridEdit(draft, cmd)

	case OpAddStatement, OpRemoveStatement, OpSetStatementText, OpSetStatementAnswer:
		statements, err := statementsOf(draft, cmd.Op)
		if err != nil {
			return err
		}
		return applyStatementEdit(statements, cmd)

	case OpAddDropdown, OpRemoveDropdown, OpAddOption, OpSetOption, OpRemoveOption, OpClearOptions, OpSelectOption:
		gi, ok := draft.(*models.GraphicsInterpretationDraft)
		if !ok {
			return wrongType(cmd.Op, draft)
		}
		return applyDropdownEdit(gi, cmd)

	case OpAddSource, OpRemoveSource, OpSetSourceKind, OpSetSourceField:
		ms, ok := draft.(*models.MultiSourceDraft)
		if !ok {
			return wrongType(cmd.Op, draft)
		}
		return applySourceEdit(ms, cmd)

	case OpSelectAnswer, OpClearAnswer:
		tp, ok := draft.(*models.TwoPartAnalysisDraft)
		if !ok {
			return wrongType(cmd.Op, draft)
		}
		if cmd.Op == OpSelectAnswer {
			return tp.SelectAnswer(cmd.Row, cmd.Col)
		}
		delete(tp.CorrectAnswers, cmd.Col)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEditOp, cmd.Op)
	}
}

func setField(draft models.Draft, field, value string) error {
	var target *string
	switch d := draft.(type) {
	case *models.DataSufficiencyDraft:
		switch field {
		case "context":
			target = &d.Context
		case "statement1":
			target = &d.Statement1
		case "statement2":
			target = &d.Statement2
		}
	case *models.GraphicsInterpretationDraft:
		switch field {
		case "description":
			target = &d.Description
		case "instruction":
			target = &d.Instruction
		case "conclusionTemplate":
			target = &d.ConclusionTemplate
		case "image":
			// images arrive through upload; the editor may only remove one
			if value != "" {
				return apperrors.NewPreconditionError("set_field", "images are set by upload")
			}
			target = &d.Image
		}
	case *models.MultiSourceDraft:
		if field == "statementsInstruction" {
			target = &d.StatementsInstruction
		}
	case *models.TableAnalysisDraft:
		if field == "instructions" {
			target = &d.Instructions
		}
	case *models.TwoPartAnalysisDraft:
		switch field {
		case "context":
			target = &d.Context
		case "instruction":
			target = &d.Instruction
		}
	}
	if target == nil {
		return fmt.Errorf("%w: unknown field %q for %s", ErrBadRequest, field, draftType(draft))
	}
	*target = value
	return nil
}

func applyGridEdit(draft models.Draft, cmd EditCommand) error {
	switch d := draft.(type) {
	case *models.TableAnalysisDraft:
		if d.Table == nil {
			return apperrors.NewPreconditionError(string(cmd.Op), "draft has no table")
		}
		switch cmd.Op {
		case OpRemoveColumn:
			return d.RemoveColumn(cmd.Col)
		case OpSetHeader:
			return d.SetHeader(cmd.Col, cmd.Value)
		case OpSetSortBy:
			d.SetSortBy(cmd.Value)
			return nil
		}
		return editGrid(d.Table, cmd)

	case *models.MultiSourceDraft:
		src, err := d.Source(cmd.Source)
		if err != nil {
			return err
		}
		if src.Kind != models.SourceTable || src.Table == nil {
			return apperrors.NewPreconditionError(string(cmd.Op), fmt.Sprintf("source %d is not a table", src.ID))
		}
		return editGrid(src.Table, cmd)

	case *models.TwoPartAnalysisDraft:
		switch cmd.Op {
		case OpAddRow:
			d.AddRow(cmd.Label, cmd.Value)
			return nil
		case OpRemoveRow:
			return d.RemoveRow(cmd.Row)
		case OpAddColumn:
			d.AddColumn(cmd.Value)
			return nil
		case OpRemoveColumn:
			return d.RemoveColumn(cmd.Col)
		case OpSetHeader:
			return d.SetHeader(cmd.Col, cmd.Value)
		case OpSetRow:
			return d.SetRow(cmd.Row, cmd.Label, cmd.Value)
		}
	}
	return wrongType(cmd.Op, draft)
}

func editGrid(g *models.Grid, cmd EditCommand) error {
	switch cmd.Op {
	case OpAddRow:
		g.AddRow()
		return nil
	case OpRemoveRow:
		return g.RemoveRow(cmd.Row)
	case OpAddColumn:
		g.AddColumn()
		if g.HasHeaders() && cmd.Value != "" {
			return g.SetHeader(g.Width()-1, cmd.Value)
		}
		return nil
	case OpRemoveColumn:
		return g.RemoveColumn(cmd.Col)
	case OpSetCell:
		return g.SetCell(cmd.Row, cmd.Col, cmd.Value)
	case OpSetHeader:
		return g.SetHeader(cmd.Col, cmd.Value)
	default:
		return apperrors.NewPreconditionError(string(cmd.Op), "not supported for this table")
	}
}

func statementsOf(draft models.Draft, op EditOp) (*models.Statements, error) {
	switch d := draft.(type) {
	case *models.TableAnalysisDraft:
		return &d.Statements, nil
	case *models.MultiSourceDraft:
		return &d.Statements, nil
	default:
		return nil, wrongType(op, draft)
	}
}

func applyStatementEdit(statements *models.Statements, cmd EditCommand) error {
	switch cmd.Op {
	case OpAddStatement:
		added := statements.Add()
		if cmd.Value != "" {
			return statements.SetText(added.ID, cmd.Value)
		}
		return nil
	case OpRemoveStatement:
		return statements.Remove(cmd.ID)
	case OpSetStatementText:
		return statements.SetText(cmd.ID, cmd.Value)
	default:
		return statements.SetAnswer(cmd.ID, models.StatementAnswer(cmd.Value))
	}
}

func applyDropdownEdit(gi *models.GraphicsInterpretationDraft, cmd EditCommand) error {
	switch cmd.Op {
	case OpAddDropdown:
		gi.AddDropdown()
		return nil
	case OpRemoveDropdown:
		return gi.RemoveDropdown(cmd.ID)
	case OpSelectOption:
		return gi.SelectOption(cmd.ID, cmd.Value)
	}

	dd, err := gi.Dropdown(cmd.ID)
	if err != nil {
		return err
	}
	switch cmd.Op {
	case OpAddOption:
		dd.AddOption(cmd.Value)
		return nil
	case OpSetOption:
		return dd.SetOption(cmd.Index, cmd.Value)
	case OpRemoveOption:
		return dd.RemoveOption(cmd.Index)
	default:
		dd.ClearOptions()
		return nil
	}
}

func applySourceEdit(ms *models.MultiSourceDraft, cmd EditCommand) error {
	switch cmd.Op {
	case OpAddSource:
		kind := models.DataSourceKind(cmd.Value)
		if kind == "" {
			kind = models.SourceInstructions
		}
		_, err := ms.AddSource(kind, cmd.Label)
		return err
	case OpRemoveSource:
		return ms.RemoveSource(cmd.ID)
	}

	src, err := ms.Source(cmd.ID)
	if err != nil {
		return err
	}
	if cmd.Op == OpSetSourceKind {
		return src.SetKind(models.DataSourceKind(cmd.Value))
	}

	switch cmd.Field {
	case "title":
		src.Title = cmd.Value
	case "instructions":
		src.Instructions = cmd.Value
	case "content":
		if src.Kind != models.SourceInstructions {
			return apperrors.NewPreconditionError("set_source_field", "content belongs to instructions tabs")
		}
		src.Content = cmd.Value
	case "tableTitle", "footerTitle":
		if src.Kind != models.SourceTable {
			return apperrors.NewPreconditionError("set_source_field", cmd.Field+" belongs to table tabs")
		}
		if cmd.Field == "tableTitle" {
			src.TableTitle = cmd.Value
		} else {
			src.FooterTitle = cmd.Value
		}
	case "image":
		if cmd.Value != "" {
			return apperrors.NewPreconditionError("set_source_field", "images are set by upload")
		}
		src.Image = ""
	default:
		return fmt.Errorf("%w: unknown source field %q", ErrBadRequest, cmd.Field)
	}
	return nil
}

func wrongType(op EditOp, draft models.Draft) error {
	return fmt.Errorf("%s on %s: %w", op, draftType(draft), ErrWrongQuestionType)
}
