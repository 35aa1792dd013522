package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
)

// Completeness is the result of the validation gate. Missing lists the keys
// of every unmet requirement; Details carries a message per key.
type Completeness struct {
	OK      bool             `json:"ok"`
	Missing []string         `json:"missing"`
	Details ValidationErrors `json:"details,omitempty"`
}

// QuestionValidator decides whether a draft may be previewed and exported
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// IsComplete runs the gate for the draft's variant. It is pure and never
// panics, whatever state the draft is in.
func (v *QuestionValidator) IsComplete(d models.Draft) Completeness {
	var errors ValidationErrors

	switch draft := d.(type) {
	case *models.DataSufficiencyDraft:
		errors = v.dataSufficiency(draft)
	case *models.GraphicsInterpretationDraft:
		errors = v.graphicsInterpretation(draft)
	case *models.MultiSourceDraft:
		errors = v.multiSource(draft)
	case *models.TableAnalysisDraft:
		errors = v.tableAnalysis(draft)
	case *models.TwoPartAnalysisDraft:
		errors = v.twoPartAnalysis(draft)
	default:
		errors = ValidationErrors{*NewValidationError("draft", "is required", nil)}
	}

	result := Completeness{
		OK:      len(errors) == 0,
		Missing: errors.Fields(),
	}
	if len(errors) > 0 {
		result.Details = errors
	}
	return result
}

func (v *QuestionValidator) dataSufficiency(d *models.DataSufficiencyDraft) ValidationErrors {
	if d == nil {
		return ValidationErrors{*NewValidationError("draft", "is required", nil)}
	}
	var errors ValidationErrors
	if blank(d.Context) {
		errors = append(errors, *NewValidationError("context", "question context is required", nil))
	}
	if blank(d.Statement1) {
		errors = append(errors, *NewValidationError("statement1", "statement (1) is required", nil))
	}
	if blank(d.Statement2) {
		errors = append(errors, *NewValidationError("statement2", "statement (2) is required", nil))
	}
	if d.CorrectAnswer == nil {
		errors = append(errors, *NewValidationError("correctAnswer", "select the correct answer", nil))
	}
	return errors
}

func (v *QuestionValidator) graphicsInterpretation(d *models.GraphicsInterpretationDraft) ValidationErrors {
	if d == nil {
		return ValidationErrors{*NewValidationError("draft", "is required", nil)}
	}
	var errors ValidationErrors
	if blank(d.Image) {
		errors = append(errors, *NewValidationError("image", "upload a graph image", nil))
	}
	if blank(d.ConclusionTemplate) {
		errors = append(errors, *NewValidationError("conclusionTemplate", "conclusion text is required", nil))
	}
	if len(d.Dropdowns) == 0 {
		errors = append(errors, *NewValidationError("dropdowns", "add at least one dropdown", nil))
	}
	for i, dd := range d.Dropdowns {
		if len(dd.Options) == 0 {
			errors = append(errors, *NewValidationError(
				fmt.Sprintf("dropdowns[%d].options", i),
				fmt.Sprintf("%s needs at least one option", dd.TokenName()),
				dd.ID,
			))
		}
	}
	return errors
}

func (v *QuestionValidator) multiSource(d *models.MultiSourceDraft) ValidationErrors {
	if d == nil {
		return ValidationErrors{*NewValidationError("draft", "is required", nil)}
	}
	var errors ValidationErrors
	hasSource := false
	for i := range d.Sources {
		if d.Sources[i].HasContent() {
			hasSource = true
			break
		}
	}
	if !hasSource {
		errors = append(errors, *NewValidationError("sources", "add at least one source with content", len(d.Sources)))
	}
	if d.Statements.WithText() == 0 {
		errors = append(errors, *NewValidationError("statements", "add at least one statement", len(d.Statements)))
	}
	return errors
}

func (v *QuestionValidator) tableAnalysis(d *models.TableAnalysisDraft) ValidationErrors {
	if d == nil {
		return ValidationErrors{*NewValidationError("draft", "is required", nil)}
	}
	var errors ValidationErrors
	if d.Table == nil || len(d.Table.Headers) == 0 {
		errors = append(errors, *NewValidationError("table.headers", "add at least one column", nil))
	}
	if d.Table == nil || len(d.Table.Rows) == 0 {
		errors = append(errors, *NewValidationError("table.rows", "add at least one row", nil))
	}
	if d.Statements.WithText() == 0 {
		errors = append(errors, *NewValidationError("statements", "add at least one statement", len(d.Statements)))
	}
	return errors
}

func (v *QuestionValidator) twoPartAnalysis(d *models.TwoPartAnalysisDraft) ValidationErrors {
	if d == nil {
		return ValidationErrors{*NewValidationError("draft", "is required", nil)}
	}
	var errors ValidationErrors
	if blank(d.Context) {
		errors = append(errors, *NewValidationError("context", "question context is required", nil))
	}
	if blank(d.Instruction) {
		errors = append(errors, *NewValidationError("instruction", "instruction text is required", nil))
	}
	if len(d.TableHeaders) == 0 {
		errors = append(errors, *NewValidationError("tableHeaders", "add at least one column", nil))
	}
	if len(d.TableRows) == 0 {
		errors = append(errors, *NewValidationError("tableRows", "add at least one row", nil))
	}
	return errors
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
