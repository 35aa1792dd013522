package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateDraft checks the structural invariants of a draft: known enum
// values, rectangular grids, dropdown selections drawn from their options
// and an answer key inside the two-part table. It does not check
// completeness; see QuestionValidator.IsComplete.
func (v *Validator) ValidateDraft(d models.Draft) error {
	if d == nil {
		return ValidationErrors{*NewValidationError("draft", "is required", nil)}
	}
	if err := v.structValidator.Struct(d); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("statement_answer", validateStatementAnswer)
	validate.RegisterValidation("source_kind", validateSourceKind)

	validate.RegisterStructValidation(validateGrid, models.Grid{})
	validate.RegisterStructValidation(validateDropdown, models.Dropdown{})
	validate.RegisterStructValidation(validateTwoPart, models.TwoPartAnalysisDraft{})

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateStatementAnswer(fl validator.FieldLevel) bool {
	switch models.StatementAnswer(fl.Field().String()) {
	case models.AnswerUnset, models.AnswerYes, models.AnswerNo:
		return true
	}
	return false
}

func validateSourceKind(fl validator.FieldLevel) bool {
	switch models.DataSourceKind(fl.Field().String()) {
	case models.SourceInstructions, models.SourceTable, models.SourceImage:
		return true
	}
	return false
}

func validateGrid(sl validator.StructLevel) {
	g := sl.Current().Interface().(models.Grid)
	if !g.IsRectangular() {
		sl.ReportError(g.Rows, "rows", "Rows", "rectangular", "")
	}
}

func validateDropdown(sl validator.StructLevel) {
	d := sl.Current().Interface().(models.Dropdown)
	if d.SelectedValue != "" && !d.HasOption(d.SelectedValue) {
		sl.ReportError(d.SelectedValue, "selectedValue", "SelectedValue", "selected_option", "")
	}
}

func validateTwoPart(sl validator.StructLevel) {
	d := sl.Current().Interface().(models.TwoPartAnalysisDraft)
	if len(d.TableValues) != len(d.TableRows) {
		sl.ReportError(d.TableValues, "tableValues", "TableValues", "parallel_values", "")
	}
	for _, cell := range d.CorrectAnswers.Cells() {
		if cell[0] >= len(d.TableRows) || cell[1] >= len(d.TableHeaders) {
			sl.ReportError(d.CorrectAnswers, "correctAnswers", "CorrectAnswers", "answer_cell", "")
			return
		}
	}
}
