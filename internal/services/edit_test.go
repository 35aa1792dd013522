package services

import (
	"testing"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T, qt models.QuestionType) models.Draft {
	t.Helper()
	d, err := models.NewSampleDraft(qt)
	require.NoError(t, err)
	return d
}

func TestApplyEdit_SetField(t *testing.T) {
	tests := []struct {
		name  string
		draft models.Draft
		field string
		get   func(models.Draft) string
	}{
		{"data sufficiency context", models.NewDataSufficiencyDraft(), "context",
			func(d models.Draft) string { return d.(*models.DataSufficiencyDraft).Context }},
		{"graphics template", models.NewGraphicsInterpretationDraft(), "conclusionTemplate",
			func(d models.Draft) string { return d.(*models.GraphicsInterpretationDraft).ConclusionTemplate }},
		{"multi source instruction", models.NewMultiSourceDraft(), "statementsInstruction",
			func(d models.Draft) string { return d.(*models.MultiSourceDraft).StatementsInstruction }},
		{"table instructions", models.NewTableAnalysisDraft(), "instructions",
			func(d models.Draft) string { return d.(*models.TableAnalysisDraft).Instructions }},
		{"two part instruction", models.NewTwoPartAnalysisDraft(), "instruction",
			func(d models.Draft) string { return d.(*models.TwoPartAnalysisDraft).Instruction }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyEdit(tt.draft, EditCommand{Op: OpSetField, Field: tt.field, Value: "new text"})
			require.NoError(t, err)
			assert.Equal(t, "new text", tt.get(tt.draft))
		})
	}

	err := ApplyEdit(models.NewTableAnalysisDraft(), EditCommand{Op: OpSetField, Field: "context", Value: "x"})
	assert.ErrorIs(t, err, ErrBadRequest)

	gi := models.NewGraphicsInterpretationDraft()
	err = ApplyEdit(gi, EditCommand{Op: OpSetField, Field: "image", Value: "data:image/png;base64,AAAA"})
	assert.True(t, apperrors.IsPrecondition(err))
}

func TestApplyEdit_TableAnalysisGrid(t *testing.T) {
	d := sample(t, models.TableAnalysis).(*models.TableAnalysisDraft)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetHeader, Col: 3, Value: "Place rank"}))
	assert.Equal(t, "Place rank", d.SortBy)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpRemoveColumn, Col: 3}))
	assert.Equal(t, "Runner", d.SortBy)
	assert.Len(t, d.Table.Rows[0], 3)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddColumn, Value: "Club"}))
	assert.Equal(t, "Club", d.Table.Headers[3])

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddRow}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetCell, Row: 4, Col: 0, Value: "Eve"}))
	assert.Equal(t, []string{"Eve", "", "", ""}, d.Table.Rows[4])

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetSortBy, Value: "Time seconds"}))
	assert.Equal(t, "Time seconds", d.SortBy)

	err := ApplyEdit(d, EditCommand{Op: OpSetCell, Row: 9, Col: 0, Value: "x"})
	assert.True(t, apperrors.IsPrecondition(err))

	err = ApplyEdit(d, EditCommand{Op: OpSetRow, Row: 0})
	assert.True(t, apperrors.IsPrecondition(err))
}

func TestApplyEdit_MultiSourceTable(t *testing.T) {
	d := sample(t, models.MultiSource).(*models.MultiSourceDraft)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetCell, Source: 2, Row: 1, Col: 1, Value: "101"}))
	assert.Equal(t, "101", d.Sources[1].Table.Rows[1][1])

	err := ApplyEdit(d, EditCommand{Op: OpAddRow, Source: 1})
	assert.True(t, apperrors.IsPrecondition(err))

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetSourceKind, ID: 1, Value: "table"}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddRow, Source: 1}))
	assert.Len(t, d.Sources[0].Table.Rows, 2)
	assert.Empty(t, d.Sources[0].Content)
}

func TestApplyEdit_Sources(t *testing.T) {
	d := models.NewMultiSourceDraft()

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddSource, Value: "table", Label: "Data"}))
	require.Len(t, d.Sources, 2)
	assert.Equal(t, 2, d.Sources[1].ID)
	assert.Equal(t, models.SourceTable, d.Sources[1].Kind)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetSourceField, ID: 2, Field: "tableTitle", Value: "Results"}))
	assert.Equal(t, "Results", d.Sources[1].TableTitle)

	err := ApplyEdit(d, EditCommand{Op: OpSetSourceField, ID: 1, Field: "tableTitle", Value: "x"})
	assert.True(t, apperrors.IsPrecondition(err))

	err = ApplyEdit(d, EditCommand{Op: OpSetSourceField, ID: 1, Field: "colour", Value: "x"})
	assert.ErrorIs(t, err, ErrBadRequest)

	err = ApplyEdit(d, EditCommand{Op: OpAddSource, Value: "video"})
	assert.True(t, apperrors.IsPrecondition(err))

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpRemoveSource, ID: 1}))
	err = ApplyEdit(d, EditCommand{Op: OpRemoveSource, ID: 2})
	assert.True(t, apperrors.IsPrecondition(err))
}

func TestApplyEdit_Statements(t *testing.T) {
	d := models.NewTableAnalysisDraft()

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddStatement, Value: "First"}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddStatement}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetStatementAnswer, ID: 1, Value: "yes"}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetStatementText, ID: 2, Value: "Second"}))

	assert.Equal(t, models.Statements{
		{ID: 1, Text: "First", Answer: models.AnswerYes},
		{ID: 2, Text: "Second"},
	}, d.Statements)

	err := ApplyEdit(d, EditCommand{Op: OpSetStatementAnswer, ID: 2, Value: "maybe"})
	assert.True(t, apperrors.IsPrecondition(err))

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpRemoveStatement, ID: 1}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddStatement}))
	assert.Equal(t, 3, d.Statements[1].ID)

	err = ApplyEdit(models.NewDataSufficiencyDraft(), EditCommand{Op: OpAddStatement})
	assert.ErrorIs(t, err, ErrWrongQuestionType)
}

func TestApplyEdit_Dropdowns(t *testing.T) {
	d := models.NewGraphicsInterpretationDraft()

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddDropdown}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddOption, ID: 1, Value: "10%"}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddOption, ID: 1, Value: "20%"}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSelectOption, ID: 1, Value: "20%"}))
	assert.Equal(t, "20%", d.Dropdowns[0].SelectedValue)

	err := ApplyEdit(d, EditCommand{Op: OpSelectOption, ID: 1, Value: "30%"})
	assert.True(t, apperrors.IsPrecondition(err))

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetOption, ID: 1, Index: 1, Value: "25%"}))
	assert.Equal(t, []string{"10%", "25%"}, d.Dropdowns[0].Options)
	assert.Empty(t, d.Dropdowns[0].SelectedValue)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpRemoveOption, ID: 1, Index: 0}))
	err = ApplyEdit(d, EditCommand{Op: OpRemoveOption, ID: 1, Index: 0})
	assert.True(t, apperrors.IsPrecondition(err))

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpClearOptions, ID: 1}))
	assert.Empty(t, d.Dropdowns[0].Options)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpRemoveDropdown, ID: 1}))
	err = ApplyEdit(d, EditCommand{Op: OpAddOption, ID: 1, Value: "x"})
	assert.True(t, apperrors.IsPrecondition(err))
}

func TestApplyEdit_TwoPart(t *testing.T) {
	d := sample(t, models.TwoPartAnalysis).(*models.TwoPartAnalysisDraft)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSelectAnswer, Row: 2, Col: 1}))
	assert.Equal(t, models.AnswerKey{0: 3, 1: 2}, d.CorrectAnswers)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpRemoveRow, Row: 0}))
	assert.Equal(t, []string{"B", "C", "D"}, d.TableRows)
	assert.Equal(t, []string{"3", "5", "7"}, d.TableValues)
	assert.Equal(t, models.AnswerKey{0: 2, 1: 1}, d.CorrectAnswers)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpAddRow, Label: "E", Value: "9"}))
	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetRow, Row: 3, Label: "E", Value: "11"}))
	assert.Equal(t, "11", d.TableValues[3])

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpClearAnswer, Col: 0}))
	assert.Equal(t, models.AnswerKey{1: 1}, d.CorrectAnswers)

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpRemoveColumn, Col: 0}))
	assert.Equal(t, []string{"Notebooks"}, d.TableHeaders)
	assert.Equal(t, models.AnswerKey{0: 1}, d.CorrectAnswers)

	err := ApplyEdit(d, EditCommand{Op: OpSelectAnswer, Row: 9, Col: 0})
	assert.True(t, apperrors.IsPrecondition(err))

	err = ApplyEdit(d, EditCommand{Op: OpSetCell, Row: 0, Col: 0, Value: "x"})
	assert.ErrorIs(t, err, ErrWrongQuestionType)
}

func TestApplyEdit_DataSufficiencyAnswer(t *testing.T) {
	d := models.NewDataSufficiencyDraft()

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetCorrectAnswer, Choice: intPtr(4)}))
	assert.Equal(t, 4, *d.CorrectAnswer)

	err := ApplyEdit(d, EditCommand{Op: OpSetCorrectAnswer, Choice: intPtr(5)})
	assert.True(t, apperrors.IsPrecondition(err))

	require.NoError(t, ApplyEdit(d, EditCommand{Op: OpSetCorrectAnswer}))
	assert.Nil(t, d.CorrectAnswer)

	err = ApplyEdit(models.NewTableAnalysisDraft(), EditCommand{Op: OpSetCorrectAnswer, Choice: intPtr(1)})
	assert.ErrorIs(t, err, ErrWrongQuestionType)
}

func TestApplyEdit_UnknownOp(t *testing.T) {
	err := ApplyEdit(models.NewDataSufficiencyDraft(), EditCommand{Op: "rotate"})
	assert.ErrorIs(t, err, ErrUnknownEditOp)
	assert.True(t, IsBadRequest(err))
}
