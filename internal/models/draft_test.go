package models

import (
	"testing"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropdown_SelectionValidity(t *testing.T) {
	d := NewDropdown(1)
	d.AddOption("2")
	d.AddOption("5")

	require.NoError(t, d.Select("5"))
	assert.Equal(t, "5", d.SelectedValue)

	err := d.Select("7")
	assert.True(t, apperrors.IsPrecondition(err))
	assert.Equal(t, "5", d.SelectedValue, "rejected selection must keep the previous value")

	require.NoError(t, d.Select(""))
	assert.Empty(t, d.SelectedValue)

	require.NoError(t, d.Select("2"))
	d.ClearOptions()
	assert.Empty(t, d.Options)
	assert.Empty(t, d.SelectedValue)
}

func TestDropdown_OptionEdits(t *testing.T) {
	d := Dropdown{ID: 3, Placeholder: "{dropdown3}", Options: []string{"a", "b"}}
	assert.Equal(t, "dropdown3", d.TokenName())

	require.NoError(t, d.Select("b"))
	require.NoError(t, d.SetOption(1, "c"))
	assert.Empty(t, d.SelectedValue, "renaming the selected option clears the selection")

	require.NoError(t, d.Select("a"))
	require.NoError(t, d.RemoveOption(1))
	assert.Equal(t, "a", d.SelectedValue)

	err := d.RemoveOption(0)
	assert.True(t, apperrors.IsPrecondition(err), "last option cannot be removed")
	assert.Equal(t, []string{"a"}, d.Options)
}

func TestStatements(t *testing.T) {
	var s Statements
	first := s.Add()
	second := s.Add()
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	require.NoError(t, s.SetText(2, "Claim"))
	require.NoError(t, s.SetAnswer(2, AnswerNo))
	assert.True(t, apperrors.IsPrecondition(s.SetAnswer(2, "maybe")))
	assert.True(t, apperrors.IsPrecondition(s.SetText(9, "x")))
	assert.Equal(t, 1, s.WithText())

	require.NoError(t, s.Remove(1))
	assert.Equal(t, Statements{{ID: 2, Text: "Claim", Answer: AnswerNo}}, s)
	assert.Equal(t, 3, s.Add().ID)
}

func TestTwoPart_SingleSelectionPerColumn(t *testing.T) {
	d := NewTwoPartAnalysisDraft()
	d.AddRow("B", "3")
	d.AddRow("C", "5")

	require.NoError(t, d.SelectAnswer(0, 0))
	require.NoError(t, d.SelectAnswer(2, 0))

	assert.False(t, d.CorrectAnswers.Selected(0, 0))
	assert.True(t, d.CorrectAnswers.Selected(2, 0))
	assert.Equal(t, [][2]int{{2, 0}}, d.CorrectAnswers.Cells())

	assert.True(t, apperrors.IsPrecondition(d.SelectAnswer(3, 0)))
	assert.True(t, apperrors.IsPrecondition(d.SelectAnswer(0, 2)))
}

func TestTwoPart_RowAndColumnRemovalShiftAnswers(t *testing.T) {
	d := &TwoPartAnalysisDraft{
		TableHeaders:   []string{"P1", "P2", "P3"},
		TableRows:      []string{"a", "b", "c"},
		TableValues:    []string{"1", "2", "3"},
		CorrectAnswers: AnswerKey{0: 2, 1: 1, 2: 0},
	}

	require.NoError(t, d.RemoveRow(1))
	assert.Equal(t, []string{"a", "c"}, d.TableRows)
	assert.Equal(t, []string{"1", "3"}, d.TableValues)
	assert.Equal(t, AnswerKey{0: 1, 2: 0}, d.CorrectAnswers)

	require.NoError(t, d.RemoveColumn(0))
	assert.Equal(t, []string{"P2", "P3"}, d.TableHeaders)
	assert.Equal(t, AnswerKey{1: 0}, d.CorrectAnswers)

	require.NoError(t, d.RemoveRow(0))
	assert.True(t, apperrors.IsPrecondition(d.RemoveRow(0)))
	require.NoError(t, d.RemoveColumn(1))
	assert.True(t, apperrors.IsPrecondition(d.RemoveColumn(0)))
}

func TestAnswerKey_WireFormat(t *testing.T) {
	key := AnswerKey{0: 3, 1: 1}
	data, err := key.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"3-0": true, "1-1": true}`, string(data))

	var decoded AnswerKey
	require.NoError(t, decoded.UnmarshalJSON([]byte(`{"3-0": true, "1-1": true, "0-1": false}`)))
	assert.Equal(t, key, decoded)

	assert.Error(t, decoded.UnmarshalJSON([]byte(`{"0-0": true, "1-0": true}`)))
	assert.Error(t, decoded.UnmarshalJSON([]byte(`{"zero": true}`)))
}

func TestTableAnalysis_SortByFollowsColumns(t *testing.T) {
	d := NewTableAnalysisDraft()
	require.NoError(t, d.Table.Replace([]string{"Name", "Rank", "Score"}, [][]string{{"a", "1", "9"}}))
	d.SetSortBy("Rank")

	require.NoError(t, d.SetHeader(1, "Position"))
	assert.Equal(t, "Position", d.SortBy)

	require.NoError(t, d.RemoveColumn(1))
	assert.Equal(t, "Name", d.SortBy, "removing the sort column resets to the first header")

	require.NoError(t, d.RemoveColumn(1))
	assert.Equal(t, "Name", d.SortBy)

	require.NoError(t, d.ReplaceTable([]string{"Other"}, nil))
	assert.Equal(t, "Other", d.SortBy)
}

func TestMultiSource_Sources(t *testing.T) {
	d := NewMultiSourceDraft()
	require.Len(t, d.Sources, 1)

	id, err := d.AddSource(SourceTable, "")
	require.NoError(t, err)
	src, err := d.Source(id)
	require.NoError(t, err)
	assert.Equal(t, "Tab 2", src.Title)
	require.NotNil(t, src.Table)
	assert.True(t, src.HasContent())

	require.NoError(t, src.SetKind(SourceImage))
	assert.Nil(t, src.Table)
	assert.False(t, src.HasContent())
	src.Image = "data:image/png;base64,AAAA"
	assert.True(t, src.HasContent())

	_, err = d.AddSource("video", "")
	assert.True(t, apperrors.IsPrecondition(err))

	require.NoError(t, d.RemoveSource(1))
	assert.True(t, apperrors.IsPrecondition(d.RemoveSource(id)))
}

func TestDraft_CloneSharesNothing(t *testing.T) {
	for _, qt := range QuestionTypes {
		t.Run(string(qt), func(t *testing.T) {
			original, err := NewSampleDraft(qt)
			require.NoError(t, err)

			clone := original.Clone()
			assert.Equal(t, original, clone)

			switch c := clone.(type) {
			case *TableAnalysisDraft:
				c.Table.Rows[0][0] = "changed"
				assert.NotEqual(t, "changed", original.(*TableAnalysisDraft).Table.Rows[0][0])
			case *GraphicsInterpretationDraft:
				c.Dropdowns[0].Options[0] = "changed"
				assert.NotEqual(t, "changed", original.(*GraphicsInterpretationDraft).Dropdowns[0].Options[0])
			case *MultiSourceDraft:
				c.Sources[1].Table.Rows[0][0] = "changed"
				assert.NotEqual(t, "changed", original.(*MultiSourceDraft).Sources[1].Table.Rows[0][0])
			case *TwoPartAnalysisDraft:
				c.CorrectAnswers[0] = 0
				assert.Equal(t, 3, original.(*TwoPartAnalysisDraft).CorrectAnswers[0])
			case *DataSufficiencyDraft:
				*c.CorrectAnswer = 4
				assert.Equal(t, 2, *original.(*DataSufficiencyDraft).CorrectAnswer)
			}
		})
	}
}

func TestNewDraft(t *testing.T) {
	for _, qt := range QuestionTypes {
		d, err := NewDraft(qt)
		require.NoError(t, err)
		assert.Equal(t, qt, d.Type())
	}

	_, err := NewDraft("essay")
	assert.Error(t, err)
	assert.Equal(t, "table_analysis_question.json", TableAnalysis.QuestionFileName())
	assert.Equal(t, "multi_source_data.csv", MultiSource.DataFileName("csv"))
}
