package models

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	MultiSource            QuestionType = "multi_source"
	TableAnalysis          QuestionType = "table_analysis"
	GraphicsInterpretation QuestionType = "graphics_interpretation"
	TwoPartAnalysis        QuestionType = "two_part_analysis"
	DataSufficiency        QuestionType = "data_sufficiency"
)

// QuestionTypes lists every Data Insight variant.
var QuestionTypes = []QuestionType{
	MultiSource,
	TableAnalysis,
	GraphicsInterpretation,
	TwoPartAnalysis,
	DataSufficiency,
}

func (t QuestionType) IsValid() bool {
	for _, qt := range QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

// HasGrid reports whether the variant carries tabular data that can be
// exported as CSV.
func (t QuestionType) HasGrid() bool {
	return t == TableAnalysis || t == MultiSource
}

// QuestionFileName is the export file name of a single question.
func (t QuestionType) QuestionFileName() string {
	return fmt.Sprintf("%s_question.json", t)
}

// DataFileName is the export file name of the tabular data, ext without dot.
func (t QuestionType) DataFileName(ext string) string {
	return fmt.Sprintf("%s_data.%s", t, ext)
}

// Draft is the in-memory, not yet exported representation of one authored
// question. Each variant is its own type.
type Draft interface {
	Type() QuestionType
	// Clone returns a deep copy that shares no mutable state with the receiver.
	Clone() Draft
}

// NewDraft creates an empty draft of the given variant.
func NewDraft(t QuestionType) (Draft, error) {
	switch t {
	case MultiSource:
		return NewMultiSourceDraft(), nil
	case TableAnalysis:
		return NewTableAnalysisDraft(), nil
	case GraphicsInterpretation:
		return NewGraphicsInterpretationDraft(), nil
	case TwoPartAnalysis:
		return NewTwoPartAnalysisDraft(), nil
	case DataSufficiency:
		return NewDataSufficiencyDraft(), nil
	default:
		return nil, fmt.Errorf("unsupported question type: %s", t)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
