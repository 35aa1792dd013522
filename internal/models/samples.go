package models

import "fmt"

// NewSampleDraft returns the built-in example item an editor can start from.
func NewSampleDraft(t QuestionType) (Draft, error) {
	switch t {
	case DataSufficiency:
		answer := 2
		return &DataSufficiencyDraft{
			Context:       "What is the value of the integer x?",
			Statement1:    "x is a prime number between 10 and 20.",
			Statement2:    "x + 2 is also a prime number.",
			CorrectAnswer: &answer,
		}, nil
	case GraphicsInterpretation:
		return &GraphicsInterpretationDraft{
			Description:        "The chart shows quarterly revenue for two product lines.",
			Instruction:        "Select the option that best completes each statement.",
			ConclusionTemplate: "The ratio of Product A revenue to Product B revenue in Q4 is closest to {dropdown1} to {dropdown2}.",
			Dropdowns: []Dropdown{
				{ID: 1, Placeholder: "dropdown1", Options: []string{"1", "2", "3"}},
				{ID: 2, Placeholder: "dropdown2", Options: []string{"3", "4", "5"}},
			},
		}, nil
	case MultiSource:
		return &MultiSourceDraft{
			Sources: []DataSource{
				{
					ID:      1,
					Kind:    SourceInstructions,
					Title:   "Email 1",
					Content: "The marketing team proposes moving the product launch to March.",
				},
				{
					ID:           2,
					Kind:         SourceTable,
					Title:        "Sales",
					Instructions: "Regional sales for the last quarter:\n{table}\nFigures in thousands.",
					TableTitle:   "Quarterly sales",
					Table: &Grid{
						Headers: []string{"Region", "Units", "Growth percentage"},
						Rows: [][]string{
							{"North", "120", "4%"},
							{"South", "95", "7%"},
						},
					},
				},
			},
			Statements: Statements{
				{ID: 1, Text: "The South region grew faster than the North region.", Answer: AnswerYes},
				{ID: 2, Text: "The North region sold fewer units than the South region.", Answer: AnswerNo},
			},
			StatementsInstruction: "For each statement, select Yes if it is supported by the sources; otherwise select No.",
		}, nil
	case TableAnalysis:
		return &TableAnalysisDraft{
			Instructions: "The table lists finishing results for four runners.",
			Table: &Grid{
				Headers: []string{"Runner", "Time seconds", "Improvement percentage", "Rank"},
				Rows: [][]string{
					{"Ada", "12.4", "3%", "2"},
					{"Ben", "11.9", "5%", "1"},
					{"Cy", "13.1", "1%", "4"},
					{"Dee", "12.8", "2%", "3"},
				},
			},
			SortBy: "Rank",
			Statements: Statements{
				{ID: 1, Text: "The fastest runner also improved the most.", Answer: AnswerYes},
				{ID: 2, Text: "Every runner improved by at least 2%.", Answer: AnswerNo},
			},
		}, nil
	case TwoPartAnalysis:
		return &TwoPartAnalysisDraft{
			Context:      "A store sells pens at $2 and notebooks at $5. Maria spent exactly $29.",
			Instruction:  "Select a number of pens and a number of notebooks consistent with the information.",
			TableHeaders: []string{"Pens", "Notebooks"},
			TableRows:    []string{"A", "B", "C", "D"},
			TableValues:  []string{"2", "3", "5", "7"},
			CorrectAnswers: AnswerKey{
				0: 3,
				1: 1,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported question type: %s", t)
	}
}
