package models

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// DataSufficiencyChoices is the fixed answer key shared by every Data
// Sufficiency item. CorrectAnswer indexes into it.
var DataSufficiencyChoices = [5]string{
	"Statement (1) ALONE is sufficient, but statement (2) alone is not sufficient.",
	"Statement (2) ALONE is sufficient, but statement (1) alone is not sufficient.",
	"BOTH statements TOGETHER are sufficient, but NEITHER statement ALONE is sufficient.",
	"EACH statement ALONE is sufficient.",
	"Statements (1) and (2) TOGETHER are NOT sufficient.",
}

type DataSufficiencyDraft struct {
	Context       string `json:"context"`
	Statement1    string `json:"statement1"`
	Statement2    string `json:"statement2"`
	CorrectAnswer *int   `json:"correctAnswer" validate:"omitempty,min=0,max=4"`
}

func NewDataSufficiencyDraft() *DataSufficiencyDraft {
	return &DataSufficiencyDraft{}
}

func (d *DataSufficiencyDraft) Type() QuestionType { return DataSufficiency }

func (d *DataSufficiencyDraft) Clone() Draft {
	clone := *d
	if d.CorrectAnswer != nil {
		answer := *d.CorrectAnswer
		clone.CorrectAnswer = &answer
	}
	return &clone
}

// SetCorrectAnswer selects one of the five fixed choices; nil clears it.
func (d *DataSufficiencyDraft) SetCorrectAnswer(choice *int) error {
	if choice == nil {
		d.CorrectAnswer = nil
		return nil
	}
	if *choice < 0 || *choice >= len(DataSufficiencyChoices) {
		return apperrors.NewPreconditionError("set_correct_answer", fmt.Sprintf("choice %d out of range", *choice))
	}
	answer := *choice
	d.CorrectAnswer = &answer
	return nil
}
