package models

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// StatementAnswer is the two-valued judgment attached to a statement.
type StatementAnswer string

const (
	AnswerUnset StatementAnswer = ""
	AnswerYes   StatementAnswer = "yes"
	AnswerNo    StatementAnswer = "no"
)

// Statement is a falsifiable claim used by Table Analysis and Multi-Source items.
type Statement struct {
	ID     int             `json:"id"`
	Text   string          `json:"text"`
	Answer StatementAnswer `json:"answer" validate:"statement_answer"`
}

// Statements is the ordered statement list of a draft.
type Statements []Statement

// Add appends an empty statement with the next free id and returns it.
func (s *Statements) Add() Statement {
	next := 1
	for _, st := range *s {
		if st.ID >= next {
			next = st.ID + 1
		}
	}
	st := Statement{ID: next}
	*s = append(*s, st)
	return st
}

// Remove deletes the statement with the given id.
func (s *Statements) Remove(id int) error {
	i := s.index(id)
	if i < 0 {
		return apperrors.NewPreconditionError("remove_statement", fmt.Sprintf("statement %d not found", id))
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
	return nil
}

// SetText replaces the text of the statement with the given id.
func (s Statements) SetText(id int, text string) error {
	i := s.index(id)
	if i < 0 {
		return apperrors.NewPreconditionError("set_statement", fmt.Sprintf("statement %d not found", id))
	}
	s[i].Text = text
	return nil
}

// SetAnswer records the yes/no judgment of a statement.
func (s Statements) SetAnswer(id int, answer StatementAnswer) error {
	if answer != AnswerUnset && answer != AnswerYes && answer != AnswerNo {
		return apperrors.NewPreconditionError("set_answer", fmt.Sprintf("answer %q must be yes or no", answer))
	}
	i := s.index(id)
	if i < 0 {
		return apperrors.NewPreconditionError("set_answer", fmt.Sprintf("statement %d not found", id))
	}
	s[i].Answer = answer
	return nil
}

// WithText counts statements that have non-blank text.
func (s Statements) WithText() int {
	n := 0
	for _, st := range s {
		if !isBlank(st.Text) {
			n++
		}
	}
	return n
}

func (s Statements) index(id int) int {
	for i, st := range s {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (s Statements) clone() Statements {
	if s == nil {
		return nil
	}
	return append(Statements{}, s...)
}
