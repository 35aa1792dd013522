package models

import (
	"encoding/json"
	"time"
)

type ExportFormat string

const (
	ExportJSON  ExportFormat = "json"
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "xlsx"
)

// Envelope is the on-disk form of a single exported question.
type Envelope struct {
	Type     QuestionType    `json:"type" validate:"required,question_type"`
	Question json.RawMessage `json:"question" validate:"required"`
}

// ExportFile is a rendered export ready to be written or downloaded.
type ExportFile struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// VerbalQuestion is one row of a verbal question import sheet.
type VerbalQuestion struct {
	ID            string   `json:"id" validate:"required"`
	Passage       string   `json:"passage"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,max=5"`
	CorrectAnswer int      `json:"correctAnswer" validate:"min=0,max=4"`
	Layout        string   `json:"layout"`
}

type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}

type ImportSummary struct {
	TotalRows      int                     `json:"total_rows"`
	ProcessedRows  int                     `json:"processed_rows"`
	SuccessCount   int                     `json:"success_count"`
	ErrorCount     int                     `json:"error_count"`
	Questions      []VerbalQuestion        `json:"questions"`
	Errors         []ImportValidationError `json:"errors"`
	ProcessingTime time.Duration           `json:"processing_time"`
}
