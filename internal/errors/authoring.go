package errors

import (
	"errors"
	"fmt"
)

// PreconditionError is returned when an operation would break a structural
// invariant of a draft. The draft is left untouched.
type PreconditionError struct {
	Op      string `json:"op"`
	Message string `json:"message"`
}

func (pe *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s: %s", pe.Op, pe.Message)
}

func NewPreconditionError(op, message string) *PreconditionError {
	return &PreconditionError{Op: op, Message: message}
}

// ParseError reports malformed import input. Line is 1-based and zero when
// the failure is not tied to a line.
type ParseError struct {
	Format  string `json:"format"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (pe *ParseError) Error() string {
	if pe.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %s", pe.Format, pe.Line, pe.Message)
	}
	return fmt.Sprintf("parse %s: %s", pe.Format, pe.Message)
}

func (pe *ParseError) Unwrap() error {
	return pe.Err
}

func NewParseError(format string, line int, message string, err error) *ParseError {
	return &ParseError{Format: format, Line: line, Message: message, Err: err}
}

// UploadRejectedError is returned for uploads with a wrong content type or
// an oversized payload.
type UploadRejectedError struct {
	Reason      string `json:"reason"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Limit       int64  `json:"limit,omitempty"`
}

func (ue *UploadRejectedError) Error() string {
	return fmt.Sprintf("upload rejected: %s", ue.Reason)
}

// TooLarge reports whether the upload was rejected for its size.
func (ue *UploadRejectedError) TooLarge() bool {
	return ue.Limit > 0 && ue.Size > ue.Limit
}

func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func IsUploadRejected(err error) bool {
	var ue *UploadRejectedError
	return errors.As(err, &ue)
}
