package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/SAP-F-2025/di-authoring-service/internal/validator"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound      = errors.New("resource not found")
	ErrBadRequest    = errors.New("bad request")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")

	// Draft specific errors
	ErrDraftNotFound     = errors.New("draft not found")
	ErrDraftIncomplete   = errors.New("draft is incomplete")
	ErrStaleDraft        = errors.New("draft was replaced before the load finished")
	ErrUnknownEditOp     = errors.New("unknown edit operation")
	ErrWrongQuestionType = errors.New("operation does not apply to this question type")

	// Transfer specific errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoTabularData     = errors.New("question type has no tabular data")
	ErrEmptyFile         = errors.New("file is empty")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// IncompleteError is returned by preview and export when the draft fails
// the validation gate.
type IncompleteError struct {
	Completeness validator.Completeness `json:"completeness"`
}

func (ie *IncompleteError) Error() string {
	return fmt.Sprintf("draft is incomplete: missing %s", strings.Join(ie.Completeness.Missing, ", "))
}

func (ie *IncompleteError) Is(target error) bool {
	return target == ErrDraftIncomplete
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDraftNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBadRequest checks if error stems from malformed client input
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrUnknownEditOp) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyFile) ||
		apperrors.IsParse(err) ||
		IsValidation(err)
}

// IsConflict checks if error represents a conflict with the draft state
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDraftIncomplete) ||
		errors.Is(err, ErrStaleDraft) ||
		errors.Is(err, ErrWrongQuestionType) ||
		errors.Is(err, ErrNoTabularData) ||
		apperrors.IsPrecondition(err)
}

// IsIncomplete extracts the gate result from an IncompleteError
func IsIncomplete(err error) (*IncompleteError, bool) {
	var ie *IncompleteError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// ErrorCode classifies err into the short code sent to clients next to the
// error message.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := IsIncomplete(err); ok {
		return "incomplete"
	}

	var (
		parseErr        *apperrors.ParseError
		uploadErr       *apperrors.UploadRejectedError
		preconditionErr *apperrors.PreconditionError
	)
	switch {
	case errors.As(err, &uploadErr):
		return "upload_rejected"
	case errors.As(err, &parseErr):
		return "parse"
	case IsValidation(err):
		return "validation"
	case errors.As(err, &preconditionErr):
		return "precondition"
	case IsNotFound(err):
		return "not_found"
	case errors.Is(err, ErrStaleDraft):
		return "stale"
	case IsBadRequest(err):
		return "bad_request"
	case IsConflict(err):
		return "conflict"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, ErrInternalError):
		return "internal"
	default:
		return "unknown"
	}
}
