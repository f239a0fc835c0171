package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCode is a typed error code enum for consistent error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrQuestionNotFound ErrCode = "QUESTION_NOT_FOUND"

	// ─── Session lifecycle ─────────────────────────────────────────────
	ErrWrongQuestionType   ErrCode = "WRONG_QUESTION_TYPE"
	ErrSessionCompleted    ErrCode = "SESSION_COMPLETED"
	ErrSessionNotCompleted ErrCode = "SESSION_NOT_COMPLETED"

	// ─── Storage ───────────────────────────────────────────────────────
	ErrStoreUnavailable ErrCode = "STORE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrSessionNotFound:
		return "Practice session not found."
	case ErrQuestionNotFound:
		return "Question not found in this session."
	case ErrWrongQuestionType:
		return "This answer does not match the question type."
	case ErrSessionCompleted:
		return "This session is already completed."
	case ErrSessionNotCompleted:
		return "This session is not completed yet."
	case ErrStoreUnavailable:
		return "The practice store is unavailable."
	default:
		return "An unexpected error occurred."
	}
}

// Error is a typed application error carrying a code and, for validation
// failures, a field → message map.
type Error struct {
	Code   ErrCode
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return GetMessage(e.Code)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// New returns a typed error for the given code.
func New(code ErrCode) *Error {
	return &Error{Code: code}
}

// NewFields returns a VALIDATION_ERROR carrying field-level messages.
func NewFields(fields map[string]string) *Error {
	return &Error{Code: ErrValidation, Fields: fields}
}

// CodeOf extracts the ErrCode from err, or "" if err is not an apperr.Error.
func CodeOf(err error) ErrCode {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// FieldsOf extracts the field error map from err, or nil.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
