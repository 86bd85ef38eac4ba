package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies service failures into client-distinguishable categories.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation_error"
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindNotEligible  ErrorKind = "not_eligible"
	KindWindowClosed ErrorKind = "submission_window_closed"
)

// Error is returned by every workflow operation that rejects its input or its caller.
// No operation has applied any effect when it returns an *Error.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Code != "" && e.Code != string(e.Kind) {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on kind so callers can test errors.Is(err, ErrConflict).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// HTTPStatus maps the kind to the status code returned to clients.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindNotEligible, KindWindowClosed:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrNotEligible  = &Error{Kind: KindNotEligible}
	ErrWindowClosed = &Error{Kind: KindWindowClosed}

	ErrAlreadyEvaluated = &Error{Kind: KindConflict, Code: "already_evaluated"}
	ErrAlreadyAssigned  = &Error{Kind: KindConflict, Code: "already_assigned"}
	ErrSubmissionLocked = &Error{Kind: KindConflict, Code: "submission_locked"}
	ErrAlreadyMember    = &Error{Kind: KindConflict, Code: "already_member"}
	ErrAssignmentDone   = &Error{Kind: KindConflict, Code: "assignment_completed"}
)

func newError(kind ErrorKind, code, format string, args ...interface{}) *Error {
	if code == "" {
		code = string(kind)
	}
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, "", format, args...)
}

func notFound(what string) *Error {
	return newError(KindNotFound, "", "%s not found", what)
}

// ValidationErrors accumulates per-field messages before failing.
type ValidationErrors map[string]string

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// Err returns nil when no field failed.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Code: string(KindValidation), Message: "the given data was invalid", Fields: map[string]string(v)}
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers without an error translator
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
