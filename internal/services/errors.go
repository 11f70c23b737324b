package services

import (
	"errors"
	"fmt"

	apperrors "github.com/Prithwi32/vidyastraa-exam-engine/internal/errors"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Test specific errors
	ErrTestNotFound  = errors.New("test not found")
	ErrTestNotActive = errors.New("test is not active")
	ErrTestEmpty     = errors.New("test has no questions")

	// Session specific errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to session")
	ErrSessionNotResumable = errors.New("session cannot be resumed")

	// Result specific errors
	ErrResultNotFound     = errors.New("result not found")
	ErrResultAccessDenied = errors.New("access denied to result")
)

// Re-exported engine errors so handlers can branch without importing the
// session package directly.
var (
	ErrAlreadySubmitted   = session.ErrAlreadySubmitted
	ErrSubmissionInFlight = session.ErrSubmissionInFlight
	ErrSessionLocked      = session.ErrSessionLocked
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	StudentID string `json:"student_id"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
	Reason    string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: student %s cannot %s %s - %s",
		pe.StudentID, pe.Action, pe.Resource, pe.Reason)
}

func NewPermissionError(studentID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		StudentID: studentID,
		Resource:  resource,
		Action:    action,
		Reason:    reason,
	}
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrSubmissionInFlight) ||
		errors.Is(err, ErrSessionLocked)
}

// IsPermission checks if error represents a permission failure
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
