package services

import (
	"errors"
	"fmt"
)

var (
	// Generic errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Generation errors
	ErrNoMaterials       = errors.New("no course materials provided")
	ErrNoTopicsExtracted = errors.New("could not extract topics from the provided materials")
	ErrNoQuestions       = errors.New("the generator returned no questions")

	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to session")

	// History errors
	ErrHistoryNotFound     = errors.New("exam result not found")
	ErrHistoryAccessDenied = errors.New("access denied to exam result")
)

// ValidationError carries the offending field for user-facing messages.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", ve.Field, ve.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if err represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrHistoryNotFound)
}

// IsAccessDenied checks if err represents an ownership violation.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrSessionAccessDenied) ||
		errors.Is(err, ErrHistoryAccessDenied)
}

// IsValidation checks if err represents rejected input.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrNoMaterials) ||
		errors.Is(err, ErrNoTopicsExtracted) {
		return true
	}
	var ve *ValidationError
	return errors.As(err, &ve)
}
