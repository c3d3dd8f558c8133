package docModel

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation  ErrorCategory = "validation"
	CategoryNetwork     ErrorCategory = "network"
	CategoryExtraction  ErrorCategory = "extraction"
	CategoryCompression ErrorCategory = "compression"
	CategoryEmbedding   ErrorCategory = "embedding-provider"
	CategoryPersistence ErrorCategory = "persistence"
	CategoryCorruption  ErrorCategory = "corruption"
	CategoryTimeout     ErrorCategory = "timeout"
)

// ProcessingError keeps the user-facing message apart from the raw technical
// detail; the caller only ever sees Message + Category, Detail goes into the
// diagnostic field.
type ProcessingError struct {
	Category ErrorCategory
	Message  string
	cause    error
}

func (e *ProcessingError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *ProcessingError) Unwrap() error {
	return e.cause
}

func (e *ProcessingError) Detail() string {
	if e.cause == nil {
		return ""
	}
	return e.cause.Error()
}

func (e *ProcessingError) HTTPCode() int {
	switch e.Category {
	case CategoryValidation, CategoryCorruption:
		return http.StatusBadRequest
	case CategoryExtraction:
		return http.StatusUnprocessableEntity
	case CategoryNetwork, CategoryEmbedding:
		return http.StatusBadGateway
	case CategoryTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func NewProcessingError(category ErrorCategory, message string, cause error) *ProcessingError {
	return &ProcessingError{Category: category, Message: message, cause: cause}
}

// AsProcessingError normalizes any error into a categorized one. Unknown
// errors land in persistence: by the time the processor sees a bare error
// every other call site has already wrapped its own.
func AsProcessingError(err error) *ProcessingError {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe
	}
	return NewProcessingError(CategoryPersistence, "internal processing error", err)
}

var ErrTextTooShort = errors.New("extracted text below minimum length")
