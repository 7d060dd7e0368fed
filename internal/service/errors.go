package service

import (
	"errors"
	"fmt"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// Common service errors. Callers check for them with errors.Is.
var (
	// ErrConflict indicates that a business key such as a streetcode index,
	// a transliteration URL or a partner title is already taken.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("resource conflicts with an existing one")

	// ErrInvalidOrder indicates a fact reordering request that does not
	// describe a permutation of the streetcode's facts.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidOrder = errors.New("invalid fact order")

	// ErrBlob indicates that the blob store failed to save or load content.
	ErrBlob = errors.New("blob storage failure")
)

// ServiceError is the error type returned for failures a caller cannot
// act on. It records which entity and operation failed.
type ServiceError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Entity, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Entity, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(entity, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// storeError translates an error returned by a repository. Expected
// conditions keep their sentinel so the API can map them; everything else
// is wrapped in a ServiceError.
func storeError(entity, operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, domain.ErrValidation),
		errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrBlob):
		return err
	case errors.Is(err, store.ErrDuplicate):
		return NewServiceError(entity, operation, "duplicate value", fmt.Errorf("%w: %w", ErrConflict, err))
	case errors.Is(err, store.ErrInvalidEntity):
		return NewServiceError(entity, operation, "constraint violated",
			domain.NewValidationError(entity, "violates a data constraint", err))
	default:
		return NewServiceError(entity, operation, "store operation failed", err)
	}
}

// conflict reports a taken business key.
func conflict(field, value string) error {
	return fmt.Errorf("%w: %s %q is already in use", ErrConflict, field, value)
}

// missingReference reports an input field pointing at an entity that does
// not exist. It is a validation error, not a not-found error: the target of
// the operation exists, the request is what is wrong.
func missingReference(field string, id int) error {
	return domain.NewValidationError(field, fmt.Sprintf("references missing entity %d", id), nil)
}
