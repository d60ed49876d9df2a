package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies application errors into the categories callers are
// expected to branch on.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
	KindUnavailable  Kind = "UNAVAILABLE"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindValidation   Kind = "VALIDATION_FAILED"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind Kind) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Kind == kind
}

func NewNotFound(resource string, details map[string]any) error {
	return &DomainError{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewForbidden(message string) error {
	return &DomainError{Kind: KindForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

func NewInvalidState(message string, details map[string]any) error {
	return &DomainError{Kind: KindInvalidState, Message: message, HTTPStatus: http.StatusUnprocessableEntity, Details: details}
}

// NewUnavailable signals a dependent store is not provisioned yet; safe to
// retry after provisioning.
func NewUnavailable(message string) error {
	return &DomainError{Kind: KindUnavailable, Message: message, HTTPStatus: http.StatusServiceUnavailable}
}

func NewConflict(message string, details map[string]any) error {
	return &DomainError{Kind: KindConflict, Message: message, HTTPStatus: http.StatusConflict, Details: details}
}

func NewUnauthorized(message string) error {
	return &DomainError{Kind: KindUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

func NewValidationError(message string, details map[string]any) error {
	return &DomainError{Kind: KindValidation, Message: message, HTTPStatus: http.StatusBadRequest, Details: details}
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

const pgUndefinedTable = "42P01"

// ToDomainError converts generic errors to DomainError. Postgres "relation
// does not exist" maps to Unavailable so a missing optional table surfaces as
// a retryable provisioning failure rather than an internal error.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{
			Kind:       KindNotFound,
			Message:    "resource not found",
			HTTPStatus: http.StatusNotFound,
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return &DomainError{
			Kind:       KindUnavailable,
			Message:    "backing store not provisioned",
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        err,
		}
	}
	return &DomainError{
		Kind:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError wraps ToDomainError for call sites returning error.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
