package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/scentwork/partner-console/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

type sentinelMapping struct {
	sentinel error
	code     string
	status   int
}

var sentinelMappings = []sentinelMapping{
	{domain.ErrUnknownAmbassador, "UNKNOWN_AMBASSADOR", http.StatusNotFound},
	{domain.ErrUnknownPartner, "UNKNOWN_PARTNER", http.StatusNotFound},
	{domain.ErrUnknownRequest, "UNKNOWN_REQUEST", http.StatusNotFound},
	{domain.ErrInvalidLevel, "INVALID_LEVEL", http.StatusBadRequest},
	{domain.ErrInvalidActivity, "INVALID_ACTIVITY", http.StatusBadRequest},
	{domain.ErrInvalidCandidate, "INVALID_CANDIDATE", http.StatusBadRequest},
	{domain.ErrInvalidAmbassador, "INVALID_AMBASSADOR", http.StatusBadRequest},
	{domain.ErrAmbassadorNotQualified, "AMBASSADOR_NOT_QUALIFIED", http.StatusForbidden},
	{domain.ErrModelMismatch, "MODEL_MISMATCH", http.StatusConflict},
	{domain.ErrInvalidTransition, "INVALID_TRANSITION", http.StatusConflict},
	{domain.ErrDuplicate, "DUPLICATE", http.StatusConflict},
}

// ToDomainError converts service errors to a DomainError. Wrapped domain
// sentinels keep their wrapping context as the message.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, m := range sentinelMappings {
		if errors.Is(err, m.sentinel) {
			return &DomainError{Code: m.code, Message: err.Error(), HTTPStatus: m.status, Err: err}
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
