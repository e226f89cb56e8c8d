package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures. Handlers map each kind to one HTTP status.
type ErrorKind string

const (
	KindValidation       ErrorKind = "VALIDATION_ERROR"
	KindCapacityExceeded ErrorKind = "CAPACITY_EXCEEDED"
	KindInvalidState     ErrorKind = "INVALID_STATE"
	KindForbidden        ErrorKind = "FORBIDDEN"
	KindNotFound         ErrorKind = "NOT_FOUND"
)

// Sentinels for errors.Is matching. A *DomainError matches the sentinel of its kind.
var (
	ErrValidation       = &DomainError{Kind: KindValidation, Message: "validation failed"}
	ErrCapacityExceeded = &DomainError{Kind: KindCapacityExceeded, Message: "not enough available slots"}
	ErrInvalidState     = &DomainError{Kind: KindInvalidState, Message: "invalid status transition"}
	ErrForbidden        = &DomainError{Kind: KindForbidden, Message: "not allowed to access this resource"}
	ErrNotFound         = &DomainError{Kind: KindNotFound, Message: "resource not found"}
)

// DomainError is the error type surfaced by the catalog, ledgers and search engine.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError of the same kind.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewValidationError creates a new validation error
func NewValidationError(format string, args ...interface{}) error {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewCapacityExceededError reports how many slots were requested against how many remain.
func NewCapacityExceededError(requested, available int) error {
	return &DomainError{
		Kind:    KindCapacityExceeded,
		Message: fmt.Sprintf("requested %d slots but only %d available", requested, available),
	}
}

// NewInvalidStateError reports an illegal booking status transition.
func NewInvalidStateError(from, to BookingStatus) error {
	return &DomainError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("booking cannot move from %s to %s", from, to),
	}
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) error {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// NewNotFoundError names the missing resource.
func NewNotFoundError(resource, id string) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// KindOf returns the kind of a domain error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
