// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error. The HTTP layer maps each kind to a status code.
type ErrorKind string

// Error kinds.
const (
	KindValidation         ErrorKind = "validation_error"
	KindDuplicateField     ErrorKind = "duplicate_field"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindTooManyAttempts    ErrorKind = "too_many_attempts"
)

// Sentinel errors, one per kind. Every *Error matches the sentinel of its kind via errors.Is.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "Validation failed"}
	ErrDuplicateField     = &Error{Kind: KindDuplicateField, Message: "Value already exists"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid username or password"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "Authentication required"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Forbidden"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "Conflict"}
	ErrTooManyAttempts    = &Error{Kind: KindTooManyAttempts, Message: "Too many attempts"}
)

// Error is a typed domain error returned by services.
type Error struct {
	Kind    ErrorKind
	Field   string // Offending input field, if any
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewValidationError returns a validation error for field.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewDuplicateFieldError returns a duplicate error for field.
func NewDuplicateFieldError(field, message string) *Error {
	return &Error{Kind: KindDuplicateField, Field: field, Message: message}
}

// NewNotFoundError returns a not-found error for the named entity, e.g. "Article not found".
func NewNotFoundError(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// NewForbiddenError returns a forbidden error with a custom message.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewConflictError returns a conflict error with a custom message.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of err, or "" if err is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
