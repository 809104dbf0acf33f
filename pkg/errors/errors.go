package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error into one of the categories the
// API surfaces to callers.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindGone
	KindUnexpected
)

// AppError represents an application error
type AppError struct {
	Kind    Kind                `json:"-"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewValidation(fields map[string][]string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: "invalid input data",
		Fields:  fields,
	}
}

func NewConflict(message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: message,
	}
}

func NewNotFound(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewGone(message string) *AppError {
	return &AppError{
		Kind:    KindGone,
		Message: message,
	}
}

func NewUnexpected(err error) *AppError {
	return &AppError{
		Kind:    KindUnexpected,
		Message: "internal server error",
		Err:     err,
	}
}

// KindOf reports the Kind of err, or KindUnexpected when err is not an
// AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// FieldsOf returns the field error map carried by a validation error,
// or nil for any other error.
func FieldsOf(err error) map[string][]string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
