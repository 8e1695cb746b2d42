package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrInternal ErrorCode = iota + 1000
	ErrValidation
	ErrNotFound
	ErrResourceInUse
	ErrUnauthorized
)

// FieldError is a single field-labelled validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application error
type AppError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code onto an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrResourceInUse:
		return http.StatusConflict
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// NewValidation builds a ValidationError carrying per-field messages.
func NewValidation(message string, fields ...FieldError) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Fields:  fields,
	}
}

// InvalidField is shorthand for a validation error on one field.
func InvalidField(field, message string) *AppError {
	return NewValidation("validation failed", FieldError{Field: field, Message: message})
}

func NewNotFound(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s with id %v not found", resource, id),
	}
}

func NewResourceInUse(resource string, id interface{}, usedBy string) *AppError {
	return &AppError{
		Code:    ErrResourceInUse,
		Message: fmt.Sprintf("%s with id %v is in use by one or more %s", resource, id, usedBy),
	}
}

// NewStorage wraps a repository failure. The message is generic; the cause
// stays in Err for server-side logging only.
func NewStorage(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: message,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func IsValidation(err error) bool    { return err != nil && CodeOf(err) == ErrValidation }
func IsNotFound(err error) bool      { return err != nil && CodeOf(err) == ErrNotFound }
func IsResourceInUse(err error) bool { return err != nil && CodeOf(err) == ErrResourceInUse }

// As is errors.As for callers that import this package under its own name.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
