// Package apperrors holds the error taxonomy shared by storage, forms and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is implemented by every error that maps to an HTTP status.
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// ValidationError is a uniqueness or field-format violation.
// Fields names the offending field, or the conflicting pair for uniqueness.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation error on (%s): %s", strings.Join(e.Fields, ", "), e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Code() string {
	return "VALIDATION_ERROR"
}

// NewValidationError creates a ValidationError for the given fields.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

// NotFoundError is a lookup of a row that does not exist (or no longer exists).
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%d' not found", e.Resource, e.ID)
}

func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Code() string {
	return "NOT_FOUND"
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ServerError is a malformed or inconsistent payload, or an unexpected failure.
type ServerError struct {
	Message string
	Cause   error
}

func (e *ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("server error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("server error: %s", e.Message)
}

func (e *ServerError) HTTPStatus() int {
	return http.StatusInternalServerError
}

func (e *ServerError) Code() string {
	return "SERVER_ERROR"
}

func (e *ServerError) Unwrap() error {
	return e.Cause
}

// NewServerError creates a ServerError
func NewServerError(message string, cause error) *ServerError {
	return &ServerError{Message: message, Cause: cause}
}

// TooLargeError is a request body over the configured limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

func (e *TooLargeError) HTTPStatus() int {
	return http.StatusRequestEntityTooLarge
}

func (e *TooLargeError) Code() string {
	return "PAYLOAD_TOO_LARGE"
}

// NewTooLargeError creates a TooLargeError
func NewTooLargeError(limit int64) *TooLargeError {
	return &TooLargeError{Limit: limit}
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// AsValidation returns the wrapped ValidationError, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var validation *ValidationError
	ok := errors.As(err, &validation)
	return validation, ok
}

// GetHTTPStatus returns the HTTP status code for an error.
// Returns 500 if the error doesn't implement AppError.
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code, "UNKNOWN_ERROR" for foreign errors.
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}
