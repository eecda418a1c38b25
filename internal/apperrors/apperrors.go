// Package apperrors is the error taxonomy surfaced at the HTTP boundary.
// Errors compare by Code under errors.Is, so sentinels such as ErrNotFound
// match any not-found error regardless of message.
package apperrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidationFailed   Code = "validation_failed"
	CodeNotFound           Code = "not_found"
	CodeInvalidStatus      Code = "invalid_status"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeConflict           Code = "conflict"
	CodeInternal           Code = "internal"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	Err     error
}

var (
	ErrValidationFailed   = &Error{Code: CodeValidationFailed, Message: "validation failed"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidStatus      = &Error{Code: CodeInvalidStatus, Message: "Invalid status"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "Invalid credentials"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Validation(fields []FieldError) *Error {
	return &Error{Code: CodeValidationFailed, Message: "validation failed", Fields: fields}
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func InvalidStatus(status string) *Error {
	return &Error{
		Code:    CodeInvalidStatus,
		Message: "Invalid status",
		Err:     fmt.Errorf("status %q is not allowed", status),
	}
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func Internal(err error) *Error {
	return Wrap(CodeInternal, "internal error", err)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf reports the taxonomy code carried anywhere in err's chain, or
// CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
