package apperrors

import (
	"errors"
	"fmt"
)

// AppError is the error type every service returns to the HTTP boundary.
type AppError struct {
	Code    string
	Message string
	// Field names the offending input for validation errors, if known.
	Field string
	Err   error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

func Validation(message string) *AppError {
	return New(CodeValidation, message, nil)
}

// InvalidField is a validation error tied to one input field.
func InvalidField(field, message string) *AppError {
	e := Validation(message)
	e.Field = field
	return e
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, nil)
}

func StoreUnavailable(message string, err error) *AppError {
	return New(CodeStoreUnavailable, message, err)
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

func IsStoreUnavailable(err error) bool {
	return CodeOf(err) == CodeStoreUnavailable
}
