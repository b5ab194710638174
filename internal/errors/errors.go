package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code categorizes an error so transports can map it without string matching
type Code string

const (
	CodeUnknown            Code = "unknown"
	CodeInvalidArgument    Code = "invalid_argument"
	CodeNotFound           Code = "not_found"
	CodeAlreadyExists      Code = "already_exists"
	CodeInternal           Code = "internal"
	CodeUnavailable        Code = "unavailable"
	CodeValidation         Code = "validation"
	CodeFailedPrecondition Code = "failed_precondition" // e.g. not enough HP/MP to run an action
)

// Error is an application error with a code and optional metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err, keeping its code when it already is an *Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(appErr.Meta),
		}
	}

	return &Error{Code: CodeUnknown, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error and forces its code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func Internalf(format string, args ...any) *Error { return Newf(CodeInternal, format, args...) }

func Validationf(format string, args ...any) *Error { return Newf(CodeValidation, format, args...) }

// Is checks if the error chain carries the given code
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

func IsInvalidArgument(err error) bool { return Is(err, CodeInvalidArgument) }

func IsAlreadyExists(err error) bool { return Is(err, CodeAlreadyExists) }

func IsFailedPrecondition(err error) bool { return Is(err, CodeFailedPrecondition) }

// GetCode returns the error code, CodeUnknown for foreign errors
func GetCode(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Meta
	}
	return nil
}

// HTTPStatus maps an error code to the status the HTTP API answers with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidArgument, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeFailedPrecondition:
		return http.StatusUnprocessableEntity
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
