package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrTooManyRequests            ErrorCode = "TOO_MANY_REQUESTS"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrSchema                     ErrorCode = "SCHEMA_ERROR"
	ErrNoEligibleCandidates       ErrorCode = "NO_ELIGIBLE_CANDIDATES"
	ErrPayloadTooLarge            ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrUnsupportedMediaType       ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
)

// AppError is the error type returned by services.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithDetails attaches client-visible details, e.g. missing import columns.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by code so callers can use errors.Is with a template.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HasCode reports whether err is an *AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func NotFound(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

func Internal(message string, err error) *AppError {
	return NewAppError(ErrInternalServer, message, err)
}
