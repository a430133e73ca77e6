package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"

	// CodeUpstream marks a non-2xx or failed call to the marketplace backend.
	CodeUpstream Code = "UPSTREAM_ERROR"
	// CodeConversion marks a failed cart currency conversion.
	CodeConversion Code = "CONVERSION_ERROR"
	// CodeInvalidCredentials marks a rejected login.
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
)

// Metadata is how a code surfaces over HTTP. Retryable tells the storefront UI
// that repeating the same action may succeed; nothing is retried automatically.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

const (
	withDetails = true
	noDetails   = false
	retryable   = true
	final       = false
)

var metadataByCode = map[Code]Metadata{
	CodeValidation:         {http.StatusBadRequest, final, "validation failed", withDetails},
	CodeUnauthorized:       {http.StatusUnauthorized, final, "authentication required", noDetails},
	CodeForbidden:          {http.StatusForbidden, final, "access denied", noDetails},
	CodeNotFound:           {http.StatusNotFound, final, "resource not found", noDetails},
	CodeConflict:           {http.StatusConflict, final, "conflict detected", noDetails},
	CodeStateConflict:      {http.StatusUnprocessableEntity, final, "state transition disallowed", withDetails},
	CodeRateLimit:          {http.StatusTooManyRequests, retryable, "rate limit exceeded", noDetails},
	CodeInternal:           {http.StatusInternalServerError, retryable, "internal server error", noDetails},
	CodeDependency:         {http.StatusServiceUnavailable, retryable, "dependency unavailable", withDetails},
	CodeUpstream:           {http.StatusBadGateway, retryable, "marketplace request failed", withDetails},
	CodeConversion:         {http.StatusBadGateway, retryable, "currency conversion failed", withDetails},
	CodeInvalidCredentials: {http.StatusUnauthorized, final, "Incorrect User or Password", noDetails},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// CodeOf returns the code of the first typed error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// HTTPStatus maps err to the status it is served with. Untyped errors are 500s.
func HTTPStatus(err error) int {
	return MetadataFor(CodeOf(err)).HTTPStatus
}

// Retryable reports whether repeating the failed action may succeed.
func Retryable(err error) bool {
	return err != nil && MetadataFor(CodeOf(err)).Retryable
}

// Is reports whether err carries the provided code.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
