package domain

import (
	"errors"
	"net/http"
)

// ErrorCode names a class of domain failure and the HTTP status it maps to
type ErrorCode struct {
	Name       string
	StatusCode int
}

var (
	ErrorCodeParameterInvalid   = ErrorCode{Name: "PARAMETER_INVALID", StatusCode: http.StatusBadRequest}
	ErrorCodeResourceNotFound   = ErrorCode{Name: "RESOURCE_NOT_FOUND", StatusCode: http.StatusNotFound}
	ErrorCodeResourceConflict   = ErrorCode{Name: "RESOURCE_CONFLICT", StatusCode: http.StatusConflict}
	ErrorCodeStorageFailure     = ErrorCode{Name: "STORAGE_FAILURE", StatusCode: http.StatusInternalServerError}
	ErrorCodePersistenceFailure = ErrorCode{Name: "PERSISTENCE_FAILURE", StatusCode: http.StatusInternalServerError}
	ErrorCodeInternalProcess    = ErrorCode{Name: "INTERNAL_PROCESS", StatusCode: http.StatusInternalServerError}
)

// DomainError wraps an underlying error with its code and the message safe to show clients
type DomainError struct {
	code      ErrorCode
	err       error
	clientMsg string
	detail    map[string]interface{}
}

type ErrorOption func(*DomainError)

// WithMsg sets the message returned to the client
func WithMsg(msg string) ErrorOption {
	return func(e *DomainError) {
		e.clientMsg = msg
	}
}

// WithDetail attaches structured detail to the client response
func WithDetail(detail map[string]interface{}) ErrorOption {
	return func(e *DomainError) {
		e.detail = detail
	}
}

func NewError(code ErrorCode, err error, opts ...ErrorOption) error {
	if err == nil {
		err = errors.New(code.Name)
	}
	e := DomainError{code: code, err: err}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e DomainError) Error() string {
	if e.err == nil {
		return e.clientMsg
	}
	if e.clientMsg == "" {
		return e.err.Error()
	}
	return e.clientMsg + ": " + e.err.Error()
}

func (e DomainError) Unwrap() error {
	return e.err
}

// Name returns the code name, INTERNAL_PROCESS for a zero value
func (e DomainError) Name() string {
	if e.code.Name == "" {
		return ErrorCodeInternalProcess.Name
	}
	return e.code.Name
}

// HTTPStatus returns the mapped status, 500 for a zero value
func (e DomainError) HTTPStatus() int {
	if e.code.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.code.StatusCode
}

func (e DomainError) ClientMsg() string {
	return e.clientMsg
}

func (e DomainError) Detail() map[string]interface{} {
	return e.detail
}

// IsErrorCode reports whether err carries a DomainError with the given code
func IsErrorCode(err error, code ErrorCode) bool {
	var domainErr DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.code.Name == code.Name
}
