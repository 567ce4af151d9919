package service

import (
	"errors"
	"fmt"
)

// DomainError is an expected failure of a service operation
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeConflict        = "CONFLICT"
)

// IsInvalidArgument reports whether err is a domain error caused by bad input
func IsInvalidArgument(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == CodeInvalidArgument
}

var (
	// ErrInvalidArgument is returned when the target URL is empty after trimming
	ErrInvalidArgument = NewDomainError(CodeInvalidArgument, "targetUrl is required")
	// ErrConflict is returned when no free short code was found within the attempt bound
	ErrConflict = NewDomainError(CodeConflict, "could not allocate a unique short code")
	// ErrTargetTooLong is returned when the target URL does not fit the links table
	ErrTargetTooLong = NewDomainError(CodeInvalidArgument, fmt.Sprintf("targetUrl must be at most %d characters", MaxTargetURLLength))
)
