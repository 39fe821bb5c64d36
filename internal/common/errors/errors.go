// Package errors provides standardized error handling for the answer pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMalformedOutput      ErrorCode = "MALFORMED_OUTPUT"
	ErrCodeRecordRejected       ErrorCode = "RECORD_REJECTED"
	ErrCodeGeneratorTimeout     ErrorCode = "GENERATOR_TIMEOUT"
	ErrCodeGeneratorUnavailable ErrorCode = "GENERATOR_UNAVAILABLE"
	ErrCodeEmptyInput           ErrorCode = "EMPTY_INPUT"
	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeBankInsertFailed     ErrorCode = "BANK_INSERT_FAILED"
	ErrCodeDuplicateSlug        ErrorCode = "DUPLICATE_SLUG"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewMalformedOutputError marks a generator draft that failed schema or
// invariant validation. Retryable inside the repair loop only.
func NewMalformedOutputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedOutput,
		Message:   "Generator output failed validation",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordRejectedError marks a request whose repair budget was exhausted.
func NewRecordRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordRejected,
		Message:   "Record rejected after exhausting repair attempts",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeneratorTimeoutError creates a retryable generator timeout error.
func NewGeneratorTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGeneratorTimeout,
		Message:   "Generator call exceeded timeout",
		Details:   "call exceeded configured deadline",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeneratorUnavailableError creates a retryable transport error.
func NewGeneratorUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeneratorUnavailable,
		Message:   "Generator service unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyInputError creates a non-retryable error for blank input.
func NewEmptyInputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyInput,
		Message:   "Raw input contains no text",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Normalization cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBankInsertFailedError creates a retryable banking sink error.
func NewBankInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBankInsertFailed,
		Message:   "Failed to persist accepted record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateSlugError creates a non-retryable duplicate vault slug error.
func NewDuplicateSlugError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSlug,
		Message:   "Vault node already banked",
		Details:   fmt.Sprintf("slug: %s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended caller-side retry count per code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGeneratorUnavailable,
		ErrCodeCacheUnavailable,
		ErrCodeBankInsertFailed:
		return 3

	case ErrCodeGeneratorTimeout:
		return 1

	case ErrCodeMalformedOutput:
		return 2 // consumed by the repair loop, not the caller

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}
