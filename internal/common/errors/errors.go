// Package errors provides the typed failures returned by the booking
// interpreter and the helpers the transports use to report them.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode identifies the kind of an interpretation failure.
type ErrorCode string

const (
	ErrCodeModelUnavailable     ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodeMalformedResponse    ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeUnparseableTimestamp ErrorCode = "UNPARSEABLE_TIMESTAMP"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeEmptyRequest         ErrorCode = "EMPTY_REQUEST"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the single failure value handed to callers. Cause is kept
// for logging and errors.Is/As but never rendered to end users.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any *StandardError carrying the same code, so sentinel-style
// comparisons such as errors.Is(err, ErrMalformedResponse) work.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrModelUnavailable     = &StandardError{Code: ErrCodeModelUnavailable}
	ErrMalformedResponse    = &StandardError{Code: ErrCodeMalformedResponse}
	ErrUnparseableTimestamp = &StandardError{Code: ErrCodeUnparseableTimestamp}
	ErrValidationFailed     = &StandardError{Code: ErrCodeValidationFailed}
	ErrEmptyRequest         = &StandardError{Code: ErrCodeEmptyRequest}
)

// NewModelUnavailableError wraps a transport, auth or quota failure of the
// completion endpoint.
func NewModelUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelUnavailable,
		Message:   "Language model completion failed",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMalformedResponseError reports completion text that is not a JSON object.
func NewMalformedResponseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Model response is not a JSON object",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnparseableTimestampError reports a date/time no strategy could resolve.
func NewUnparseableTimestampError(value string) *StandardError {
	details := "date_time missing"
	if value != "" {
		details = fmt.Sprintf("date_time: %q", value)
	}
	return &StandardError{
		Code:      ErrCodeUnparseableTimestamp,
		Message:   "Could not resolve booking date and time",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports a record rejected by schema construction.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Booking record failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewEmptyRequestError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyRequest,
		Message:   "Booking request text is empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// CodeOf returns the code of the first StandardError in err's chain, or
// ErrCodeInternal for foreign errors. A nil error has no code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// Normalize guarantees a *StandardError for any non-nil error.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// GetRetryCount returns how many times a job worker should retry a failure.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeModelUnavailable:
		return 3
	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for log dashboards.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MODEL"):
		return "AI"
	case strings.Contains(codeStr, "RESPONSE"), strings.Contains(codeStr, "TIMESTAMP"):
		return "PARSING"
	case strings.Contains(codeStr, "VALIDATION"), strings.Contains(codeStr, "EMPTY"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
