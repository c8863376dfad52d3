package provider

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("missing API key")

// ErrorCode classifies a provider failure.
type ErrorCode string

const (
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeContextLength  ErrorCode = "context_length_exceeded"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
)

// ProviderError is a classified failure of a model request.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	// Retryable failures may succeed when the same request is sent again.
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e.Underlying == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
}

func (e *ProviderError) Unwrap() error { return e.Underlying }

// IsRetryable reports whether err is a retryable ProviderError.
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}

// CodeOf returns the code of a ProviderError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
