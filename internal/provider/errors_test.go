package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	cause := errors.New("503")
	err := fmt.Errorf("prompt: %w", &ProviderError{
		Code:       ErrorCodeUnavailable,
		Message:    "service unavailable",
		Underlying: cause,
		Retryable:  true,
	})

	assert.True(t, IsRetryable(err))
	assert.Equal(t, ErrorCodeUnavailable, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "service_unavailable: service unavailable (503)")
}

func TestProviderError_PlainErrors(t *testing.T) {
	err := errors.New("boom")

	assert.False(t, IsRetryable(err))
	assert.Empty(t, CodeOf(err))
	assert.Equal(t, "content_blocked: blocked", (&ProviderError{Code: ErrorCodeContentBlocked, Message: "blocked"}).Error())
}
