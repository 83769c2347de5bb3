package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	req := require.New(t)

	req.Equal(http.StatusBadRequest, StatusCode(&ValidationError{Field: "prompt", Message: "Prompt is required."}))
	req.Equal(http.StatusBadRequest, StatusCode(fmt.Errorf("decode: %w", &ValidationError{Message: "bad"})))
	req.Equal(http.StatusInternalServerError, StatusCode(&ProviderError{Provider: "openai", Op: "chat", Err: errors.New("boom")}))
	req.Equal(http.StatusInternalServerError, StatusCode(errors.New("unknown")))
}

func TestProviderError_Unwrap(t *testing.T) {
	req := require.New(t)

	err := &ProviderError{Provider: "openai", Op: "chat", Err: fmt.Errorf("call: %w", context.DeadlineExceeded)}

	req.ErrorIs(err, context.DeadlineExceeded)
	req.Equal("openai chat: call: context deadline exceeded", err.Error())
}

func TestConfigurationError_Error(t *testing.T) {
	req := require.New(t)

	req.Equal("configuration error: OPENAI_API_KEY is required", (&ConfigurationError{Field: "OPENAI_API_KEY", Reason: "is required"}).Error())
	req.Equal("configuration error: cannot read environment", (&ConfigurationError{Reason: "cannot read environment"}).Error())
}
