package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitormoschetta/secretai-gateway/internal/apperr"
)

func TestChatRequest_Validate(t *testing.T) {
	req := require.New(t)

	req.NoError(ChatRequest{Prompt: "hello"}.Validate())
	req.NoError(ChatRequest{Prompt: " "}.Validate())

	err := ChatRequest{}.Validate()
	var vErr *apperr.ValidationError
	req.ErrorAs(err, &vErr)
	req.Equal("prompt", vErr.Field)
	req.Equal("Prompt is required.", vErr.Error())
}
