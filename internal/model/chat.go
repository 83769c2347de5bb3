package model

import (
	"github.com/go-playground/validator/v10"

	"github.com/vitormoschetta/secretai-gateway/internal/apperr"
)

// PromptRequiredMessage is returned to callers that omit the prompt.
const PromptRequiredMessage = "Prompt is required."

var validate = validator.New()

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// Validate rejects an absent or empty prompt.
func (r ChatRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Field: "prompt", Message: PromptRequiredMessage}
	}
	return nil
}

// ChatResponse carries the first completion choice. The field name is
// always "reply".
type ChatResponse struct {
	Reply string `json:"reply"`
}

// CheckoutResponse is the body of a successful POST /create-checkout-session.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
}

// ErrorResponse is the JSON failure body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
