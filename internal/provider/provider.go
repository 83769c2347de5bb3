//go:generate go run go.uber.org/mock/mockgen -source=provider.go -destination=../mocks/mock_provider.go -package=mocks

// Package provider adapts the external Completion and Payment providers to
// the small interfaces the gateway depends on.
package provider

import (
	"context"
	"errors"
)

var (
	// ErrEmptyResponse is returned when a provider answers without any
	// usable choice.
	ErrEmptyResponse = errors.New("empty response")
	// ErrPaymentNotConfigured is returned by the checkout creator used when
	// no payment credentials are configured.
	ErrPaymentNotConfigured = errors.New("payment provider not configured")
	ErrUnknownProvider      = errors.New("unknown completion provider")
)

// Completer sends a single user prompt to a completion provider and returns
// the content of the first choice.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// CheckoutRequest describes the single line item of a subscription checkout.
type CheckoutRequest struct {
	PriceID    string
	Quantity   int64
	SuccessURL string
	CancelURL  string
}

// CheckoutCreator issues subscription checkout sessions.
type CheckoutCreator interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
}
