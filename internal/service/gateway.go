package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitormoschetta/secretai-gateway/internal/apperr"
	"github.com/vitormoschetta/secretai-gateway/internal/metrics"
	"github.com/vitormoschetta/secretai-gateway/internal/model"
	"github.com/vitormoschetta/secretai-gateway/internal/provider"
)

const (
	OpChat     = "chat"
	OpCheckout = "checkout"
)

// CheckoutConfig is the fixed line item and redirect URLs of every checkout
// session.
type CheckoutConfig struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Gateway forwards validated requests to the external providers. It holds no
// per-request state and is safe for concurrent use.
type Gateway struct {
	completer   provider.Completer
	checkout    provider.CheckoutCreator
	checkoutCfg CheckoutConfig
	timeout     time.Duration
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewGateway wires the providers into a Gateway. A zero timeout leaves
// provider calls bounded only by the caller's context.
func NewGateway(
	completer provider.Completer,
	checkout provider.CheckoutCreator,
	checkoutCfg CheckoutConfig,
	timeout time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		completer:   completer,
		checkout:    checkout,
		checkoutCfg: checkoutCfg,
		timeout:     timeout,
		metrics:     m,
		logger:      logger,
	}
}

// SubmitChat sends prompt as a single user message and returns the first
// choice's content.
func (g *Gateway) SubmitChat(ctx context.Context, prompt string) (string, error) {
	if err := (model.ChatRequest{Prompt: prompt}).Validate(); err != nil {
		return "", err
	}

	var reply string
	err := g.call(ctx, g.completer.Name(), OpChat, func(ctx context.Context) error {
		var err error
		reply, err = g.completer.Complete(ctx, prompt)
		return err
	}, "prompt_length", len(prompt))
	if err != nil {
		return "", err
	}
	return reply, nil
}

// CreateCheckoutSession requests a subscription checkout with exactly one
// line item and returns the provider's session id unmodified.
func (g *Gateway) CreateCheckoutSession(ctx context.Context) (string, error) {
	req := provider.CheckoutRequest{
		PriceID:    g.checkoutCfg.PriceID,
		Quantity:   1,
		SuccessURL: g.checkoutCfg.SuccessURL,
		CancelURL:  g.checkoutCfg.CancelURL,
	}

	var sessionID string
	err := g.call(ctx, g.checkout.Name(), OpCheckout, func(ctx context.Context) error {
		var err error
		sessionID, err = g.checkout.CreateCheckoutSession(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// call runs one bounded provider call, records it and converts failures to
// *apperr.ProviderError.
func (g *Gateway) call(ctx context.Context, providerName, op string, fn func(ctx context.Context) error, attrs ...any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	logger := g.logger.With("provider", providerName, "operation", op)
	logger.InfoContext(ctx, "provider call issued", attrs...)

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	g.metrics.ObserveProviderCall(providerName, op, elapsed, err)

	if err != nil {
		logger.ErrorContext(ctx, "provider call failed", "error", err, "latency_ms", elapsed.Milliseconds())
		return &apperr.ProviderError{Provider: providerName, Op: op, Err: err}
	}

	logger.DebugContext(ctx, "provider call completed", "latency_ms", elapsed.Milliseconds())
	return nil
}
