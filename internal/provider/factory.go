package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vitormoschetta/secretai-gateway/internal/config"
)

// NewCompleter builds the completion adapter selected by COMPLETION_PROVIDER.
func NewCompleter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Completer, error) {
	switch cfg.CompletionProvider {
	case config.ProviderOpenAI:
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: float32(cfg.CompletionTemperature),
			MaxTokens:   cfg.CompletionMaxTokens,
			HTTPClient:  NewHTTPClient(config.ProviderOpenAI, logger),
		}), nil
	case config.ProviderGemini:
		return NewGeminiCompleter(ctx, GeminiConfig{
			APIKey:      cfg.GoogleAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: float32(cfg.CompletionTemperature),
			MaxTokens:   cfg.CompletionMaxTokens,
			HTTPClient:  NewHTTPClient(config.ProviderGemini, logger),
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.CompletionProvider)
	}
}

// NewCheckoutCreator returns the Stripe adapter, or a creator that always
// fails when Stripe is not configured.
func NewCheckoutCreator(cfg *config.Config, logger *slog.Logger) CheckoutCreator {
	if !cfg.CheckoutEnabled() {
		logger.Warn("STRIPE_SECRET_KEY or STRIPE_PRICE_ID not set, checkout sessions will fail")
		return disabledCheckout{}
	}
	return NewStripeCheckout(StripeConfig{
		SecretKey:  cfg.StripeSecretKey,
		HTTPClient: NewHTTPClient("stripe", logger),
		Logger:     logger,
	})
}
