package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitormoschetta/secretai-gateway/internal/config"
	"github.com/vitormoschetta/secretai-gateway/internal/logging"
)

func TestNewCompleter(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	c, err := NewCompleter(ctx, &config.Config{
		CompletionProvider: config.ProviderOpenAI,
		OpenAIAPIKey:       "sk-test",
		OpenAIModel:        "gpt-3.5-turbo",
	}, logging.Discard())
	req.NoError(err)
	req.Equal("openai", c.Name())

	c, err = NewCompleter(ctx, &config.Config{
		CompletionProvider: config.ProviderGemini,
		GoogleAPIKey:       "g-test",
		GeminiModel:        "gemini-2.5-flash",
	}, logging.Discard())
	req.NoError(err)
	req.Equal("gemini", c.Name())

	_, err = NewCompleter(ctx, &config.Config{CompletionProvider: "llama"}, logging.Discard())
	req.ErrorIs(err, ErrUnknownProvider)
}

func TestNewCheckoutCreator(t *testing.T) {
	req := require.New(t)

	cc := NewCheckoutCreator(&config.Config{}, logging.Discard())
	req.IsType(disabledCheckout{}, cc)

	cc = NewCheckoutCreator(&config.Config{StripeSecretKey: "sk_test", StripePriceID: "price_123"}, logging.Discard())
	req.IsType(&StripeCheckout{}, cc)
	req.Equal("stripe", cc.Name())
}
