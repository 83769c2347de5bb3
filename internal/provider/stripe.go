package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeConfig configures the Stripe checkout adapter. URL is only set in
// tests.
type StripeConfig struct {
	SecretKey  string
	URL        string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// StripeCheckout creates subscription checkout sessions through a
// per-instance Stripe client.
type StripeCheckout struct {
	api *client.API
}

// NewStripeCheckout creates a CheckoutCreator with its own Stripe client.
func NewStripeCheckout(cfg StripeConfig) *StripeCheckout {
	backendConfig := func() *stripe.BackendConfig {
		bc := &stripe.BackendConfig{
			HTTPClient:        cfg.HTTPClient,
			MaxNetworkRetries: stripe.Int64(0),
		}
		if cfg.Logger != nil {
			bc.LeveledLogger = &stripeLogger{logger: cfg.Logger}
		}
		if cfg.URL != "" {
			bc.URL = stripe.String(cfg.URL)
		}
		return bc
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig()),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig()),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig()),
	})

	return &StripeCheckout{api: api}
}

// Name identifies the provider in logs and metrics.
func (s *StripeCheckout) Name() string {
	return "stripe"
}

// CreateCheckoutSession creates a subscription session and returns its id.
func (s *StripeCheckout) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(req.Quantity),
			},
		},
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if sess.ID == "" {
		return "", ErrEmptyResponse
	}
	return sess.ID, nil
}

// disabledCheckout stands in for Stripe when no credentials are configured.
type disabledCheckout struct{}

func (disabledCheckout) Name() string {
	return "stripe"
}

func (disabledCheckout) CreateCheckoutSession(context.Context, CheckoutRequest) (string, error) {
	return "", ErrPaymentNotConfigured
}

// stripeLogger routes stripe-go's leveled logs to slog.
type stripeLogger struct {
	logger *slog.Logger
}

func (l *stripeLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "provider", "stripe")
}

func (l *stripeLogger) Infof(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "provider", "stripe")
}

func (l *stripeLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), "provider", "stripe")
}

func (l *stripeLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "provider", "stripe")
}
