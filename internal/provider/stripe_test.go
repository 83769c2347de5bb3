package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/vitormoschetta/secretai-gateway/internal/logging"
)

var testCheckoutRequest = CheckoutRequest{
	PriceID:    "price_123",
	Quantity:   1,
	SuccessURL: "https://example.com/success",
	CancelURL:  "https://example.com/cancel",
}

func newStripeTestServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())

		require.Equal(t, "subscription", r.PostForm.Get("mode"))
		require.Equal(t, "card", r.PostForm.Get("payment_method_types[0]"))
		require.Equal(t, "https://example.com/success", r.PostForm.Get("success_url"))
		require.Equal(t, "https://example.com/cancel", r.PostForm.Get("cancel_url"))
		require.Equal(t, "price_123", r.PostForm.Get("line_items[0][price]"))
		require.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		require.Empty(t, r.PostForm.Get("line_items[1][price]"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func newTestStripeCheckout(srv *httptest.Server) *StripeCheckout {
	return NewStripeCheckout(StripeConfig{
		SecretKey: "sk_test_123",
		URL:       srv.URL,
		Logger:    logging.Discard(),
	})
}

func TestStripeCheckout_CreateCheckoutSession(t *testing.T) {
	req := require.New(t)
	srv, calls := newStripeTestServer(t, http.StatusOK, `{"id":"sess_123","object":"checkout.session","mode":"subscription"}`)

	id, err := newTestStripeCheckout(srv).CreateCheckoutSession(context.Background(), testCheckoutRequest)

	req.NoError(err)
	req.Equal("sess_123", id)
	req.Equal(int32(1), calls.Load())
}

func TestStripeCheckout_UpstreamError(t *testing.T) {
	req := require.New(t)
	srv, calls := newStripeTestServer(t, http.StatusBadRequest,
		`{"error":{"type":"invalid_request_error","message":"No such price: 'price_123'"}}`)

	_, err := newTestStripeCheckout(srv).CreateCheckoutSession(context.Background(), testCheckoutRequest)

	var stripeErr *stripe.Error
	req.ErrorAs(err, &stripeErr)
	req.Equal(http.StatusBadRequest, stripeErr.HTTPStatusCode)
	req.Contains(err.Error(), "No such price")
	req.Equal(int32(1), calls.Load())
}

func TestStripeCheckout_NoRetryOnServerError(t *testing.T) {
	req := require.New(t)
	srv, calls := newStripeTestServer(t, http.StatusInternalServerError,
		`{"error":{"type":"api_error","message":"internal"}}`)

	_, err := newTestStripeCheckout(srv).CreateCheckoutSession(context.Background(), testCheckoutRequest)

	req.Error(err)
	req.Equal(int32(1), calls.Load())
}

func TestStripeCheckout_EmptySessionID(t *testing.T) {
	req := require.New(t)
	srv, _ := newStripeTestServer(t, http.StatusOK, `{"object":"checkout.session"}`)

	_, err := newTestStripeCheckout(srv).CreateCheckoutSession(context.Background(), testCheckoutRequest)

	req.ErrorIs(err, ErrEmptyResponse)
}

func TestDisabledCheckout(t *testing.T) {
	req := require.New(t)

	_, err := disabledCheckout{}.CreateCheckoutSession(context.Background(), testCheckoutRequest)

	req.ErrorIs(err, ErrPaymentNotConfigured)
}
