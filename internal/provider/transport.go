package provider

import (
	"log/slog"
	"net/http"
	"time"
)

// InstrumentedTransport logs every outbound request made to a provider.
type InstrumentedTransport struct {
	Base     http.RoundTripper
	Provider string
	Logger   *slog.Logger
}

// RoundTrip logs the outbound request and its result.
func (t *InstrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	ctx := req.Context()
	attrs := []any{
		"provider", t.Provider,
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
	}
	t.Logger.DebugContext(ctx, "provider request sent", attrs...)

	start := time.Now()
	resp, err := base.RoundTrip(req)
	attrs = append(attrs, "latency_ms", time.Since(start).Milliseconds())
	if err != nil {
		t.Logger.WarnContext(ctx, "provider request failed", append(attrs, "error", err)...)
		return nil, err
	}

	attrs = append(attrs, "status", resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		t.Logger.WarnContext(ctx, "provider request failed", attrs...)
	} else {
		t.Logger.DebugContext(ctx, "provider request completed", attrs...)
	}
	return resp, nil
}

// NewHTTPClient returns a client whose requests are logged under the given
// provider name. Deadlines come from the request context.
func NewHTTPClient(provider string, logger *slog.Logger) *http.Client {
	return &http.Client{
		Transport: &InstrumentedTransport{
			Base:     http.DefaultTransport,
			Provider: provider,
			Logger:   logger,
		},
	}
}
