package provider

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstrumentedTransport(t *testing.T) {
	req := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewHTTPClient("openai", logger)

	resp, err := client.Get(srv.URL + "/ok")
	req.NoError(err)
	_ = resp.Body.Close()
	req.Contains(buf.String(), `msg="provider request sent"`)
	req.Contains(buf.String(), `msg="provider request completed"`)
	req.Contains(buf.String(), "provider=openai")
	req.Contains(buf.String(), "status=200")

	buf.Reset()
	resp, err = client.Get(srv.URL + "/fail")
	req.NoError(err)
	_ = resp.Body.Close()
	req.Contains(buf.String(), `msg="provider request failed"`)
	req.Contains(buf.String(), "status=429")
}

func TestInstrumentedTransport_NetworkError(t *testing.T) {
	req := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var buf bytes.Buffer
	client := NewHTTPClient("stripe", slog.New(slog.NewTextHandler(&buf, nil)))

	_, err := client.Get(url)
	req.Error(err)
	req.Contains(buf.String(), `msg="provider request failed"`)
	req.Contains(buf.String(), "provider=stripe")
}
