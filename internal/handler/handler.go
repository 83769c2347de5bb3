package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vitormoschetta/secretai-gateway/internal/apperr"
	"github.com/vitormoschetta/secretai-gateway/internal/model"
)

const maxBodyBytes = 1 << 20

const (
	chatFailedMessage     = "Error processing chat request"
	checkoutFailedMessage = "Error creating checkout session"
	invalidJSONMessage    = "Invalid JSON format"
	invalidFormMessage    = "Invalid form data"
)

// Gateway is the service the HTTP handlers delegate to.
type Gateway interface {
	SubmitChat(ctx context.Context, prompt string) (string, error)
	CreateCheckoutSession(ctx context.Context) (string, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	gateway            Gateway
	logger             *slog.Logger
	exposeErrorDetails bool
}

// NewHandler creates the HTTP handlers over gw.
func NewHandler(gw Gateway, logger *slog.Logger, exposeErrorDetails bool) *Handler {
	return &Handler{
		gateway:            gw,
		logger:             logger,
		exposeErrorDetails: exposeErrorDetails,
	}
}

// HandleInfo describes the service and its endpoints.
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service": "SecretAI Gateway",
		"endpoints": map[string]interface{}{
			"chat": map[string]interface{}{
				"path":        "/chat",
				"method":      "POST",
				"description": "Send a prompt to the completion provider",
				"example": map[string]string{
					"prompt": "Hello, how can you help me?",
				},
			},
			"checkout": map[string]interface{}{
				"path":        "/create-checkout-session",
				"method":      "POST",
				"description": "Create a subscription checkout session",
			},
			"realtime": map[string]interface{}{
				"path":        "/ws",
				"method":      "GET",
				"description": "Websocket connection channel",
			},
			"mcp": map[string]interface{}{
				"path":        "/mcp",
				"description": "MCP streamable HTTP endpoint exposing the chat tool",
			},
			"health": map[string]interface{}{
				"path":   "/health",
				"method": "GET",
			},
			"metrics": map[string]interface{}{
				"path":   "/metrics",
				"method": "GET",
			},
		},
	}

	h.writeJSON(w, r, http.StatusOK, response)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

// HandleChat forwards the prompt and returns {"reply": ...}. The prompt is
// read from a JSON body, or from the form when the body is urlencoded.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", middleware.GetReqID(ctx))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req model.ChatRequest
	if isFormEncoded(r) {
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "error parsing form", "error", err)
			h.writeJSON(w, r, http.StatusBadRequest, model.ErrorResponse{Error: invalidFormMessage})
			return
		}
		req.Prompt = r.PostForm.Get("prompt")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "error parsing JSON", "error", err)
		h.writeJSON(w, r, http.StatusBadRequest, model.ErrorResponse{Error: invalidJSONMessage})
		return
	}

	reply, err := h.gateway.SubmitChat(ctx, req.Prompt)
	if err != nil {
		h.writeChatError(w, r, logger, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, model.ChatResponse{Reply: reply})
}

func isFormEncoded(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

func (h *Handler) writeChatError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var vErr *apperr.ValidationError
	if errors.As(err, &vErr) {
		h.writeJSON(w, r, apperr.StatusCode(err), model.ErrorResponse{Error: vErr.Message})
		return
	}

	logger.ErrorContext(r.Context(), "chat request failed", "error", err)

	resp := model.ErrorResponse{Error: chatFailedMessage}
	if h.exposeErrorDetails {
		var pErr *apperr.ProviderError
		if errors.As(err, &pErr) {
			resp.Details = pErr.Err.Error()
		} else {
			resp.Details = err.Error()
		}
	}
	h.writeJSON(w, r, apperr.StatusCode(err), resp)
}

// HandleCreateCheckoutSession returns {"sessionId": ...}. Failures are
// reported as plain text.
func (h *Handler) HandleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := h.gateway.CreateCheckoutSession(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "checkout session failed",
			"request_id", middleware.GetReqID(ctx),
			"error", err,
		)
		http.Error(w, checkoutFailedMessage, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, http.StatusOK, model.CheckoutResponse{SessionID: sessionID})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}
