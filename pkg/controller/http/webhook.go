package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	ghcontroller "github.com/m-mizutani/herald/pkg/controller/github"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

// WebhookHandler handles GitHub webhooks
type WebhookHandler struct {
	secret    string
	triggerUC interfaces.TriggerUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, triggerUC interfaces.TriggerUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		triggerUC: triggerUC,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature
	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	// Parse event using GitHub SDK
	eventType := r.Header.Get("X-GitHub-Event")
	payload, err := gh.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	// Map payload to a trigger event
	event := ghcontroller.MapEvent(payload, r.Header.Get("X-GitHub-Delivery"), body)
	if event == nil {
		logger.Info("Ignoring delivery without trigger semantics", "event_type", eventType)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	// Evaluate and dispatch via UseCase
	decision, err := h.triggerUC.HandleEvent(ctx, event)
	if err != nil {
		logger.Error("Failed to handle trigger event", "error", err)
		if errors.Is(err, types.ErrInvalidEventKind) || errors.Is(err, types.ErrInvalidBranch) {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "accepted",
		"mode":          string(decision.Mode),
		"deploy_branch": decision.DeployBranch,
	})
}

// verifySignature verifies the webhook signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	// Remove "sha256=" prefix if present
	signature = strings.TrimPrefix(signature, "sha256=")

	// Calculate HMAC-SHA256
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(context.Background()).Error("Failed to encode response", "error", err)
	}
}
