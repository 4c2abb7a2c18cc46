package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/ctxlog"

	controller "github.com/m-mizutani/herald/pkg/controller/http"
)

func TestLoggingMiddleware_DeliveryID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	handler := controller.LoggingMiddleware(ctx)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("webhook delivery is logged with its ID", func(t *testing.T) {
		buf.Reset()

		req := httptest.NewRequest(http.MethodPost, "/hooks/github", nil)
		req.Header.Set("X-GitHub-Delivery", "delivery-abc")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !strings.Contains(buf.String(), "delivery_id=delivery-abc") {
			t.Errorf("log output missing delivery ID: %s", buf.String())
		}
	})

	t.Run("other requests omit the delivery ID", func(t *testing.T) {
		buf.Reset()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if strings.Contains(buf.String(), "delivery_id") {
			t.Errorf("log output should not carry a delivery ID: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "path=/health") {
			t.Errorf("log output missing request path: %s", buf.String())
		}
	})
}
