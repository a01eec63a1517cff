package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	stripego "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/weirdroach/weird-roach-website/internal/reconciler"
)

// WebhookHandler receives Stripe event deliveries. Signature verification is
// mandatory; the secret is validated at startup so there is no unverified
// path to order creation.
type WebhookHandler struct {
	reconciler    *reconciler.Reconciler
	webhookSecret string
}

func NewWebhookHandler(rec *reconciler.Reconciler, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		reconciler:    rec,
		webhookSecret: webhookSecret,
	}
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	signatureHeader := c.Request().Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, signatureHeader, h.webhookSecret)
	if err != nil {
		slog.Error("webhook signature verification failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid signature")
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			slog.Error("error parsing checkout session", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Error parsing webhook JSON")
		}

		if err := h.reconciler.Process(c.Request().Context(), session.ID); err != nil {
			if reconciler.IsPermanent(err) {
				// Redelivering the same session cannot succeed; acknowledge
				// so Stripe stops retrying. The admin alert already went out.
				slog.Error("permanent reconciliation failure acknowledged",
					"error", err, "session_id", session.ID)
				return c.JSON(http.StatusOK, map[string]string{
					"received": "true",
					"status":   "failed",
					"error":    err.Error(),
				})
			}
			slog.Error("transient reconciliation failure, requesting redelivery",
				"error", err, "session_id", session.ID)
			return echo.NewHTTPError(http.StatusBadGateway, "Order processing failed, retry")
		}

	case "payment_intent.succeeded":
		slog.Info("payment intent succeeded", "event_id", event.ID)

	case "payment_intent.payment_failed":
		slog.Warn("payment intent failed", "event_id", event.ID)

	default:
		slog.Debug("unhandled webhook event type", "type", event.Type)
	}

	return c.JSON(http.StatusOK, map[string]string{"received": "true"})
}
