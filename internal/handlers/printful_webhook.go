package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weirdroach/weird-roach-website/internal/email"
	"github.com/weirdroach/weird-roach-website/internal/printful"
)

// ShippingNotifier sends the customer-facing shipped email.
type ShippingNotifier interface {
	SendShippingNotification(ctx context.Context, data *email.ShipmentData) error
}

// PrintfulWebhookHandler receives fulfillment events from Printful. Only
// package_shipped is acted on; everything else is acknowledged and logged.
type PrintfulWebhookHandler struct {
	mailer ShippingNotifier
}

func NewPrintfulWebhookHandler(mailer ShippingNotifier) *PrintfulWebhookHandler {
	return &PrintfulWebhookHandler{mailer: mailer}
}

// printfulEvent is Printful's webhook envelope.
type printfulEvent struct {
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Retries int64  `json:"retries"`
	Data    struct {
		Shipment *shipment             `json:"shipment"`
		Order    *printful.OrderResult `json:"order"`
	} `json:"data"`
}

type shipment struct {
	ID             int64  `json:"id"`
	Carrier        string `json:"carrier"`
	Service        string `json:"service"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
	ShipDate       string `json:"ship_date"`
}

func (h *PrintfulWebhookHandler) HandleWebhook(c echo.Context) error {
	var event printfulEvent
	if err := c.Bind(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid webhook payload")
	}

	slog.Info("printful webhook received", "type", event.Type, "retries", event.Retries)

	if event.Type != "package_shipped" {
		return c.JSON(http.StatusOK, map[string]string{"received": "true"})
	}

	order := event.Data.Order
	ship := event.Data.Shipment
	if order == nil || ship == nil {
		slog.Error("package_shipped event missing order or shipment data")
		return echo.NewHTTPError(http.StatusBadRequest, "Missing order or shipment data")
	}
	if order.Recipient.Email == "" {
		slog.Warn("shipped order has no recipient email, skipping notification",
			"printful_order_id", order.ID)
		return c.JSON(http.StatusOK, map[string]string{"received": "true"})
	}

	items := make([]email.ShipmentItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, email.ShipmentItem{
			Quantity:    item.Quantity,
			Name:        item.Name,
			RetailPrice: item.RetailPrice,
		})
	}

	data := &email.ShipmentData{
		OrderID:           order.ID,
		TrackingNumber:    ship.TrackingNumber,
		Carrier:           ship.Carrier,
		TrackingURL:       ship.TrackingURL,
		EstimatedDelivery: order.EstimatedDeliveryDate,
		RecipientEmail:    order.Recipient.Email,
		Recipient: email.Address{
			Name:       order.Recipient.Name,
			Line1:      order.Recipient.Address1,
			Line2:      order.Recipient.Address2,
			City:       order.Recipient.City,
			State:      order.Recipient.StateCode,
			PostalCode: order.Recipient.Zip,
			Country:    order.Recipient.CountryCode,
		},
		Items: items,
		Total: order.RetailCosts.Total,
	}

	if err := h.mailer.SendShippingNotification(c.Request().Context(), data); err != nil {
		slog.Error("failed to send shipping notification",
			"error", err, "printful_order_id", order.ID)
		// Printful retries on non-2xx; a mail failure is worth one more try.
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send notification")
	}

	slog.Info("shipping notification sent",
		"printful_order_id", order.ID, "tracking_number", ship.TrackingNumber)

	return c.JSON(http.StatusOK, map[string]string{"received": "true"})
}
