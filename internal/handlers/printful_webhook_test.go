package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weirdroach/weird-roach-website/internal/email"
)

type stubNotifier struct {
	sent []*email.ShipmentData
	err  error
}

func (s *stubNotifier) SendShippingNotification(ctx context.Context, data *email.ShipmentData) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, data)
	return nil
}

const packageShippedPayload = `{
	"type": "package_shipped",
	"created": 1719400000,
	"retries": 0,
	"data": {
		"shipment": {
			"id": 11,
			"carrier": "USPS",
			"service": "USPS First Class",
			"tracking_number": "9400100000000000000000",
			"tracking_url": "https://tools.usps.com/go/TrackConfirmAction?tLabels=9400100000000000000000",
			"ship_date": "2026-06-26"
		},
		"order": {
			"id": 9001,
			"status": "fulfilled",
			"recipient": {
				"name": "Test Buyer",
				"address1": "123 Main St",
				"city": "Madison",
				"state_code": "WI",
				"country_code": "US",
				"zip": "53703",
				"email": "buyer@example.com"
			},
			"items": [
				{"sync_variant_id": 14903, "quantity": 1, "retail_price": "24.00", "name": "Phuture Times - Black (M)"}
			],
			"retail_costs": {"subtotal": "24.00", "shipping": "5.00", "tax": "0.00", "total": "29.00"}
		}
	}
}`

func postPrintfulEvent(h *PrintfulWebhookHandler, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/printful/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return rr, h.HandleWebhook(e.NewContext(req, rr))
}

func TestPrintfulWebhookSendsShippingNotification(t *testing.T) {
	notifier := &stubNotifier{}
	h := NewPrintfulWebhookHandler(notifier)

	rr, err := postPrintfulEvent(h, packageShippedPayload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, notifier.sent, 1)
	sent := notifier.sent[0]
	assert.Equal(t, int64(9001), sent.OrderID)
	assert.Equal(t, "buyer@example.com", sent.RecipientEmail)
	assert.Equal(t, "9400100000000000000000", sent.TrackingNumber)
	assert.Equal(t, "USPS", sent.Carrier)
	assert.Equal(t, "29.00", sent.Total)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, "Phuture Times - Black (M)", sent.Items[0].Name)
}

func TestPrintfulWebhookIgnoresOtherEvents(t *testing.T) {
	notifier := &stubNotifier{}
	h := NewPrintfulWebhookHandler(notifier)

	rr, err := postPrintfulEvent(h, `{"type": "order_created", "data": {}}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, notifier.sent)
}

func TestPrintfulWebhookRejectsIncompleteShipment(t *testing.T) {
	h := NewPrintfulWebhookHandler(&stubNotifier{})

	_, err := postPrintfulEvent(h, `{"type": "package_shipped", "data": {"order": null, "shipment": null}}`)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestPrintfulWebhookSkipsOrderWithoutEmail(t *testing.T) {
	notifier := &stubNotifier{}
	h := NewPrintfulWebhookHandler(notifier)

	payload := strings.Replace(packageShippedPayload, `"email": "buyer@example.com"`, `"email": ""`, 1)
	rr, err := postPrintfulEvent(h, payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, notifier.sent)
}

func TestPrintfulWebhookReportsMailFailure(t *testing.T) {
	h := NewPrintfulWebhookHandler(&stubNotifier{err: errors.New("smtp unavailable")})

	_, err := postPrintfulEvent(h, packageShippedPayload)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
