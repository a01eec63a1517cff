package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrderData() *OrderData {
	return &OrderData{
		OrderID:       "01J0TESTORDER",
		SessionID:     "cs_test_1",
		CustomerName:  "Test Buyer",
		CustomerEmail: "buyer@example.com",
		OrderDate:     "June 26, 2026 at 3:04 PM",
		Items: []OrderItem{
			{ProductName: "Phuture Times - Black (M)", Quantity: 1, PriceCents: 2400, TotalCents: 2400},
			{ProductName: "French Elephant - Black (L)", Quantity: 2, PriceCents: 2400, TotalCents: 4800},
		},
		SubtotalCents: 7200,
		ShippingCents: 500,
		TaxCents:      0,
		TotalCents:    7700,
		ShippingAddress: Address{
			Name:       "Test Buyer",
			Line1:      "123 Main St",
			City:       "Madison",
			State:      "WI",
			PostalCode: "53703",
			Country:    "US",
		},
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	html, err := RenderOrderConfirmation(sampleOrderData())
	require.NoError(t, err)

	assert.Contains(t, html, "Thank you for your order from Weird Roach!")
	assert.Contains(t, html, "Phuture Times - Black (M)")
	assert.Contains(t, html, "French Elephant - Black (L)")
	assert.Contains(t, html, "$72.00")
	assert.Contains(t, html, "$5.00")
	assert.Contains(t, html, "$77.00")
	assert.Contains(t, html, "123 Main St")
	assert.Contains(t, html, "Madison, WI 53703")
}

func TestRenderOrderConfirmationEscapesHTML(t *testing.T) {
	data := sampleOrderData()
	data.Items[0].ProductName = `<script>alert("x")</script>`

	html, err := RenderOrderConfirmation(data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderOrderConfirmationText(t *testing.T) {
	text := renderOrderConfirmationText(sampleOrderData())
	assert.Contains(t, text, "1x Phuture Times - Black (M) - $24.00")
	assert.Contains(t, text, "Total: $77.00")
	assert.Contains(t, text, "123 Main St")
}

func TestRenderOrderFailure(t *testing.T) {
	html, err := RenderOrderFailure(&FailureData{
		SessionID:     "cs_test_broken",
		CustomerEmail: "buyer@example.com",
		TotalCents:    2900,
		Error:         "no printful variant mapping for item \"Mystery Shirt\"",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "cs_test_broken")
	assert.Contains(t, html, "buyer@example.com")
	assert.Contains(t, html, "$29.00")
	assert.Contains(t, html, "Mystery Shirt")
}

func TestRenderShippingNotification(t *testing.T) {
	data := &ShipmentData{
		OrderID:        9001,
		TrackingNumber: "9400100000000000000000",
		Carrier:        "USPS",
		TrackingURL:    "https://tools.usps.com/go/TrackConfirmAction?tLabels=9400100000000000000000",
		RecipientEmail: "buyer@example.com",
		Recipient: Address{
			Name: "Test Buyer", Line1: "123 Main St",
			City: "Madison", State: "WI", PostalCode: "53703", Country: "US",
		},
		Items: []ShipmentItem{
			{Quantity: 1, Name: "Phuture Times - Black (M)", RetailPrice: "24.00"},
		},
		Total: "29.00",
	}

	html, err := RenderShippingNotification(data)
	require.NoError(t, err)
	assert.Contains(t, html, "Your Weird Roach Order Has Shipped!")
	assert.Contains(t, html, "9400100000000000000000")
	assert.Contains(t, html, "USPS")
	assert.Contains(t, html, "Typically 5-7 business days")
	assert.Contains(t, html, "$29.00")

	text := renderShippingNotificationText(data)
	assert.Contains(t, text, "Order ID: 9001")
	assert.Contains(t, text, "1x Phuture Times - Black (M) - $24.00")
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$12.34", FormatCents(1234))
	assert.Equal(t, "$0.05", FormatCents(5))
	assert.Equal(t, "$0.00", FormatCents(0))
}
