package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLineItems(t *testing.T) {
	items, err := buildLineItems([]CartItem{
		{Name: "Phuture Times - Black (M)", Price: 24.00, Quantity: 1},
		{Name: "French Elephant - Black (L)", Price: 19.999, Quantity: 2, Image: "https://cdn.example.com/fe.png"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(2400), *items[0].PriceData.UnitAmount)
	assert.Equal(t, "usd", *items[0].PriceData.Currency)
	assert.Equal(t, int64(1), *items[0].Quantity)
	assert.Nil(t, items[0].PriceData.ProductData.Images)

	// 19.999 rounds to 2000, not 1999.
	assert.Equal(t, int64(2000), *items[1].PriceData.UnitAmount)
	assert.Equal(t, int64(2), *items[1].Quantity)
	require.Len(t, items[1].PriceData.ProductData.Images, 1)
	assert.Equal(t, "https://cdn.example.com/fe.png", *items[1].PriceData.ProductData.Images[0])
}

func TestBuildLineItemsCarriesVariantMetadata(t *testing.T) {
	items, err := buildLineItems([]CartItem{
		{Name: "Moth Tee", Price: 24, Quantity: 1, Color: "Black", Size: "M", VariantID: "14905"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	product := items[0].PriceData.ProductData
	assert.Equal(t, "Black / M", *product.Description)
	assert.Equal(t, "14905", product.Metadata["printful_variant_id"])
}

func TestBuildLineItemsRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		item CartItem
	}{
		{"missing name", CartItem{Price: 10, Quantity: 1}},
		{"zero price", CartItem{Name: "Free Shirt", Price: 0, Quantity: 1}},
		{"negative price", CartItem{Name: "Refund Shirt", Price: -5, Quantity: 1}},
		{"zero quantity", CartItem{Name: "Ghost Shirt", Price: 10, Quantity: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildLineItems([]CartItem{tt.item})
			assert.Error(t, err)
		})
	}
}

func TestCreateCheckoutSessionRejectsEmptyCart(t *testing.T) {
	h := NewCheckoutHandler(nil, "https://weirdroach.com", 500, []string{"US", "CA"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"items":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()

	err := h.CreateCheckoutSession(e.NewContext(req, rr))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateCheckoutSessionRejectsMalformedBody(t *testing.T) {
	h := NewCheckoutHandler(nil, "https://weirdroach.com", 500, []string{"US", "CA"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"items": "nope"`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()

	err := h.CreateCheckoutSession(e.NewContext(req, rr))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
