package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	stripego "github.com/stripe/stripe-go/v80"

	"github.com/weirdroach/weird-roach-website/internal/stripe"
)

// CheckoutHandler creates Stripe-hosted checkout sessions from the cart the
// frontend posts.
type CheckoutHandler struct {
	stripeService    *stripe.Service
	baseURL          string
	shippingCents    int64
	allowedCountries []string
}

func NewCheckoutHandler(stripeService *stripe.Service, baseURL string, shippingCents int64, allowedCountries []string) *CheckoutHandler {
	return &CheckoutHandler{
		stripeService:    stripeService,
		baseURL:          baseURL,
		shippingCents:    shippingCents,
		allowedCountries: allowedCountries,
	}
}

// CartItem is one cart entry as the frontend sends it. Price is in dollars.
// VariantID, when the cart knows it, is stamped into the product metadata so
// webhook-time resolution never has to guess.
type CartItem struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Image     string  `json:"image,omitempty"`
	VariantID string  `json:"variant_id,omitempty"`
}

type CreateSessionRequest struct {
	Items []CartItem `json:"items"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
	}

	lineItems, err := buildLineItems(req.Items)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripego.String(h.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripego.String(h.baseURL + "/cart"),
		ShippingAddressCollection: &stripego.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripego.StringSlice(h.allowedCountries),
		},
		ShippingOptions: []*stripego.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripego.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripego.String("fixed_amount"),
					FixedAmount: &stripego.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripego.Int64(h.shippingCents),
						Currency: stripego.String("usd"),
					},
					DisplayName: stripego.String("Standard Shipping"),
					DeliveryEstimate: &stripego.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
						Minimum: &stripego.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
							Unit:  stripego.String("business_day"),
							Value: stripego.Int64(5),
						},
						Maximum: &stripego.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
							Unit:  stripego.String("business_day"),
							Value: stripego.Int64(7),
						},
					},
				},
			},
		},
	}

	session, err := h.stripeService.CreateCheckoutSession(c.Request().Context(), params)
	if err != nil {
		slog.Error("failed to create checkout session", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to create checkout session",
			"details": err.Error(),
		})
	}

	slog.Info("checkout session created", "session_id", session.ID, "items", len(req.Items))

	return c.JSON(http.StatusOK, CreateSessionResponse{SessionID: session.ID, URL: session.URL})
}

// buildLineItems converts cart entries to Stripe line items. Dollar prices
// are rounded to the nearest cent, never truncated: 19.999 becomes 2000.
func buildLineItems(items []CartItem) ([]*stripego.CheckoutSessionLineItemParams, error) {
	var lineItems []*stripego.CheckoutSessionLineItemParams
	for _, item := range items {
		if item.Name == "" || item.Price <= 0 || item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid cart item %q", item.Name)
		}

		productData := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(item.Name),
		}
		if desc := itemDescription(item); desc != "" {
			productData.Description = stripego.String(desc)
		}
		if item.Image != "" {
			productData.Images = stripego.StringSlice([]string{item.Image})
		}
		if item.VariantID != "" {
			productData.Metadata = map[string]string{
				"printful_variant_id": item.VariantID,
			}
		}

		lineItems = append(lineItems, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String("usd"),
				ProductData: productData,
				UnitAmount:  stripego.Int64(int64(math.Round(item.Price * 100))),
			},
			Quantity: stripego.Int64(item.Quantity),
		})
	}
	return lineItems, nil
}

func itemDescription(item CartItem) string {
	switch {
	case item.Color != "" && item.Size != "":
		return item.Color + " / " + item.Size
	case item.Color != "":
		return item.Color
	case item.Size != "":
		return item.Size
	}
	return ""
}
