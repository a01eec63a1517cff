package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	checkoutsession "github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/product"
)

// Service wraps the Stripe API calls the storefront needs. The key is
// injected at construction instead of read from the environment per call
// site, so a missing key fails at startup.
type Service struct {
	apiKey string
}

func NewService(apiKey string) *Service {
	stripe.Key = apiKey
	return &Service{apiKey: apiKey}
}

// CreateCheckoutSession creates a Stripe-hosted checkout session.
func (s *Service) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return checkoutsession.New(params)
}

// GetExpandedSession re-retrieves a checkout session with line items, their
// products, the payment intent and the totals breakdown expanded. The
// webhook payload's session snapshot carries none of these.
func (s *Service) GetExpandedSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	params.AddExpand("line_items.data.price.product")
	params.AddExpand("payment_intent")
	params.AddExpand("total_details.breakdown")

	session, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}
	return session, nil
}

// ListActiveProducts lists the store's active products, metadata included.
func (s *Service) ListActiveProducts(ctx context.Context) ([]*stripe.Product, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var products []*stripe.Product
	i := product.List(params)
	for i.Next() {
		products = append(products, i.Product())
	}

	if err := i.Err(); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}
