package reconciler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stripe/stripe-go/v80"

	"github.com/weirdroach/weird-roach-website/internal/email"
	"github.com/weirdroach/weird-roach-website/internal/printful"
	"github.com/weirdroach/weird-roach-website/storage/db"
)

// dedupWindow bounds the heuristic duplicate check: a Printful order counts
// as a duplicate only if it was created within this window of the payment.
const dedupWindow = 3600 * time.Second

// PermanentError marks a failure that retrying the same webhook cannot fix
// (unresolvable items, rejected payloads). The webhook handler acknowledges
// these with 200 so Stripe stops redelivering; recovery is manual, starting
// from the admin failure email.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// IsPermanent reports whether err is a failure retries cannot fix.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

type SessionGetter interface {
	GetExpandedSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

type VariantResolver interface {
	Resolve(ctx context.Context, item *stripe.LineItem) (int64, error)
}

type FulfillmentAPI interface {
	ListOrders(ctx context.Context) ([]printful.OrderResult, error)
	CreateOrder(ctx context.Context, order *printful.Order) (*printful.OrderResult, error)
	ConfirmOrder(ctx context.Context, id int64) (*printful.OrderResult, error)
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, data *email.OrderData) error
	SendOrderFailureToAdmin(ctx context.Context, data *email.FailureData) error
}

// Reconciler turns a paid Stripe checkout session into a confirmed Printful
// order, exactly once per session.
type Reconciler struct {
	sessions   SessionGetter
	resolver   VariantResolver
	printful   FulfillmentAPI
	queries    *db.Queries
	mailer     Mailer
	storeEmail string
}

func New(sessions SessionGetter, resolver VariantResolver, fulfillment FulfillmentAPI, queries *db.Queries, mailer Mailer, storeEmail string) *Reconciler {
	return &Reconciler{
		sessions:   sessions,
		resolver:   resolver,
		printful:   fulfillment,
		queries:    queries,
		mailer:     mailer,
		storeEmail: storeEmail,
	}
}

// Process handles one checkout.session.completed delivery. Safe to call
// repeatedly with the same session ID: the persisted order row keyed on the
// session is the primary duplicate guard, with a match against recent
// Printful orders as a backstop for rows lost before the DB existed.
//
// Transient errors (upstream 5xx, network) are returned as-is so the caller
// can ask Stripe to redeliver. Permanent failures come back as
// *PermanentError after the admin has been emailed.
func (r *Reconciler) Process(ctx context.Context, sessionID string) error {
	existing, err := r.queries.GetOrderByStripeSessionID(ctx, sessionID)
	switch {
	case err == nil:
		if existing.PrintfulOrderID.Valid {
			slog.Info("session already fulfilled, skipping",
				"session_id", sessionID, "printful_order_id", existing.PrintfulOrderID.Int64)
			return nil
		}
		// Row exists but fulfillment never completed; resume with it.
	case errors.Is(err, sql.ErrNoRows):
		existing = db.Order{}
	default:
		return fmt.Errorf("failed to look up order for session %s: %w", sessionID, err)
	}

	session, err := r.sessions.GetExpandedSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		slog.Info("ignoring unpaid checkout session",
			"session_id", sessionID, "payment_status", session.PaymentStatus)
		return nil
	}
	if session.CustomerDetails == nil {
		return &PermanentError{Err: fmt.Errorf("session %s carries no customer details", sessionID)}
	}

	order := existing
	if order.ID == "" {
		order, err = r.createOrderRow(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to record order for session %s: %w", sessionID, err)
		}
	}

	if dup, found := r.findDuplicate(ctx, session); found {
		slog.Warn("printful already has a matching order, skipping submission",
			"session_id", sessionID, "printful_order_id", dup.ID)
		_, err = r.queries.UpdateOrderFulfillment(ctx, db.UpdateOrderFulfillmentParams{
			PrintfulOrderID: sql.NullInt64{Int64: dup.ID, Valid: true},
			Status:          "confirmed",
			ID:              order.ID,
		})
		return err
	}

	payload, items, err := r.buildOrder(ctx, session)
	if err != nil {
		return r.fail(ctx, order, session, err)
	}

	created, err := r.printful.CreateOrder(ctx, payload)
	if err != nil {
		if printful.IsTransient(err) {
			return fmt.Errorf("printful order submission failed for session %s: %w", sessionID, err)
		}
		return r.fail(ctx, order, session, err)
	}

	order, err = r.queries.UpdateOrderFulfillment(ctx, db.UpdateOrderFulfillmentParams{
		PrintfulOrderID: sql.NullInt64{Int64: created.ID, Valid: true},
		Status:          "submitted",
		ID:              order.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to record printful order %d: %w", created.ID, err)
	}

	if _, err := r.printful.ConfirmOrder(ctx, created.ID); err != nil {
		// The draft exists; confirmation can be done from the dashboard.
		slog.Warn("failed to confirm printful order, left as draft",
			"error", err, "printful_order_id", created.ID)
	} else {
		order, err = r.queries.UpdateOrderFulfillment(ctx, db.UpdateOrderFulfillmentParams{
			PrintfulOrderID: sql.NullInt64{Int64: created.ID, Valid: true},
			Status:          "confirmed",
			ID:              order.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to record confirmation of order %d: %w", created.ID, err)
		}
	}

	r.recordItems(ctx, order.ID, session, items)

	slog.Info("order reconciled",
		"session_id", sessionID,
		"order_id", order.ID,
		"printful_order_id", created.ID,
		"status", order.Status)

	if err := r.mailer.SendOrderConfirmation(ctx, confirmationData(order, session, created.ID)); err != nil {
		// The order is placed; a lost confirmation email is not worth a retry
		// storm from Stripe.
		slog.Error("failed to send order confirmation", "error", err, "order_id", order.ID)
	}

	return nil
}

// fail marks the order failed, alerts the admin, and wraps the cause as
// permanent.
func (r *Reconciler) fail(ctx context.Context, order db.Order, session *stripe.CheckoutSession, cause error) error {
	slog.Error("order reconciliation failed permanently",
		"error", cause, "session_id", session.ID, "order_id", order.ID)

	if _, err := r.queries.UpdateOrderFulfillment(ctx, db.UpdateOrderFulfillmentParams{
		Status: "failed",
		ID:     order.ID,
	}); err != nil {
		slog.Error("failed to mark order failed", "error", err, "order_id", order.ID)
	}

	if err := r.mailer.SendOrderFailureToAdmin(ctx, &email.FailureData{
		SessionID:     session.ID,
		CustomerEmail: session.CustomerDetails.Email,
		TotalCents:    session.AmountTotal,
		Error:         cause.Error(),
	}); err != nil {
		slog.Error("failed to send admin failure alert", "error", err, "session_id", session.ID)
	}

	return &PermanentError{Err: cause}
}

func (r *Reconciler) createOrderRow(ctx context.Context, session *stripe.CheckoutSession) (db.Order, error) {
	addr := shippingAddress(session)

	var paymentIntentID string
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	taxCents := int64(0)
	shippingCents := int64(0)
	if session.TotalDetails != nil {
		taxCents = session.TotalDetails.AmountTax
		shippingCents = session.TotalDetails.AmountShipping
	}

	return r.queries.CreateOrder(ctx, db.CreateOrderParams{
		ID:                    ulid.Make().String(),
		StripeSessionID:       session.ID,
		StripePaymentIntentID: sql.NullString{String: paymentIntentID, Valid: paymentIntentID != ""},
		CustomerEmail:         session.CustomerDetails.Email,
		CustomerName:          session.CustomerDetails.Name,
		CustomerPhone:         sql.NullString{String: session.CustomerDetails.Phone, Valid: session.CustomerDetails.Phone != ""},
		ShippingName:          shippingName(session),
		ShippingAddressLine1:  addr.Line1,
		ShippingAddressLine2:  sql.NullString{String: addr.Line2, Valid: addr.Line2 != ""},
		ShippingCity:          addr.City,
		ShippingState:         addr.State,
		ShippingPostalCode:    addr.PostalCode,
		ShippingCountry:       addr.Country,
		SubtotalCents:         session.AmountSubtotal,
		ShippingCents:         shippingCents,
		TaxCents:              taxCents,
		TotalCents:            session.AmountTotal,
		Status:                "pending",
	})
}

// findDuplicate scans recent Printful orders for one matching this session's
// total, recipient email, and payment time. Pre-dates the persisted session
// key; kept as a backstop against double submission across deploys.
func (r *Reconciler) findDuplicate(ctx context.Context, session *stripe.CheckoutSession) (*printful.OrderResult, bool) {
	orders, err := r.printful.ListOrders(ctx)
	if err != nil {
		slog.Warn("duplicate check skipped, could not list printful orders", "error", err)
		return nil, false
	}

	paidAt := time.Unix(session.Created, 0)
	if session.PaymentIntent != nil && session.PaymentIntent.Created > 0 {
		paidAt = time.Unix(session.PaymentIntent.Created, 0)
	}
	wantTotal := formatAmount(session.AmountTotal)

	for i := range orders {
		o := &orders[i]
		if o.RetailCosts.Total != wantTotal {
			continue
		}
		if o.Recipient.Email != session.CustomerDetails.Email {
			continue
		}
		createdAt := time.Unix(o.Created, 0)
		if absDuration(createdAt.Sub(paidAt)) > dedupWindow {
			continue
		}
		return o, true
	}
	return nil, false
}

// buildOrder resolves every line item and assembles the Printful payload.
// Any unresolvable item aborts the whole order.
func (r *Reconciler) buildOrder(ctx context.Context, session *stripe.CheckoutSession) (*printful.Order, []printful.OrderItem, error) {
	if session.LineItems == nil || len(session.LineItems.Data) == 0 {
		return nil, nil, fmt.Errorf("session %s has no line items", session.ID)
	}

	var items []printful.OrderItem
	for _, item := range session.LineItems.Data {
		variantID, err := r.resolver.Resolve(ctx, item)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, printful.OrderItem{
			SyncVariantID: variantID,
			Quantity:      item.Quantity,
			RetailPrice:   formatAmount(item.Price.UnitAmount),
			Name:          item.Description,
		})
	}

	addr := shippingAddress(session)
	taxCents := int64(0)
	shippingCents := int64(0)
	if session.TotalDetails != nil {
		taxCents = session.TotalDetails.AmountTax
		shippingCents = session.TotalDetails.AmountShipping
	}

	order := &printful.Order{
		Recipient: printful.Recipient{
			Name:        shippingName(session),
			Address1:    addr.Line1,
			Address2:    addr.Line2,
			City:        addr.City,
			StateCode:   addr.State,
			CountryCode: addr.Country,
			Zip:         addr.PostalCode,
			Email:       session.CustomerDetails.Email,
			Phone:       session.CustomerDetails.Phone,
		},
		Items: items,
		RetailCosts: &printful.RetailCosts{
			Subtotal: formatAmount(session.AmountSubtotal),
			Shipping: formatAmount(shippingCents),
			Tax:      formatAmount(taxCents),
			Total:    formatAmount(session.AmountTotal),
		},
		PackingSlip: &printful.PackingSlip{
			Email:   r.storeEmail,
			Message: "Thank you for your order!",
		},
	}
	return order, items, nil
}

func (r *Reconciler) recordItems(ctx context.Context, orderID string, session *stripe.CheckoutSession, items []printful.OrderItem) {
	for i, item := range session.LineItems.Data {
		_, err := r.queries.CreateOrderItem(ctx, db.CreateOrderItemParams{
			ID:               uuid.New().String(),
			OrderID:          orderID,
			ProductName:      item.Description,
			SyncVariantID:    items[i].SyncVariantID,
			Quantity:         item.Quantity,
			RetailPriceCents: item.Price.UnitAmount,
		})
		if err != nil {
			slog.Error("failed to record order item", "error", err, "order_id", orderID)
		}
	}
}

func confirmationData(order db.Order, session *stripe.CheckoutSession, printfulOrderID int64) *email.OrderData {
	var items []email.OrderItem
	for _, item := range session.LineItems.Data {
		items = append(items, email.OrderItem{
			ProductName: item.Description,
			Quantity:    item.Quantity,
			PriceCents:  item.Price.UnitAmount,
			TotalCents:  item.AmountTotal,
		})
	}

	return &email.OrderData{
		OrderID:         order.ID,
		SessionID:       session.ID,
		PrintfulOrderID: printfulOrderID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		OrderDate:       time.Now().Format("January 2, 2006 at 3:04 PM"),
		Items:           items,
		SubtotalCents:   order.SubtotalCents,
		TaxCents:        order.TaxCents,
		ShippingCents:   order.ShippingCents,
		TotalCents:      order.TotalCents,
		ShippingAddress: email.Address{
			Name:       order.ShippingName,
			Line1:      order.ShippingAddressLine1,
			Line2:      order.ShippingAddressLine2.String,
			City:       order.ShippingCity,
			State:      order.ShippingState,
			PostalCode: order.ShippingPostalCode,
			Country:    order.ShippingCountry,
		},
	}
}

// shippingAddress prefers the shipping details block and falls back to the
// billing address for digital-only or legacy sessions.
func shippingAddress(session *stripe.CheckoutSession) *stripe.Address {
	if session.ShippingDetails != nil && session.ShippingDetails.Address != nil {
		return session.ShippingDetails.Address
	}
	if session.CustomerDetails.Address != nil {
		return session.CustomerDetails.Address
	}
	return &stripe.Address{}
}

func shippingName(session *stripe.CheckoutSession) string {
	if session.ShippingDetails != nil && session.ShippingDetails.Name != "" {
		return session.ShippingDetails.Name
	}
	return session.CustomerDetails.Name
}

// formatAmount renders cents as the dollar string Printful expects ("24.00").
func formatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
