package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// OrderData contains everything the order confirmation email needs.
type OrderData struct {
	OrderID         string
	SessionID       string
	PrintfulOrderID int64
	CustomerName    string
	CustomerEmail   string
	OrderDate       string
	Items           []OrderItem
	SubtotalCents   int64
	TaxCents        int64
	ShippingCents   int64
	TotalCents      int64
	ShippingAddress Address
}

// OrderItem represents a single item in an order email.
type OrderItem struct {
	ProductName string
	Quantity    int64
	PriceCents  int64
	TotalCents  int64
}

// Address represents a shipping address.
type Address struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// FailureData describes a reconciliation failure for the admin email.
type FailureData struct {
	SessionID     string
	CustomerEmail string
	TotalCents    int64
	Error         string
}

// ShipmentData carries Printful's package_shipped payload fields.
type ShipmentData struct {
	OrderID           int64
	TrackingNumber    string
	Carrier           string
	TrackingURL       string
	EstimatedDelivery string
	RecipientEmail    string
	Recipient         Address
	Items             []ShipmentItem
	Total             string
}

type ShipmentItem struct {
	Quantity    int64
	Name        string
	RetailPrice string
}

var templateFuncs = template.FuncMap{
	"FormatCents": FormatCents,
}

const orderConfirmationTemplate = `
<h1>Thank you for your order from Weird Roach!</h1>
<h2>Order Details:</h2>
<table style="width: 100%; border-collapse: collapse;">
    <thead>
        <tr style="background-color: #222; color: #fff;">
            <th style="padding: 8px; text-align: left;">Product</th>
            <th style="padding: 8px; text-align: center;">Quantity</th>
            <th style="padding: 8px; text-align: right;">Total</th>
        </tr>
    </thead>
    <tbody>
        {{range .Items}}
        <tr style="border-bottom: 1px solid #ddd;">
            <td style="padding: 8px;">{{.ProductName}}</td>
            <td style="padding: 8px; text-align: center;">{{.Quantity}}</td>
            <td style="padding: 8px; text-align: right;">{{FormatCents .TotalCents}}</td>
        </tr>
        {{end}}
    </tbody>
</table>

<p><strong>Subtotal:</strong> {{FormatCents .SubtotalCents}}<br>
<strong>Shipping:</strong> {{FormatCents .ShippingCents}}<br>
<strong>Tax:</strong> {{FormatCents .TaxCents}}<br>
<strong>Total:</strong> {{FormatCents .TotalCents}}</p>

<h2>Shipping Address:</h2>
<p>{{.ShippingAddress.Name}}<br>
{{.ShippingAddress.Line1}}<br>
{{if .ShippingAddress.Line2}}{{.ShippingAddress.Line2}}<br>{{end}}
{{.ShippingAddress.City}}, {{.ShippingAddress.State}} {{.ShippingAddress.PostalCode}}<br>
{{.ShippingAddress.Country}}</p>

<p>We'll send you another email when your order ships.</p>
<p>Thanks for the support!</p>
`

const orderFailureTemplate = `
<h1>Order fulfillment failed</h1>
<p>A paid Stripe checkout session could not be turned into a Printful order.
This needs manual follow-up.</p>
<p><strong>Session:</strong> {{.SessionID}}<br>
<strong>Customer:</strong> {{.CustomerEmail}}<br>
<strong>Amount paid:</strong> {{FormatCents .TotalCents}}</p>
<h2>Error</h2>
<pre>{{.Error}}</pre>
`

const shippingNotificationTemplate = `
<h1>Your Weird Roach Order Has Shipped!</h1>
<p>Great news! Your order has been shipped and is on its way to you.</p>

<h2>Shipping Details:</h2>
<p><strong>Order ID:</strong> {{.OrderID}}<br>
<strong>Tracking Number:</strong> {{.TrackingNumber}}<br>
<strong>Carrier:</strong> {{.Carrier}}<br>
<strong>Tracking URL:</strong> <a href="{{.TrackingURL}}">{{.TrackingURL}}</a></p>

<h2>Estimated Delivery:</h2>
<p>{{if .EstimatedDelivery}}{{.EstimatedDelivery}}{{else}}Typically 5-7 business days{{end}}</p>

<h2>Shipping Address:</h2>
<p>{{.Recipient.Name}}<br>
{{.Recipient.Line1}}<br>
{{if .Recipient.Line2}}{{.Recipient.Line2}}<br>{{end}}
{{.Recipient.City}}, {{.Recipient.State}} {{.Recipient.PostalCode}}<br>
{{.Recipient.Country}}</p>

<h2>Order Summary:</h2>
{{range .Items}}<p>{{.Quantity}}x {{.Name}} - ${{.RetailPrice}}</p>
{{end}}
<p><strong>Total:</strong> ${{.Total}}</p>

<p>You can track your package using the tracking number and URL above.</p>
<p>Thanks again for your support!</p>
<p>- Weird Roach Team</p>
`

func render(name, tmpl string, data interface{}) (string, error) {
	t := template.Must(template.New(name).Funcs(templateFuncs).Parse(tmpl))

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", name, err)
	}
	return buf.String(), nil
}

// RenderOrderConfirmation renders the customer order confirmation HTML.
func RenderOrderConfirmation(data *OrderData) (string, error) {
	return render("order_confirmation", orderConfirmationTemplate, data)
}

// RenderOrderFailure renders the admin failure report HTML.
func RenderOrderFailure(data *FailureData) (string, error) {
	return render("order_failure", orderFailureTemplate, data)
}

// RenderShippingNotification renders the shipping confirmation HTML.
func RenderShippingNotification(data *ShipmentData) (string, error) {
	return render("shipping_notification", shippingNotificationTemplate, data)
}

func renderOrderConfirmationText(data *OrderData) string {
	var b strings.Builder
	b.WriteString("Order Details:\n\n")
	for _, item := range data.Items {
		fmt.Fprintf(&b, "%dx %s - %s\n", item.Quantity, item.ProductName, FormatCents(item.TotalCents))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\nShipping to:\n%s\n%s\n",
		FormatCents(data.TotalCents), data.ShippingAddress.Name, data.ShippingAddress.Line1)
	if data.ShippingAddress.Line2 != "" {
		fmt.Fprintf(&b, "%s\n", data.ShippingAddress.Line2)
	}
	fmt.Fprintf(&b, "%s, %s %s\n%s\n\nWe'll send you another email when your order ships.\n\nThanks for the support!\n",
		data.ShippingAddress.City, data.ShippingAddress.State,
		data.ShippingAddress.PostalCode, data.ShippingAddress.Country)
	return b.String()
}

func renderShippingNotificationText(data *ShipmentData) string {
	var b strings.Builder
	b.WriteString("Your Weird Roach Order Has Shipped!\n\n")
	fmt.Fprintf(&b, "Order ID: %d\nTracking Number: %s\nCarrier: %s\nTracking URL: %s\n\n",
		data.OrderID, data.TrackingNumber, data.Carrier, data.TrackingURL)
	for _, item := range data.Items {
		fmt.Fprintf(&b, "%dx %s - $%s\n", item.Quantity, item.Name, item.RetailPrice)
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n\nThanks again for your support!\n- Weird Roach Team\n", data.Total)
	return b.String()
}
