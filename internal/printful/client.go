package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const DefaultBaseURL = "https://api.printful.com"

// Client talks to the Printful REST API. Every request carries the store's
// bearer token and the X-PF-Store-Id header.
type Client struct {
	baseURL string
	token   string
	storeID string
	client  *http.Client
}

func NewClient(baseURL, token, storeID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		storeID: storeID,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type Recipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
}

type OrderItem struct {
	SyncVariantID int64  `json:"sync_variant_id"`
	Quantity      int64  `json:"quantity"`
	RetailPrice   string `json:"retail_price"`
	Name          string `json:"name,omitempty"`
}

type RetailCosts struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type PackingSlip struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
}

// Order is the POST /orders request payload.
type Order struct {
	Recipient   Recipient    `json:"recipient"`
	Items       []OrderItem  `json:"items"`
	RetailCosts *RetailCosts `json:"retail_costs,omitempty"`
	PackingSlip *PackingSlip `json:"packing_slip,omitempty"`
}

// OrderResult is Printful's view of a created or existing order.
type OrderResult struct {
	ID                    int64       `json:"id"`
	ExternalID            string      `json:"external_id"`
	Status                string      `json:"status"`
	Created               int64       `json:"created"`
	Recipient             Recipient   `json:"recipient"`
	Items                 []OrderItem `json:"items"`
	RetailCosts           RetailCosts `json:"retail_costs"`
	TrackingNumber        string      `json:"tracking_number,omitempty"`
	TrackingURL           string      `json:"tracking_url,omitempty"`
	Carrier               string      `json:"carrier,omitempty"`
	EstimatedDeliveryDate string      `json:"estimated_delivery_date,omitempty"`
}

type SyncProduct struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	Synced       int64  `json:"synced"`
}

type SyncVariant struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Size        string            `json:"size"`
	Color       string            `json:"color"`
	RetailPrice string            `json:"retail_price"`
	InStock     bool              `json:"in_stock"`
	PreviewURL  string            `json:"preview_url,omitempty"`
	Files       []json.RawMessage `json:"files,omitempty"`
	MockupFiles []json.RawMessage `json:"mockup_files,omitempty"`
}

type ProductDetail struct {
	SyncProduct  SyncProduct   `json:"sync_product"`
	SyncVariants []SyncVariant `json:"sync_variants"`
}

// apiResponse is Printful's standard envelope.
type apiResponse struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
}

// APIError carries the upstream status and body so handlers can decide
// whether the failure is transient.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("printful API returned status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the error is worth retrying.
func (e *APIError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsTransient reports whether err represents a retryable upstream failure.
// Network errors (no *APIError) count as transient.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return err != nil
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-PF-Store-Id", c.storeID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return envelope.Result, nil
}

// GetStoreProducts lists the store's sync products (summary view).
func (c *Client) GetStoreProducts(ctx context.Context) ([]SyncProduct, error) {
	result, err := c.makeRequest(ctx, http.MethodGet, "/store/products", nil)
	if err != nil {
		return nil, err
	}

	var products []SyncProduct
	if err := json.Unmarshal(result, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetStoreProduct fetches one product with its sync variants.
func (c *Client) GetStoreProduct(ctx context.Context, id int64) (*ProductDetail, error) {
	result, err := c.makeRequest(ctx, http.MethodGet, fmt.Sprintf("/store/products/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var detail ProductDetail
	if err := json.Unmarshal(result, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode product detail: %w", err)
	}
	return &detail, nil
}

// GetSyncProducts lists sync products from the /sync namespace. The catalog
// lives under /store/products; this endpoint is what variant resolution by
// product name searches.
func (c *Client) GetSyncProducts(ctx context.Context) ([]SyncProduct, error) {
	result, err := c.makeRequest(ctx, http.MethodGet, "/sync/products", nil)
	if err != nil {
		return nil, err
	}

	var products []SyncProduct
	if err := json.Unmarshal(result, &products); err != nil {
		return nil, fmt.Errorf("failed to decode sync products: %w", err)
	}
	return products, nil
}

// GetSyncProduct fetches one sync product with its variants.
func (c *Client) GetSyncProduct(ctx context.Context, id int64) (*ProductDetail, error) {
	result, err := c.makeRequest(ctx, http.MethodGet, fmt.Sprintf("/sync/products/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var detail ProductDetail
	if err := json.Unmarshal(result, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode sync product: %w", err)
	}
	return &detail, nil
}

// ListOrders returns the store's recent orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]OrderResult, error) {
	result, err := c.makeRequest(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}

	var orders []OrderResult
	if err := json.Unmarshal(result, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// CreateOrder submits a draft order. Transient upstream failures are retried
// with exponential backoff, three attempts total; 4xx responses are not
// retried since resubmitting the same bad payload cannot succeed.
func (c *Client) CreateOrder(ctx context.Context, order *Order) (*OrderResult, error) {
	var created OrderResult

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		result, err := c.makeRequest(ctx, http.MethodPost, "/orders", order)
		if err != nil {
			if IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		if err := json.Unmarshal(result, &created); err != nil {
			return fmt.Errorf("failed to decode created order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ConfirmOrder moves a draft order into fulfillment.
func (c *Client) ConfirmOrder(ctx context.Context, id int64) (*OrderResult, error) {
	result, err := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", id), nil)
	if err != nil {
		return nil, err
	}

	var confirmed OrderResult
	if err := json.Unmarshal(result, &confirmed); err != nil {
		return nil, fmt.Errorf("failed to decode confirmed order: %w", err)
	}
	return &confirmed, nil
}
