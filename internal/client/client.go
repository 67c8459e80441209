// Package client is a typed HTTP client for the vending service API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultTimeout leaves room for the dispensing delay of a purchase.
const DefaultTimeout = 30 * time.Second

type Client struct {
	rc *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// APIError is a non-2xx response from a non-purchase endpoint.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Details)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Code)
}

// PurchaseResult mirrors the purchase endpoint's body for every outcome.
type PurchaseResult struct {
	StatusCode        int              `json:"-"`
	RetryAfter        time.Duration    `json:"-"`
	Success           bool             `json:"success"`
	Message           string           `json:"message"`
	Remaining         *int             `json:"remaining,omitempty"`
	QuantityPurchased int              `json:"quantityPurchased,omitempty"`
	TotalCost         *decimal.Decimal `json:"totalCost,omitempty"`
}

type HistoryParams struct {
	SearchTerm string
	MachineID  string
	Hours      float64
	SortField  string
	SortOrder  string
}

func (p HistoryParams) query() map[string]string {
	q := map[string]string{}
	if p.SearchTerm != "" {
		q["searchTerm"] = p.SearchTerm
	}
	if p.MachineID != "" {
		q["machineId"] = p.MachineID
	}
	if p.Hours > 0 {
		q["hours"] = strconv.FormatFloat(p.Hours, 'f', -1, 64)
	}
	if p.SortField != "" {
		q["sortField"] = p.SortField
	}
	if p.SortOrder != "" {
		q["sortOrder"] = p.SortOrder
	}
	return q
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.get(ctx, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Purchase returns an error only when no purchase outcome was received.
// Rejections are reported through PurchaseResult.
func (c *Client) Purchase(ctx context.Context, productID string, quantity int) (PurchaseResult, error) {
	var out PurchaseResult
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(map[string]any{"productId": productID, "quantity": quantity}).
		SetResult(&out).
		SetError(&out).
		Post("/products/purchase")
	if err != nil {
		return out, fmt.Errorf("purchase request failed: %w", err)
	}

	out.StatusCode = resp.StatusCode()
	if out.Message == "" {
		return out, fmt.Errorf("unexpected purchase response: %s", resp.Status())
	}
	if out.StatusCode == http.StatusTooManyRequests {
		if secs, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
			out.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return out, nil
}

func (c *Client) History(ctx context.Context, p HistoryParams) ([]models.Purchase, error) {
	var out []models.Purchase
	if err := c.get(ctx, "/products/purchases", p.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Balance(ctx context.Context) (decimal.Decimal, error) {
	var out struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.get(ctx, "/products/balance", nil, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Balance, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	apiErr := &APIError{}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}
	return nil
}
