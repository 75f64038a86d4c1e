// Package razorpay is a minimal Orders API client plus checkout signature checks.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oksasatya/signal-subscription/internal/domain/gateway"
)

const DefaultAPIURL = "https://api.razorpay.com/v1"

type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

var _ gateway.Gateway = (*Client)(nil)

// NewClient builds a client; empty credentials are accepted so the API can
// start and report GatewayMisconfigured per request.
func NewClient(keyID, keySecret, apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) KeyID() string { return c.keyID }

func (c *Client) configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateOrder registers an order for the given amount in paise.
func (c *Client) CreateOrder(ctx context.Context, r gateway.OrderRequest) (*gateway.Order, error) {
	if !c.configured() {
		return nil, gateway.ErrMisconfigured
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/orders", orderRequest{
		Amount:   r.Amount,
		Currency: r.Currency,
		Receipt:  r.Receipt,
		Notes:    r.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: %s", gateway.ErrUpstream, describe(resp))
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", gateway.ErrUpstream, err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: order id missing in response", gateway.ErrUpstream)
	}
	return &gateway.Order{
		ID:       out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		Receipt:  out.Receipt,
		Status:   out.Status,
	}, nil
}

func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	if !c.configured() {
		return gateway.ErrMisconfigured
	}
	return VerifySignature(c.keySecret, orderID, paymentID, signature)
}

func describe(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Error.Description != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, e.Error.Description)
	}
	return "unexpected status: " + resp.Status
}
