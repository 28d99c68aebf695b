// Package pricing provides the client for the external price-lookup and
// store-detection collaborator.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ItemPrice is the quote for a single item at a detected store.
type ItemPrice struct {
	Price float64 `json:"price"`
	Store string  `json:"store"`
}

// Quote is the collaborator's response: a price per item it could resolve.
// Items it could not resolve are simply absent.
type Quote struct {
	Prices map[string]ItemPrice `json:"prices"`
}

// Lookuper resolves item prices. The shopping agent treats any failure as a
// partial result, never as a run failure.
type Lookuper interface {
	Lookup(ctx context.Context, items []string) (*Quote, error)
}

// Client is an HTTP Lookuper against the configured collaborator endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a price lookup client. An empty endpoint is allowed; all
// lookups then fail and the shopping agent degrades to a partial list.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
}

type lookupRequest struct {
	Items []string `json:"items"`
}

// Lookup posts the item list and decodes the quote.
func (c *Client) Lookup(ctx context.Context, items []string) (*Quote, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("price lookup endpoint not configured")
	}

	body, err := json.Marshal(lookupRequest{Items: items})
	if err != nil {
		return nil, fmt.Errorf("encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price lookup returned status %d", resp.StatusCode)
	}

	quote := &Quote{}
	if err := json.NewDecoder(resp.Body).Decode(quote); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if quote.Prices == nil {
		quote.Prices = map[string]ItemPrice{}
	}

	slog.Debug("pricing: quote received", "requested", len(items), "resolved", len(quote.Prices))
	return quote, nil
}
