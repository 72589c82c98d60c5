// Package catalog provides access to the external makeup product API and
// the derived value index built from it at startup.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrUpstream indicates the catalog service was unreachable or returned
	// a malformed response.
	ErrUpstream = errors.New("catalog upstream error")
	// ErrNotFound indicates the catalog has no product with the given id.
	ErrNotFound = errors.New("product not found")
)

// Config holds the catalog client configuration.
type Config struct {
	// BaseURL is the root of the products API, e.g.
	// http://makeup-api.herokuapp.com/api/v1
	BaseURL string
	// Timeout is the HTTP timeout for catalog requests.
	Timeout time.Duration
}

// DefaultConfig returns the default catalog client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://makeup-api.herokuapp.com/api/v1",
		Timeout: 30 * time.Second,
	}
}

// Client wraps the remote catalog HTTP endpoint. It holds no state beyond
// the base URL and the HTTP client, so it is safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new catalog client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Search queries the catalog with the given filters. Filters are passed
// through as query parameters unaltered; the catalog decides what they mean.
// An empty result list is not an error. Upstream failures are not retried.
func (c *Client) Search(ctx context.Context, filters map[string]string) ([]Product, error) {
	endpoint := c.config.BaseURL + "/products.json"
	if len(filters) > 0 {
		values := url.Values{}
		for key, value := range filters {
			values.Set(key, value)
		}
		endpoint += "?" + values.Encode()
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, errors.Wrapf(ErrUpstream, "decode product list: %v", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// GetByID fetches a single product. The catalog signals absence by returning
// an object without an id field, which surfaces here as ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*Product, error) {
	endpoint := fmt.Sprintf("%s/products/%s.json", c.config.BaseURL, url.PathEscape(id))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Product
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(ErrUpstream, "decode product %s: %v", id, err)
	}
	if payload.ID == nil {
		return nil, errors.Wrapf(ErrNotFound, "product %s", id)
	}

	product := payload.Product
	product.ID = *payload.ID
	return &product, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", endpoint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "request %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUpstream, "request %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "read response from %s: %v", endpoint, err)
	}
	return body, nil
}
