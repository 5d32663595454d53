// Package rates is the HTTP adapter for the external currency-rate service,
// plus the cached wrapper the normalizer consumes.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
	}
}

func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Rate fetches the multiplier converting one unit of `from` into `to`.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	u := fmt.Sprintf("%s?from=%s&to=%s", c.baseURL, url.QueryEscape(from), url.QueryEscape(to))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rates api error: %d", resp.StatusCode)
	}

	var result struct {
		Rate float64 `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	if result.Rate <= 0 {
		return 0, fmt.Errorf("rates api returned non-positive rate %f", result.Rate)
	}
	return result.Rate, nil
}
