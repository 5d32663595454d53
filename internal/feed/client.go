// Package feed pulls raw postings from the upstream job feed and schedules
// the periodic incremental fetch.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"talentmatch/apps/backend/features/job"
)

// Client fetches postings updated since a cursor from the upstream feed.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// SetBaseURL overrides the feed endpoint, for tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

type feedResponse struct {
	Postings []job.RawPosting `json:"jobs_updated_since"`
}

// FetchSince returns every posting updated after cursor. A zero cursor
// fetches the full feed.
func (c *Client) FetchSince(ctx context.Context, cursor time.Time) ([]job.RawPosting, error) {
	endpoint := c.baseURL
	if !cursor.IsZero() {
		endpoint = fmt.Sprintf("%s?last_updated_at_time=%s", c.baseURL,
			url.QueryEscape(cursor.Format(time.RFC3339)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return body.Postings, nil
}
