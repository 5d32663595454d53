// Package geocode is the HTTP adapter for the external geocoding service.
package geocode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"talentmatch/apps/backend/internal/geo"
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

func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Lookup resolves a single location name. An empty geocoder answer returns
// (nil, nil) so callers can distinguish "not found" from a transport error.
func (c *Client) Lookup(ctx context.Context, name string) (*geo.Resolution, error) {
	reqBody := map[string]interface{}{
		"location":   name,
		"try_google": false,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode api error: %d", resp.StatusCode)
	}

	// The geocoder returns lat/lon as strings; json.Number handles both.
	var raw struct {
		DisplayName string        `json:"display_name"`
		Lat         json.Number   `json:"lat"`
		Lon         json.Number   `json:"lon"`
		BoundingBox []json.Number `json:"boundingbox"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	if raw.DisplayName == "" && raw.Lat == "" {
		return nil, nil
	}

	lat, err := raw.Lat.Float64()
	if err != nil {
		return nil, fmt.Errorf("geocode lat for %q: %w", name, err)
	}
	lon, err := raw.Lon.Float64()
	if err != nil {
		return nil, fmt.Errorf("geocode lon for %q: %w", name, err)
	}

	res := &geo.Resolution{
		DisplayName: raw.DisplayName,
		Lat:         lat,
		Lon:         lon,
	}

	// Bounding box order follows the geocoder: south, north, west, east.
	if len(raw.BoundingBox) == 4 {
		south, err1 := raw.BoundingBox[0].Float64()
		north, err2 := raw.BoundingBox[1].Float64()
		west, err3 := raw.BoundingBox[2].Float64()
		east, err4 := raw.BoundingBox[3].Float64()
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
			res.Box = &geo.BoundingBox{South: south, North: north, West: west, East: east}
		}
	}

	return res, nil
}
