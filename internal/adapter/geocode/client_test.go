package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Austin", body["location"])
		assert.Equal(t, false, body["try_google"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "Austin, Travis County, Texas",
			"lat": "30.2711286",
			"lon": "-97.7436995",
			"boundingbox": ["30.0986589", "30.5166255", "-97.9383829", "-97.5614896"]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Lookup(context.Background(), "Austin")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "Austin, Travis County, Texas", res.DisplayName)
	assert.InDelta(t, 30.2711286, res.Lat, 0.0001)
	assert.InDelta(t, -97.7436995, res.Lon, 0.0001)
	require.NotNil(t, res.Box)
	assert.InDelta(t, 30.0986589, res.Box.South, 0.0001)
	assert.InDelta(t, 30.5166255, res.Box.North, 0.0001)
	assert.InDelta(t, -97.9383829, res.Box.West, 0.0001)
	assert.InDelta(t, -97.5614896, res.Box.East, 0.0001)
}

func TestLookup_NumericCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name": "Berlin", "lat": 52.52, "lon": 13.405}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Lookup(context.Background(), "Berlin")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 52.52, res.Lat, 0.0001)
	assert.Nil(t, res.Box)
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Lookup(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestLookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Lookup(context.Background(), "Austin")
	assert.Error(t, err)
}
