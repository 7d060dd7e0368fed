package geocoding

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, rps float64) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(Config{
		BaseURL:           server.URL,
		UserAgent:         "streetcode-test",
		RequestsPerSecond: rps,
		Timeout:           time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestClient_Geocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "streetcode-test", r.Header.Get("User-Agent"))
		q := r.URL.Query()
		assert.Equal(t, "вулиця Хрещатик", q.Get("street"))
		assert.Equal(t, "Київ", q.Get("city"))
		assert.Equal(t, "ua", q.Get("countrycodes"))
		_, _ = w.Write([]byte(`[{"lat":"50.4474","lon":"30.5221","display_name":"Хрещатик"}]`))
	}, 100)

	got, err := c.Geocode(context.Background(), Address{
		Community:  "Київ",
		StreetType: "вулиця",
		StreetName: "Хрещатик",
	})
	require.NoError(t, err)
	assert.InDelta(t, 50.4474, got.Latitude, 1e-9)
	assert.InDelta(t, 30.5221, got.Longitude, 1e-9)
}

func TestClient_Geocode_NoResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, 100)

	_, err := c.Geocode(context.Background(), Address{Community: "Nowhere", StreetName: "None"})
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestClient_Geocode_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}, 100)

	_, err := c.Geocode(context.Background(), Address{Community: "Київ", StreetName: "Хрещатик"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_Geocode_BadCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"30.1"}]`))
	}, 100)

	_, err := c.Geocode(context.Background(), Address{Community: "Київ", StreetName: "Хрещатик"})
	assert.ErrorContains(t, err, "invalid latitude")
}

func TestClient_Geocode_RateLimited(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	}, 10)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Geocode(context.Background(), Address{Community: "A", StreetName: "B"})
		require.NoError(t, err)
	}
	// burst of one, then 100ms between requests
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Geocode_CancelledWhileWaiting(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	}, 0.1)

	_, err := c.Geocode(context.Background(), Address{Community: "A", StreetName: "B"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Geocode(ctx, Address{Community: "A", StreetName: "B"})
	assert.Error(t, err)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"}, nil)
	assert.Error(t, err)
}
