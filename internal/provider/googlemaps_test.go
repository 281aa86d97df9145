package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *GoogleMaps {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoogleMaps("test-key", srv.URL, 2*time.Second)
}

func TestGoogleMaps_ReverseGeocode(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expected    string
		expectNone  bool
		expectError bool
	}{
		{
			name:     "first result is used",
			status:   http.StatusOK,
			body:     `{"status":"OK","results":[{"formatted_address":"Paris, France"},{"formatted_address":"France"}]}`,
			expected: "Paris, France",
		},
		{
			name:       "zero results",
			status:     http.StatusOK,
			body:       `{"status":"ZERO_RESULTS","results":[]}`,
			expectNone: true,
		},
		{
			name:       "ok without results",
			status:     http.StatusOK,
			body:       `{"status":"OK","results":[]}`,
			expectNone: true,
		},
		{
			name:       "request denied",
			status:     http.StatusOK,
			body:       `{"status":"REQUEST_DENIED","results":[]}`,
			expectNone: true,
		},
		{
			name:        "http error",
			status:      http.StatusBadGateway,
			body:        `oops`,
			expectError: true,
		},
		{
			name:        "malformed body",
			status:      http.StatusOK,
			body:        `{"status":`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/geocode/json", r.URL.Path)
				assert.Equal(t, "48.8566,2.3522", r.URL.Query().Get("latlng"))
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			address, err := client.ReverseGeocode(context.Background(), 48.8566, 2.3522)

			switch {
			case tt.expectNone:
				assert.ErrorIs(t, err, ErrNoResults)
			case tt.expectError:
				require.Error(t, err)
				assert.False(t, errors.Is(err, ErrNoResults))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expected, address)
			}
		})
	}
}

func TestGoogleMaps_ReverseGeocode_StatusError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ReverseGeocode(context.Background(), 1, 2)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestGoogleMaps_ReverseGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"late"}]}`))
	}))
	t.Cleanup(srv.Close)
	client := NewGoogleMaps("k", srv.URL, 50*time.Millisecond)

	_, err := client.ReverseGeocode(context.Background(), 1, 2)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoResults))
}

func TestGoogleMaps_SearchPlaces(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/textsearch/json", r.URL.Path)
		assert.Equal(t, "coffee near louvre", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"name":"Cafe"}]}`))
	})

	raw, err := client.SearchPlaces(context.Background(), "coffee near louvre")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "OK", decoded["status"])
}

func TestGoogleMaps_Directions(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directions/json", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("origin"))
		assert.Equal(t, "Lyon", r.URL.Query().Get("destination"))
		_, _ = w.Write([]byte(`{"status":"OK","routes":[]}`))
	})

	raw, err := client.Directions(context.Background(), "Paris", "Lyon")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","routes":[]}`, string(raw))
}

func TestGoogleMaps_InvalidJSONPassthrough(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := client.Directions(context.Background(), "a", "b")
	assert.Error(t, err)
}
