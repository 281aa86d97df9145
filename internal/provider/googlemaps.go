package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the root of the Google Maps web service APIs.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// ErrNoResults is returned when the provider answered but had nothing for the request.
var ErrNoResults = errors.New("provider: no results")

// StatusError is returned when the provider answers with a non-200 HTTP status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider: %s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// GoogleMaps calls the Google Maps geocoding, places and directions APIs.
type GoogleMaps struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleMaps creates a client. An empty baseURL selects DefaultBaseURL.
func NewGoogleMaps(apiKey, baseURL string, timeout time.Duration) *GoogleMaps {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleMaps{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, ...
}

// ReverseGeocode returns the formatted address of the first result for the coordinates.
func (g *GoogleMaps) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("latlng", formatCoordinate(lat)+","+formatCoordinate(lng))

	body, err := g.get(ctx, "/geocode/json", params)
	if err != nil {
		return "", err
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("provider: decoding geocode response: %w", err)
	}

	if resp.Status != "OK" || len(resp.Results) == 0 {
		return "", fmt.Errorf("%w: status %s", ErrNoResults, resp.Status)
	}

	return resp.Results[0].FormattedAddress, nil
}

// SearchPlaces runs a Places text search and returns the provider JSON untouched.
func (g *GoogleMaps) SearchPlaces(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	return g.getJSON(ctx, "/place/textsearch/json", params)
}

// Directions returns the provider JSON for a route between origin and destination.
func (g *GoogleMaps) Directions(ctx context.Context, origin, destination string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	return g.getJSON(ctx, "/directions/json", params)
}

func (g *GoogleMaps) getJSON(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	body, err := g.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("provider: %s returned invalid JSON", endpoint)
	}
	return json.RawMessage(body), nil
}

func (g *GoogleMaps) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("key", g.apiKey)
	reqURL := g.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("provider: building request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("provider: reading %s response: %w", endpoint, err)
	}
	return body, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
