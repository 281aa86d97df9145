package service

import (
	"context"
	"errors"
	"time"

	"github.com/3lielnashar/Customers-map/internal/provider"

	"github.com/rs/zerolog"
)

// Sentinel addresses stored when reverse geocoding yields nothing usable.
const (
	AddressNotFound     = "Address not found"
	AddressLookupFailed = "Address lookup failed"
)

// ReverseGeocoder resolves coordinates to a formatted address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Enricher derives the Address of a record from its coordinates.
type Enricher struct {
	geocoder ReverseGeocoder
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewEnricher creates an enricher. A non-positive timeout leaves the call bounded
// only by the caller's context.
func NewEnricher(geocoder ReverseGeocoder, timeout time.Duration, logger zerolog.Logger) *Enricher {
	return &Enricher{geocoder: geocoder, timeout: timeout, logger: logger}
}

// Address returns the provider's address for lat/lng, or one of the sentinel
// addresses. It never fails.
func (e *Enricher) Address(ctx context.Context, lat, lng float64) string {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	address, err := e.geocoder.ReverseGeocode(ctx, lat, lng)
	switch {
	case err == nil && address != "":
		e.logger.Debug().Float64("lat", lat).Float64("lng", lng).Str("address", address).Msg("reverse geocoded")
		return address
	case err == nil, errors.Is(err, provider.ErrNoResults):
		e.logger.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("no address for coordinates")
		return AddressNotFound
	default:
		e.logger.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("address lookup failed")
		return AddressLookupFailed
	}
}
