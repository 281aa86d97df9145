package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCoordinate reads one coordinate from a JSON value, query string or CSV cell.
// nil and blank strings are reported as ErrMissingFields.
func ParseCoordinate(field string, raw any) (float64, error) {
	var v float64
	switch n := raw.(type) {
	case nil:
		return 0, fmt.Errorf("%w: %s is missing", ErrMissingFields, field)
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not a number", ErrMalformedCoordinate, field, n.String())
		}
		v = f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, fmt.Errorf("%w: %s is missing", ErrMissingFields, field)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not a number", ErrMalformedCoordinate, field, n)
		}
		v = f
	default:
		return 0, fmt.Errorf("%w: %s has unsupported type %T", ErrMalformedCoordinate, field, raw)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be finite", ErrMalformedCoordinate, field)
	}
	return v, nil
}

// ParseCoordinates parses a lat/lng pair.
func ParseCoordinates(latRaw, lngRaw any) (lat, lng float64, err error) {
	if lat, err = ParseCoordinate("lat", latRaw); err != nil {
		return 0, 0, err
	}
	if lng, err = ParseCoordinate("lng", lngRaw); err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

// CheckRange rejects coordinates outside [-90, 90] x [-180, 180].
func CheckRange(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: lat %v must be between -90 and 90", ErrCoordinateOutOfRange, lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: lng %v must be between -180 and 180", ErrCoordinateOutOfRange, lng)
	}
	return nil
}
