package service

import "errors"

// Validation errors. Handlers map these to 400.
var (
	ErrMissingFields        = errors.New("name, lat, and lng are required")
	ErrMalformedCoordinate  = errors.New("malformed coordinate")
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")
	ErrNoUpdatableFields    = errors.New("no updatable fields supplied")
	ErrInvalidName          = errors.New("name must be a non-empty string")
)

// Import errors. Handlers map these to 400, except ErrImportInProgress (409).
var (
	ErrInvalidFileType  = errors.New("file must be a CSV")
	ErrMissingColumns   = errors.New("CSV must contain name, lat, and lng columns")
	ErrMalformedCSV     = errors.New("malformed CSV")
	ErrImportInProgress = errors.New("an import is already in progress")
)

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrMissingFields, ErrMalformedCoordinate, ErrCoordinateOutOfRange,
		ErrNoUpdatableFields, ErrInvalidName,
		ErrInvalidFileType, ErrMissingColumns, ErrMalformedCSV,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
