package repository

import "errors"

// ErrNotFound is returned when no record matches the given id or name.
var ErrNotFound = errors.New("customer not found")

// ErrInvalidID is returned when an id is not in the store's id format.
var ErrInvalidID = errors.New("invalid customer ID")
