package service

import (
	"context"
	"fmt"

	"github.com/3lielnashar/Customers-map/internal/models"
	"github.com/3lielnashar/Customers-map/internal/repository"

	"github.com/rs/zerolog"
)

// CreateInput is the body of a create request. Coordinates stay untyped so that
// numeric strings from form posts are accepted.
type CreateInput struct {
	Name        string `json:"name"`
	Lat         any    `json:"lat"`
	Lng         any    `json:"lng"`
	Description any    `json:"Description"`
	Comment     any    `json:"Comment"`
}

// CreateResult is what a successful create reports back.
type CreateResult struct {
	ID      string
	Address string
}

// LocationService contains the business logic for location records.
type LocationService struct {
	store        LocationStore
	enricher     *Enricher
	enforceRange bool
	logger       zerolog.Logger
}

// NewLocationService creates a location service. When enforceRange is set,
// coordinates outside the geographic bounds are rejected.
func NewLocationService(store LocationStore, enricher *Enricher, enforceRange bool, logger zerolog.Logger) *LocationService {
	return &LocationService{store: store, enricher: enricher, enforceRange: enforceRange, logger: logger}
}

// List returns every record in canonical form.
func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	docs, err := s.store.FindMany(ctx, models.Filter{})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list locations: %w", err)
	}
	return models.FromDocuments(docs), nil
}

// Search returns records whose name contains name, ignoring case.
func (s *LocationService) Search(ctx context.Context, name string) ([]models.Location, error) {
	docs, err := s.store.FindMany(ctx, models.Filter{NameContains: name})
	if err != nil {
		return nil, fmt.Errorf("service: failed to search locations: %w", err)
	}
	return models.FromDocuments(docs), nil
}

// Get returns a single record.
func (s *LocationService) Get(ctx context.Context, id string) (*models.Location, error) {
	doc, err := s.store.FindOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get location: %w", err)
	}
	loc := models.FromDocument(*doc)
	return &loc, nil
}

// Create validates the input, derives the address and stores the record.
func (s *LocationService) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is missing", ErrMissingFields)
	}
	lat, lng, err := s.coordinates(in.Lat, in.Lng)
	if err != nil {
		return nil, err
	}

	address := s.enricher.Address(ctx, lat, lng)

	loc := models.Location{
		Name:        in.Name,
		Description: models.TextFrom(in.Description),
		Comment:     models.TextFrom(in.Comment),
		Address:     models.NewText(address),
		Latitude:    lat,
		Longitude:   lng,
	}

	id, err := s.store.InsertOne(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("service: failed to create location: %w", err)
	}

	s.logger.Info().Str("id", id).Str("name", loc.Name).Msg("location created")
	return &CreateResult{ID: id, Address: address}, nil
}

// Update merges the supplied fields into the record. The address is
// recomputed only when lat or lng is part of fields.
func (s *LocationService) Update(ctx context.Context, id string, fields map[string]any) error {
	patch, err := s.patchFrom(ctx, id, fields)
	if err != nil {
		return err
	}

	matched, err := s.store.UpdateOne(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("service: failed to update location: %w", err)
	}
	if matched == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the record with the given id.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteOne(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to delete location: %w", err)
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByName removes one record whose name equals name exactly.
func (s *LocationService) DeleteByName(ctx context.Context, name string) error {
	deleted, err := s.store.DeleteByName(ctx, name)
	if err != nil {
		return fmt.Errorf("service: failed to delete location by name: %w", err)
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *LocationService) coordinates(latRaw, lngRaw any) (float64, float64, error) {
	lat, lng, err := ParseCoordinates(latRaw, lngRaw)
	if err != nil {
		return 0, 0, err
	}
	if s.enforceRange {
		if err := CheckRange(lat, lng); err != nil {
			return 0, 0, err
		}
	}
	return lat, lng, nil
}

// patchFrom is the inbound normalizer for updates.
func (s *LocationService) patchFrom(ctx context.Context, id string, fields map[string]any) (models.Patch, error) {
	var patch models.Patch

	if raw, ok := fields["name"]; ok {
		name, isString := raw.(string)
		if !isString || name == "" {
			return patch, ErrInvalidName
		}
		patch.Name = &name
	}
	if raw, ok := fields["Description"]; ok {
		text := models.TextFrom(raw)
		patch.Description = &text
	}
	if raw, ok := fields["Comment"]; ok {
		text := models.TextFrom(raw)
		patch.Comment = &text
	}

	latRaw, hasLat := fields["lat"]
	lngRaw, hasLng := fields["lng"]
	if hasLat || hasLng {
		// The record must exist before the provider is asked for an address.
		current, err := s.store.FindOne(ctx, id)
		if err != nil {
			return patch, fmt.Errorf("service: failed to load location: %w", err)
		}
		if !hasLat {
			latRaw = models.CoordinateFrom(current.Latitude)
		}
		if !hasLng {
			lngRaw = models.CoordinateFrom(current.Longitude)
		}

		lat, lng, err := s.coordinates(latRaw, lngRaw)
		if err != nil {
			return patch, err
		}
		address := models.NewText(s.enricher.Address(ctx, lat, lng))
		patch.Latitude = &lat
		patch.Longitude = &lng
		patch.Address = &address
	}

	if patch.IsEmpty() {
		return patch, ErrNoUpdatableFields
	}
	return patch, nil
}
