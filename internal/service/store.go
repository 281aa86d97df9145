package service

import (
	"context"

	"github.com/3lielnashar/Customers-map/internal/models"
)

// LocationStore is the only path to the document store. Reads return raw
// documents; the services normalize them before they leave the process.
type LocationStore interface {
	InsertOne(ctx context.Context, loc models.Location) (string, error)
	FindOne(ctx context.Context, id string) (*models.Document, error)
	FindMany(ctx context.Context, filter models.Filter) ([]models.Document, error)
	UpdateOne(ctx context.Context, id string, patch models.Patch) (int64, error)
	DeleteOne(ctx context.Context, id string) (int64, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, locs []models.Location) error
	// ReplaceAll swaps the whole collection for locs in one atomic step.
	ReplaceAll(ctx context.Context, locs []models.Location) error
}
