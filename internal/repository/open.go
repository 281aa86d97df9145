package repository

import (
	"context"
	"fmt"

	"github.com/3lielnashar/Customers-map/internal/config"
	"github.com/3lielnashar/Customers-map/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a location gateway together with its lifecycle.
type Store interface {
	InsertOne(ctx context.Context, loc models.Location) (string, error)
	FindOne(ctx context.Context, id string) (*models.Document, error)
	FindMany(ctx context.Context, filter models.Filter) ([]models.Document, error)
	UpdateOne(ctx context.Context, id string, patch models.Patch) (int64, error)
	DeleteOne(ctx context.Context, id string) (int64, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, locs []models.Location) error
	ReplaceAll(ctx context.Context, locs []models.Location) error

	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store = (*PostgresRepository)(nil)
	_ Store = (*MongoRepository)(nil)
)

// Open connects to the store selected by cfg.StoreDriver and makes sure its
// schema exists.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		store, err = openPostgres(ctx, cfg.DBSource)
	case config.DriverMongo:
		store, err = ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("repository: unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	return store, nil
}

func openPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository: failed to ping postgres: %w", err)
	}
	return NewPostgresRepository(pool), nil
}
