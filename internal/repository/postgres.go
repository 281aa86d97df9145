package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/3lielnashar/Customers-map/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		seq BIGINT GENERATED ALWAYS AS IDENTITY,
		name TEXT NOT NULL,
		description TEXT,
		comment TEXT,
		address TEXT,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS locations_lower_name_idx ON locations (lower(name));
	CREATE INDEX IF NOT EXISTS locations_seq_idx ON locations (seq);
`

const selectColumns = `id::text, name, description, comment, address, lat, lng`

var copyColumns = []string{"name", "description", "comment", "address", "lat", "lng"}

// PostgresRepository stores locations in a PostgreSQL table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the locations table and its indexes when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close(context.Context) error {
	r.db.Close()
	return nil
}

func parseUUID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return parsed, nil
}

func scanDocument(row pgx.Row) (models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.Description,
		&doc.Comment,
		&doc.Address,
		&doc.Latitude,
		&doc.Longitude,
	)
	return doc, err
}

func (r *PostgresRepository) InsertOne(ctx context.Context, loc models.Location) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO locations (name, description, comment, address, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text
	`, loc.Name, loc.Description.Value(), loc.Comment.Value(), loc.Address.Value(), loc.Latitude, loc.Longitude).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("repository: failed to insert location: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) FindOne(ctx context.Context, id string) (*models.Document, error) {
	parsed, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	doc, err := scanDocument(r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM locations WHERE id = $1`, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find location: %w", err)
	}
	return &doc, nil
}

// FindMany returns all rows in insertion order, optionally narrowed to names
// containing filter.NameContains regardless of case. The needle is matched
// literally.
func (r *PostgresRepository) FindMany(ctx context.Context, filter models.Filter) ([]models.Document, error) {
	sql := `SELECT ` + selectColumns + ` FROM locations`
	var args []any
	if filter.NameContains != "" {
		sql += ` WHERE strpos(lower(name), lower($1)) > 0`
		args = append(args, filter.NameContains)
	}
	sql += ` ORDER BY seq`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute find query: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan location: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return docs, nil
}

// UpdateOne applies the set fields of patch and returns the number of rows matched.
func (r *PostgresRepository) UpdateOne(ctx context.Context, id string, patch models.Patch) (int64, error) {
	parsed, err := parseUUID(id)
	if err != nil {
		return 0, err
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", patch.Description.Value())
	}
	if patch.Comment != nil {
		set("comment", patch.Comment.Value())
	}
	if patch.Address != nil {
		set("address", patch.Address.Value())
	}
	if patch.Latitude != nil {
		set("lat", *patch.Latitude)
	}
	if patch.Longitude != nil {
		set("lng", *patch.Longitude)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, parsed)
	sql := fmt.Sprintf(`UPDATE locations SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to update location: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) DeleteOne(ctx context.Context, id string) (int64, error) {
	parsed, err := parseUUID(id)
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, parsed)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to delete location: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByName removes the oldest row whose name equals name exactly.
func (r *PostgresRepository) DeleteByName(ctx context.Context, name string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM locations
		WHERE id = (SELECT id FROM locations WHERE name = $1 ORDER BY seq LIMIT 1)
	`, name)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to delete location by name: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("repository: failed to delete locations: %w", err)
	}
	return nil
}

// InsertMany appends locs with a single COPY.
func (r *PostgresRepository) InsertMany(ctx context.Context, locs []models.Location) error {
	if len(locs) == 0 {
		return nil
	}
	if _, err := r.db.CopyFrom(ctx, pgx.Identifier{"locations"}, copyColumns, copySource(locs)); err != nil {
		return fmt.Errorf("repository: failed to copy locations: %w", err)
	}
	return nil
}

// ReplaceAll swaps the table contents for locs inside one transaction, so
// readers see either the old rows or the new ones.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, locs []models.Location) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("repository: failed to clear locations: %w", err)
	}
	if len(locs) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"locations"}, copyColumns, copySource(locs)); err != nil {
			return fmt.Errorf("repository: failed to copy locations: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit replacement: %w", err)
	}
	return nil
}

func copySource(locs []models.Location) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(locs), func(i int) ([]any, error) {
		l := locs[i]
		return []any{l.Name, l.Description.Value(), l.Comment.Value(), l.Address.Value(), l.Latitude, l.Longitude}, nil
	})
}
