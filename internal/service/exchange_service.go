package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/3lielnashar/Customers-map/internal/lock"
	"github.com/3lielnashar/Customers-map/internal/models"

	"github.com/rs/zerolog"
)

// ExportFilename is the attachment name used for CSV downloads.
const ExportFilename = "customers_export.csv"

// CSVHeader is the exact column order of exported files.
var CSVHeader = []string{"name", "Description", "Comment", "Address", "lat", "lng"}

var requiredColumns = []string{"name", "lat", "lng"}

// ExchangeService moves the whole collection to and from CSV.
type ExchangeService struct {
	store  LocationStore
	locker lock.Locker
	logger zerolog.Logger
}

// NewExchangeService creates an exchange service. Imports are serialized by locker.
func NewExchangeService(store LocationStore, locker lock.Locker, logger zerolog.Logger) *ExchangeService {
	return &ExchangeService{store: store, locker: locker, logger: logger}
}

// Export writes every record as CSV and returns the number of data rows.
func (s *ExchangeService) Export(ctx context.Context, w io.Writer) (int, error) {
	docs, err := s.store.FindMany(ctx, models.Filter{})
	if err != nil {
		return 0, fmt.Errorf("service: failed to load locations for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, fmt.Errorf("service: failed to write CSV header: %w", err)
	}

	for _, doc := range docs {
		loc := models.FromDocument(doc)
		row := []string{
			loc.Name,
			loc.Description.Value(),
			loc.Comment.Value(),
			loc.Address.Value(),
			strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
			strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("service: failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("service: failed to flush CSV: %w", err)
	}
	return len(docs), nil
}

// Import replaces the whole collection with the rows of a CSV file.
// The file is fully parsed before the store is touched, and the replacement
// itself is atomic, so a bad file leaves the existing records in place.
func (s *ExchangeService) Import(ctx context.Context, filename string, r io.Reader) (int, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return 0, ErrInvalidFileType
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	locs, err := ParseCSV(r)
	if err != nil {
		return 0, err
	}

	if err := s.store.ReplaceAll(ctx, locs); err != nil {
		return 0, fmt.Errorf("service: failed to replace locations: %w", err)
	}

	s.logger.Info().Str("file", filename).Int("count", len(locs)).Msg("locations imported")
	return len(locs), nil
}

// Append adds the rows of a CSV file to the collection, keeping what is
// stored. Nothing is written unless every row parses.
func (s *ExchangeService) Append(ctx context.Context, r io.Reader) (int, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	locs, err := ParseCSV(r)
	if err != nil {
		return 0, err
	}
	if len(locs) == 0 {
		return 0, nil
	}

	if err := s.store.InsertMany(ctx, locs); err != nil {
		return 0, fmt.Errorf("service: failed to append locations: %w", err)
	}

	s.logger.Info().Int("count", len(locs)).Msg("locations appended")
	return len(locs), nil
}

// Purge deletes every record. It holds the import lock so it cannot
// interleave with a running import.
func (s *ExchangeService) Purge(ctx context.Context) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("service: failed to purge locations: %w", err)
	}

	s.logger.Warn().Msg("locations purged")
	return nil
}

func (s *ExchangeService) acquire(ctx context.Context) (func(), error) {
	release, err := s.locker.TryLock(ctx)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return nil, ErrImportInProgress
		}
		return nil, fmt.Errorf("service: failed to acquire import lock: %w", err)
	}
	return release, nil
}

// ParseCSV reads an import file into store-ready records. It fails on the
// first row that is not UTF-8 text or whose coordinates cannot be parsed,
// reporting the 1-based data row.
func ParseCSV(r io.Reader) ([]models.Location, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrMissingColumns)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	if !validText(header) {
		return nil, fmt.Errorf("%w: header: invalid UTF-8", ErrMalformedCSV)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, ErrMissingColumns
		}
	}

	cell := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	locs := []models.Location{}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedCSV, row, err)
		}
		if !validText(record) {
			return nil, fmt.Errorf("%w: row %d: invalid UTF-8", ErrMalformedCSV, row)
		}

		name := cell(record, "name")
		if name == "" {
			return nil, fmt.Errorf("%w: name is missing on row %d", ErrMissingFields, row)
		}

		lat, err := parseCell(cell(record, "lat"))
		if err != nil {
			return nil, fmt.Errorf("%w: lat %q on row %d", ErrMalformedCoordinate, cell(record, "lat"), row)
		}
		lng, err := parseCell(cell(record, "lng"))
		if err != nil {
			return nil, fmt.Errorf("%w: lng %q on row %d", ErrMalformedCoordinate, cell(record, "lng"), row)
		}

		locs = append(locs, models.Location{
			Name:        name,
			Description: models.NewText(cell(record, "Description")),
			Comment:     models.NewText(cell(record, "Comment")),
			Address:     models.NewText(cell(record, "Address")),
			Latitude:    lat,
			Longitude:   lng,
		})
	}

	return locs, nil
}

// validText reports whether every cell is UTF-8 without NUL bytes, which is
// what both stores accept as text.
func validText(cells []string) bool {
	for _, c := range cells {
		if !utf8.ValidString(c) || strings.ContainsRune(c, 0) {
			return false
		}
	}
	return true
}

func parseCell(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}
