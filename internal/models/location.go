package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Location is a named point of interest as it is exposed to API and CSV consumers.
type Location struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description Text    `json:"Description"`
	Comment     Text    `json:"Comment"`
	Address     Text    `json:"Address"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
}

// Document is a record exactly as a store returned it. Optional text and
// coordinates are left untyped because legacy rows carry numeric NaN
// placeholders and string-typed coordinates.
type Document struct {
	ID          string
	Name        any
	Description any
	Comment     any
	Address     any
	Latitude    any
	Longitude   any
}

// Patch holds the fields of a partial update. Nil means "leave unchanged".
type Patch struct {
	Name        *string
	Description *Text
	Comment     *Text
	Address     *Text
	Latitude    *float64
	Longitude   *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Comment == nil &&
		p.Address == nil && p.Latitude == nil && p.Longitude == nil
}

// Filter selects records in FindMany. A zero Filter matches everything.
type Filter struct {
	// NameContains is matched as a case-insensitive literal substring.
	NameContains string
}

// FromDocument converts a stored document into its canonical outbound shape.
func FromDocument(d Document) Location {
	loc := Location{
		ID:          d.ID,
		Name:        stringFrom(d.Name),
		Description: TextFrom(d.Description),
		Comment:     TextFrom(d.Comment),
		Address:     TextFrom(d.Address),
		Latitude:    CoordinateFrom(d.Latitude),
		Longitude:   CoordinateFrom(d.Longitude),
	}
	return loc.Normalize()
}

// FromDocuments applies FromDocument to every element, never returning nil.
func FromDocuments(docs []Document) []Location {
	locations := make([]Location, 0, len(docs))
	for _, d := range docs {
		locations = append(locations, FromDocument(d))
	}
	return locations
}

// Normalize returns l with every optional field in canonical form.
func (l Location) Normalize() Location {
	l.Description = l.Description.Normalize()
	l.Comment = l.Comment.Normalize()
	l.Address = l.Address.Normalize()
	if !finite(l.Latitude) {
		l.Latitude = 0
	}
	if !finite(l.Longitude) {
		l.Longitude = 0
	}
	return l
}

// CoordinateFrom reads a stored coordinate. Values that cannot be read as a
// finite number become 0 so that the record stays encodable.
func CoordinateFrom(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if !finite(f) {
		return 0
	}
	return f
}

func stringFrom(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
