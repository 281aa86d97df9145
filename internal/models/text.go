package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Text is an optional free-text field. The zero value is absent.
// Absent text encodes as JSON null and as an empty CSV cell.
type Text struct {
	String string
	Valid  bool
}

// NewText returns s as present text, or absent text when s is empty.
func NewText(s string) Text {
	if s == "" {
		return Text{}
	}
	return Text{String: s, Valid: true}
}

// TextFrom reads an optional text value from any store or request surface.
// nil, "", false and non-finite numbers are all treated as absent.
func TextFrom(v any) Text {
	switch t := v.(type) {
	case nil:
		return Text{}
	case Text:
		return t.Normalize()
	case string:
		return NewText(t)
	case bool:
		if !t {
			return Text{}
		}
		return NewText("true")
	case float64:
		return textFromFloat(t)
	case float32:
		return textFromFloat(float64(t))
	case int:
		return NewText(strconv.Itoa(t))
	case int32:
		return NewText(strconv.FormatInt(int64(t), 10))
	case int64:
		return NewText(strconv.FormatInt(t, 10))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return textFromFloat(f)
		}
		return NewText(t.String())
	default:
		return Text{}
	}
}

func textFromFloat(f float64) Text {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text{}
	}
	return NewText(strconv.FormatFloat(f, 'f', -1, 64))
}

// Normalize folds present-but-empty text into absent text.
func (t Text) Normalize() Text {
	if !t.Valid || t.String == "" {
		return Text{}
	}
	return t
}

// Value returns the text, or "" when absent.
func (t Text) Value() string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid || t.String == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.String)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Text{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = NewText(s)
	return nil
}
