package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NullFloat distinguishes a parsed numeric value from an unparseable or
// absent one. Coercion to null instead of raising is a deliberate policy:
// one bad cell in a 100-plot sheet must not abort the whole computation.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float wraps a known-good value.
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// ParseFloat coerces a cell string to a NullFloat. Whitespace is trimmed;
// empty or non-numeric input yields an invalid value, never an error.
func ParseFloat(s string) NullFloat {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// MarshalJSON encodes an invalid value as null.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON decodes null as an invalid value.
func (f *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = NullFloat{}
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}
