package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// LooseString decodes any JSON scalar as text. Strings keep their value,
// numbers and booleans keep their literal form, null becomes empty.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (s *LooseString) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		*s = ""
	case raw[0] == '"':
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			*s = ""
			return nil
		}
		*s = LooseString(v)
	default:
		*s = LooseString(raw)
	}
	return nil
}

// String returns the raw text.
func (s LooseString) String() string { return string(s) }

// Trimmed returns the text without surrounding whitespace.
func (s LooseString) Trimmed() string { return strings.TrimSpace(string(s)) }

// LooseNumber decodes a JSON value into a number, coercing anything that
// is not numeric to zero. Numeric strings are accepted, booleans map to 0/1.
type LooseNumber struct {
	decimal.Decimal
}

// NewLooseNumber builds a LooseNumber from an integer.
func NewLooseNumber(v int64) LooseNumber {
	return LooseNumber{Decimal: decimal.NewFromInt(v)}
}

// ParseLooseNumber coerces text the same way UnmarshalJSON coerces a JSON string.
func ParseLooseNumber(s string) LooseNumber {
	s = strings.TrimSpace(s)
	if s == "" {
		return LooseNumber{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return LooseNumber{}
	}
	return LooseNumber{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (n *LooseNumber) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")):
		*n = LooseNumber{}
	case bytes.Equal(raw, []byte("true")):
		*n = NewLooseNumber(1)
	case raw[0] == '"':
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			*n = LooseNumber{}
			return nil
		}
		*n = ParseLooseNumber(v)
	case raw[0] == '[' || raw[0] == '{':
		*n = LooseNumber{}
	default:
		*n = ParseLooseNumber(string(raw))
	}
	return nil
}

// MarshalJSON renders the value as a bare JSON number.
func (n LooseNumber) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}
