package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Cents is a fixed-point money amount with two decimal places, stored as
// integer cents so sums stay exact in SQL and in Go.
type Cents int64

// ErrBadAmount indicates an amount string that cannot be parsed.
var ErrBadAmount = errors.New("malformed amount")

// ParseCents parses a decimal string like "400", "400.5", or "400.50"
// into cents. More than two fractional digits is rejected rather than
// rounded.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadAmount
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrBadAmount
	}
	if len(frac) > 2 {
		return 0, ErrBadAmount
	}
	// Pad "400.5" to "400.50".
	for len(frac) < 2 {
		frac += "0"
	}

	var cents int64
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, ErrBadAmount
			}
			digit := int64(r - '0')
			// Reject amounts that would overflow int64 instead of
			// letting the accumulation wrap.
			if cents > (math.MaxInt64-digit)/10 {
				return 0, ErrBadAmount
			}
			cents = cents*10 + digit
		}
	}
	if negative {
		cents = -cents
	}
	return Cents(cents), nil
}

// String formats the amount with two decimal places, e.g. "400.00".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal string to keep clients away
// from float arithmetic.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON accepts a decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
