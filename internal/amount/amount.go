// Package amount parses the decimal strings found in brokerage exports:
// "$1,234.56", "-$5.00", "1,000-", "" and so on.
package amount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed is returned when a value is not a decimal after formatting
// characters are stripped.
var ErrMalformed = errors.New("malformed numeric value")

// ErrEmpty is returned by Required when the value is empty after stripping.
var ErrEmpty = errors.New("empty numeric value")

// Parse strips currency symbols, thousands separators and blanks, then parses
// what is left. A single sign is accepted in leading ("-5", "-$5", "$-5") or
// trailing ("5-") position. ok is false when nothing but formatting remains,
// including a bare "-".
func Parse(s string) (d decimal.Decimal, ok bool, err error) {
	clean := strip(s)
	neg := false
	switch {
	case strings.HasPrefix(clean, "-"):
		neg = true
		clean = clean[1:]
	case strings.HasSuffix(clean, "-"):
		neg = true
		clean = clean[:len(clean)-1]
	case strings.HasPrefix(clean, "+"):
		clean = clean[1:]
	}
	if clean == "" {
		return decimal.Zero, false, nil
	}
	if strings.ContainsAny(clean, "+-") {
		return decimal.Zero, false, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	d, err = decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if neg {
		d = d.Neg()
	}
	return d, true, nil
}

// Magnitude parses s ignoring every sign character, so "-5", "--5" and "5-"
// all yield 5.
func Magnitude(s string) (decimal.Decimal, bool, error) {
	return Parse(strings.NewReplacer("-", "", "+", "").Replace(s))
}

// Required parses s and fails with ErrEmpty when nothing remains.
func Required(s string) (decimal.Decimal, error) {
	d, ok, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, ErrEmpty
	}
	return d, nil
}

// Optional parses s into a NullDecimal that is invalid when s is empty.
func Optional(s string) (decimal.NullDecimal, error) {
	d, ok, err := Parse(s)
	if err != nil || !ok {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// OrZero parses s, defaulting to an exact zero when s is empty.
func OrZero(s string) (decimal.Decimal, error) {
	d, _, err := Parse(s)
	return d, err
}

func strip(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '\t':
			return -1
		}
		return r
	}, s)
}
