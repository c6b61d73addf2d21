package classify

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/schwabstmt/internal/amount"
	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Record is a string-keyed source record; both model.RawTransaction and
// model.PostedTransaction satisfy it.
type Record interface {
	Get(field string) (string, bool)
}

const dateLayout = "01/02/2006"

// ParseDate reads the record's Date field. Only the leading MM/DD/YYYY is
// used, so "02/09/2024 as of 02/08/2024" is February 9.
func ParseDate(r Record) (time.Time, error) {
	v, ok := r.Get(model.FieldDate)
	if !ok || v == "" {
		return time.Time{}, missing(model.FieldDate)
	}
	if len(v) < len(dateLayout) {
		return time.Time{}, &FieldError{Field: model.FieldDate, Value: v, Err: ErrMalformedDate}
	}
	d, err := time.Parse(dateLayout, v[:len(dateLayout)])
	if err != nil {
		return time.Time{}, &FieldError{Field: model.FieldDate, Value: v, Err: fmt.Errorf("%w: %w", ErrMalformedDate, err)}
	}
	return d, nil
}

func requiredString(r Record, field string) (string, error) {
	v, ok := r.Get(field)
	if !ok || v == "" {
		return "", missing(field)
	}
	return v, nil
}

func requiredDecimal(r Record, field string) (decimal.Decimal, error) {
	v, _ := r.Get(field)
	d, err := amount.Required(v)
	switch {
	case errors.Is(err, amount.ErrEmpty):
		return decimal.Zero, missing(field)
	case err != nil:
		return decimal.Zero, malformedNumeric(field, v, err)
	}
	return d, nil
}

func magnitudeDecimal(r Record, field string) (decimal.Decimal, error) {
	v, _ := r.Get(field)
	d, ok, err := amount.Magnitude(v)
	if err != nil {
		return decimal.Zero, malformedNumeric(field, v, err)
	}
	if !ok {
		return decimal.Zero, missing(field)
	}
	return d, nil
}

func optionalDecimal(r Record, field string) (decimal.NullDecimal, error) {
	v, _ := r.Get(field)
	n, err := amount.Optional(v)
	if err != nil {
		return decimal.NullDecimal{}, malformedNumeric(field, v, err)
	}
	return n, nil
}

func zeroDecimal(r Record, field string) (decimal.Decimal, error) {
	v, _ := r.Get(field)
	d, err := amount.OrZero(v)
	if err != nil {
		return decimal.Zero, malformedNumeric(field, v, err)
	}
	return d, nil
}
