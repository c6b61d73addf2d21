package statement

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/schwabstmt/internal/amount"
	"github.com/cleared-dev/schwabstmt/internal/classify"
	"github.com/cleared-dev/schwabstmt/internal/model"
)

// keyed is a brokerage record with its parsed ordering key.
type keyed struct {
	raw      model.RawTransaction
	index    int // position in the export, 0-based
	date     time.Time
	action   string
	symbol   string
	amount   decimal.Decimal
	quantity decimal.Decimal
}

func keyOf(i int, r model.RawTransaction) (keyed, error) {
	date, err := classify.ParseDate(r)
	if err != nil {
		return keyed{}, err
	}
	amt, err := sortDecimal(r, model.FieldAmount, amount.OrZero)
	if err != nil {
		return keyed{}, err
	}
	parseQty := amount.OrZero
	if classify.IsTrade(r.Action()) {
		parseQty = magnitudeOrZero
	}
	qty, err := sortDecimal(r, model.FieldQuantity, parseQty)
	if err != nil {
		return keyed{}, err
	}
	return keyed{
		raw:      r,
		index:    i,
		date:     date,
		action:   r.Action(),
		symbol:   r.Symbol(),
		amount:   amt,
		quantity: qty,
	}, nil
}

// magnitudeOrZero matches how trades read Quantity, so a key the classifier
// accepts never fails here.
func magnitudeOrZero(s string) (decimal.Decimal, error) {
	d, _, err := amount.Magnitude(s)
	return d, err
}

func sortDecimal(r model.RawTransaction, field string, parse func(string) (decimal.Decimal, error)) (decimal.Decimal, error) {
	v := r.Value(field)
	d, err := parse(v)
	if err != nil {
		return decimal.Zero, &classify.FieldError{
			Field: field,
			Value: v,
			Err:   fmt.Errorf("%w: %w", classify.ErrMalformedNumeric, err),
		}
	}
	return d, nil
}

func compareKeyed(a, b keyed) int {
	if c := a.date.Compare(b.date); c != 0 {
		return c
	}
	if c := strings.Compare(a.action, b.action); c != 0 {
		return c
	}
	if c := strings.Compare(a.symbol, b.symbol); c != 0 {
		return c
	}
	if c := a.amount.Cmp(b.amount); c != 0 {
		return c
	}
	return a.quantity.Cmp(b.quantity)
}

// Order returns the brokerage records in processing order: ascending by date,
// then action, symbol, amount and quantity. Records equal on every key keep
// their export order.
func Order(raw []model.RawTransaction) ([]model.RawTransaction, error) {
	ks, err := orderKeyed(raw)
	if err != nil {
		return nil, err
	}
	out := make([]model.RawTransaction, len(ks))
	for i, k := range ks {
		out[i] = k.raw
	}
	return out, nil
}

func orderKeyed(raw []model.RawTransaction) ([]keyed, error) {
	ks := make([]keyed, 0, len(raw))
	for i, r := range raw {
		k, err := keyOf(i, r)
		if err != nil {
			return nil, fmt.Errorf("brokerage transaction %d: %w", i+1, err)
		}
		ks = append(ks, k)
	}
	slices.SortStableFunc(ks, compareKeyed)
	return ks, nil
}
