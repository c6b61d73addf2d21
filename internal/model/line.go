package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger names one of the two statement partitions.
type Ledger string

const (
	LedgerBank       Ledger = "bank"
	LedgerInvestment Ledger = "investment"
)

// Line is a normalized statement line.
type Line struct {
	ID         string // "YYYYMMDD-N"
	Date       time.Time
	Memo       string
	Amount     decimal.Decimal // negative = outflow
	Kind       Kind
	SubKind    SubKind
	SecurityID string // "" = no security
	Units      decimal.NullDecimal
	UnitPrice  decimal.NullDecimal
	Fees       decimal.NullDecimal
	CheckNo    string
}

// HasSecurity reports whether the line references a security.
func (l Line) HasSecurity() bool { return l.SecurityID != "" }

// Validate checks the structural invariants every line must satisfy before it
// is appended to a statement.
func (l Line) Validate() error {
	if l.ID == "" {
		return errors.New("line has no id")
	}
	if l.Date.IsZero() {
		return fmt.Errorf("line %s has no date", l.ID)
	}
	if !l.Kind.Valid() {
		return fmt.Errorf("line %s: unknown kind %q", l.ID, l.Kind)
	}
	if !l.Kind.Allows(l.SubKind) {
		return fmt.Errorf("line %s: sub-kind %q not valid for %s", l.ID, l.SubKind, l.Kind)
	}
	if !l.HasSecurity() && (l.Units.Valid || l.UnitPrice.Valid) {
		return fmt.Errorf("line %s: units or unit price without a security", l.ID)
	}
	if l.Units.Valid {
		switch {
		case l.Kind.IsDisposal() && l.Units.Decimal.IsPositive():
			return fmt.Errorf("line %s: %s with positive units %s", l.ID, l.Kind, l.Units.Decimal)
		case l.Kind == KindBuy && l.Units.Decimal.IsNegative():
			return fmt.Errorf("line %s: %s with negative units %s", l.ID, l.Kind, l.Units.Decimal)
		}
	}
	return nil
}

// Advisory is a non-fatal note attached to a classified line.
type Advisory struct {
	LineID  string
	Date    time.Time
	Action  string
	Symbol  string
	Message string
}

func (a Advisory) String() string {
	return fmt.Sprintf("%s %s %s: %s", a.LineID, a.Action, a.Symbol, a.Message)
}
