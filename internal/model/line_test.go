package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func units(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestLineValidate(t *testing.T) {
	base := Line{ID: "20240209-1", Date: day(2024, 2, 9)}

	tests := []struct {
		name    string
		mutate  func(l *Line)
		wantErr string
	}{
		{"sell ok", func(l *Line) { l.Kind = KindSell; l.SecurityID = "SWVXX"; l.Units = units("-1000") }, ""},
		{"buy ok", func(l *Line) { l.Kind = KindBuy; l.SecurityID = "SWVXX"; l.Units = units("100") }, ""},
		{"bank ok", func(l *Line) { l.Kind = KindBankTransaction; l.SubKind = SubKindTransfer }, ""},
		{"transfer negative ok", func(l *Line) { l.Kind = KindTransfer; l.SecurityID = "X"; l.Units = units("-6") }, ""},
		{"no id", func(l *Line) { l.ID = ""; l.Kind = KindBuy }, "no id"},
		{"no date", func(l *Line) { l.Date = time.Time{}; l.Kind = KindBuy }, "no date"},
		{"bad kind", func(l *Line) { l.Kind = "GIFT" }, "unknown kind"},
		{"bank without sub-kind", func(l *Line) { l.Kind = KindBankTransaction }, "not valid"},
		{"income with bank sub-kind", func(l *Line) { l.Kind = KindIncome; l.SecurityID = "X"; l.SubKind = SubKindTransfer }, "not valid"},
		{"units without security", func(l *Line) { l.Kind = KindTransfer; l.Units = units("5") }, "without a security"},
		{"price without security", func(l *Line) { l.Kind = KindTransfer; l.UnitPrice = units("1") }, "without a security"},
		{"sell positive", func(l *Line) { l.Kind = KindSell; l.SecurityID = "X"; l.Units = units("3") }, "positive units"},
		{"buy negative", func(l *Line) { l.Kind = KindBuy; l.SecurityID = "X"; l.Units = units("-3") }, "negative units"},
	}
	for _, tt := range tests {
		l := base
		tt.mutate(&l)
		err := l.Validate()
		if tt.wantErr == "" {
			assert.NoError(t, err, tt.name)
			continue
		}
		if assert.Error(t, err, tt.name) {
			assert.Contains(t, err.Error(), tt.wantErr, tt.name)
		}
	}
}

func TestStatementDateRange(t *testing.T) {
	s := &Statement{
		BankLines:   []Line{{ID: "a", Date: day(2024, 3, 1)}},
		InvestLines: []Line{{ID: "b", Date: day(2023, 9, 22)}, {ID: "c", Date: day(2024, 4, 2)}},
	}
	start, end := s.DateRange()
	assert.Equal(t, day(2023, 9, 22), start)
	assert.Equal(t, day(2024, 4, 2), end)
	assert.Equal(t, 3, s.Len())
	assert.Len(t, s.Lines(), 3)

	empty := &Statement{}
	start, end = empty.DateRange()
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}

func TestKindAllows(t *testing.T) {
	assert.True(t, KindIncome.Allows(SubKindDividend))
	assert.True(t, KindBankTransaction.Allows(SubKindCheck))
	assert.False(t, KindSell.Allows(SubKindDividend))
	assert.True(t, KindSell.Allows(""))

	sk, ok := ParseBankSubKind("XFER")
	assert.True(t, ok)
	assert.Equal(t, SubKindTransfer, sk)
	_, ok = ParseBankSubKind("DIV")
	assert.False(t, ok)
}
