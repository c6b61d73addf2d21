package export

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Header is the column set shared by the CSV and XLSX writers.
const Header = "ledger,id,date,kind,sub_kind,security_id,units,unit_price,amount,fees,check_no,memo"

const (
	numFields    = 12
	dateFormat   = "2006-01-02"
	colLedger    = 0
	colID        = 1
	colDate      = 2
	colKind      = 3
	colSubKind   = 4
	colSecurity  = 5
	colUnits     = 6
	colUnitPrice = 7
	colAmount    = 8
	colFees      = 9
	colCheckNo   = 10
	colMemo      = 11
)

// Columns returns Header split into names.
func Columns() []string { return strings.Split(Header, ",") }

// MarshalLine converts a line to a row. Absent optional values are empty.
func MarshalLine(ledger model.Ledger, l model.Line) []string {
	row := make([]string, numFields)
	row[colLedger] = string(ledger)
	row[colID] = l.ID
	row[colDate] = l.Date.Format(dateFormat)
	row[colKind] = string(l.Kind)
	row[colSubKind] = string(l.SubKind)
	row[colSecurity] = l.SecurityID
	row[colUnits] = nullString(l.Units)
	row[colUnitPrice] = nullString(l.UnitPrice)
	row[colAmount] = l.Amount.String()
	row[colFees] = nullString(l.Fees)
	row[colCheckNo] = l.CheckNo
	row[colMemo] = l.Memo
	return row
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// ledgerLines walks both ledgers, bank first.
func ledgerLines(s *model.Statement, fn func(model.Ledger, model.Line) error) error {
	for _, l := range s.BankLines {
		if err := fn(model.LedgerBank, l); err != nil {
			return err
		}
	}
	for _, l := range s.InvestLines {
		if err := fn(model.LedgerInvestment, l); err != nil {
			return err
		}
	}
	return nil
}
