package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Sheet names.
const (
	SheetInvestment = "Investment"
	SheetBank       = "Bank"
)

// XLSXWriter writes a workbook with one sheet per ledger. Numeric columns are
// stored as numbers, everything else as text.
type XLSXWriter struct{}

func (*XLSXWriter) Format() string    { return "xlsx" }
func (*XLSXWriter) Extension() string { return ".xlsx" }

func (*XLSXWriter) Write(w io.Writer, s *model.Statement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInvestment); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetBank); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	sheets := []struct {
		name   string
		ledger model.Ledger
		lines  []model.Line
	}{
		{SheetInvestment, model.LedgerInvestment, s.InvestLines},
		{SheetBank, model.LedgerBank, s.BankLines},
	}
	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.ledger, sh.lines, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", sh.name, err)
		}
	}

	idx, err := f.GetSheetIndex(SheetInvestment)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, ledger model.Ledger, lines []model.Line, headerStyle int) error {
	header := make([]interface{}, 0, numFields)
	for _, c := range Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := cells(MarshalLine(ledger, l), l)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "K", 14); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "L", "L", 48)
}

// cells converts a marshaled row, replacing numeric columns with numbers.
func cells(row []string, l model.Line) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	out[colAmount] = l.Amount.InexactFloat64()
	if l.Units.Valid {
		out[colUnits] = l.Units.Decimal.InexactFloat64()
	}
	if l.UnitPrice.Valid {
		out[colUnitPrice] = l.UnitPrice.Decimal.InexactFloat64()
	}
	if l.Fees.Valid {
		out[colFees] = l.Fees.Decimal.InexactFloat64()
	}
	return out
}
