package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// CSVWriter writes every line of both ledgers as one CSV table.
type CSVWriter struct{}

func (*CSVWriter) Format() string    { return "csv" }
func (*CSVWriter) Extension() string { return ".csv" }

// Write writes the header and one row per line, bank lines first.
func (*CSVWriter) Write(w io.Writer, s *model.Statement) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := 1
	err := ledgerLines(s, func(ledger model.Ledger, l model.Line) error {
		row++
		if err := cw.Write(MarshalLine(ledger, l)); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
