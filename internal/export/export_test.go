package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func some(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func sampleStatement() *model.Statement {
	return &model.Statement{
		BrokerID:  "Schwab",
		AccountID: "XXXX1234",
		Currency:  "USD",
		BankLines: []model.Line{
			{ID: "20240301-1", Date: date(2024, 3, 1), Memo: "VERIFY ACCT", Amount: dec("-0.46"),
				Kind: model.KindBankTransaction, SubKind: model.SubKindDebit},
			{ID: "20240302-1", Date: date(2024, 3, 2), Memo: "CHECK PAID", Amount: dec("-120.00"),
				Kind: model.KindBankTransaction, SubKind: model.SubKindCheck, CheckNo: "1042"},
		},
		InvestLines: []model.Line{
			{ID: "20240301-2", Date: date(2024, 3, 1), Memo: "Buy SWVXX", Amount: dec("-100.00"),
				Kind: model.KindBuy, SecurityID: "SWVXX", Units: some("100"), UnitPrice: some("1.00"), Fees: some("0.50")},
			{ID: "20240303-1", Date: date(2024, 3, 3), Memo: "Sell VTI", Amount: dec("1000.00"),
				Kind: model.KindSell, SecurityID: "VTI", Units: some("-4"), UnitPrice: some("250.00")},
			{ID: "20240304-1", Date: date(2024, 3, 4), Memo: "Cash Dividend VTI", Amount: dec("8.00"),
				Kind: model.KindIncome, SubKind: model.SubKindDividend, SecurityID: "VTI"},
			{ID: "20240305-1", Date: date(2024, 3, 5), Memo: "NRA Tax Adj VTI", Amount: dec("-1.20"),
				Kind: model.KindExpense, SecurityID: "VTI"},
			{ID: "20240306-1", Date: date(2024, 3, 6), Memo: "Journal SWVXX", Amount: decimal.Zero,
				Kind: model.KindTransfer, SecurityID: "SWVXX", Units: some("-6"), UnitPrice: some("1")},
			{ID: "20240307-1", Date: date(2024, 3, 7), Memo: "Wire Sent R&D <fund>", Amount: dec("-500"),
				Kind: model.KindBankTransaction, SubKind: model.SubKindDebit},
		},
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"csv", "ofx", "xlsx"}, r.Formats())
	for _, f := range []string{"OFX", "Csv", "xlsx"} {
		w := r.Get(f)
		require.NotNil(t, w, f)
		assert.Equal(t, "."+strings.ToLower(f), w.Extension())
	}
	assert.Nil(t, r.Get("qif"))
	assert.Panics(t, func() { r.Register(&CSVWriter{}) })
}

func TestMarshalLine(t *testing.T) {
	s := sampleStatement()
	assert.Equal(t,
		[]string{"investment", "20240301-2", "2024-03-01", "BUY", "", "SWVXX", "100", "1", "-100", "0.5", "", "Buy SWVXX"},
		MarshalLine(model.LedgerInvestment, s.InvestLines[0]))
	assert.Equal(t,
		[]string{"bank", "20240302-1", "2024-03-02", "BANK_TRANSACTION", "CHECK", "", "", "", "-120", "", "1042", "CHECK PAID"},
		MarshalLine(model.LedgerBank, s.BankLines[1]))
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, sampleStatement()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 9)
	assert.Equal(t, Columns(), records[0])
	assert.Equal(t, "bank", records[1][colLedger])
	assert.Equal(t, "20240301-1", records[1][colID])
	assert.Equal(t, "investment", records[3][colLedger])
	assert.Equal(t, "Wire Sent R&D <fund>", records[8][colMemo])
}

func TestCSVWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, &model.Statement{}))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&XLSXWriter{}).Write(&buf, sampleStatement()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetInvestment, SheetBank}, f.GetSheetList())

	inv, err := f.GetRows(SheetInvestment)
	require.NoError(t, err)
	require.Len(t, inv, 7)
	assert.Equal(t, Columns(), inv[0])
	assert.Equal(t, "20240301-2", inv[1][colID])
	assert.Equal(t, "SELL", inv[2][colKind])
	assert.Equal(t, "-4", inv[2][colUnits])

	bank, err := f.GetRows(SheetBank)
	require.NoError(t, err)
	require.Len(t, bank, 3)
	assert.Equal(t, "CHECK", bank[2][colSubKind])
	assert.Equal(t, "1042", bank[2][colCheckNo])
}

func fixedOFX() *OFXWriter {
	return &OFXWriter{
		Now:    func() time.Time { return time.Date(2024, 4, 5, 10, 11, 12, 0, time.UTC) },
		NewUID: func() string { return "uid" },
	}
}

func TestOFXWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, fixedOFX().Write(&buf, sampleStatement()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "OFXHEADER:100\nDATA:OFXSGML\nVERSION:102\n"))
	assert.Contains(t, out, "<DTSERVER>20240405101112\n")
	assert.Contains(t, out, "<BANKMSGSRSV1>")
	assert.Contains(t, out, "<TRNUID>uid\n")
	assert.Contains(t, out, "<BANKID>Schwab\n<ACCTID>XXXX1234\n")
	assert.Contains(t, out, "<BROKERID>Schwab\n<ACCTID>XXXX1234\n")
	assert.Contains(t, out, "<DTSTART>20240301\n<DTEND>20240307\n")

	for _, tag := range []string{"BUYSTOCK", "SELLSTOCK", "INCOME", "INVEXPENSE", "TRANSFER", "INVBANKTRAN"} {
		assert.Contains(t, out, "<"+tag+">\n", tag)
		assert.Contains(t, out, "</"+tag+">\n", tag)
	}

	assert.Contains(t, out, "<TRNTYPE>CHECK\n<DTPOSTED>20240302\n<TRNAMT>-120\n<FITID>20240302-1\n<CHECKNUM>1042\n")
	assert.Contains(t, out, "<UNITS>100\n<UNITPRICE>1\n<FEES>0.5\n<TOTAL>-100\n")
	assert.Contains(t, out, "<SELLTYPE>SELL\n")
	assert.Contains(t, out, "<INCOMETYPE>DIV\n")
	assert.Contains(t, out, "<TFERACTION>OUT\n")
	assert.Contains(t, out, "<MEMO>Wire Sent R&amp;D &lt;fund&gt;\n")

	assert.Contains(t, out, "<SECLIST>\n")
	assert.Equal(t, 1, strings.Count(out, "<TICKER>SWVXX\n"))
	assert.Equal(t, 1, strings.Count(out, "<TICKER>VTI\n"))
	assert.Less(t, strings.Index(out, "<TICKER>SWVXX"), strings.Index(out, "<TICKER>VTI"))
	assert.True(t, strings.HasSuffix(out, "</OFX>\n"))
}

func TestOFXWriter_InvestmentOnly(t *testing.T) {
	s := sampleStatement()
	s.BankLines = nil

	var buf bytes.Buffer
	require.NoError(t, fixedOFX().Write(&buf, s))
	assert.NotContains(t, buf.String(), "<BANKMSGSRSV1>")
	assert.Contains(t, buf.String(), "<INVSTMTMSGSRSV1>")
}

func TestOFXWriter_BankOnly(t *testing.T) {
	s := sampleStatement()
	s.InvestLines = nil

	var buf bytes.Buffer
	require.NoError(t, fixedOFX().Write(&buf, s))
	assert.Contains(t, buf.String(), "<BANKMSGSRSV1>")
	assert.NotContains(t, buf.String(), "<INVSTMTMSGSRSV1>")
	assert.NotContains(t, buf.String(), "<SECLIST>")
}

func TestOFXWriter_UnknownKind(t *testing.T) {
	s := &model.Statement{InvestLines: []model.Line{{ID: "20240301-1", Date: date(2024, 3, 1), Kind: "BOGUS"}}}
	err := fixedOFX().Write(&bytes.Buffer{}, s)
	assert.ErrorContains(t, err, `no OFX transaction type for kind "BOGUS"`)
}

func TestOFXType(t *testing.T) {
	tests := map[model.Kind]string{
		model.KindBuy:             "BUYSTOCK",
		model.KindSell:            "SELLSTOCK",
		model.KindIncome:          "INCOME",
		model.KindTransfer:        "TRANSFER",
		model.KindBankTransaction: "INVBANKTRAN",
		model.KindExpense:         "INVEXPENSE",
	}
	for k, want := range tests {
		got, ok := OFXType(k)
		assert.True(t, ok, k)
		assert.Equal(t, want, got, k)
	}
}
