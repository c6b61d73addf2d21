package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

`

const ofxDate = "20060102"

// OFXWriter writes OFX 1.02 (SGML). Bank lines go to a bank statement,
// investment lines to an investment statement with a security list.
type OFXWriter struct {
	// Now stamps DTSERVER and DTASOF; nil means time.Now.
	Now func() time.Time
	// NewUID generates TRNUIDs; nil means a random UUID.
	NewUID func() string
}

func (*OFXWriter) Format() string    { return "ofx" }
func (*OFXWriter) Extension() string { return ".ofx" }

func (o *OFXWriter) Write(w io.Writer, s *model.Statement) error {
	bw := bufio.NewWriter(w)
	sg := &sgml{w: bw}

	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	uid := uuid.NewString
	if o.NewUID != nil {
		uid = o.NewUID
	}
	stamp := now().UTC().Format("20060102150405")
	currency := s.Currency
	if currency == "" {
		currency = "USD"
	}

	sg.raw(ofxHeader)
	sg.open("OFX")

	sg.open("SIGNONMSGSRSV1")
	sg.open("SONRS")
	status(sg)
	sg.elem("DTSERVER", stamp)
	sg.elem("LANGUAGE", "ENG")
	sg.close("SONRS")
	sg.close("SIGNONMSGSRSV1")

	if len(s.BankLines) > 0 {
		sg.open("BANKMSGSRSV1")
		sg.open("STMTTRNRS")
		sg.elem("TRNUID", uid())
		status(sg)
		sg.open("STMTRS")
		sg.elem("CURDEF", currency)
		sg.open("BANKACCTFROM")
		sg.elem("BANKID", s.BrokerID)
		sg.elem("ACCTID", s.AccountID)
		sg.elem("ACCTTYPE", "CHECKING")
		sg.close("BANKACCTFROM")
		sg.open("BANKTRANLIST")
		dateRange(sg, s.BankLines)
		for _, l := range s.BankLines {
			stmtTrn(sg, l)
		}
		sg.close("BANKTRANLIST")
		sg.close("STMTRS")
		sg.close("STMTTRNRS")
		sg.close("BANKMSGSRSV1")
	}

	if len(s.InvestLines) > 0 {
		sg.open("INVSTMTMSGSRSV1")
		sg.open("INVSTMTTRNRS")
		sg.elem("TRNUID", uid())
		status(sg)
		sg.open("INVSTMTRS")
		sg.elem("DTASOF", stamp)
		sg.elem("CURDEF", currency)
		sg.open("INVACCTFROM")
		sg.elem("BROKERID", s.BrokerID)
		sg.elem("ACCTID", s.AccountID)
		sg.close("INVACCTFROM")
		sg.open("INVTRANLIST")
		dateRange(sg, s.InvestLines)
		for _, l := range s.InvestLines {
			if err := invTran(sg, l); err != nil {
				return err
			}
		}
		sg.close("INVTRANLIST")
		sg.close("INVSTMTRS")
		sg.close("INVSTMTTRNRS")
		sg.close("INVSTMTMSGSRSV1")

		if secs := securities(s.InvestLines); len(secs) > 0 {
			sg.open("SECLISTMSGSRSV1")
			sg.open("SECLIST")
			for _, sec := range secs {
				sg.open("STOCKINFO")
				sg.open("SECINFO")
				secID(sg, sec)
				sg.elem("SECNAME", sec)
				sg.elem("TICKER", sec)
				sg.close("SECINFO")
				sg.close("STOCKINFO")
			}
			sg.close("SECLIST")
			sg.close("SECLISTMSGSRSV1")
		}
	}

	sg.close("OFX")
	if sg.err != nil {
		return fmt.Errorf("writing OFX: %w", sg.err)
	}
	return bw.Flush()
}

// OFXType returns the INVTRANLIST aggregate used for a kind.
func OFXType(k model.Kind) (string, bool) {
	switch k {
	case model.KindBuy:
		return "BUYSTOCK", true
	case model.KindSell:
		return "SELLSTOCK", true
	case model.KindIncome:
		return "INCOME", true
	case model.KindTransfer:
		return "TRANSFER", true
	case model.KindBankTransaction:
		return "INVBANKTRAN", true
	case model.KindExpense:
		return "INVEXPENSE", true
	}
	return "", false
}

func invTran(sg *sgml, l model.Line) error {
	agg, ok := OFXType(l.Kind)
	if !ok {
		return fmt.Errorf("line %s: no OFX transaction type for kind %q", l.ID, l.Kind)
	}
	if agg == "INVBANKTRAN" {
		sg.open(agg)
		stmtTrn(sg, l)
		sg.elem("SUBACCTFUND", "CASH")
		sg.close(agg)
		return nil
	}

	sg.open(agg)
	switch l.Kind {
	case model.KindBuy, model.KindSell:
		inner := "INVBUY"
		if l.Kind == model.KindSell {
			inner = "INVSELL"
		}
		sg.open(inner)
		invTranHead(sg, l)
		secID(sg, l.SecurityID)
		sg.elem("UNITS", decString(l.Units))
		sg.elem("UNITPRICE", decString(l.UnitPrice))
		if l.Fees.Valid {
			sg.elem("FEES", l.Fees.Decimal.String())
		}
		sg.elem("TOTAL", l.Amount.String())
		sg.elem("SUBACCTSEC", "CASH")
		sg.elem("SUBACCTFUND", "CASH")
		sg.close(inner)
		if l.Kind == model.KindSell {
			sg.elem("SELLTYPE", "SELL")
		} else {
			sg.elem("BUYTYPE", "BUY")
		}
	case model.KindIncome:
		invTranHead(sg, l)
		secID(sg, l.SecurityID)
		sg.elem("INCOMETYPE", string(l.SubKind))
		sg.elem("TOTAL", l.Amount.String())
		sg.elem("SUBACCTSEC", "CASH")
		sg.elem("SUBACCTFUND", "CASH")
	case model.KindExpense:
		invTranHead(sg, l)
		secID(sg, l.SecurityID)
		sg.elem("TOTAL", l.Amount.String())
		sg.elem("SUBACCTSEC", "CASH")
		sg.elem("SUBACCTFUND", "CASH")
	case model.KindTransfer:
		invTranHead(sg, l)
		secID(sg, l.SecurityID)
		sg.elem("SUBACCTSEC", "CASH")
		sg.elem("UNITS", decString(l.Units))
		action := "IN"
		if l.Units.Valid && l.Units.Decimal.IsNegative() {
			action = "OUT"
		}
		sg.elem("TFERACTION", action)
		sg.elem("POSTYPE", "LONG")
		if l.UnitPrice.Valid {
			sg.elem("UNITPRICE", l.UnitPrice.Decimal.String())
		}
	}
	sg.close(agg)
	return nil
}

func invTranHead(sg *sgml, l model.Line) {
	sg.open("INVTRAN")
	sg.elem("FITID", l.ID)
	sg.elem("DTTRADE", l.Date.Format(ofxDate))
	sg.elem("MEMO", l.Memo)
	sg.close("INVTRAN")
}

func stmtTrn(sg *sgml, l model.Line) {
	sg.open("STMTTRN")
	sg.elem("TRNTYPE", string(l.SubKind))
	sg.elem("DTPOSTED", l.Date.Format(ofxDate))
	sg.elem("TRNAMT", l.Amount.String())
	sg.elem("FITID", l.ID)
	if l.CheckNo != "" {
		sg.elem("CHECKNUM", l.CheckNo)
	}
	sg.elem("MEMO", l.Memo)
	sg.close("STMTTRN")
}

func secID(sg *sgml, ticker string) {
	sg.open("SECID")
	sg.elem("UNIQUEID", ticker)
	sg.elem("UNIQUEIDTYPE", "TICKER")
	sg.close("SECID")
}

func status(sg *sgml) {
	sg.open("STATUS")
	sg.elem("CODE", "0")
	sg.elem("SEVERITY", "INFO")
	sg.close("STATUS")
}

func dateRange(sg *sgml, lines []model.Line) {
	start, end := lines[0].Date, lines[0].Date
	for _, l := range lines[1:] {
		if l.Date.Before(start) {
			start = l.Date
		}
		if l.Date.After(end) {
			end = l.Date
		}
	}
	sg.elem("DTSTART", start.Format(ofxDate))
	sg.elem("DTEND", end.Format(ofxDate))
}

func securities(lines []model.Line) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lines {
		if l.HasSecurity() && !seen[l.SecurityID] {
			seen[l.SecurityID] = true
			out = append(out, l.SecurityID)
		}
	}
	sort.Strings(out)
	return out
}

func decString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "0"
	}
	return d.Decimal.String()
}

var sgmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// sgml writes OFX 1.x tags: aggregates are closed, elements are not. The first
// write error sticks.
type sgml struct {
	w   *bufio.Writer
	err error
}

func (s *sgml) raw(v string) {
	if s.err == nil {
		_, s.err = s.w.WriteString(v)
	}
}

func (s *sgml) open(tag string)  { s.raw("<" + tag + ">\n") }
func (s *sgml) close(tag string) { s.raw("</" + tag + ">\n") }

func (s *sgml) elem(tag, value string) {
	s.raw("<" + tag + ">" + sgmlEscaper.Replace(value) + "\n")
}
