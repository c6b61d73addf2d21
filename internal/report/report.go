// Package report summarizes a statement for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Bucket aggregates the lines of one ledger, kind and sub-kind.
type Bucket struct {
	Ledger  model.Ledger
	Kind    model.Kind
	SubKind model.SubKind
	Count   int
	Total   decimal.Decimal
}

// Summary is a per-kind digest of a statement.
type Summary struct {
	BrokerID    string
	AccountID   string
	Currency    string
	Start, End  time.Time
	BankLines   int
	InvestLines int
	Net         decimal.Decimal // sum of all amounts
	Buckets     []Bucket
	Securities  []string
	Advisories  []model.Advisory
}

// Summarize aggregates s.
func Summarize(s *model.Statement) Summary {
	sum := Summary{
		BrokerID:    s.BrokerID,
		AccountID:   s.AccountID,
		Currency:    s.Currency,
		BankLines:   len(s.BankLines),
		InvestLines: len(s.InvestLines),
		Advisories:  s.Advisories,
	}
	sum.Start, sum.End = s.DateRange()

	type key struct {
		ledger  model.Ledger
		kind    model.Kind
		subKind model.SubKind
	}
	buckets := make(map[key]*Bucket)
	secs := make(map[string]bool)
	add := func(ledger model.Ledger, lines []model.Line) {
		for _, l := range lines {
			k := key{ledger, l.Kind, l.SubKind}
			b, ok := buckets[k]
			if !ok {
				b = &Bucket{Ledger: ledger, Kind: l.Kind, SubKind: l.SubKind}
				buckets[k] = b
			}
			b.Count++
			b.Total = b.Total.Add(l.Amount)
			sum.Net = sum.Net.Add(l.Amount)
			if l.HasSecurity() {
				secs[l.SecurityID] = true
			}
		}
	}
	add(model.LedgerBank, s.BankLines)
	add(model.LedgerInvestment, s.InvestLines)

	for _, b := range buckets {
		sum.Buckets = append(sum.Buckets, *b)
	}
	sort.Slice(sum.Buckets, func(i, j int) bool {
		a, b := sum.Buckets[i], sum.Buckets[j]
		if a.Ledger != b.Ledger {
			return a.Ledger == model.LedgerBank
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.SubKind < b.SubKind
	})
	for sec := range secs {
		sum.Securities = append(sum.Securities, sec)
	}
	sort.Strings(sum.Securities)
	return sum
}

// FormatAmount renders d in the given ISO currency, e.g. "$1,234.56".
// Unknown currencies fall back to "1234.56 XXX".
func FormatAmount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return strings.TrimSpace(d.StringFixed(2) + " " + currency)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// Write prints the summary as aligned text.
func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Broker:\t%s\n", s.BrokerID)
	fmt.Fprintf(tw, "Account:\t%s\n", orNone(s.AccountID))
	if s.Start.IsZero() {
		fmt.Fprintf(tw, "Period:\t(no transactions)\n")
	} else {
		fmt.Fprintf(tw, "Period:\t%s to %s\n", s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
	}
	fmt.Fprintf(tw, "Lines:\t%d bank, %d investment\n", s.BankLines, s.InvestLines)
	if len(s.Securities) > 0 {
		fmt.Fprintf(tw, "Securities:\t%s\n", strings.Join(s.Securities, ", "))
	}
	fmt.Fprintln(tw)

	if len(s.Buckets) > 0 {
		fmt.Fprintln(tw, "LEDGER\tKIND\tSUB-KIND\tCOUNT\tTOTAL")
		for _, b := range s.Buckets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				b.Ledger, b.Kind, orNone(string(b.SubKind)), b.Count, FormatAmount(b.Total, s.Currency))
		}
		fmt.Fprintf(tw, "\t\t\t\t\n")
		fmt.Fprintf(tw, "NET\t\t\t%d\t%s\n", s.BankLines+s.InvestLines, FormatAmount(s.Net, s.Currency))
	}

	if len(s.Advisories) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "Advisories:\n")
		for _, a := range s.Advisories {
			fmt.Fprintf(tw, "  %s\n", a)
		}
	}
	return tw.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
