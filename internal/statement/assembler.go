// Package statement turns decoded export records into a Statement.
package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/schwabstmt/internal/classify"
	"github.com/cleared-dev/schwabstmt/internal/id"
	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Allocator assigns line IDs.
type Allocator interface {
	Allocate(date time.Time) string
}

// Assembler orders, identifies and classifies the records of one import.
// Bank and investment lines draw their IDs from the same Allocator, so the
// Assembler must not be reused across imports.
type Assembler struct {
	alloc  Allocator
	invest *classify.Classifier
	posted *classify.PostedClassifier
	log    zerolog.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(alloc Allocator, invest *classify.Classifier, posted *classify.PostedClassifier, log zerolog.Logger) *Assembler {
	return &Assembler{alloc: alloc, invest: invest, posted: posted, log: log}
}

// Assemble runs a single import with a fresh allocator and the default
// classification tables.
func Assemble(raw []model.RawTransaction, posted []model.PostedTransaction) (*model.Statement, error) {
	a := NewAssembler(id.NewAllocator(), classify.NewClassifier(), classify.NewPostedClassifier(nil), zerolog.Nop())
	return a.Assemble(raw, posted)
}

// Assemble classifies posted records in export order, then brokerage records
// in the order given by Order. Any record that cannot be classified fails the
// whole import.
func (a *Assembler) Assemble(raw []model.RawTransaction, posted []model.PostedTransaction) (*model.Statement, error) {
	stmt := &model.Statement{BrokerID: model.DefaultBrokerID}

	for i, p := range posted {
		line, err := a.postedLine(p)
		if err != nil {
			return nil, fmt.Errorf("posted transaction %d: %w", i+1, err)
		}
		stmt.BankLines = append(stmt.BankLines, line)
	}

	ordered, err := orderKeyed(raw)
	if err != nil {
		return nil, err
	}
	for _, k := range ordered {
		line, adv, err := a.investLine(k)
		if err != nil {
			return nil, fmt.Errorf("brokerage transaction %d (%s %q): %w",
				k.index+1, k.date.Format("2006-01-02"), k.action, err)
		}
		stmt.InvestLines = append(stmt.InvestLines, line)
		if adv != nil {
			stmt.Advisories = append(stmt.Advisories, *adv)
			a.log.Warn().
				Str("id", adv.LineID).
				Str("action", adv.Action).
				Str("symbol", adv.Symbol).
				Msg(adv.Message)
		}
	}

	a.log.Info().
		Int("bank_lines", len(stmt.BankLines)).
		Int("invest_lines", len(stmt.InvestLines)).
		Int("advisories", len(stmt.Advisories)).
		Msg("statement assembled")
	return stmt, nil
}

func (a *Assembler) postedLine(p model.PostedTransaction) (model.Line, error) {
	date, err := classify.ParseDate(p)
	if err != nil {
		return model.Line{}, err
	}
	line := model.Line{
		ID:   a.alloc.Allocate(date),
		Date: date,
		Memo: p.Value(model.FieldDescription),
	}
	line, err = a.posted.Classify(p, line)
	if err != nil {
		return model.Line{}, err
	}
	if err := line.Validate(); err != nil {
		return model.Line{}, err
	}
	a.logLine(model.LedgerBank, line)
	return line, nil
}

func (a *Assembler) investLine(k keyed) (model.Line, *model.Advisory, error) {
	line := model.Line{
		ID:   a.alloc.Allocate(k.date),
		Date: k.date,
		Memo: memo(k.raw),
	}
	line, adv, err := a.invest.Classify(k.raw, line)
	if err != nil {
		return model.Line{}, nil, err
	}
	if err := line.Validate(); err != nil {
		return model.Line{}, nil, err
	}
	a.logLine(model.LedgerInvestment, line)
	return line, adv, nil
}

func (a *Assembler) logLine(ledger model.Ledger, line model.Line) {
	a.log.Debug().
		Str("ledger", string(ledger)).
		Str("id", line.ID).
		Str("kind", string(line.Kind)).
		Str("sub_kind", string(line.SubKind)).
		Str("security", line.SecurityID).
		Str("amount", line.Amount.String()).
		Msg("line classified")
}

func memo(r model.RawTransaction) string {
	return strings.TrimSpace(r.Action() + " " + r.Value(model.FieldDescription))
}
