// Package classify maps brokerage action labels and bank type codes onto the
// canonical transaction kinds.
package classify

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Rule is one entry of the investment classification table. Build fills the
// kind-specific fields of a line whose ID, Date and Memo are already set.
// Advise, when non-nil, returns a non-fatal note for the matched record.
type Rule struct {
	Name   string
	Match  func(r model.RawTransaction) bool
	Build  func(r model.RawTransaction, line *model.Line) error
	Advise func(r model.RawTransaction) string
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier over rules, or over DefaultRules when
// none are given.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Rule returns the first rule matching r.
func (c *Classifier) Rule(r model.RawTransaction) (Rule, bool) {
	for _, rule := range c.rules {
		if rule.Match(r) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Classify builds the canonical line for r starting from line.
func (c *Classifier) Classify(r model.RawTransaction, line model.Line) (model.Line, *model.Advisory, error) {
	rule, ok := c.Rule(r)
	if !ok {
		return model.Line{}, nil, &UnrecognizedActionError{Label: r.Action(), Context: "action"}
	}
	if err := rule.Build(r, &line); err != nil {
		return model.Line{}, nil, err
	}
	if rule.Advise == nil {
		return line, nil, nil
	}
	msg := rule.Advise(r)
	if msg == "" {
		return line, nil, nil
	}
	return line, &model.Advisory{
		LineID:  line.ID,
		Date:    line.Date,
		Action:  r.Action(),
		Symbol:  r.Symbol(),
		Message: msg,
	}, nil
}

// DefaultRules returns the investment classification table.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "sell", Match: isSell, Build: buildSell},
		{Name: "buy", Match: isBuy, Build: buildBuy},
		{Name: "income", Match: isIncome, Build: buildIncome},
		{Name: "expense", Match: isExpense, Build: buildExpense},
		{Name: "security-transfer", Match: isSecurityTransfer, Build: buildSecurityTransfer, Advise: costBasisAdvice},
		{Name: "cash", Match: isCash, Build: buildCash},
		{Name: "fee", Match: actionIn(feeLabels), Build: bankLine(model.SubKindServiceCharge)},
		{Name: "cash-in-lieu", Match: actionIn(labels(ActionCashInLieu)), Build: bankLine(model.SubKindCredit)},
	}
}

func actionIn(set labelSet) func(model.RawTransaction) bool {
	return func(r model.RawTransaction) bool { return set[r.Action()] }
}

func isSell(r model.RawTransaction) bool {
	return r.Action() == ActionSell
}

func isBuy(r model.RawTransaction) bool {
	return IsTrade(r.Action()) && r.Action() != ActionSell
}

func isIncome(r model.RawTransaction) bool {
	_, ok := incomeSubKind(r)
	return ok
}

func incomeSubKind(r model.RawTransaction) (model.SubKind, bool) {
	a := r.Action()
	switch {
	case dividendLabels[a]:
		return model.SubKindDividend, true
	case a == ActionLongTermCapGain:
		return model.SubKindCapGainLong, true
	case a == ActionShortTermCapGain:
		return model.SubKindCapGainShort, true
	case a == ActionBankInterest && r.HasSymbol():
		return model.SubKindSecurityInterest, true
	}
	return "", false
}

func isExpense(r model.RawTransaction) bool {
	return r.Action() == ActionNRATaxAdj && r.HasSymbol()
}

func isSecurityTransfer(r model.RawTransaction) bool {
	return r.HasSymbol() && securityTransferLabels[r.Action()]
}

// isCash claims every symbol-less record except the fee and cash-in-lieu
// labels, which have their own rules further down.
func isCash(r model.RawTransaction) bool {
	a := r.Action()
	return !r.HasSymbol() && !feeLabels[a] && a != ActionCashInLieu
}

func buildTrade(r model.RawTransaction, line *model.Line, units decimal.Decimal) error {
	sym, err := requiredString(r, model.FieldSymbol)
	if err != nil {
		return err
	}
	price, err := requiredDecimal(r, model.FieldPrice)
	if err != nil {
		return err
	}
	amt, err := requiredDecimal(r, model.FieldAmount)
	if err != nil {
		return err
	}
	fees, err := optionalDecimal(r, model.FieldFees)
	if err != nil {
		return err
	}
	line.SecurityID = sym
	line.Units = decimal.NewNullDecimal(units)
	line.UnitPrice = decimal.NewNullDecimal(price)
	line.Amount = amt
	line.Fees = fees
	return nil
}

func buildSell(r model.RawTransaction, line *model.Line) error {
	qty, err := magnitudeDecimal(r, model.FieldQuantity)
	if err != nil {
		return err
	}
	line.Kind = model.KindSell
	return buildTrade(r, line, qty.Neg())
}

func buildBuy(r model.RawTransaction, line *model.Line) error {
	qty, err := magnitudeDecimal(r, model.FieldQuantity)
	if err != nil {
		return err
	}
	line.Kind = model.KindBuy
	return buildTrade(r, line, qty)
}

func buildSecurityCash(r model.RawTransaction, line *model.Line, kind model.Kind, sub model.SubKind) error {
	sym, err := requiredString(r, model.FieldSymbol)
	if err != nil {
		return err
	}
	amt, err := requiredDecimal(r, model.FieldAmount)
	if err != nil {
		return err
	}
	line.Kind = kind
	line.SubKind = sub
	line.SecurityID = sym
	line.Amount = amt
	return nil
}

func buildIncome(r model.RawTransaction, line *model.Line) error {
	sub, _ := incomeSubKind(r)
	return buildSecurityCash(r, line, model.KindIncome, sub)
}

func buildExpense(r model.RawTransaction, line *model.Line) error {
	return buildSecurityCash(r, line, model.KindExpense, "")
}

func buildSecurityTransfer(r model.RawTransaction, line *model.Line) error {
	units, err := requiredDecimal(r, model.FieldQuantity)
	if err != nil {
		return err
	}
	price, err := zeroDecimal(r, model.FieldPrice)
	if err != nil {
		return err
	}
	amt, err := zeroDecimal(r, model.FieldAmount)
	if err != nil {
		return err
	}
	line.Kind = model.KindTransfer
	line.SecurityID = r.Symbol()
	line.Units = decimal.NewNullDecimal(units)
	line.UnitPrice = decimal.NewNullDecimal(price)
	line.Amount = amt
	return nil
}

func costBasisAdvice(r model.RawTransaction) string {
	if !costBasisLabels[r.Action()] {
		return ""
	}
	return "cost basis must be allocated manually between the original and the received shares"
}

func buildCash(r model.RawTransaction, line *model.Line) error {
	sub, ok := cashSubKinds[r.Action()]
	if !ok {
		return &UnrecognizedActionError{Label: r.Action(), Context: "bank action"}
	}
	return bankLine(sub)(r, line)
}

func bankLine(sub model.SubKind) func(model.RawTransaction, *model.Line) error {
	return func(r model.RawTransaction, line *model.Line) error {
		amt, err := requiredDecimal(r, model.FieldAmount)
		if err != nil {
			return err
		}
		line.Kind = model.KindBankTransaction
		line.SubKind = sub
		line.Amount = amt
		return nil
	}
}
