package classify

import (
	"github.com/cleared-dev/schwabstmt/internal/model"
)

// TypeACH is classified by direction instead of through the code table.
const TypeACH = "ACH"

// DefaultTypeCodes maps posted transaction Type codes onto bank sub-kinds.
func DefaultTypeCodes() map[string]model.SubKind {
	return map[string]model.SubKind{
		"ATM":       model.SubKindATM,
		"ATMREBATE": model.SubKindCredit,
		"DEBIT":     model.SubKindDebit,
		"INTADJUST": model.SubKindInterest,
		"TRANSFER":  model.SubKindTransfer,
		"VISA":      model.SubKindPOS,
		"CHECK":     model.SubKindCheck,
		"DEP":       model.SubKindDeposit,
	}
}

// PostedClassifier classifies bank ledger records.
type PostedClassifier struct {
	codes map[string]model.SubKind
}

// NewPostedClassifier creates a classifier over DefaultTypeCodes extended (or
// overridden) by extra.
func NewPostedClassifier(extra map[string]model.SubKind) *PostedClassifier {
	codes := DefaultTypeCodes()
	for k, v := range extra {
		codes[k] = v
	}
	return &PostedClassifier{codes: codes}
}

// Codes returns a copy of the Type code table, defaults plus extras.
func (p *PostedClassifier) Codes() map[string]model.SubKind {
	out := make(map[string]model.SubKind, len(p.codes))
	for k, v := range p.codes {
		out[k] = v
	}
	return out
}

// Classify builds the bank line for r starting from line. Withdrawals become
// negative amounts and deposits positive ones; when both are present the
// withdrawal wins.
func (p *PostedClassifier) Classify(r model.PostedTransaction, line model.Line) (model.Line, error) {
	withdrawal, err := optionalDecimal(r, model.FieldWithdrawal)
	if err != nil {
		return model.Line{}, err
	}
	deposit, err := optionalDecimal(r, model.FieldDeposit)
	if err != nil {
		return model.Line{}, err
	}

	debit := withdrawal.Valid
	switch {
	case debit:
		line.Amount = withdrawal.Decimal.Abs().Neg()
	case deposit.Valid:
		line.Amount = deposit.Decimal.Abs()
	default:
		return model.Line{}, missing(model.FieldWithdrawal + "/" + model.FieldDeposit)
	}

	typ, err := requiredString(r, model.FieldType)
	if err != nil {
		return model.Line{}, err
	}
	sub, err := p.subKind(typ, debit)
	if err != nil {
		return model.Line{}, err
	}

	line.Kind = model.KindBankTransaction
	line.SubKind = sub
	line.CheckNo = r.Value(model.FieldCheckNumber)
	return line, nil
}

func (p *PostedClassifier) subKind(typ string, debit bool) (model.SubKind, error) {
	if typ == TypeACH {
		if debit {
			return model.SubKindDebit, nil
		}
		return model.SubKindCredit, nil
	}
	sub, ok := p.codes[typ]
	if !ok {
		return "", &UnrecognizedActionError{Label: typ, Context: "bank transaction type"}
	}
	return sub, nil
}
