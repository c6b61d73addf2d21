package model

// Kind is the canonical transaction kind every broker label reduces to.
type Kind string

const (
	KindBuy             Kind = "BUY"
	KindSell            Kind = "SELL"
	KindIncome          Kind = "INCOME"
	KindTransfer        Kind = "TRANSFER"
	KindBankTransaction Kind = "BANK_TRANSACTION"
	KindExpense         Kind = "EXPENSE"
)

// SubKind refines a Kind. The valid set depends on the Kind.
type SubKind string

// Income sub-kinds.
const (
	SubKindDividend         SubKind = "DIV"
	SubKindCapGainLong      SubKind = "CGLONG"
	SubKindCapGainShort     SubKind = "CGSHORT"
	SubKindSecurityInterest SubKind = "INTEREST"
)

// Bank transaction sub-kinds.
const (
	SubKindInterest      SubKind = "INT"
	SubKindTransfer      SubKind = "XFER"
	SubKindDebit         SubKind = "DEBIT"
	SubKindCredit        SubKind = "CREDIT"
	SubKindServiceCharge SubKind = "SRVCHG"
	SubKindOther         SubKind = "OTHER"
	SubKindDeposit       SubKind = "DEP"
	SubKindATM           SubKind = "ATM"
	SubKindPOS           SubKind = "POS"
	SubKindCheck         SubKind = "CHECK"
)

var incomeSubKinds = map[SubKind]bool{
	SubKindDividend:         true,
	SubKindCapGainLong:      true,
	SubKindCapGainShort:     true,
	SubKindSecurityInterest: true,
}

var bankSubKinds = map[SubKind]bool{
	SubKindInterest:      true,
	SubKindTransfer:      true,
	SubKindDebit:         true,
	SubKindCredit:        true,
	SubKindServiceCharge: true,
	SubKindOther:         true,
	SubKindDeposit:       true,
	SubKindATM:           true,
	SubKindPOS:           true,
	SubKindCheck:         true,
}

// Valid reports whether k is one of the canonical kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBuy, KindSell, KindIncome, KindTransfer, KindBankTransaction, KindExpense:
		return true
	}
	return false
}

// IsDisposal reports whether the kind removes units from the account.
func (k Kind) IsDisposal() bool { return k == KindSell }

// Allows reports whether s is a valid sub-kind for k. The empty sub-kind is
// allowed for every kind except BANK_TRANSACTION.
func (k Kind) Allows(s SubKind) bool {
	switch k {
	case KindIncome:
		return s == "" || incomeSubKinds[s]
	case KindBankTransaction:
		return bankSubKinds[s]
	default:
		return s == ""
	}
}

// ParseBankSubKind converts a string such as "XFER" into a bank SubKind.
func ParseBankSubKind(s string) (SubKind, bool) {
	sk := SubKind(s)
	return sk, bankSubKinds[sk]
}
