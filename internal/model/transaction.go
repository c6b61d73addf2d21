package model

// Field names of a brokerage transaction record.
const (
	FieldDate        = "Date"
	FieldAction      = "Action"
	FieldSymbol      = "Symbol"
	FieldDescription = "Description"
	FieldQuantity    = "Quantity"
	FieldPrice       = "Price"
	FieldFees        = "Fees & Comm"
	FieldAmount      = "Amount"
)

// Field names of a posted (bank ledger) transaction record.
const (
	FieldType           = "Type"
	FieldCheckNumber    = "CheckNumber"
	FieldWithdrawal     = "Withdrawal"
	FieldDeposit        = "Deposit"
	FieldRunningBalance = "RunningBalance"
)

// RawTransaction is one element of the export's BrokerageTransactions array.
// Keys may be absent, which is distinct from an empty value.
type RawTransaction map[string]string

// Get returns the value of field and whether it was present.
func (r RawTransaction) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// Value returns the value of field, or "" when absent.
func (r RawTransaction) Value(field string) string { return r[field] }

// Action returns the free-text action label.
func (r RawTransaction) Action() string { return r[FieldAction] }

// Symbol returns the ticker, "" meaning no security.
func (r RawTransaction) Symbol() string { return r[FieldSymbol] }

// HasSymbol reports whether the record names a security.
func (r RawTransaction) HasSymbol() bool { return r[FieldSymbol] != "" }

// PostedTransaction is one element of the export's PostedTransactions array.
type PostedTransaction map[string]string

// Get returns the value of field and whether it was present.
func (p PostedTransaction) Get(field string) (string, bool) {
	v, ok := p[field]
	return v, ok
}

// Value returns the value of field, or "" when absent.
func (p PostedTransaction) Value(field string) string { return p[field] }

// Export is the top-level document of a brokerage JSON export. Both arrays
// are optional.
type Export struct {
	FromDate              string              `json:"FromDate,omitempty"`
	ToDate                string              `json:"ToDate,omitempty"`
	BrokerageTransactions []RawTransaction    `json:"BrokerageTransactions,omitempty"`
	PostedTransactions    []PostedTransaction `json:"PostedTransactions,omitempty"`
}
