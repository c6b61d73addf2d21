package model

import "time"

// DefaultBrokerID identifies the brokerage whose export format is supported.
const DefaultBrokerID = "Schwab"

// Statement is the result of one import.
type Statement struct {
	BrokerID    string
	AccountID   string
	Currency    string
	BankLines   []Line
	InvestLines []Line
	Advisories  []Advisory
}

// Lines returns the bank lines followed by the investment lines.
func (s *Statement) Lines() []Line {
	out := make([]Line, 0, len(s.BankLines)+len(s.InvestLines))
	out = append(out, s.BankLines...)
	return append(out, s.InvestLines...)
}

// DateRange returns the earliest and latest line dates. Both are zero for an
// empty statement.
func (s *Statement) DateRange() (start, end time.Time) {
	for _, l := range s.Lines() {
		if start.IsZero() || l.Date.Before(start) {
			start = l.Date
		}
		if end.IsZero() || l.Date.After(end) {
			end = l.Date
		}
	}
	return start, end
}

// Len returns the total number of lines in both ledgers.
func (s *Statement) Len() int { return len(s.BankLines) + len(s.InvestLines) }
