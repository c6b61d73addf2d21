package classify

import (
	"sort"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Action labels as they appear in the export.
const (
	ActionSell              = "Sell"
	ActionBuy               = "Buy"
	ActionReinvestShares    = "Reinvest Shares"
	ActionLongTermCapGain   = "Long Term Cap Gain"
	ActionShortTermCapGain  = "Short Term Cap Gain"
	ActionBankInterest      = "Bank Interest"
	ActionNRATaxAdj         = "NRA Tax Adj"
	ActionSpinOff           = "Spin-off"
	ActionStockSplit        = "Stock Split"
	ActionADRMgmtFee        = "ADR Mgmt Fee"
	ActionAdvisorFee        = "Advisor Fee"
	ActionCashInLieu        = "Cash In Lieu"
	ActionJournal           = "Journal"
	ActionJournaledShares   = "Journaled Shares"
	ActionSecurityTransfer  = "Security Transfer"
	ActionMoneyLinkTransfer = "MoneyLink Transfer"
)

type labelSet map[string]bool

func labels(ls ...string) labelSet {
	s := make(labelSet, len(ls))
	for _, l := range ls {
		s[l] = true
	}
	return s
}

var dividendLabels = labels(
	"Cash Dividend",
	"Qualified Dividend",
	"Non-Qualified Div",
	"Pr Yr Cash Div",
	"Pr Yr Non Qual Div",
	"Pr Yr Non-Qual Div",
	"Qual Div Reinvest",
	"Reinvest Dividend",
	"Special Dividend",
	"Div Adjustment",
)

var securityTransferLabels = labels(
	ActionJournal,
	ActionJournaledShares,
	ActionSpinOff,
	ActionStockSplit,
	ActionSecurityTransfer,
)

// Labels that need a manual cost-basis allocation after import.
var costBasisLabels = labels(ActionSpinOff, ActionStockSplit)

var feeLabels = labels(ActionADRMgmtFee, ActionAdvisorFee)

var tradeLabels = labels(ActionSell, ActionBuy, ActionReinvestShares)

// IsTrade reports whether action is a buy or sell label. Trades read their
// Quantity as a magnitude and apply the sign from the action.
func IsTrade(action string) bool { return tradeLabels[action] }

// cashSubKinds classifies actions that carry no security.
var cashSubKinds = map[string]model.SubKind{
	ActionBankInterest:      model.SubKindInterest,
	"Bond Interest":         model.SubKindInterest,
	"Credit Interest":       model.SubKindInterest,
	ActionMoneyLinkTransfer: model.SubKindTransfer,
	"Bank Transfer":         model.SubKindTransfer,
	"Internal Transfer":     model.SubKindTransfer,
	ActionJournal:           model.SubKindTransfer,
	ActionJournaledShares:   model.SubKindTransfer,
	ActionSecurityTransfer:  model.SubKindTransfer,
	"Wire Sent":             model.SubKindDebit,
	"Service Fee":           model.SubKindServiceCharge,
	"Misc Cash Entry":       model.SubKindOther,
}

// KnownActions returns every action label the default rules recognize, sorted.
func KnownActions() []string {
	seen := labels(ActionLongTermCapGain, ActionShortTermCapGain, ActionNRATaxAdj, ActionCashInLieu)
	for _, set := range []labelSet{tradeLabels, dividendLabels, securityTransferLabels, feeLabels} {
		for l := range set {
			seen[l] = true
		}
	}
	for l := range cashSubKinds {
		seen[l] = true
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
