// Package allocation turns a parsed expense plus its who-paid/who-shares
// metadata into the caller's own share and the implied peer debts.
// Allocation is a pure function of its input; it is evaluated identically
// on the create path and on every edit.
package allocation

import (
	"github.com/shopspring/decimal"

	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/models"
)

// DefaultParty is the fallback counterpart used when a split is requested
// with no named other party. Kept configurable on the Engine.
const DefaultParty = "vyas"

// PeerDebt is one computed debt between the caller and a named party.
type PeerDebt struct {
	OtherParty string
	Direction  models.PeerDirection
	Amount     decimal.Decimal
}

// Result is the outcome of allocating one expense.
type Result struct {
	MyAmount  decimal.Decimal
	PeerDebts []PeerDebt
}

// Engine computes expense allocations.
//
// Precedence: a for-person marking overrides any split; without a split the
// caller keeps the whole amount; otherwise the amount is divided equally or
// by the stated ratio. A ratio only fixes the caller's share; the remainder
// is divided evenly across the named others.
type Engine struct {
	defaultParty string
	log          logging.Logger
}

// New creates an Engine. An empty defaultParty disables the fallback
// counterpart, in which case a split with no named party yields no peer
// debts on the paid-by-me path.
func New(defaultParty string, log logging.Logger) *Engine {
	return &Engine{
		defaultParty: defaultParty,
		log:          log,
	}
}

// Allocate computes the caller's share and the peer debts implied by msg.
// Shares are computed in decimal arithmetic and persisted at full
// precision; no rounding is applied here.
func (e *Engine) Allocate(msg *models.ParsedMessage) Result {
	if msg.ForPerson != "" {
		return e.allocateForPerson(msg)
	}
	if msg.SplitType == models.SplitNone || msg.SplitType == "" {
		return Result{MyAmount: msg.Amount}
	}
	return e.allocateSplit(msg)
}

// allocateForPerson handles an expense made entirely on behalf of one
// party: the caller's share is zero and the full amount becomes a single
// peer debt.
func (e *Engine) allocateForPerson(msg *models.ParsedMessage) Result {
	beneficiary := msg.ForPerson
	if len(msg.OtherParties) > 0 {
		beneficiary = msg.OtherParties[0]
	}

	direction := models.IOweThem
	if paidByMe(msg) {
		direction = models.TheyOweMe
	}

	return Result{
		MyAmount: decimal.Zero,
		PeerDebts: []PeerDebt{{
			OtherParty: beneficiary,
			Direction:  direction,
			Amount:     msg.Amount,
		}},
	}
}

func (e *Engine) allocateSplit(msg *models.ParsedMessage) Result {
	others := msg.OtherParties
	if len(others) == 0 && msg.OtherParty != "" {
		others = []string{msg.OtherParty}
	}
	if len(others) == 0 && e.defaultParty != "" {
		e.log.WithField("party", e.defaultParty).Debug("Split names no counterpart, using the default party")
		others = []string{e.defaultParty}
	}

	myShare := e.myShare(msg, len(others))
	remainder := msg.Amount.Sub(myShare)

	eachOtherShare := remainder
	if len(others) > 0 {
		eachOtherShare = remainder.Div(decimal.NewFromInt(int64(len(others))))
	}

	if paidByMe(msg) {
		debts := make([]PeerDebt, 0, len(others))
		for _, party := range others {
			debts = append(debts, PeerDebt{
				OtherParty: party,
				Direction:  models.TheyOweMe,
				Amount:     eachOtherShare,
			})
		}
		return Result{MyAmount: myShare, PeerDebts: debts}
	}

	// The other party paid; the caller owes their own share to the primary
	// counterpart.
	creditor := e.defaultParty
	if len(others) > 0 {
		creditor = others[0]
	}
	if creditor == "" {
		return Result{MyAmount: myShare}
	}
	return Result{
		MyAmount: myShare,
		PeerDebts: []PeerDebt{{
			OtherParty: creditor,
			Direction:  models.IOweThem,
			Amount:     myShare,
		}},
	}
}

// myShare computes the caller's portion of the amount. An unusable ratio
// falls back to an equal split, in which n participants beyond the caller
// are assumed (at least one, even when no party is named).
func (e *Engine) myShare(msg *models.ParsedMessage, otherCount int) decimal.Decimal {
	if msg.SplitType == models.SplitRatio {
		if msg.HasRatio() {
			total := msg.SplitRatioMe.Add(msg.SplitRatioOther)
			return msg.Amount.Mul(msg.SplitRatioMe).Div(total)
		}
		e.log.Debug("Ratio split without a usable ratio, dividing equally")
	}

	n := otherCount
	if n < 1 {
		n = 1
	}
	return msg.Amount.Div(decimal.NewFromInt(int64(n + 1)))
}

func paidByMe(msg *models.ParsedMessage) bool {
	return msg.PaidBy == "" || msg.PaidBy == models.PaidByMe
}
