// Package balance computes net balances over the persisted history: peer
// reimbursement netting, receivable/loan balances per counterparty, and
// per-currency ledger totals. All aggregations are pure reads; sign
// conventions are documented on each method.
package balance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/models"
	"fjacquet/msg-ledger/internal/store"
)

// ErrCurrencyRequired is returned when an aggregation is requested without
// a currency. Amounts in different currencies never net against each other.
var ErrCurrencyRequired = errors.New("currency is required")

// Aggregator reads persisted history and nets it into balances.
type Aggregator struct {
	store store.Store
	log   logging.Logger
}

// New creates an Aggregator over the given store.
func New(st store.Store, log logging.Logger) *Aggregator {
	return &Aggregator{store: st, log: log}
}

// ReimbursementBalance is the netted peer-debt position. Net positive
// means the counterpart(ies) owe the caller.
type ReimbursementBalance struct {
	TheyOweMe models.Money `json:"they_owe_me"`
	IOweThem  models.Money `json:"i_owe_them"`
	Net       models.Money `json:"net"`
}

// ReimbursementBalance sums peer debts per direction, optionally narrowed
// to one counterparty, and nets them as they_owe_me - i_owe_them. The sums
// run through Money so a row in another currency can never slip into the
// figures.
func (a *Aggregator) ReimbursementBalance(ctx context.Context, otherParty, currency string) (ReimbursementBalance, error) {
	if currency == "" {
		return ReimbursementBalance{}, ErrCurrencyRequired
	}

	debts, err := a.store.ListReimbursements(ctx, store.Filter{Currency: currency, OtherParty: otherParty})
	if err != nil {
		return ReimbursementBalance{}, fmt.Errorf("listing reimbursements: %w", err)
	}

	theyOweMe := models.ZeroMoney(currency)
	iOweThem := models.ZeroMoney(currency)
	for _, d := range debts {
		var err error
		switch d.Direction {
		case models.TheyOweMe:
			theyOweMe, err = theyOweMe.Add(models.NewMoney(d.Amount, d.Currency))
		case models.IOweThem:
			iOweThem, err = iOweThem.Add(models.NewMoney(d.Amount, d.Currency))
		}
		if err != nil {
			return ReimbursementBalance{}, fmt.Errorf("netting reimbursements: %w", err)
		}
	}

	net, err := theyOweMe.Sub(iOweThem)
	if err != nil {
		return ReimbursementBalance{}, fmt.Errorf("netting reimbursements: %w", err)
	}

	return ReimbursementBalance{
		TheyOweMe: theyOweMe,
		IOweThem:  iOweThem,
		Net:       net,
	}, nil
}

// CounterpartyBalance is the netted loan position against one party.
// Net positive means the counterparty owes the caller.
type CounterpartyBalance struct {
	Counterparty string       `json:"counterparty"`
	Net          models.Money `json:"net"`
	TheyOwe      models.Money `json:"they_owe"`
	IOwe         models.Money `json:"i_owe"`
}

// ReceivableBalances groups receivable ledger entries by counterparty and
// nets them as i_lent - collect - i_borrowed + repay. Counterparty names
// group case-insensitively with first-seen casing kept; results are sorted
// by name.
func (a *Aggregator) ReceivableBalances(ctx context.Context, currency string) ([]CounterpartyBalance, error) {
	if currency == "" {
		return nil, ErrCurrencyRequired
	}

	entries, err := a.store.ListLedgerEntries(ctx, store.Filter{Currency: currency, Type: models.TypeReceivable})
	if err != nil {
		return nil, fmt.Errorf("listing receivable entries: %w", err)
	}

	nets := make(map[string]decimal.Decimal)
	names := make(map[string]string)
	for _, e := range entries {
		key := strings.ToLower(e.Counterparty)
		if _, ok := names[key]; !ok {
			names[key] = e.Counterparty
		}

		net := nets[key]
		switch e.Direction {
		case models.DirectionILent:
			net = net.Add(e.Amount)
		case models.DirectionCollect:
			net = net.Sub(e.Amount)
		case models.DirectionIBorrowed:
			net = net.Sub(e.Amount)
		case models.DirectionRepay:
			net = net.Add(e.Amount)
		}
		nets[key] = net
	}

	balances := make([]CounterpartyBalance, 0, len(nets))
	for key, netAmount := range nets {
		net := models.NewMoney(netAmount, currency)
		theyOwe := models.ZeroMoney(currency)
		iOwe := models.ZeroMoney(currency)
		switch {
		case net.IsPositive():
			theyOwe = net
		case net.IsNegative():
			iOwe = net.Neg()
		}
		balances = append(balances, CounterpartyBalance{
			Counterparty: names[key],
			Net:          net,
			TheyOwe:      theyOwe,
			IOwe:         iOwe,
		})
	}
	sort.Slice(balances, func(i, j int) bool {
		return strings.ToLower(balances[i].Counterparty) < strings.ToLower(balances[j].Counterparty)
	})
	return balances, nil
}

// Totals are per-currency ledger sums with a derived net-worth figure.
// This is a point-in-time snapshot, not double-entry bookkeeping.
type Totals struct {
	Income     models.Money `json:"income"`
	Savings    models.Money `json:"savings"`
	Investment models.Money `json:"investment"`
	Liability  models.Money `json:"liability"`
	Expenses   models.Money `json:"expenses"`
	NetWorth   models.Money `json:"net_worth"`
}

// LedgerTotals sums income, transfer (savings), investment and liability
// ledger entries plus the lifetime expense total (the caller's own
// shares), and derives net worth as
// income - (expenses + savings + investment + liability).
func (a *Aggregator) LedgerTotals(ctx context.Context, currency string) (Totals, error) {
	if currency == "" {
		return Totals{}, ErrCurrencyRequired
	}

	entries, err := a.store.ListLedgerEntries(ctx, store.Filter{Currency: currency})
	if err != nil {
		return Totals{}, fmt.Errorf("listing ledger entries: %w", err)
	}

	income, savings, investment, liability := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case models.TypeIncome:
			income = income.Add(e.Amount)
		case models.TypeTransfer:
			savings = savings.Add(e.Amount)
		case models.TypeInvestment:
			investment = investment.Add(e.Amount)
		case models.TypeLiability:
			liability = liability.Add(e.Amount)
		}
	}

	expenses, err := a.store.ListExpenses(ctx, store.Filter{Currency: currency})
	if err != nil {
		return Totals{}, fmt.Errorf("listing expenses: %w", err)
	}
	expenseTotal := decimal.Zero
	for _, e := range expenses {
		expenseTotal = expenseTotal.Add(e.MyAmount)
	}

	netWorth := income.Sub(expenseTotal).Sub(savings).Sub(investment).Sub(liability)

	return Totals{
		Income:     models.NewMoney(income, currency),
		Savings:    models.NewMoney(savings, currency),
		Investment: models.NewMoney(investment, currency),
		Liability:  models.NewMoney(liability, currency),
		Expenses:   models.NewMoney(expenseTotal, currency),
		NetWorth:   models.NewMoney(netWorth, currency),
	}, nil
}
