package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is the persisted primary record for an expense message.
// Amount is the full amount paid; MyAmount is the caller's own share after
// allocation. The reimbursements derived from a split belong to this record
// and are replaced wholesale whenever it is edited.
type Expense struct {
	ID         uuid.UUID       `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	OccurredOn time.Time       `json:"occurred_on"`
	Source     string          `json:"source"`
	RawText    string          `json:"raw_text"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Category   string          `json:"category,omitempty"`
	Note       string          `json:"note,omitempty"`
	Card       string          `json:"card,omitempty"`
	PaidBy     string          `json:"paid_by"`

	SplitType       SplitType       `json:"split_type"`
	SplitRatioMe    decimal.Decimal `json:"split_ratio_me,omitempty"`
	SplitRatioOther decimal.Decimal `json:"split_ratio_other,omitempty"`
	OtherParty      string          `json:"other_party,omitempty"`

	MyAmount decimal.Decimal `json:"my_amount"`
}

// Reimbursement is a persisted peer-debt record. Direction is relative to
// the caller: TheyOweMe means the other party owes the caller. ExpenseID
// links back to the owning expense when the debt was derived from a split;
// it is informational, not an enforced foreign key.
type Reimbursement struct {
	ID         uuid.UUID       `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	OccurredOn time.Time       `json:"occurred_on"`
	Source     string          `json:"source"`
	ExpenseID  *uuid.UUID      `json:"expense_id,omitempty"`
	OtherParty string          `json:"other_party"`
	Direction  PeerDirection   `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Note       string          `json:"note,omitempty"`
	RawText    string          `json:"raw_text,omitempty"`
}

// LedgerEntry is a persisted non-expense financial event: income, savings
// transfer, investment, liability or interpersonal loan (receivable).
// Entries are append-only; there is no edit path.
type LedgerEntry struct {
	ID           uuid.UUID       `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	OccurredOn   time.Time       `json:"occurred_on"`
	Source       string          `json:"source"`
	RawText      string          `json:"raw_text,omitempty"`
	Type         EntryType       `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Direction    LoanDirection   `json:"direction,omitempty"`
	Counterparty string          `json:"counterparty,omitempty"`
	Account      string          `json:"account,omitempty"`
	Asset        string          `json:"asset,omitempty"`
	Liability    string          `json:"liability,omitempty"`
	Note         string          `json:"note,omitempty"`
}
