// Package models defines the domain entities shared across the application:
// the transient parsed message produced by the parser, and the persisted
// expense, reimbursement and ledger-entry records.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a financial event extracted from a message.
type EntryType string

const (
	TypeExpense    EntryType = "expense"
	TypeIncome     EntryType = "income"
	TypeTransfer   EntryType = "transfer"
	TypeInvestment EntryType = "investment"
	TypeLiability  EntryType = "liability"
	TypeReceivable EntryType = "receivable"
)

// ValidEntryType reports whether s is one of the recognized entry types.
func ValidEntryType(s string) bool {
	switch EntryType(s) {
	case TypeExpense, TypeIncome, TypeTransfer, TypeInvestment, TypeLiability, TypeReceivable:
		return true
	}
	return false
}

// LoanDirection is the direction of a receivable/loan ledger entry.
type LoanDirection string

const (
	DirectionILent     LoanDirection = "i_lent"
	DirectionIBorrowed LoanDirection = "i_borrowed"
	DirectionRepay     LoanDirection = "repay"
	DirectionCollect   LoanDirection = "collect"
)

// ValidLoanDirection reports whether s is one of the recognized loan directions.
func ValidLoanDirection(s string) bool {
	switch LoanDirection(s) {
	case DirectionILent, DirectionIBorrowed, DirectionRepay, DirectionCollect:
		return true
	}
	return false
}

// SplitType describes how an expense amount is divided between the caller
// and the other parties.
type SplitType string

const (
	SplitNone  SplitType = "none"
	SplitEqual SplitType = "equal"
	SplitRatio SplitType = "ratio"
)

// PeerDirection is the direction of a peer debt relative to the caller.
type PeerDirection string

const (
	TheyOweMe PeerDirection = "they_owe_me"
	IOweThem  PeerDirection = "i_owe_them"
)

// PaidByMe is the literal paidby value meaning the caller paid.
const PaidByMe = "me"

// ParsedMessage is the structured result of parsing one free-form message.
// It carries the extracted amount, an optional occurrence date, the
// normalized category, the residual note, and the metadata bag lifted from
// key:value tokens. The zero value of OccurredOn (nil) means "today" and is
// resolved by the caller against its clock.
type ParsedMessage struct {
	Amount     decimal.Decimal
	Currency   string
	OccurredOn *time.Time
	Category   string
	Note       string

	Card         string
	PaidBy       string
	Type         EntryType
	Account      string
	Asset        string
	Liability    string
	Counterparty string
	Direction    LoanDirection
	ForPerson    string

	SplitType       SplitType
	SplitRatioMe    decimal.Decimal
	SplitRatioOther decimal.Decimal

	// OtherParty is the primary counterparty (first named), OtherParties the
	// full deduplicated list in first-seen order with first-seen casing.
	OtherParty   string
	OtherParties []string
}

// HasRatio reports whether both ratio components are present and positive.
// A ratio split without a usable ratio falls back to an equal split.
func (m *ParsedMessage) HasRatio() bool {
	return m.SplitRatioMe.IsPositive() && m.SplitRatioOther.IsPositive()
}
