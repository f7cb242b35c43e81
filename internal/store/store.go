// Package store persists expenses, reimbursements and ledger entries.
// Two implementations exist: Postgres for real deployments and Memory for
// tests and zero-configuration local use.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fjacquet/msg-ledger/internal/models"
)

// ErrNotFound is returned when a record does not exist. Edits and deletes
// surface it to the caller instead of failing the process.
var ErrNotFound = errors.New("record not found")

// Filter narrows list queries. Zero-value fields match everything.
// OtherParty and Counterparty match case-insensitively.
type Filter struct {
	Currency     string
	OtherParty   string
	Counterparty string
	Type         models.EntryType
	From         *time.Time
	To           *time.Time
}

// Store is the persistence boundary of the core. SaveExpense and
// UpdateExpense write the expense and its peer-debt set as one
// transactional unit; UpdateExpense replaces the prior set wholesale.
type Store interface {
	SaveExpense(ctx context.Context, expense *models.Expense, debts []models.Reimbursement) error
	GetExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense, debts []models.Reimbursement) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	ListExpenses(ctx context.Context, f Filter) ([]models.Expense, error)

	ListReimbursements(ctx context.Context, f Filter) ([]models.Reimbursement, error)

	AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
	ListLedgerEntries(ctx context.Context, f Filter) ([]models.LedgerEntry, error)
}

func (f Filter) matchesParty(name string) bool {
	return f.OtherParty == "" || strings.EqualFold(f.OtherParty, name)
}

func (f Filter) matchesCurrency(currency string) bool {
	return f.Currency == "" || f.Currency == currency
}

func (f Filter) matchesDate(occurredOn time.Time) bool {
	if f.From != nil && occurredOn.Before(*f.From) {
		return false
	}
	if f.To != nil && occurredOn.After(*f.To) {
		return false
	}
	return true
}
