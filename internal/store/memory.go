package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fjacquet/msg-ledger/internal/models"
)

// Memory is an in-memory Store used by tests and by the CLI when no
// database DSN is configured. All methods are safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	expenses map[uuid.UUID]models.Expense
	debts    map[uuid.UUID]models.Reimbursement
	entries  []models.LedgerEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		expenses: make(map[uuid.UUID]models.Expense),
		debts:    make(map[uuid.UUID]models.Reimbursement),
	}
}

// SaveExpense inserts the expense and its peer debts.
func (m *Memory) SaveExpense(_ context.Context, expense *models.Expense, debts []models.Reimbursement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expenses[expense.ID] = *expense
	for _, d := range debts {
		m.debts[d.ID] = d
	}
	return nil
}

// GetExpense loads one expense by id.
func (m *Memory) GetExpense(_ context.Context, id uuid.UUID) (*models.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.expenses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

// UpdateExpense rewrites the expense and replaces its peer-debt set.
func (m *Memory) UpdateExpense(_ context.Context, expense *models.Expense, debts []models.Reimbursement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[expense.ID]; !ok {
		return ErrNotFound
	}
	m.expenses[expense.ID] = *expense
	m.deleteDebtsOf(expense.ID)
	for _, d := range debts {
		m.debts[d.ID] = d
	}
	return nil
}

// DeleteExpense removes the expense and cascades to its peer debts.
func (m *Memory) DeleteExpense(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(m.expenses, id)
	m.deleteDebtsOf(id)
	return nil
}

func (m *Memory) deleteDebtsOf(expenseID uuid.UUID) {
	for id, d := range m.debts {
		if d.ExpenseID != nil && *d.ExpenseID == expenseID {
			delete(m.debts, id)
		}
	}
}

// ListExpenses returns expenses matching the filter, oldest first.
func (m *Memory) ListExpenses(_ context.Context, f Filter) ([]models.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Expense
	for _, e := range m.expenses {
		if f.matchesCurrency(e.Currency) && f.matchesParty(e.OtherParty) && f.matchesDate(e.OccurredOn) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn) {
			return out[i].OccurredOn.Before(out[j].OccurredOn)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListReimbursements returns peer debts matching the filter, oldest first.
func (m *Memory) ListReimbursements(_ context.Context, f Filter) ([]models.Reimbursement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Reimbursement
	for _, d := range m.debts {
		if f.matchesCurrency(d.Currency) && f.matchesParty(d.OtherParty) && f.matchesDate(d.OccurredOn) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn) {
			return out[i].OccurredOn.Before(out[j].OccurredOn)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AppendLedgerEntry inserts one general-ledger entry.
func (m *Memory) AppendLedgerEntry(_ context.Context, entry *models.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, *entry)
	return nil
}

// ListLedgerEntries returns ledger entries matching the filter, oldest first.
func (m *Memory) ListLedgerEntries(_ context.Context, f Filter) ([]models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.LedgerEntry
	for _, e := range m.entries {
		if !f.matchesCurrency(e.Currency) || !f.matchesDate(e.OccurredOn) {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Counterparty != "" && !strings.EqualFold(f.Counterparty, e.Counterparty) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn) {
			return out[i].OccurredOn.Before(out[j].OccurredOn)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
