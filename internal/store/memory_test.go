package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/msg-ledger/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func testExpense(occurred time.Time, currency, otherParty string) *models.Expense {
	amount := decimal.NewFromInt(100)
	return &models.Expense{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		OccurredOn: occurred,
		Amount:     amount,
		Currency:   currency,
		OtherParty: otherParty,
		MyAmount:   amount,
	}
}

func testDebt(expenseID uuid.UUID, occurred time.Time, party string) models.Reimbursement {
	return models.Reimbursement{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		OccurredOn: occurred,
		ExpenseID:  &expenseID,
		OtherParty: party,
		Direction:  models.TheyOweMe,
		Amount:     decimal.NewFromInt(50),
		Currency:   "INR",
	}
}

func TestMemoryExpenseRoundtrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	expense := testExpense(day(1), "INR", "vyas")
	require.NoError(t, m.SaveExpense(ctx, expense, []models.Reimbursement{
		testDebt(expense.ID, day(1), "vyas"),
	}))

	got, err := m.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.ID, got.ID)
	assert.True(t, got.Amount.Equal(expense.Amount))

	_, err = m.GetExpense(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateReplacesDebts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	expense := testExpense(day(1), "INR", "vyas")
	require.NoError(t, m.SaveExpense(ctx, expense, []models.Reimbursement{
		testDebt(expense.ID, day(1), "vyas"),
		testDebt(expense.ID, day(1), "ana"),
	}))

	updated := *expense
	updated.Amount = decimal.NewFromInt(200)
	require.NoError(t, m.UpdateExpense(ctx, &updated, []models.Reimbursement{
		testDebt(expense.ID, day(1), "ben"),
	}))

	got, err := m.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(200)))

	debts, err := m.ListReimbursements(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "ben", debts[0].OtherParty)
}

func TestMemoryUpdateUnknown(t *testing.T) {
	m := NewMemory()
	expense := testExpense(day(1), "INR", "")
	assert.ErrorIs(t, m.UpdateExpense(context.Background(), expense, nil), ErrNotFound)
}

func TestMemoryDeleteCascades(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	keep := testExpense(day(1), "INR", "vyas")
	drop := testExpense(day(2), "INR", "ana")
	require.NoError(t, m.SaveExpense(ctx, keep, []models.Reimbursement{testDebt(keep.ID, day(1), "vyas")}))
	require.NoError(t, m.SaveExpense(ctx, drop, []models.Reimbursement{testDebt(drop.ID, day(2), "ana")}))

	require.NoError(t, m.DeleteExpense(ctx, drop.ID))

	_, err := m.GetExpense(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	debts, err := m.ListReimbursements(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "vyas", debts[0].OtherParty)

	assert.ErrorIs(t, m.DeleteExpense(ctx, drop.ID), ErrNotFound)
}

func TestMemoryListExpensesFilters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SaveExpense(ctx, testExpense(day(3), "INR", "vyas"), nil))
	require.NoError(t, m.SaveExpense(ctx, testExpense(day(1), "INR", "ana"), nil))
	require.NoError(t, m.SaveExpense(ctx, testExpense(day(2), "USD", "vyas"), nil))

	t.Run("Sorted oldest first", func(t *testing.T) {
		out, err := m.ListExpenses(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.True(t, out[0].OccurredOn.Equal(day(1)))
		assert.True(t, out[2].OccurredOn.Equal(day(3)))
	})

	t.Run("By currency", func(t *testing.T) {
		out, err := m.ListExpenses(ctx, Filter{Currency: "USD"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "USD", out[0].Currency)
	})

	t.Run("By party case-insensitive", func(t *testing.T) {
		out, err := m.ListExpenses(ctx, Filter{OtherParty: "VYAS"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("By date range", func(t *testing.T) {
		from, to := day(2), day(3)
		out, err := m.ListExpenses(ctx, Filter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
}

func TestMemoryLedgerEntryFilters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	entries := []models.LedgerEntry{
		{ID: uuid.New(), OccurredOn: day(1), Type: models.TypeIncome, Amount: decimal.NewFromInt(90000), Currency: "INR"},
		{ID: uuid.New(), OccurredOn: day(2), Type: models.TypeReceivable, Counterparty: "kevin", Amount: decimal.NewFromInt(1200), Currency: "INR"},
		{ID: uuid.New(), OccurredOn: day(3), Type: models.TypeReceivable, Counterparty: "ana", Amount: decimal.NewFromInt(500), Currency: "INR"},
	}
	for i := range entries {
		require.NoError(t, m.AppendLedgerEntry(ctx, &entries[i]))
	}

	t.Run("By type", func(t *testing.T) {
		out, err := m.ListLedgerEntries(ctx, Filter{Type: models.TypeReceivable})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("By counterparty case-insensitive", func(t *testing.T) {
		out, err := m.ListLedgerEntries(ctx, Filter{Counterparty: "KEVIN"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "kevin", out[0].Counterparty)
	})

	t.Run("Unfiltered sorted oldest first", func(t *testing.T) {
		out, err := m.ListLedgerEntries(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, models.TypeIncome, out[0].Type)
	})
}
