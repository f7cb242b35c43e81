package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"fjacquet/msg-ledger/internal/models"
)

// Postgres implements Store on a PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection with the given DSN and verifies it.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgresFromDB wraps an existing database handle.
func NewPostgresFromDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Init creates the schema when it does not exist yet.
func (p *Postgres) Init(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			occurred_on DATE NOT NULL,
			source TEXT NOT NULL,
			raw_text TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			category TEXT,
			note TEXT,
			card TEXT,
			paid_by TEXT NOT NULL,
			split_type TEXT NOT NULL,
			split_ratio_me NUMERIC,
			split_ratio_other NUMERIC,
			other_party TEXT,
			my_amount NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reimbursements (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			occurred_on DATE NOT NULL,
			source TEXT NOT NULL,
			expense_id UUID,
			other_party TEXT NOT NULL,
			direction TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			note TEXT,
			raw_text TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			occurred_on DATE NOT NULL,
			source TEXT NOT NULL,
			raw_text TEXT,
			type TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			direction TEXT,
			counterparty TEXT,
			account TEXT,
			asset TEXT,
			liability TEXT,
			note TEXT
		)`,
	}
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database handle.
func (p *Postgres) Close() error {
	return p.db.Close()
}

const insertExpense = `INSERT INTO expenses
	(id, created_at, occurred_on, source, raw_text, amount, currency, category, note, card, paid_by,
	 split_type, split_ratio_me, split_ratio_other, other_party, my_amount)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

const insertReimbursement = `INSERT INTO reimbursements
	(id, created_at, occurred_on, source, expense_id, other_party, direction, amount, currency, note, raw_text)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// SaveExpense inserts the expense and its peer debts in one transaction.
func (p *Postgres) SaveExpense(ctx context.Context, expense *models.Expense, debts []models.Reimbursement) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertExpense,
		expense.ID, expense.CreatedAt, expense.OccurredOn, expense.Source, expense.RawText,
		expense.Amount, expense.Currency, expense.Category, expense.Note, expense.Card, expense.PaidBy,
		string(expense.SplitType), expense.SplitRatioMe, expense.SplitRatioOther,
		expense.OtherParty, expense.MyAmount,
	)
	if err != nil {
		return err
	}

	if err := insertDebts(ctx, tx, debts); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateExpense rewrites the expense row and atomically replaces its
// peer-debt set with the freshly computed one.
func (p *Postgres) UpdateExpense(ctx context.Context, expense *models.Expense, debts []models.Reimbursement) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE expenses SET
		occurred_on = $2, source = $3, raw_text = $4, amount = $5, currency = $6, category = $7,
		note = $8, card = $9, paid_by = $10, split_type = $11, split_ratio_me = $12,
		split_ratio_other = $13, other_party = $14, my_amount = $15
		WHERE id = $1`,
		expense.ID, expense.OccurredOn, expense.Source, expense.RawText, expense.Amount,
		expense.Currency, expense.Category, expense.Note, expense.Card, expense.PaidBy,
		string(expense.SplitType), expense.SplitRatioMe, expense.SplitRatioOther,
		expense.OtherParty, expense.MyAmount,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reimbursements WHERE expense_id = $1`, expense.ID); err != nil {
		return err
	}
	if err := insertDebts(ctx, tx, debts); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteExpense removes the expense and cascades to its peer debts.
func (p *Postgres) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reimbursements WHERE expense_id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func insertDebts(ctx context.Context, tx *sql.Tx, debts []models.Reimbursement) error {
	for _, d := range debts {
		_, err := tx.ExecContext(ctx, insertReimbursement,
			d.ID, d.CreatedAt, d.OccurredOn, d.Source, d.ExpenseID,
			d.OtherParty, string(d.Direction), d.Amount, d.Currency, d.Note, d.RawText,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

const selectExpense = `SELECT id, created_at, occurred_on, source, raw_text, amount, currency,
	COALESCE(category, ''), COALESCE(note, ''), COALESCE(card, ''), paid_by,
	split_type, COALESCE(split_ratio_me, 0), COALESCE(split_ratio_other, 0),
	COALESCE(other_party, ''), my_amount FROM expenses`

// GetExpense loads one expense by id.
func (p *Postgres) GetExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	row := p.db.QueryRowContext(ctx, selectExpense+` WHERE id = $1`, id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpenses returns expenses matching the filter, oldest first.
func (p *Postgres) ListExpenses(ctx context.Context, f Filter) ([]models.Expense, error) {
	query, args := applyFilter(selectExpense, f, "other_party", false)
	rows, err := p.db.QueryContext(ctx, query+" ORDER BY occurred_on, created_at", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// ListReimbursements returns peer debts matching the filter, oldest first.
func (p *Postgres) ListReimbursements(ctx context.Context, f Filter) ([]models.Reimbursement, error) {
	query, args := applyFilter(`SELECT id, created_at, occurred_on, source, expense_id, other_party,
		direction, amount, currency, COALESCE(note, ''), COALESCE(raw_text, '') FROM reimbursements`, f, "other_party", false)
	rows, err := p.db.QueryContext(ctx, query+" ORDER BY occurred_on, created_at", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []models.Reimbursement
	for rows.Next() {
		var d models.Reimbursement
		var direction string
		if err := rows.Scan(&d.ID, &d.CreatedAt, &d.OccurredOn, &d.Source, &d.ExpenseID,
			&d.OtherParty, &direction, &d.Amount, &d.Currency, &d.Note, &d.RawText); err != nil {
			return nil, err
		}
		d.Direction = models.PeerDirection(direction)
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// AppendLedgerEntry inserts one general-ledger entry.
func (p *Postgres) AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO ledger_entries
		(id, created_at, occurred_on, source, raw_text, type, amount, currency, direction,
		 counterparty, account, asset, liability, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		entry.ID, entry.CreatedAt, entry.OccurredOn, entry.Source, entry.RawText,
		string(entry.Type), entry.Amount, entry.Currency, string(entry.Direction),
		entry.Counterparty, entry.Account, entry.Asset, entry.Liability, entry.Note,
	)
	return err
}

// ListLedgerEntries returns ledger entries matching the filter, oldest first.
func (p *Postgres) ListLedgerEntries(ctx context.Context, f Filter) ([]models.LedgerEntry, error) {
	query, args := applyFilter(`SELECT id, created_at, occurred_on, source, COALESCE(raw_text, ''), type,
		amount, currency, COALESCE(direction, ''), COALESCE(counterparty, ''), COALESCE(account, ''),
		COALESCE(asset, ''), COALESCE(liability, ''), COALESCE(note, '') FROM ledger_entries`, f, "counterparty", true)
	rows, err := p.db.QueryContext(ctx, query+" ORDER BY occurred_on, created_at", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var entryType, direction string
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.OccurredOn, &e.Source, &e.RawText, &entryType,
			&e.Amount, &e.Currency, &direction, &e.Counterparty, &e.Account,
			&e.Asset, &e.Liability, &e.Note); err != nil {
			return nil, err
		}
		e.Type = models.EntryType(entryType)
		e.Direction = models.LoanDirection(direction)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	var splitType string
	err := row.Scan(&e.ID, &e.CreatedAt, &e.OccurredOn, &e.Source, &e.RawText, &e.Amount,
		&e.Currency, &e.Category, &e.Note, &e.Card, &e.PaidBy, &splitType,
		&e.SplitRatioMe, &e.SplitRatioOther, &e.OtherParty, &e.MyAmount)
	if err != nil {
		return nil, err
	}
	e.SplitType = models.SplitType(splitType)
	return &e, nil
}

// applyFilter appends WHERE clauses for the filter to the base query.
// partyColumn names the column the party filter applies to for this table;
// hasTypeColumn must only be set for the ledger-entries table, the one
// table carrying a type column.
func applyFilter(base string, f Filter, partyColumn string, hasTypeColumn bool) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Currency != "" {
		add("currency = $%d", f.Currency)
	}
	party := f.OtherParty
	if partyColumn == "counterparty" {
		party = f.Counterparty
	}
	if party != "" {
		add("LOWER("+partyColumn+") = LOWER($%d)", party)
	}
	if hasTypeColumn && f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.From != nil {
		add("occurred_on >= $%d", *f.From)
	}
	if f.To != nil {
		add("occurred_on <= $%d", *f.To)
	}

	if len(clauses) == 0 {
		return base, nil
	}
	return base + " WHERE " + joinClauses(clauses), args
}

func joinClauses(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += " AND " + c
	}
	return out
}
