// Package ledger composes the parser output, the allocation engine and the
// store into the ingestion, edit and deletion paths of the system.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fjacquet/msg-ledger/internal/allocation"
	"fjacquet/msg-ledger/internal/classify"
	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/models"
	"fjacquet/msg-ledger/internal/parsererror"
	"fjacquet/msg-ledger/internal/store"
)

// Service owns the write side of the ledger. It is stateless between
// invocations; every edit recomputes the allocation from scratch.
type Service struct {
	store           store.Store
	engine          *allocation.Engine
	fallback        classify.Strategy
	clock           func() time.Time
	defaultCurrency string
	log             logging.Logger
}

// NewService creates a Service. A nil clock defaults to time.Now.
func NewService(st store.Store, engine *allocation.Engine, clock func() time.Time, defaultCurrency string, log logging.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:           st,
		engine:          engine,
		clock:           clock,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// WithCategoryFallback chains a classification strategy behind the
// vocabulary table for expenses that arrive uncategorized.
func (s *Service) WithCategoryFallback(strategy classify.Strategy) *Service {
	s.fallback = strategy
	return s
}

// IngestResult is the outcome of ingesting one parsed message. Exactly one
// of Expense (with its Reimbursements) or Entry is set, depending on the
// message type.
type IngestResult struct {
	Expense        *models.Expense        `json:"expense,omitempty"`
	Reimbursements []models.Reimbursement `json:"reimbursements,omitempty"`
	Entry          *models.LedgerEntry    `json:"entry,omitempty"`
}

// Ingest persists a parsed message: expenses go through allocation, every
// other type becomes a general-ledger entry.
func (s *Service) Ingest(ctx context.Context, parsed *models.ParsedMessage, source, rawText string) (*IngestResult, error) {
	if parsed.Type == models.TypeExpense || parsed.Type == "" {
		expense, debts, err := s.IngestExpense(ctx, parsed, source, rawText)
		if err != nil {
			return nil, err
		}
		return &IngestResult{Expense: expense, Reimbursements: debts}, nil
	}

	entry, err := s.AppendEntry(ctx, parsed, source, rawText)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Entry: entry}, nil
}

// IngestExpense runs the allocation engine over the parsed expense and
// persists the primary record together with the implied peer debts.
func (s *Service) IngestExpense(ctx context.Context, parsed *models.ParsedMessage, source, rawText string) (*models.Expense, []models.Reimbursement, error) {
	now := s.clock().UTC()
	result := s.engine.Allocate(parsed)

	expense := s.buildExpense(ctx, parsed, result, source, rawText, now)
	expense.ID = uuid.New()
	expense.CreatedAt = now

	debts := deriveDebts(expense, result, now)

	if err := s.store.SaveExpense(ctx, expense, debts); err != nil {
		return nil, nil, fmt.Errorf("saving expense: %w", err)
	}

	s.log.WithFields(
		logging.Field{Key: "id", Value: expense.ID},
		logging.Field{Key: "amount", Value: expense.Amount},
		logging.Field{Key: "my_amount", Value: expense.MyAmount},
		logging.Field{Key: "peer_debts", Value: len(debts)},
	).Info("Expense ingested")

	return expense, debts, nil
}

// Reallocate applies a re-parsed message to an existing expense. The
// allocation is recomputed from scratch and the previous peer-debt set is
// replaced wholesale; there is no incremental diffing. Returns
// store.ErrNotFound when the expense does not exist.
func (s *Service) Reallocate(ctx context.Context, id uuid.UUID, parsed *models.ParsedMessage, rawText string) (*models.Expense, []models.Reimbursement, error) {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock().UTC()
	result := s.engine.Allocate(parsed)

	expense := s.buildExpense(ctx, parsed, result, existing.Source, rawText, now)
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	debts := deriveDebts(expense, result, now)

	if err := s.store.UpdateExpense(ctx, expense, debts); err != nil {
		return nil, nil, err
	}

	s.log.WithFields(
		logging.Field{Key: "id", Value: expense.ID},
		logging.Field{Key: "peer_debts", Value: len(debts)},
	).Info("Expense reallocated")

	return expense, debts, nil
}

// Delete removes an expense and its peer debts. Returns store.ErrNotFound
// for unknown ids.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteExpense(ctx, id)
}

// AppendEntry validates and persists a non-expense ledger entry. A
// receivable entry without both counterparty and direction is rejected
// before persistence.
func (s *Service) AppendEntry(ctx context.Context, parsed *models.ParsedMessage, source, rawText string) (*models.LedgerEntry, error) {
	if parsed.Type == models.TypeReceivable {
		if parsed.Counterparty == "" {
			return nil, &parsererror.ValidationError{Field: "receivable entry", Reason: "counterparty is required"}
		}
		if parsed.Direction == "" {
			return nil, &parsererror.ValidationError{Field: "receivable entry", Reason: "direction is required"}
		}
	}

	now := s.clock().UTC()
	entry := &models.LedgerEntry{
		ID:           uuid.New(),
		CreatedAt:    now,
		OccurredOn:   occurredOn(parsed, now),
		Source:       source,
		RawText:      rawText,
		Type:         parsed.Type,
		Amount:       parsed.Amount,
		Currency:     s.currency(parsed),
		Direction:    parsed.Direction,
		Counterparty: parsed.Counterparty,
		Account:      parsed.Account,
		Asset:        parsed.Asset,
		Liability:    parsed.Liability,
		Note:         parsed.Note,
	}

	if err := s.store.AppendLedgerEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending ledger entry: %w", err)
	}

	s.log.WithFields(
		logging.Field{Key: "id", Value: entry.ID},
		logging.Field{Key: "type", Value: entry.Type},
		logging.Field{Key: "amount", Value: entry.Amount},
	).Info("Ledger entry appended")

	return entry, nil
}

func (s *Service) buildExpense(ctx context.Context, parsed *models.ParsedMessage, result allocation.Result, source, rawText string, now time.Time) *models.Expense {
	paidBy := parsed.PaidBy
	if paidBy == "" {
		paidBy = models.PaidByMe
	}
	splitType := parsed.SplitType
	if splitType == "" {
		splitType = models.SplitNone
	}

	return &models.Expense{
		OccurredOn:      occurredOn(parsed, now),
		Source:          source,
		RawText:         rawText,
		Amount:          parsed.Amount,
		Currency:        s.currency(parsed),
		Category:        s.category(ctx, parsed),
		Note:            parsed.Note,
		Card:            parsed.Card,
		PaidBy:          paidBy,
		SplitType:       splitType,
		SplitRatioMe:    parsed.SplitRatioMe,
		SplitRatioOther: parsed.SplitRatioOther,
		OtherParty:      parsed.OtherParty,
		MyAmount:        result.MyAmount,
	}
}

func deriveDebts(expense *models.Expense, result allocation.Result, now time.Time) []models.Reimbursement {
	debts := make([]models.Reimbursement, 0, len(result.PeerDebts))
	for _, d := range result.PeerDebts {
		expenseID := expense.ID
		debts = append(debts, models.Reimbursement{
			ID:         uuid.New(),
			CreatedAt:  now,
			OccurredOn: expense.OccurredOn,
			Source:     expense.Source,
			ExpenseID:  &expenseID,
			OtherParty: d.OtherParty,
			Direction:  d.Direction,
			Amount:     d.Amount,
			Currency:   expense.Currency,
			Note:       expense.Note,
			RawText:    expense.RawText,
		})
	}
	return debts
}

func (s *Service) currency(parsed *models.ParsedMessage) string {
	if parsed.Currency != "" {
		return parsed.Currency
	}
	return s.defaultCurrency
}

// category resolves the expense category, consulting the fallback strategy
// when the parser left it unset. Fallback failures are logged and ignored.
func (s *Service) category(ctx context.Context, parsed *models.ParsedMessage) string {
	if parsed.Category != "" || s.fallback == nil || parsed.Note == "" {
		return parsed.Category
	}

	category, found, err := s.fallback.Classify(ctx, parsed.Note)
	if err != nil {
		s.log.WithError(err).WithField("strategy", s.fallback.Name()).Warn("Category fallback failed")
		return ""
	}
	if !found {
		return ""
	}
	return category
}

func occurredOn(parsed *models.ParsedMessage, now time.Time) time.Time {
	if parsed.OccurredOn != nil {
		return *parsed.OccurredOn
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
