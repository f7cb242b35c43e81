// Package export writes persisted records to CSV for use in spreadsheets
// and downstream tooling.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"fjacquet/msg-ledger/internal/models"
)

const dateLayout = "2006-01-02"

type expenseRow struct {
	Date       string `csv:"date"`
	Amount     string `csv:"amount"`
	Currency   string `csv:"currency"`
	Category   string `csv:"category"`
	Note       string `csv:"note"`
	Card       string `csv:"card"`
	PaidBy     string `csv:"paid_by"`
	SplitType  string `csv:"split_type"`
	OtherParty string `csv:"other_party"`
	MyAmount   string `csv:"my_amount"`
	Source     string `csv:"source"`
}

type ledgerRow struct {
	Date         string `csv:"date"`
	Type         string `csv:"type"`
	Amount       string `csv:"amount"`
	Currency     string `csv:"currency"`
	Direction    string `csv:"direction"`
	Counterparty string `csv:"counterparty"`
	Account      string `csv:"account"`
	Asset        string `csv:"asset"`
	Liability    string `csv:"liability"`
	Note         string `csv:"note"`
	Source       string `csv:"source"`
}

// SetDelimiter configures the CSV field delimiter for subsequent writes.
func SetDelimiter(delimiter rune) {
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = delimiter
		return gocsv.NewSafeCSVWriter(writer)
	})
}

// WriteExpenses writes the expenses as CSV, oldest ordering preserved.
func WriteExpenses(w io.Writer, expenses []models.Expense) error {
	rows := make([]expenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, expenseRow{
			Date:       e.OccurredOn.Format(dateLayout),
			Amount:     e.Amount.String(),
			Currency:   e.Currency,
			Category:   e.Category,
			Note:       e.Note,
			Card:       e.Card,
			PaidBy:     e.PaidBy,
			SplitType:  string(e.SplitType),
			OtherParty: e.OtherParty,
			MyAmount:   e.MyAmount.String(),
			Source:     e.Source,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing expenses CSV: %w", err)
	}
	return nil
}

// WriteLedgerEntries writes the ledger entries as CSV.
func WriteLedgerEntries(w io.Writer, entries []models.LedgerEntry) error {
	rows := make([]ledgerRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ledgerRow{
			Date:         e.OccurredOn.Format(dateLayout),
			Type:         string(e.Type),
			Amount:       e.Amount.String(),
			Currency:     e.Currency,
			Direction:    string(e.Direction),
			Counterparty: e.Counterparty,
			Account:      e.Account,
			Asset:        e.Asset,
			Liability:    e.Liability,
			Note:         e.Note,
			Source:       e.Source,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing ledger CSV: %w", err)
	}
	return nil
}
