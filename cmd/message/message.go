// Package message contains the commands that ingest, edit and delete
// message-derived records.
package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fjacquet/msg-ledger/cmd/root"
	"fjacquet/msg-ledger/internal/parsererror"
	"fjacquet/msg-ledger/internal/store"
)

var source string

// ParseCmd parses a message and prints the structured result without
// persisting anything.
var ParseCmd = &cobra.Command{
	Use:   "parse <message...>",
	Short: "Parse a message without recording it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := root.NewParser()
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		parsed, err := p.Parse(text)
		var unparseable *parsererror.UnparseableError
		if errors.As(err, &unparseable) {
			fmt.Println("Could not parse:", unparseable.Reason)
			return nil
		}
		if err != nil {
			return err
		}

		return printJSON(parsed)
	},
}

// AddCmd parses a message and records the resulting expense or ledger
// entry.
var AddCmd = &cobra.Command{
	Use:   "add <message...>",
	Short: "Parse a message and record it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := root.NewParser()
		if err != nil {
			return err
		}
		st, closeStore, err := root.OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		svc, err := root.NewService(cmd.Context(), st)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		parsed, err := p.Parse(text)
		var unparseable *parsererror.UnparseableError
		if errors.As(err, &unparseable) {
			fmt.Println("Could not parse:", unparseable.Reason)
			return nil
		}
		if err != nil {
			return err
		}

		result, err := svc.Ingest(cmd.Context(), parsed, source, text)
		var invalid *parsererror.ValidationError
		if errors.As(err, &invalid) {
			fmt.Println("Rejected:", invalid.Error())
			return nil
		}
		if err != nil {
			return err
		}

		return printJSON(result)
	},
}

// EditCmd re-parses a message against an existing expense, recomputing its
// allocation and replacing its peer debts.
var EditCmd = &cobra.Command{
	Use:   "edit <expense-id> <message...>",
	Short: "Re-parse a message and update an existing expense",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid expense id %q", args[0])
		}

		p, err := root.NewParser()
		if err != nil {
			return err
		}
		st, closeStore, err := root.OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		svc, err := root.NewService(cmd.Context(), st)
		if err != nil {
			return err
		}

		text := strings.Join(args[1:], " ")
		parsed, err := p.Parse(text)
		var unparseable *parsererror.UnparseableError
		if errors.As(err, &unparseable) {
			fmt.Println("Could not parse:", unparseable.Reason)
			return nil
		}
		if err != nil {
			return err
		}

		expense, debts, err := svc.Reallocate(cmd.Context(), id, parsed, text)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("Expense not found:", id)
			return nil
		}
		if err != nil {
			return err
		}

		return printJSON(map[string]interface{}{"expense": expense, "reimbursements": debts})
	},
}

// DeleteCmd removes an expense and its peer debts.
var DeleteCmd = &cobra.Command{
	Use:   "delete <expense-id>",
	Short: "Delete an expense and its peer debts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid expense id %q", args[0])
		}

		st, closeStore, err := root.OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		svc, err := root.NewService(cmd.Context(), st)
		if err != nil {
			return err
		}

		err = svc.Delete(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("Expense not found:", id)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Deleted", id)
		return nil
	},
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	AddCmd.Flags().StringVarP(&source, "source", "s", "cli", "Source label recorded on the entry")
}
