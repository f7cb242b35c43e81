// Package balance contains the read-side commands: reimbursement balance,
// receivable balances and ledger totals.
package balance

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/msg-ledger/cmd/root"
)

var (
	party    string
	currency string
)

// BalanceCmd prints the netted reimbursement balance.
var BalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the net reimbursement balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := root.OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		bal, err := root.NewAggregator(st).ReimbursementBalance(cmd.Context(), party, currencyOrDefault())
		if err != nil {
			return err
		}
		return printJSON(bal)
	},
}

// LoansCmd prints per-counterparty receivable balances.
var LoansCmd = &cobra.Command{
	Use:   "loans",
	Short: "Show receivable/loan balances per counterparty",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := root.OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		balances, err := root.NewAggregator(st).ReceivableBalances(cmd.Context(), currencyOrDefault())
		if err != nil {
			return err
		}
		return printJSON(balances)
	},
}

// TotalsCmd prints per-currency ledger totals and the derived net worth.
var TotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show income, savings, investment and liability totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := root.OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		totals, err := root.NewAggregator(st).LedgerTotals(cmd.Context(), currencyOrDefault())
		if err != nil {
			return err
		}
		return printJSON(totals)
	},
}

func currencyOrDefault() string {
	if currency != "" {
		return currency
	}
	return root.Cfg.Currency.Default
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	BalanceCmd.Flags().StringVarP(&party, "party", "p", "", "Restrict the balance to one counterparty")
	BalanceCmd.Flags().StringVarP(&currency, "currency", "c", "", "Currency to net in (defaults to the configured currency)")
	LoansCmd.Flags().StringVarP(&currency, "currency", "c", "", "Currency to net in (defaults to the configured currency)")
	TotalsCmd.Flags().StringVarP(&currency, "currency", "c", "", "Currency to total in (defaults to the configured currency)")
}
