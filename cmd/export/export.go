// Package export contains the CSV export command.
package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/msg-ledger/cmd/root"
	"fjacquet/msg-ledger/internal/export"
	"fjacquet/msg-ledger/internal/store"
)

var (
	output string
	kind   string
)

// Cmd writes expenses or ledger entries to a CSV file.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export expenses or ledger entries to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := root.OpenStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if delim := root.Cfg.CSV.Delimiter; delim != "" {
			export.SetDelimiter([]rune(delim)[0])
		}

		switch kind {
		case "expenses":
			expenses, err := st.ListExpenses(cmd.Context(), store.Filter{})
			if err != nil {
				return err
			}
			return export.WriteExpenses(out, expenses)
		case "ledger":
			entries, err := st.ListLedgerEntries(cmd.Context(), store.Filter{})
			if err != nil {
				return err
			}
			return export.WriteLedgerEntries(out, entries)
		default:
			return fmt.Errorf("unknown export kind %q, expected expenses or ledger", kind)
		}
	},
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (defaults to stdout)")
	Cmd.Flags().StringVarP(&kind, "kind", "k", "expenses", "What to export: expenses or ledger")
}
