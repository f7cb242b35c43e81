// Package serve contains the HTTP server command.
package serve

import (
	"net/http"

	"github.com/spf13/cobra"

	"fjacquet/msg-ledger/cmd/root"
	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/server"
)

var addr string

// Cmd runs the HTTP API and webhook endpoint.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and webhook endpoint",
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

		srv := server.New(p, svc, root.NewAggregator(st), root.Cfg.Server.APIKey, root.Cfg.Currency.Default, root.Log)

		listenAddr := addr
		if listenAddr == "" {
			listenAddr = root.Cfg.Server.Addr
		}
		root.Log.WithFields(logging.Field{Key: "addr", Value: listenAddr}).Info("Listening")
		return http.ListenAndServe(listenAddr, srv.Handler())
	},
}

func init() {
	Cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (defaults to the configured address)")
}
