package main

import (
	"fmt"
	"os"

	balancecmd "fjacquet/msg-ledger/cmd/balance"
	exportcmd "fjacquet/msg-ledger/cmd/export"
	"fjacquet/msg-ledger/cmd/message"
	"fjacquet/msg-ledger/cmd/root"
	"fjacquet/msg-ledger/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(message.ParseCmd)
	root.Cmd.AddCommand(message.AddCmd)
	root.Cmd.AddCommand(message.EditCmd)
	root.Cmd.AddCommand(message.DeleteCmd)
	root.Cmd.AddCommand(balancecmd.BalanceCmd)
	root.Cmd.AddCommand(balancecmd.LoansCmd)
	root.Cmd.AddCommand(balancecmd.TotalsCmd)
	root.Cmd.AddCommand(exportcmd.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
