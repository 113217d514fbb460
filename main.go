package main

import (
	"fmt"
	"os"

	"fjacquet/pocket-budget/cmd/budget"
	"fjacquet/pocket-budget/cmd/categories"
	"fjacquet/pocket-budget/cmd/common"
	"fjacquet/pocket-budget/cmd/currency"
	"fjacquet/pocket-budget/cmd/cycle"
	"fjacquet/pocket-budget/cmd/dashboard"
	"fjacquet/pocket-budget/cmd/export"
	"fjacquet/pocket-budget/cmd/root"
	"fjacquet/pocket-budget/cmd/trend"
	"fjacquet/pocket-budget/cmd/tx"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(tx.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(currency.Cmd)
	root.Cmd.AddCommand(dashboard.Cmd)
	root.Cmd.AddCommand(trend.Cmd)
	root.Cmd.AddCommand(cycle.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
}

func main() {
	err := root.Cmd.Execute()
	root.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, common.Describe(err))
		os.Exit(1)
	}
}
