// Package currency implements the display currency commands.
package currency

import (
	"fmt"
	"strings"

	"fjacquet/pocket-budget/cmd/root"
	"fjacquet/pocket-budget/internal/currencyutils"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sample = decimal.RequireFromString("1234.5")

// Cmd groups the currency subcommands.
var Cmd = &cobra.Command{
	Use:   "currency",
	Short: "Show and change the display currency",
}

var setCmd = &cobra.Command{
	Use:   "set <code>",
	Short: "Set the display currency",
	Long: `Set the display currency. The code may be given bare or as a label,
e.g. "EUR" or "EUR - Euro".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the display currency",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List currencies with a dedicated number format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, code := range currencyutils.SupportedCodes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, currencyutils.FormatAmount(sample, code))
		}
		return nil
	},
}

func init() {
	Cmd.AddCommand(setCmd, showCmd, listCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	state := app.GetBudget()
	if err := state.SetCurrency(strings.Join(args, " ")); err != nil {
		return err
	}
	code := state.Config().Currency
	fmt.Fprintf(cmd.OutOrStdout(), "Display currency set to %s (%s)\n", code, currencyutils.FormatAmount(sample, code))
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), app.GetBudget().Config().Currency)
	return nil
}
