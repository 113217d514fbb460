// Package budget implements the monthly budget commands.
package budget

import (
	"fmt"
	"io"
	"strconv"

	"fjacquet/pocket-budget/cmd/common"
	"fjacquet/pocket-budget/cmd/root"
	statepkg "fjacquet/pocket-budget/internal/budget"
	"fjacquet/pocket-budget/internal/budgeterror"
	"fjacquet/pocket-budget/internal/currencyutils"

	"github.com/spf13/cobra"
)

// Cmd groups the budget subcommands.
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Show and change the monthly budget and its cycle",
}

var setCmd = &cobra.Command{
	Use:     "set <amount>",
	Short:   "Set the monthly budget",
	Example: "  pocket-budget budget set 2500",
	Args:    cobra.ExactArgs(1),
	RunE:    runSet,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the budget, the active cycle and how much of it is spent",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var cycleDayCmd = &cobra.Command{
	Use:   "cycle-day <1-31>",
	Short: "Set the day of the month the budget cycle starts on",
	Long: `Set the day of the month the budget cycle starts on. In months that are too
short for the day the cycle starts on their last day instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runCycleDay,
}

func init() {
	Cmd.AddCommand(setCmd, showCmd, cycleDayCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}

	amount, err := currencyutils.ParseAmount(args[0])
	if err != nil {
		return budgeterror.NewValidation("monthly budget", args[0], "not a number")
	}
	state := app.GetBudget()
	if err := state.SetMonthlyBudget(cmd.Context(), amount); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Monthly budget set to %s\n", common.Money(amount, state.Config().Currency))
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	return WriteSnapshot(cmd.OutOrStdout(), app.GetBudget().Snapshot())
}

func runCycleDay(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}

	day, err := strconv.Atoi(args[0])
	if err != nil {
		return budgeterror.NewValidation("cycle start day", args[0], "not a whole number")
	}
	state := app.GetBudget()
	if err := state.SetCycleStartDay(day); err != nil {
		return err
	}
	active := state.Snapshot().Cycle
	fmt.Fprintf(cmd.OutOrStdout(), "Budget cycle now starts on day %d; active cycle %s to %s\n",
		day, active.Start.Format(common.TimeLayout), active.End.Format(common.TimeLayout))
	return nil
}

// WriteSnapshot prints the budget figures of snap.
func WriteSnapshot(w io.Writer, snap statepkg.Snapshot) error {
	code := snap.Config.Currency
	tw := common.NewTable(w)
	fmt.Fprintf(tw, "Monthly budget:\t%s\n", common.Money(snap.Config.MonthlyBudget, code))
	fmt.Fprintf(tw, "Cycle start day:\t%d\n", snap.Config.CycleStartDay)
	fmt.Fprintf(tw, "Active cycle:\t%s to %s\n", snap.Cycle.Start.Format(common.TimeLayout), snap.Cycle.End.Format(common.TimeLayout))
	fmt.Fprintf(tw, "Spent this cycle:\t%s\n", common.Money(snap.CycleExpenses, code))
	fmt.Fprintf(tw, "Remaining:\t%s\n", common.Money(snap.Remaining, code))
	fmt.Fprintf(tw, "Progress:\t%s%%\n", snap.Progress.StringFixed(2))
	return tw.Flush()
}
