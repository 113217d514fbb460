// Package trend implements the remaining-budget trend command.
package trend

import (
	"fmt"

	"fjacquet/pocket-budget/cmd/common"
	"fjacquet/pocket-budget/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd prints the remaining budget after each expense of the active cycle.
var Cmd = &cobra.Command{
	Use:   "trend",
	Short: "Show how the remaining budget evolved over the active cycle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		snap := app.GetDashboard().Refresh()
		code := snap.Budget.Config.Currency

		tw := common.NewTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "TIME\tREMAINING")
		for _, p := range snap.Trend {
			fmt.Fprintf(tw, "%s\t%s\n", p.Time.Format(common.TimeLayout), common.Money(p.Remaining, code))
		}
		return tw.Flush()
	},
}
