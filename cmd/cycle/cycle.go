// Package cycle implements the budget cycle command.
package cycle

import (
	"fmt"

	"fjacquet/pocket-budget/cmd/common"
	"fjacquet/pocket-budget/cmd/root"

	"github.com/spf13/cobra"
)

var history int

// Cmd prints the bounds of the active budget cycle and the ones before it.
var Cmd = &cobra.Command{
	Use:   "cycle",
	Short: "Show the bounds of the active budget cycle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		state := app.GetBudget()
		r := state.Resolver()
		anchor := r.ActiveAnchor(state.Now())

		tw := common.NewTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "CYCLE\tSTART\tEND")
		for i := 0; i <= history; i++ {
			c := r.Bounds(anchor)
			label := c.Anchor.String()
			if i == 0 {
				label += " (active)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", label, c.Start.Format(common.TimeLayout), c.End.Format(common.TimeLayout))
			anchor = anchor.Prev()
		}
		return tw.Flush()
	},
}

func init() {
	Cmd.Flags().IntVar(&history, "history", 0, "Also show this many previous cycles")
}
