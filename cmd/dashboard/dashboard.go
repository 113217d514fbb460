// Package dashboard implements the dashboard command.
package dashboard

import (
	"fmt"
	"io"
	"sort"

	"fjacquet/pocket-budget/cmd/budget"
	"fjacquet/pocket-budget/cmd/common"
	"fjacquet/pocket-budget/cmd/root"
	dash "fjacquet/pocket-budget/internal/dashboard"

	"github.com/spf13/cobra"
)

var recent int

// Cmd prints the dashboard.
var Cmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show totals, category breakdown and budget progress",
	Long: `Show income and expense totals over all transactions, the breakdown per category,
the expense split of the active cycle and how much of the monthly budget is left.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		return Write(cmd.OutOrStdout(), app.GetDashboard().Refresh(), recent)
	},
}

func init() {
	Cmd.Flags().IntVarP(&recent, "recent", "n", 5, "Number of recent transactions to show")
}

// Write prints snap. At most recent transactions are listed.
func Write(w io.Writer, snap dash.Snapshot, recent int) error {
	code := snap.Budget.Config.Currency

	fmt.Fprintln(w, "== Totals ==")
	tw := common.NewTable(w)
	fmt.Fprintf(tw, "Income:\t%s\n", common.Money(snap.Totals.Income, code))
	fmt.Fprintf(tw, "Expenses:\t%s\n", common.Money(snap.Totals.Expense, code))
	fmt.Fprintf(tw, "Balance:\t%s\n", common.Money(snap.Totals.Balance, code))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n== Budget ==")
	if err := budget.WriteSnapshot(w, snap.Budget); err != nil {
		return err
	}

	if len(snap.Categories) > 0 {
		fmt.Fprintln(w, "\n== Categories ==")
		labels := make([]string, 0, len(snap.Categories))
		for label := range snap.Categories {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		tw = common.NewTable(w)
		for _, label := range labels {
			fmt.Fprintf(tw, "%s\t%s\n", label, common.Money(snap.Categories[label], code))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(snap.Slices) > 0 {
		fmt.Fprintln(w, "\n== This cycle ==")
		tw = common.NewTable(w)
		for _, s := range snap.Slices {
			fmt.Fprintf(tw, "%s\t%s\n", s.Label, common.Money(s.Amount, code))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if recent > 0 && len(snap.Transactions) > 0 {
		fmt.Fprintln(w, "\n== Recent ==")
		txs := snap.Transactions
		if len(txs) > recent {
			txs = txs[:recent]
		}
		if err := common.WriteTransactions(w, txs, code); err != nil {
			return err
		}
	}

	if snap.Remaining.IsNegative() {
		fmt.Fprintf(w, "\nOVER BUDGET BY %s\n", common.Money(snap.Remaining.Abs(), code))
	}
	return nil
}
