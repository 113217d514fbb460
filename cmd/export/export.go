// Package export implements the CSV export commands.
package export

import (
	"fmt"
	"io"

	"fjacquet/pocket-budget/cmd/root"
	"fjacquet/pocket-budget/internal/aggregate"
	csvexport "fjacquet/pocket-budget/internal/export"
	"fjacquet/pocket-budget/internal/logging"

	"github.com/spf13/cobra"
)

var (
	output    string
	cycleOnly bool
)

// Cmd groups the export subcommands.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export transactions or the budget trend to CSV",
	Long: `Export transactions or the budget trend to CSV. The field delimiter comes from
export.delimiter in the configuration. Without --output the CSV is written to stdout.`,
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Export transactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		state := app.GetBudget()
		txs := app.GetStore().LoadAll()
		if cycleOnly {
			txs = aggregate.CycleTransactions(txs, state.Resolver(), state.Now())
		}
		delim := app.GetConfig().Delimiter()
		return write(cmd, len(txs), func(w io.Writer) error {
			return csvexport.WriteTransactionsCSV(w, txs, delim, app.GetLocation())
		})
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Export the remaining-budget series of the active cycle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		points := app.GetDashboard().Refresh().Trend
		delim := app.GetConfig().Delimiter()
		return write(cmd, len(points), func(w io.Writer) error {
			return csvexport.WriteTrendCSV(w, points, delim, app.GetLocation())
		})
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output CSV file (default: stdout)")
	transactionsCmd.Flags().BoolVar(&cycleOnly, "cycle", false, "Only transactions of the active budget cycle")
	Cmd.AddCommand(transactionsCmd, trendCmd)
}

func write(cmd *cobra.Command, rows int, fn func(io.Writer) error) error {
	if output == "" {
		return fn(cmd.OutOrStdout())
	}
	if err := csvexport.WriteFile(output, fn); err != nil {
		return err
	}
	root.Log.Info("Exported CSV",
		logging.F(logging.FieldFile, output),
		logging.F(logging.FieldCount, rows))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", rows, output)
	return nil
}
