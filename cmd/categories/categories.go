// Package categories implements the category suggestion command.
package categories

import (
	"fmt"

	"fjacquet/pocket-budget/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd lists the configured category suggestions.
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List suggested transaction categories",
	Long: `List the category suggestions from the configuration. Any other category name
is accepted as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		for _, c := range app.GetConfig().Categories {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}
