// Package tx implements the transaction commands.
package tx

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/pocket-budget/cmd/common"
	"fjacquet/pocket-budget/cmd/root"
	"fjacquet/pocket-budget/internal/aggregate"
	"fjacquet/pocket-budget/internal/batch"
	"fjacquet/pocket-budget/internal/budgeterror"
	"fjacquet/pocket-budget/internal/currencyutils"
	"fjacquet/pocket-budget/internal/dateutils"
	csvexport "fjacquet/pocket-budget/internal/export"
	"fjacquet/pocket-budget/internal/fileutils"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/models"
	"fjacquet/pocket-budget/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	title    string
	amount   string
	category string
	txType   string
	date     string
	id       string

	cycleOnly bool
	monthOnly bool
	confirm   bool

	delimiter      string
	skipDuplicates bool
)

// Cmd groups the transaction subcommands.
var Cmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transaction"},
	Short:   "Add, list, update and delete transactions",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new income or expense",
	Long: `Record a new transaction. Amounts are magnitudes; the type decides whether
the transaction adds to income or to expenses.`,
	Example: `  pocket-budget tx add -t "Groceries" -a 42.50 -c Food
  pocket-budget tx add -t "Salary" -a 3000 -c Salary --type income -d 2024-03-25`,
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE:  runList,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change fields of an existing transaction",
	Long:  "Change the fields given on the command line and keep the others.",
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a transaction",
	RunE:  runDelete,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the stored transactions with an empty list",
	Long: `Replace the stored transactions with an empty list. This is the way out when the
stored list can no longer be read.`,
	RunE: runReset,
}

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>...",
	Short: "Add transactions from CSV files written by 'export transactions'",
	Long: `Add transactions from CSV files written by 'export transactions'. Directories are
searched for .csv files. Rows that look like an already recorded transaction are reported;
rows whose id is already taken are never imported twice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVarP(&title, "title", "t", "", "Transaction title")
		c.Flags().StringVarP(&amount, "amount", "a", "", "Amount (non-negative)")
		c.Flags().StringVarP(&category, "category", "c", "", "Category, e.g. Food")
		c.Flags().StringVar(&txType, "type", "", "income or expense")
		c.Flags().StringVarP(&date, "date", "d", "", "Date or timestamp (default: now)")
	}
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("amount")

	updateCmd.Flags().StringVar(&id, "id", "", "Transaction id")
	_ = updateCmd.MarkFlagRequired("id")
	deleteCmd.Flags().StringVar(&id, "id", "", "Transaction id")
	_ = deleteCmd.MarkFlagRequired("id")

	listCmd.Flags().BoolVar(&cycleOnly, "cycle", false, "Only transactions of the active budget cycle")
	listCmd.Flags().BoolVar(&monthOnly, "month", false, "Only transactions of the current calendar month")

	resetCmd.Flags().BoolVar(&confirm, "yes", false, "Confirm that every transaction is discarded")

	importCmd.Flags().StringVar(&delimiter, "delimiter", "", "Field delimiter (default: export.delimiter)")
	importCmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "Leave out rows that look like a recorded transaction")

	Cmd.AddCommand(addCmd, listCmd, updateCmd, deleteCmd, resetCmd, importCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	state := app.GetBudget()

	value, err := parseAmount(amount)
	if err != nil {
		return err
	}
	kind := models.Expense
	if txType != "" {
		if kind, err = models.ParseTransactionType(txType); err != nil {
			return err
		}
	}
	when := state.Now()
	if date != "" {
		if when, err = parseDate(date, state.Location()); err != nil {
			return err
		}
	}
	cat := category
	if cat == "" {
		cat = "Other"
	}

	saved, err := app.GetDashboard().AddTransaction(models.Transaction{
		Title:    title,
		Amount:   value,
		Category: cat,
		Type:     kind,
		Date:     when,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s (%s)\n", strings.ToLower(string(saved.Type)),
		common.Money(saved.Amount, state.Config().Currency), saved.Title, saved.ID)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	state := app.GetBudget()
	txs := app.GetStore().LoadAll()

	switch {
	case cycleOnly:
		txs = aggregate.CycleTransactions(txs, state.Resolver(), state.Now())
	case monthOnly:
		txs = aggregate.MonthTransactions(txs, state.Now(), state.Location())
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

	if len(txs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No transactions.")
		return nil
	}
	return common.WriteTransactions(cmd.OutOrStdout(), txs, state.Config().Currency)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	state := app.GetBudget()

	tx, err := app.GetStore().Get(id)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		tx.Title = title
	}
	if flags.Changed("amount") {
		if tx.Amount, err = parseAmount(amount); err != nil {
			return err
		}
	}
	if flags.Changed("category") {
		tx.Category = category
	}
	if flags.Changed("type") {
		if tx.Type, err = models.ParseTransactionType(txType); err != nil {
			return err
		}
	}
	if flags.Changed("date") {
		if tx.Date, err = parseDate(date, state.Location()); err != nil {
			return err
		}
	}

	if err := app.GetDashboard().UpdateTransaction(tx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", tx.ID)
	return nil
}

func runDelete(cmd *cobra.Command, _ []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	if err := app.GetDashboard().DeleteTransaction(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !confirm {
		return fmt.Errorf("refusing to discard transactions without --yes")
	}
	app, err := root.App()
	if err != nil {
		return err
	}
	if err := app.GetStore().Reset(); err != nil {
		return err
	}
	app.GetBudget().Publish()
	fmt.Fprintln(cmd.OutOrStdout(), "All transactions removed.")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}

	delim := app.GetConfig().Delimiter()
	if delimiter != "" {
		if delim, err = validation.Delimiter(delimiter); err != nil {
			return err
		}
	}

	agg := batch.NewAggregator(root.Log)
	files, err := agg.ExpandInputs(args)
	if err != nil {
		return err
	}

	loc := app.GetLocation()
	res := agg.Aggregate(files, app.GetStore().LoadAll(), func(path string) ([]models.Transaction, error) {
		return readCSV(path, delim, loc)
	}, skipDuplicates)

	stored, err := app.GetDashboard().AddTransactions(res.Transactions)
	if err != nil {
		return fmt.Errorf("no transactions imported: %w", err)
	}
	added := len(stored)

	root.Log.Info("Imported transactions",
		logging.F("files", len(res.Files)),
		logging.F(logging.FieldCount, added))
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %d files\n", added, len(res.Files))
	if res.Duplicates > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d possible duplicates, %d skipped\n", res.Duplicates, res.Skipped)
	}
	if len(res.FailedFiles) > 0 {
		return fmt.Errorf("could not read %s", strings.Join(res.FailedFiles, ", "))
	}
	return nil
}

func readCSV(path string, delim rune, loc *time.Location) ([]models.Transaction, error) {
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			root.Log.WithError(cerr).Warn("Failed to close input file")
		}
	}()
	return csvexport.ReadTransactionsCSV(f, delim, loc)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, budgeterror.NewValidation("amount", raw, "not a number")
	}
	return value, nil
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := dateutils.ParseDateIn(raw, loc)
	if err != nil {
		return time.Time{}, budgeterror.NewValidation("date", raw, "unrecognized date format")
	}
	return t, nil
}
