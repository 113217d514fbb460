// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/pocket-budget/internal/budgeterror"
	"fjacquet/pocket-budget/internal/currencyutils"
	"fjacquet/pocket-budget/internal/models"
	"fjacquet/pocket-budget/internal/store"

	"github.com/shopspring/decimal"
)

// TimeLayout is how instants are printed.
const TimeLayout = "2006-01-02 15:04"

// Describe turns an error from the budgeting core into a message for the terminal.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var verr *budgeterror.ValidationError
	var nf *budgeterror.NotFoundError
	switch {
	case errors.As(err, &verr):
		return "Invalid input: " + verr.Error()
	case errors.As(err, &nf):
		return "Not found: " + nf.Error()
	case store.IsCorrupt(err):
		return "Stored transactions could not be read: " + err.Error() +
			"\nRun 'pocket-budget tx reset --yes' to start over with an empty list."
	case budgeterror.IsPersistence(err):
		return "Could not save: " + err.Error() + "\nPreviously saved data was left unchanged."
	default:
		return "Error: " + err.Error()
	}
}

// NewTable returns a tab-aligned writer on w. Callers must Flush it.
func NewTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Money formats amount in the display currency.
func Money(amount decimal.Decimal, code string) string {
	return currencyutils.FormatAmount(amount, code)
}

// WriteTransactions prints txs as a table.
func WriteTransactions(w io.Writer, txs []models.Transaction, code string) error {
	tw := NewTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tTITLE")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date.Format(TimeLayout), tx.Type, tx.Category, Money(tx.Amount, code), tx.Title)
	}
	return tw.Flush()
}
