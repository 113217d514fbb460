// Package export writes transactions and trend series as CSV and reads transactions back.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/pocket-budget/internal/aggregate"
	"fjacquet/pocket-budget/internal/dateutils"
	"fjacquet/pocket-budget/internal/fileutils"
	"fjacquet/pocket-budget/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ','

// TransactionRow is the CSV shape of a transaction.
type TransactionRow struct {
	ID       string `csv:"ID"`
	Date     string `csv:"Date"`
	Title    string `csv:"Title"`
	Category string `csv:"Category"`
	Type     string `csv:"Type"`
	Amount   string `csv:"Amount"`
}

// TrendRow is the CSV shape of a trend point.
type TrendRow struct {
	Time      string `csv:"Time"`
	Remaining string `csv:"Remaining"`
}

// TransactionRows converts transactions to rows, with dates rendered in loc.
func TransactionRows(txs []models.Transaction, loc *time.Location) []TransactionRow {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, TransactionRow{
			ID:       tx.ID,
			Date:     tx.Date.In(loc).Format(time.RFC3339),
			Title:    tx.Title,
			Category: tx.Category,
			Type:     string(tx.Type),
			Amount:   tx.Amount.StringFixed(2),
		})
	}
	return rows
}

// WriteTransactionsCSV writes txs to w.
func WriteTransactionsCSV(w io.Writer, txs []models.Transaction, delimiter rune, loc *time.Location) error {
	return writeCSV(w, TransactionRows(txs, loc), delimiter)
}

// WriteTrendCSV writes a trend series to w.
func WriteTrendCSV(w io.Writer, points []aggregate.TrendPoint, delimiter rune, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]TrendRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, TrendRow{
			Time:      p.Time.In(loc).Format(time.RFC3339),
			Remaining: p.Remaining.StringFixed(2),
		})
	}
	return writeCSV(w, rows, delimiter)
}

// WriteFile creates path (and its directory) and hands the open file to write.
func WriteFile(path string, write func(io.Writer) error) error {
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing CSV file: %w", err)
	}
	return nil
}

// ReadTransactionsCSV parses rows written by WriteTransactionsCSV. Rows without an id get a new
// one; dates without a zone are read in loc.
func ReadTransactionsCSV(r io.Reader, delimiter rune, loc *time.Location) ([]models.Transaction, error) {
	if loc == nil {
		loc = time.Local
	}
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	var rows []TransactionRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}

	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.toTransaction(loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (row TransactionRow) toTransaction(loc *time.Location) (models.Transaction, error) {
	txType, err := models.ParseTransactionType(row.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount '%s': %w", row.Amount, err)
	}
	date, err := dateutils.ParseDateIn(row.Date, loc)
	if err != nil {
		return models.Transaction{}, err
	}

	id := strings.TrimSpace(row.ID)
	if id == "" {
		id = models.NewID()
	}
	tx := models.Transaction{
		ID:       id,
		Title:    row.Title,
		Amount:   amount,
		Category: row.Category,
		Type:     txType,
		Date:     date,
	}
	return tx, tx.Validate()
}

func writeCSV(w io.Writer, rows interface{}, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("error flushing CSV data: %w", err)
	}
	return nil
}
