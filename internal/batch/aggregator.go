// Package batch gathers transactions from several CSV files before they are imported, ordering
// them and spotting entries that are probably already recorded.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/pocket-budget/internal/dateutils"
	"fjacquet/pocket-budget/internal/fileutils"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/models"
	"fjacquet/pocket-budget/internal/validation"
)

// CSVExtension is matched when a directory is given as input.
const CSVExtension = ".csv"

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Include widens the range so that it covers t.
func (dr DateRange) Include(t time.Time) DateRange {
	return dr.Merge(DateRange{Start: t, End: t})
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// Result is the outcome of aggregating a set of files.
type Result struct {
	Files        []string
	FailedFiles  []string
	Transactions []models.Transaction
	Duplicates   int
	Skipped      int
	DateRange    DateRange
}

// Aggregator collects transactions from several files.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Aggregator{logger: logger.WithField(logging.FieldComponent, "batch")}
}

// ExpandInputs turns files and directories into the list of files to read. Directories
// contribute every CSV file below them. Duplicated paths are listed once.
func (a *Aggregator) ExpandInputs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		if err := validation.InputPath(path); err != nil {
			return nil, err
		}
		if !fileutils.DirectoryExists(path) {
			add(path)
			continue
		}
		found, err := fileutils.ListFilesWithExtension(path, CSVExtension)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("Expanded input directory",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, len(found)))
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// Aggregate reads every file with parse and returns the transactions in chronological order.
// A file that fails to parse is logged and left out. Transactions that look like one already in
// existing, or earlier in the batch, are counted as duplicates; with skipDuplicates they are
// dropped, otherwise they are kept and only logged. A transaction whose id is already taken is
// always dropped.
func (a *Aggregator) Aggregate(files []string, existing []models.Transaction, parse func(string) ([]models.Transaction, error), skipDuplicates bool) Result {
	var res Result
	var all []models.Transaction

	for _, file := range files {
		txs, err := parse(file)
		if err != nil {
			a.logger.WithError(err).Error("Failed to parse file", logging.F(logging.FieldFile, file))
			res.FailedFiles = append(res.FailedFiles, file)
			continue
		}

		a.logger.Debug("Loaded transactions from file",
			logging.F(logging.FieldCount, len(txs)),
			logging.F(logging.FieldFile, filepath.Base(file)))
		all = append(all, txs...)
		res.Files = append(res.Files, file)
	}

	SortChronologically(all)

	known := make([]models.Transaction, 0, len(existing)+len(all))
	known = append(known, existing...)
	for _, tx := range all {
		if dup, ok := findDuplicate(known, tx); ok {
			res.Duplicates++
			a.logger.Warn("Potential duplicate transaction",
				logging.F(logging.FieldTransactionID, dup.ID),
				logging.F("date", dateutils.ToISODate(tx.Date)),
				logging.F(logging.FieldAmount, tx.Amount.String()),
				logging.F("title", tx.Title))
			if skipDuplicates || dup.ID == tx.ID {
				res.Skipped++
				continue
			}
		}
		known = append(known, tx)
		res.Transactions = append(res.Transactions, tx)
		res.DateRange = res.DateRange.Include(tx.Date)
	}

	if res.Duplicates > 0 {
		a.logger.Warn("Found potential duplicate transactions",
			logging.F(logging.FieldCount, res.Duplicates),
			logging.F("skipped", res.Skipped))
	}
	a.logger.Info("Aggregated transactions",
		logging.F(logging.FieldCount, len(res.Transactions)),
		logging.F("files", len(res.Files)),
		logging.F("range", res.DateRange.String()))

	return res
}

// SortChronologically sorts transactions by date, then by amount for a stable order.
func SortChronologically(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].Amount.LessThan(txs[j].Amount)
	})
}

// ArePotentialDuplicates reports whether two transactions are probably the same entry: equal ids,
// or the same instant, type, amount and title (case-insensitive).
func ArePotentialDuplicates(tx1, tx2 models.Transaction) bool {
	if tx1.ID != "" && tx1.ID == tx2.ID {
		return true
	}
	if !tx1.Date.Equal(tx2.Date) || tx1.Type != tx2.Type || !tx1.Amount.Equal(tx2.Amount) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(tx1.Title), strings.TrimSpace(tx2.Title))
}

func findDuplicate(known []models.Transaction, tx models.Transaction) (models.Transaction, bool) {
	for _, k := range known {
		if ArePotentialDuplicates(k, tx) {
			return k, true
		}
	}
	return models.Transaction{}, false
}
