// Package aggregate derives totals, category breakdowns and budget trend series from a list of
// transactions. Every function is pure and recomputes from its input.
package aggregate

import (
	"sort"
	"time"

	"fjacquet/pocket-budget/internal/cycle"
	"fjacquet/pocket-budget/internal/dateutils"
	"fjacquet/pocket-budget/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals holds the income and expense sums of a transaction set.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// TrendPoint is one step of the remaining-budget series.
type TrendPoint struct {
	Time      time.Time
	Remaining decimal.Decimal
}

// Slice is one segment of the expense breakdown chart.
type Slice struct {
	Label  string
	Amount decimal.Decimal
}

// ComputeTotals sums income and expense amounts. The result does not depend on input order.
func ComputeTotals(txs []models.Transaction) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case models.Income:
			income = income.Add(tx.Amount)
		case models.Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// CategoryBreakdown sums amounts per type and category. Keys look like "Expense: Food".
func CategoryBreakdown(txs []models.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		var key string
		switch tx.Type {
		case models.Income:
			key = models.IncomeCategoryPrefix + tx.Category
		case models.Expense:
			key = models.ExpenseCategoryPrefix + tx.Category
		default:
			continue
		}
		out[key] = out[key].Add(tx.Amount)
	}
	return out
}

// CycleTransactions returns the transactions of the cycle active at ref, in input order.
func CycleTransactions(txs []models.Transaction, r *cycle.Resolver, ref time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if r.InActiveCycle(tx.Date, ref) {
			out = append(out, tx)
		}
	}
	return out
}

// CycleExpenses sums the expenses of the cycle active at ref.
func CycleExpenses(txs []models.Transaction, r *cycle.Resolver, ref time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.IsExpense() && r.InActiveCycle(tx.Date, ref) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// BudgetTrendSeries walks the expenses of the active cycle up to ref in time order, starting from
// the full budget at the cycle start and ending with the remaining amount at ref. Income never
// moves the series.
func BudgetTrendSeries(txs []models.Transaction, budget decimal.Decimal, r *cycle.Resolver, ref time.Time) []TrendPoint {
	start := r.Active(ref).Start

	expenses := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(ref) {
			continue
		}
		expenses = append(expenses, tx)
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.Before(expenses[j].Date)
	})

	points := make([]TrendPoint, 0, len(expenses)+2)
	running := budget
	points = append(points, TrendPoint{Time: start, Remaining: running})
	for _, tx := range expenses {
		running = running.Sub(tx.Amount)
		points = append(points, TrendPoint{Time: tx.Date, Remaining: running})
	}
	points = append(points, TrendPoint{Time: ref, Remaining: running})
	return points
}

// ExpenseSlices groups expenses by category, largest first (ties by label), and appends a
// Remaining slice when there is at least one expense and budget is not yet used up.
func ExpenseSlices(txs []models.Transaction, budget decimal.Decimal) []Slice {
	byCategory := make(map[string]decimal.Decimal)
	total := decimal.Zero
	count := 0
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		total = total.Add(tx.Amount)
		count++
	}

	slices := make([]Slice, 0, len(byCategory)+1)
	for label, amount := range byCategory {
		slices = append(slices, Slice{Label: label, Amount: amount})
	}
	sort.Slice(slices, func(i, j int) bool {
		if c := slices[i].Amount.Cmp(slices[j].Amount); c != 0 {
			return c > 0
		}
		return slices[i].Label < slices[j].Label
	})

	if count > 0 {
		if remaining := budget.Sub(total); remaining.IsPositive() {
			slices = append(slices, Slice{Label: models.RemainingSliceLabel, Amount: remaining})
		}
	}
	return slices
}

// MonthTransactions returns the transactions that fall in the calendar month of ref, seen in loc.
func MonthTransactions(txs []models.Transaction, ref time.Time, loc *time.Location) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if dateutils.SameMonth(tx.Date, ref, loc) {
			out = append(out, tx)
		}
	}
	return out
}

// ProgressPercent returns expenses as a percentage of budget rounded to two places, or zero when
// budget is not positive. Values above 100 are kept.
func ProgressPercent(expenses, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return expenses.Div(budget).Mul(hundred).Round(2)
}
