package aggregate

import (
	"time"

	"fjacquet/pocket-budget/internal/cycle"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/models"

	"github.com/shopspring/decimal"
)

// Summary is everything the dashboard shows for one reference instant.
type Summary struct {
	Reference     time.Time
	Cycle         cycle.Cycle
	Totals        Totals
	CycleTotals   Totals
	Categories    map[string]decimal.Decimal
	Slices        []Slice
	CycleExpenses decimal.Decimal
	Remaining     decimal.Decimal
	Progress      decimal.Decimal
	Trend         []TrendPoint
}

// Engine runs the aggregation functions and traces what it computed.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates an Engine.
func NewEngine(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Engine{logger: logger.WithField(logging.FieldComponent, "aggregate")}
}

// Summarize computes the full dashboard view of txs for the cycle active at ref.
//
// Totals and categories cover every transaction; slices, remaining budget, progress and the trend
// are restricted to the active cycle.
func (e *Engine) Summarize(txs []models.Transaction, budget decimal.Decimal, r *cycle.Resolver, ref time.Time) Summary {
	active := r.Active(ref)
	inCycle := CycleTransactions(txs, r, ref)
	expenses := CycleExpenses(txs, r, ref)

	s := Summary{
		Reference:     ref,
		Cycle:         active,
		Totals:        ComputeTotals(txs),
		CycleTotals:   ComputeTotals(inCycle),
		Categories:    CategoryBreakdown(txs),
		Slices:        ExpenseSlices(inCycle, budget),
		CycleExpenses: expenses,
		Remaining:     budget.Sub(expenses),
		Progress:      ProgressPercent(expenses, budget),
		Trend:         BudgetTrendSeries(txs, budget, r, ref),
	}

	e.logger.Debug("Computed summary",
		logging.F(logging.FieldCycleAnchor, active.Anchor.String()),
		logging.F(logging.FieldCount, len(txs)),
		logging.F("cycle_count", len(inCycle)),
		logging.F("cycle_expenses", expenses.String()))
	return s
}
