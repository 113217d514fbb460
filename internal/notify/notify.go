// Package notify dispatches user-facing notifications raised by the budgeting core.
package notify

import (
	"context"
	"sync"

	"fjacquet/pocket-budget/internal/currencyutils"
	"fjacquet/pocket-budget/internal/logging"

	"github.com/shopspring/decimal"
)

// Notifier is told when the monthly budget has been saved.
type Notifier interface {
	BudgetSaved(ctx context.Context, budget decimal.Decimal, currency string) error
}

// Nop discards every notification.
type Nop struct{}

// BudgetSaved does nothing.
func (Nop) BudgetSaved(context.Context, decimal.Decimal, string) error {
	return nil
}

// LogNotifier renders notifications as log entries.
type LogNotifier struct {
	logger logging.Logger
}

// NewLogNotifier creates a notifier writing to logger.
func NewLogNotifier(logger logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &LogNotifier{logger: logger.WithField(logging.FieldComponent, "notify")}
}

// BudgetSaved logs the new budget formatted in currency.
func (n *LogNotifier) BudgetSaved(ctx context.Context, budget decimal.Decimal, currency string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info("Monthly budget set to "+currencyutils.FormatAmount(budget, currency),
		logging.F(logging.FieldAmount, budget.String()),
		logging.F(logging.FieldCurrency, currency))
	return nil
}

// BudgetEvent is one recorded BudgetSaved call.
type BudgetEvent struct {
	Budget   decimal.Decimal
	Currency string
}

// Recorder keeps every notification it receives. Setting Err makes each call fail after
// recording.
type Recorder struct {
	Err error

	mu     sync.Mutex
	events []BudgetEvent
}

// BudgetSaved records the call.
func (r *Recorder) BudgetSaved(_ context.Context, budget decimal.Decimal, currency string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, BudgetEvent{Budget: budget, Currency: currency})
	return r.Err
}

// Events returns a copy of the recorded calls.
func (r *Recorder) Events() []BudgetEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BudgetEvent, len(r.events))
	copy(out, r.events)
	return out
}
