// Package budget holds the monthly budget configuration and derives the remaining budget and
// progress of the active cycle from it.
package budget

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fjacquet/pocket-budget/internal/aggregate"
	"fjacquet/pocket-budget/internal/budgeterror"
	"fjacquet/pocket-budget/internal/currencyutils"
	"fjacquet/pocket-budget/internal/cycle"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/models"
	"fjacquet/pocket-budget/internal/notify"
	"fjacquet/pocket-budget/internal/prefs"

	"github.com/shopspring/decimal"
)

const writeAttempts = 2

// TransactionSource supplies the transactions the budget figures are computed from.
type TransactionSource interface {
	LoadAll() []models.Transaction
}

// Snapshot is an immutable view of the budget state at one instant.
type Snapshot struct {
	Config        models.BudgetConfig
	Cycle         cycle.Cycle
	CycleExpenses decimal.Decimal
	Remaining     decimal.Decimal
	Progress      decimal.Decimal
	TakenAt       time.Time
}

// State owns the budget preferences. Derived figures are recomputed on every call.
type State struct {
	provider prefs.Provider
	source   TransactionSource
	notifier notify.Notifier
	logger   logging.Logger
	now      func() time.Time
	loc      *time.Location

	mu     sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// Option customizes a State.
type Option func(*State)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone cycles are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *State) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithNotifier sets the notifier told about saved budgets.
func WithNotifier(n notify.Notifier) Option {
	return func(s *State) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewState creates a State reading and writing preferences through provider.
func NewState(provider prefs.Provider, source TransactionSource, opts ...Option) *State {
	s := &State{
		provider: provider,
		source:   source,
		notifier: notify.Nop{},
		logger:   logging.NewDiscard(),
		now:      time.Now,
		loc:      time.Local,
		subs:     make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField(logging.FieldComponent, "budget")
	return s
}

// Config reads the persisted configuration. Missing, malformed or out-of-range values fall back to
// their defaults.
func (s *State) Config() models.BudgetConfig {
	cfg := models.DefaultBudgetConfig()

	if raw := s.provider.GetString(models.KeyMonthlyBudget, ""); raw != "" {
		amount, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Ignoring malformed monthly budget", logging.F(logging.FieldKey, models.KeyMonthlyBudget))
		case amount.IsNegative():
			s.logger.Warn("Ignoring negative monthly budget", logging.F(logging.FieldAmount, raw))
		default:
			cfg.MonthlyBudget = amount
		}
	}

	day := s.provider.GetInt(models.KeyMonthCycleStartDay, models.DefaultCycleStartDay)
	if models.ValidCycleStartDay(day) {
		cfg.CycleStartDay = day
	} else {
		s.logger.Warn("Ignoring out-of-range cycle start day", logging.F(logging.FieldCycleStartDay, day))
	}

	if code, err := currencyutils.NormalizeCode(s.provider.GetString(models.KeySelectedCurrency, models.DefaultCurrency)); err == nil {
		cfg.Currency = code
	}

	return cfg
}

// Resolver returns the cycle resolver for the configured start day.
func (s *State) Resolver() *cycle.Resolver {
	return s.resolverFor(s.Config())
}

func (s *State) resolverFor(cfg models.BudgetConfig) *cycle.Resolver {
	r, err := cycle.New(cfg.CycleStartDay, s.loc)
	if err != nil {
		// Config only returns valid days.
		r, _ = cycle.New(models.DefaultCycleStartDay, s.loc)
	}
	return r
}

// Location returns the time zone cycles are computed in.
func (s *State) Location() *time.Location {
	return s.loc
}

// Now returns the current instant according to the state's clock.
func (s *State) Now() time.Time {
	return s.now()
}

// SetMonthlyBudget persists a new budget. Negative amounts are rejected without any change.
// Once saved, subscribers receive a snapshot and the notifier is told; a failing notifier is
// only logged.
func (s *State) SetMonthlyBudget(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return budgeterror.NewValidation("monthly budget", amount.String(), "must not be negative")
	}

	if err := s.write("set monthly budget", models.KeyMonthlyBudget, func() error {
		return s.provider.SetString(models.KeyMonthlyBudget, amount.String())
	}); err != nil {
		return err
	}

	s.logger.Info("Monthly budget saved", logging.F(logging.FieldAmount, amount.String()))
	snap := s.Publish()

	if err := s.notifier.BudgetSaved(ctx, amount, snap.Config.Currency); err != nil {
		s.logger.WithError(err).Warn("Budget notification failed")
	}
	return nil
}

// SetCycleStartDay persists a new cycle start day. Days outside [1, 31] are rejected without any
// change.
func (s *State) SetCycleStartDay(day int) error {
	if !models.ValidCycleStartDay(day) {
		return budgeterror.NewValidation("cycle start day", fmt.Sprint(day),
			fmt.Sprintf("must be between %d and %d", models.MinCycleStartDay, models.MaxCycleStartDay))
	}

	if err := s.write("set cycle start day", models.KeyMonthCycleStartDay, func() error {
		return s.provider.SetInt(models.KeyMonthCycleStartDay, day)
	}); err != nil {
		return err
	}

	s.logger.Info("Cycle start day saved", logging.F(logging.FieldCycleStartDay, day))
	s.Publish()
	return nil
}

// SetCurrency persists the display currency. Input may be a bare code or a label such as
// "EUR - Euro".
func (s *State) SetCurrency(input string) error {
	code, err := currencyutils.NormalizeCode(input)
	if err != nil {
		return err
	}

	if err := s.write("set currency", models.KeySelectedCurrency, func() error {
		return s.provider.SetString(models.KeySelectedCurrency, code)
	}); err != nil {
		return err
	}

	s.logger.Info("Currency saved", logging.F(logging.FieldCurrency, code))
	s.Publish()
	return nil
}

// CycleExpenses sums the expenses of the active cycle.
func (s *State) CycleExpenses() decimal.Decimal {
	return aggregate.CycleExpenses(s.source.LoadAll(), s.Resolver(), s.now())
}

// RemainingBudget is the monthly budget minus the active cycle's expenses. It goes negative when
// the budget is overspent.
func (s *State) RemainingBudget() decimal.Decimal {
	return s.Config().MonthlyBudget.Sub(s.CycleExpenses())
}

// ProgressPercent is the share of the budget spent in the active cycle.
func (s *State) ProgressPercent() decimal.Decimal {
	return aggregate.ProgressPercent(s.CycleExpenses(), s.Config().MonthlyBudget)
}

// Snapshot computes the current budget figures.
func (s *State) Snapshot() Snapshot {
	cfg := s.Config()
	now := s.now()
	r := s.resolverFor(cfg)
	expenses := aggregate.CycleExpenses(s.source.LoadAll(), r, now)

	return Snapshot{
		Config:        cfg,
		Cycle:         r.Active(now),
		CycleExpenses: expenses,
		Remaining:     cfg.MonthlyBudget.Sub(expenses),
		Progress:      aggregate.ProgressPercent(expenses, cfg.MonthlyBudget),
		TakenAt:       now,
	}
}

// Subscribe registers fn to receive a snapshot after every change. The returned function
// unregisters it.
func (s *State) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
}

// Publish computes a snapshot and hands it to every subscriber. Callers use it after changing
// the transactions the figures depend on.
func (s *State) Publish() Snapshot {
	snap := s.Snapshot()

	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	s.logger.Debug("Published budget snapshot",
		logging.F(logging.FieldCycleAnchor, snap.Cycle.Anchor.String()),
		logging.F(logging.FieldSubscribers, len(subs)))
	return snap
}

func (s *State) write(op, key string, stage func() error) error {
	var lastErr error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		lastErr = stage()
		if lastErr == nil {
			lastErr = s.provider.Commit()
		}
		if lastErr == nil {
			return nil
		}
		s.logger.WithError(lastErr).Warn("Failed to persist setting",
			logging.F(logging.FieldOperation, op),
			logging.F(logging.FieldKey, key),
			logging.F("attempt", attempt))
	}
	return &budgeterror.PersistenceError{Op: op, Key: key, Err: lastErr}
}
