// Package dashboard combines the transaction store, the aggregation engine and the budget state
// into one immutable view that is republished after every change.
package dashboard

import (
	"maps"
	"slices"
	"sort"
	"sync"

	"fjacquet/pocket-budget/internal/aggregate"
	"fjacquet/pocket-budget/internal/budget"
	"fjacquet/pocket-budget/internal/cycle"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/models"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// TransactionStore is the subset of the store the dashboard drives.
type TransactionStore interface {
	LoadAll() []models.Transaction
	Add(tx models.Transaction) (models.Transaction, error)
	AddAll(txs []models.Transaction) ([]models.Transaction, error)
	Update(tx models.Transaction) error
	Delete(id string) error
}

// BudgetState is the subset of budget.State the dashboard reads.
type BudgetState interface {
	Snapshot() budget.Snapshot
	Resolver() *cycle.Resolver
	Publish() budget.Snapshot
}

// Snapshot is everything a dashboard screen renders. Every caller and subscriber receives its own
// copy, so changing one never affects the published state.
type Snapshot struct {
	aggregate.Summary
	Budget       budget.Snapshot
	Transactions []models.Transaction
}

func (snap Snapshot) clone() Snapshot {
	c := snap
	c.Categories = maps.Clone(snap.Categories)
	c.Slices = slices.Clone(snap.Slices)
	c.Trend = slices.Clone(snap.Trend)
	c.Transactions = slices.Clone(snap.Transactions)
	return c
}

// Service publishes dashboard snapshots.
type Service struct {
	store  TransactionStore
	budget BudgetState
	engine *aggregate.Engine
	logger logging.Logger

	group singleflight.Group

	mu      sync.Mutex
	current Snapshot
	subs    map[int]func(Snapshot)
	nextID  int
}

// NewService creates a Service.
func NewService(store TransactionStore, state BudgetState, engine *aggregate.Engine, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	if engine == nil {
		engine = aggregate.NewEngine(logger)
	}
	return &Service{
		store:  store,
		budget: state,
		engine: engine,
		logger: logger.WithField(logging.FieldComponent, "dashboard"),
		subs:   make(map[int]func(Snapshot)),
	}
}

// Refresh recomputes the snapshot and publishes it. Concurrent calls share one computation.
func (s *Service) Refresh() Snapshot {
	v, _, shared := s.group.Do(refreshKey, func() (interface{}, error) {
		snap := s.compute()
		s.publish(snap)
		return snap, nil
	})
	if shared {
		s.logger.Debug("Refresh shared with a concurrent caller")
	}
	return v.(Snapshot).clone()
}

// Current returns the last published snapshot, or the zero Snapshot before the first refresh.
func (s *Service) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// AddTransaction stores tx and refreshes. On failure nothing is published.
func (s *Service) AddTransaction(tx models.Transaction) (models.Transaction, error) {
	added, err := s.store.Add(tx)
	if err != nil {
		s.logger.WithError(err).Warn("Add transaction rejected")
		return models.Transaction{}, err
	}
	s.afterChange()
	return added, nil
}

// AddTransactions stores txs in a single write and refreshes once. On failure nothing is stored
// and nothing is published.
func (s *Service) AddTransactions(txs []models.Transaction) ([]models.Transaction, error) {
	added, err := s.store.AddAll(txs)
	if err != nil {
		s.logger.WithError(err).Warn("Add transactions rejected", logging.F(logging.FieldCount, len(txs)))
		return nil, err
	}
	if len(added) > 0 {
		s.afterChange()
	}
	return added, nil
}

// UpdateTransaction replaces the stored transaction with the same id and refreshes.
func (s *Service) UpdateTransaction(tx models.Transaction) error {
	if err := s.store.Update(tx); err != nil {
		s.logger.WithError(err).Warn("Update transaction rejected", logging.F(logging.FieldTransactionID, tx.ID))
		return err
	}
	s.afterChange()
	return nil
}

// DeleteTransaction removes the transaction with the given id and refreshes.
func (s *Service) DeleteTransaction(id string) error {
	if err := s.store.Delete(id); err != nil {
		s.logger.WithError(err).Warn("Delete transaction rejected", logging.F(logging.FieldTransactionID, id))
		return err
	}
	s.afterChange()
	return nil
}

// Subscribe registers fn for every published snapshot. The returned function unregisters it.
func (s *Service) Subscribe(fn func(Snapshot)) (cancel func()) {
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

func (s *Service) afterChange() {
	s.budget.Publish()
	s.Refresh()
}

func (s *Service) compute() Snapshot {
	txs := s.store.LoadAll()
	b := s.budget.Snapshot()
	summary := s.engine.Summarize(txs, b.Config.MonthlyBudget, s.budget.Resolver(), b.TakenAt)

	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	return Snapshot{
		Summary:      summary,
		Budget:       b,
		Transactions: sorted,
	}
}

func (s *Service) publish(snap Snapshot) {
	s.mu.Lock()
	s.current = snap
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
		fn(snap.clone())
	}
	s.logger.Debug("Published dashboard snapshot",
		logging.F(logging.FieldCount, len(snap.Transactions)),
		logging.F(logging.FieldSubscribers, len(subs)))
}
