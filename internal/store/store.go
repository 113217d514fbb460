// Package store persists the transaction list as a single JSON blob in a preference Provider.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fjacquet/pocket-budget/internal/budgeterror"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/models"
	"fjacquet/pocket-budget/internal/prefs"
)

// ErrCorruptBlob marks a stored transaction blob that could not be decoded.
var ErrCorruptBlob = errors.New("stored transactions are corrupt")

// writeAttempts is the number of tries a blob write gets before it is reported as failed.
const writeAttempts = 2

// TransactionStore is an ordered list of transactions kept under models.KeyTransactions.
//
// Reads for display fail soft. Mutations read the blob strictly so that a blob which cannot be
// decoded is never overwritten by accident.
type TransactionStore struct {
	provider prefs.Provider
	logger   logging.Logger

	mu sync.Mutex
}

// NewTransactionStore creates a store on top of provider.
func NewTransactionStore(provider prefs.Provider, logger logging.Logger) *TransactionStore {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &TransactionStore{
		provider: provider,
		logger:   logger.WithField(logging.FieldComponent, "store"),
	}
}

// LoadAll returns every stored transaction in stored order. A blob that cannot be decoded is
// logged and yields an empty list.
func (s *TransactionStore) LoadAll() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.load()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to decode stored transactions, treating as empty",
			logging.F(logging.FieldKey, models.KeyTransactions))
		return []models.Transaction{}
	}
	return txs
}

// Get returns the transaction with the given id.
func (s *TransactionStore) Get(id string) (models.Transaction, error) {
	for _, tx := range s.LoadAll() {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, &budgeterror.NotFoundError{Kind: "transaction", ID: id}
}

// SaveAll replaces the stored list with txs.
func (s *TransactionStore) SaveAll(txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save("save transactions", txs)
}

// Add validates tx, assigns an id when it has none, and appends it to the stored list.
func (s *TransactionStore) Add(tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = models.NewID()
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.loadStrict("add transaction")
	if err != nil {
		return models.Transaction{}, err
	}
	for _, existing := range txs {
		if existing.ID == tx.ID {
			return models.Transaction{}, budgeterror.NewValidation("id", tx.ID, "already exists")
		}
	}

	if err := s.save("add transaction", append(txs, tx)); err != nil {
		return models.Transaction{}, err
	}

	s.logger.Debug("Added transaction",
		logging.F(logging.FieldTransactionID, tx.ID),
		logging.F(logging.FieldType, tx.Type),
		logging.F(logging.FieldAmount, tx.Amount.String()))
	return tx, nil
}

// AddAll validates every transaction in txs and appends them in one write. Either all of them are
// stored or none are.
func (s *TransactionStore) AddAll(txs []models.Transaction) ([]models.Transaction, error) {
	batch := make([]models.Transaction, 0, len(txs))
	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = models.NewID()
		}
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		if seen[tx.ID] {
			return nil, budgeterror.NewValidation("id", tx.ID, "appears more than once")
		}
		seen[tx.ID] = true
		batch = append(batch, tx)
	}
	if len(batch) == 0 {
		return batch, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.loadStrict("add transactions")
	if err != nil {
		return nil, err
	}
	for _, existing := range stored {
		if seen[existing.ID] {
			return nil, budgeterror.NewValidation("id", existing.ID, "already exists")
		}
	}

	if err := s.save("add transactions", append(stored, batch...)); err != nil {
		return nil, err
	}

	s.logger.Debug("Added transactions", logging.F(logging.FieldCount, len(batch)))
	return batch, nil
}

// Update replaces the first stored transaction whose id matches tx.ID.
func (s *TransactionStore) Update(tx models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.loadStrict("update transaction")
	if err != nil {
		return err
	}

	idx := -1
	for i, existing := range txs {
		if existing.ID == tx.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &budgeterror.NotFoundError{Kind: "transaction", ID: tx.ID}
	}
	txs[idx] = tx

	if err := s.save("update transaction", txs); err != nil {
		return err
	}
	s.logger.Debug("Updated transaction", logging.F(logging.FieldTransactionID, tx.ID))
	return nil
}

// Delete removes every stored transaction with the given id. The stored blob is left untouched
// when nothing matches.
func (s *TransactionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.loadStrict("delete transaction")
	if err != nil {
		return err
	}

	kept := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	removed := len(txs) - len(kept)
	if removed == 0 {
		return &budgeterror.NotFoundError{Kind: "transaction", ID: id}
	}

	if err := s.save("delete transaction", kept); err != nil {
		return err
	}
	s.logger.Debug("Deleted transaction",
		logging.F(logging.FieldTransactionID, id),
		logging.F(logging.FieldCount, removed))
	return nil
}

// Reset clears the stored list, including a blob that no longer decodes.
func (s *TransactionStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save("reset transactions", nil); err != nil {
		return err
	}
	s.logger.Info("Transaction list reset")
	return nil
}

func (s *TransactionStore) load() ([]models.Transaction, error) {
	raw := strings.TrimSpace(s.provider.GetString(models.KeyTransactions, ""))
	if raw == "" {
		return []models.Transaction{}, nil
	}

	var txs []models.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlob, err)
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

func (s *TransactionStore) loadStrict(op string) ([]models.Transaction, error) {
	txs, err := s.load()
	if err != nil {
		return nil, &budgeterror.PersistenceError{Op: op, Key: models.KeyTransactions, Err: err}
	}
	return txs, nil
}

func (s *TransactionStore) save(op string, txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	data, err := json.Marshal(txs)
	if err != nil {
		return &budgeterror.PersistenceError{Op: op, Key: models.KeyTransactions, Err: err}
	}

	var lastErr error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		lastErr = s.write(string(data))
		if lastErr == nil {
			return nil
		}
		s.logger.WithError(lastErr).Warn("Failed to persist transactions",
			logging.F(logging.FieldOperation, op),
			logging.F("attempt", attempt))
	}

	s.logger.WithError(lastErr).Error("Giving up persisting transactions, stored data left unchanged",
		logging.F(logging.FieldOperation, op))
	return &budgeterror.PersistenceError{Op: op, Key: models.KeyTransactions, Err: lastErr}
}

func (s *TransactionStore) write(blob string) error {
	if err := s.provider.SetString(models.KeyTransactions, blob); err != nil {
		return fmt.Errorf("error staging transactions: %w", err)
	}
	if err := s.provider.Commit(); err != nil {
		return fmt.Errorf("error committing transactions: %w", err)
	}
	return nil
}

// IsCorrupt reports whether err came from a stored blob that could not be decoded.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptBlob)
}
