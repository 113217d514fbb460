// Package models provides the data structures used throughout the application.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fjacquet/pocket-budget/internal/budgeterror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction; amounts themselves are always stored
// as non-negative magnitudes.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType accepts INCOME/EXPENSE in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", budgeterror.NewValidation("type", s, "must be INCOME or EXPENSE")
}

// Transaction is a single income or expense entry.
type Transaction struct {
	ID       string
	Title    string
	Amount   decimal.Decimal
	Category string
	Type     TransactionType
	Date     time.Time
}

// NewTransaction creates a transaction with a freshly assigned id.
func NewTransaction(title string, amount decimal.Decimal, category string, txType TransactionType, date time.Time) Transaction {
	return Transaction{
		ID:       NewID(),
		Title:    title,
		Amount:   amount,
		Category: category,
		Type:     txType,
		Date:     date,
	}
}

// NewID returns a new opaque transaction id.
func NewID() string {
	return uuid.New().String()
}

// Validate checks the transaction invariants.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return budgeterror.NewValidation("id", "", "must not be empty")
	}
	if t.Amount.IsNegative() {
		return budgeterror.NewValidation("amount", t.Amount.String(), "must not be negative")
	}
	if !t.Type.Valid() {
		return budgeterror.NewValidation("type", string(t.Type), "must be INCOME or EXPENSE")
	}
	if t.Date.IsZero() {
		return budgeterror.NewValidation("date", "", "must be set")
	}
	return nil
}

// IsIncome reports whether the transaction adds money.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// IsExpense reports whether the transaction spends money.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

// SignedAmount returns the amount with the sign implied by the type.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s (%s) %s", t.Date.Format(time.RFC3339), t.Type, t.Amount.StringFixed(2), t.Category, t.Title)
}

// transactionJSON is the persisted shape: the date travels as epoch milliseconds.
type transactionJSON struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Date     int64           `json:"date"`
}

// storedTransaction is the write side of transactionJSON. The amount is a bare JSON number, the
// way older blobs store it.
type storedTransaction struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   json.Number     `json:"amount"`
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Date     int64           `json:"date"`
}

// MarshalJSON implements json.Marshaler.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(storedTransaction{
		ID:       t.ID,
		Title:    t.Title,
		Amount:   json.Number(t.Amount.String()),
		Category: t.Category,
		Type:     t.Type,
		Date:     t.Date.UnixMilli(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. Amounts are accepted both quoted and as bare numbers.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Transaction{
		ID:       raw.ID,
		Title:    raw.Title,
		Amount:   raw.Amount,
		Category: raw.Category,
		Type:     raw.Type,
		Date:     time.UnixMilli(raw.Date),
	}
	return nil
}
