package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing transactions
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a builder for an expense dated now in the "Other" category.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Type:     Expense,
			Category: "Other",
			Amount:   decimal.Zero,
			Date:     time.Now(),
		},
	}
}

// WithID sets the transaction ID
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ID = id
	return b
}

// WithTitle sets the free-text label
func (b *TransactionBuilder) WithTitle(title string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Title = title
	return b
}

// WithAmount sets the amount
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithAmountFromString parses and sets the amount
func (b *TransactionBuilder) WithAmountFromString(amountStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		b.err = fmt.Errorf("invalid amount '%s': %w", amountStr, err)
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithCategory sets the category
func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Category = category
	return b
}

// WithDate sets the transaction instant
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.err = errors.New("date cannot be zero")
		return b
	}
	b.tx.Date = date
	return b
}

// AsIncome marks the transaction as income
func (b *TransactionBuilder) AsIncome() *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Type = Income
	return b
}

// AsExpense marks the transaction as an expense
func (b *TransactionBuilder) AsExpense() *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Type = Expense
	return b
}

// Build validates the transaction and returns it, generating an id when none was set.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, fmt.Errorf("builder error: %w", b.err)
	}
	if b.tx.ID == "" {
		b.tx.ID = NewID()
	}
	if err := b.tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return b.tx, nil
}

// Clone creates a copy of the current builder state
func (b *TransactionBuilder) Clone() *TransactionBuilder {
	return &TransactionBuilder{
		tx:  b.tx,
		err: b.err,
	}
}
