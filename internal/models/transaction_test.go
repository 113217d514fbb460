package models

import (
	"encoding/json"
	"testing"
	"time"

	"fjacquet/pocket-budget/internal/budgeterror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input    string
		expected TransactionType
		wantErr  bool
	}{
		{input: "INCOME", expected: Income},
		{input: "expense", expected: Expense},
		{input: " Expense ", expected: Expense},
		{input: "transfer", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionType(tt.input)
			if tt.wantErr {
				assert.True(t, budgeterror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewTransaction_AssignsUniqueIDs(t *testing.T) {
	date := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	a := NewTransaction("Lunch", decimal.NewFromInt(12), "Food", Expense, date)
	b := NewTransaction("Lunch", decimal.NewFromInt(12), "Food", Expense, date)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NoError(t, a.Validate())
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:     "tx-1",
		Amount: decimal.NewFromInt(5),
		Type:   Income,
		Date:   time.Now(),
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		field  string
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "zero amount is allowed", mutate: func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{name: "empty id", mutate: func(tx *Transaction) { tx.ID = " " }, field: "id"},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, field: "amount"},
		{name: "unknown type", mutate: func(tx *Transaction) { tx.Type = "TRANSFER" }, field: "type"},
		{name: "zero date", mutate: func(tx *Transaction) { tx.Date = time.Time{} }, field: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *budgeterror.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSignedAmount(t *testing.T) {
	expense := Transaction{Amount: decimal.NewFromInt(30), Type: Expense}
	income := Transaction{Amount: decimal.NewFromInt(30), Type: Income}

	assert.True(t, expense.SignedAmount().Equal(decimal.NewFromInt(-30)))
	assert.True(t, income.SignedAmount().Equal(decimal.NewFromInt(30)))
	assert.True(t, expense.IsExpense())
	assert.True(t, income.IsIncome())
}

func TestTransactionJSON_RoundTripKeepsMillis(t *testing.T) {
	date := time.Date(2024, 1, 31, 23, 59, 59, 123000000, time.UTC)
	tx := Transaction{
		ID:       "tx-1",
		Title:    "Rent",
		Amount:   decimal.RequireFromString("850.25"),
		Category: "Bills",
		Type:     Expense,
		Date:     date,
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":1706745599123`)
	assert.Contains(t, string(data), `"amount":850.25,`)

	var back Transaction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tx.ID, back.ID)
	assert.True(t, tx.Amount.Equal(back.Amount))
	assert.True(t, tx.Date.Equal(back.Date))
}

func TestTransactionJSON_AcceptsNumericAmount(t *testing.T) {
	raw := `{"id":"a","title":"Coffee","amount":3.5,"category":"Food","type":"EXPENSE","date":1700000000000}`

	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))
	assert.Equal(t, "3.5", tx.Amount.String())
	assert.Equal(t, Expense, tx.Type)
	assert.Equal(t, int64(1700000000000), tx.Date.UnixMilli())
}
