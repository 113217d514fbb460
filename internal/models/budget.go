package models

import (
	"github.com/shopspring/decimal"
)

// BudgetConfig is the singleton budget configuration of an installation.
type BudgetConfig struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget" yaml:"monthly_budget"`
	CycleStartDay int             `json:"cycle_start_day" yaml:"cycle_start_day"`
	Currency      string          `json:"currency" yaml:"currency"`
}

// DefaultBudgetConfig returns the configuration of a fresh installation.
func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{
		MonthlyBudget: decimal.Zero,
		CycleStartDay: DefaultCycleStartDay,
		Currency:      DefaultCurrency,
	}
}

// ValidCycleStartDay reports whether day is an acceptable cycle start day.
func ValidCycleStartDay(day int) bool {
	return day >= MinCycleStartDay && day <= MaxCycleStartDay
}
