package models

// Preference keys. The names match what the mobile app wrote, so an exported preference file can be
// read back without migration.
const (
	KeyTransactions       = "transactions"
	KeyMonthlyBudget      = "monthly_budget"
	KeySelectedCurrency   = "selected_currency"
	KeyMonthCycleStartDay = "month_cycle_start_day"
)

// Budget configuration defaults and limits.
const (
	DefaultCurrency      = "USD"
	DefaultCycleStartDay = 1
	MinCycleStartDay     = 1
	MaxCycleStartDay     = 31
)

// Label prefixes used by the category breakdown.
const (
	IncomeCategoryPrefix  = "Income: "
	ExpenseCategoryPrefix = "Expense: "
	RemainingSliceLabel   = "Remaining"
)

// DefaultCategories is the suggestion list offered when entering a transaction.
// Any other string is an equally valid category.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Bills",
	"Entertainment",
	"Shopping",
	"Health",
	"Education",
	"Salary",
	"Other",
}
