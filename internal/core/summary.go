package core

// CategoryTotal is an expense amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    int64
}

// DayTotal is an expense amount aggregated by two-digit day of month.
type DayTotal struct {
	Day   string // "01".."31"
	Total int64
}

// Totals holds the filtered sums split by transaction type.
type Totals struct {
	Income  int64
	Expense int64
}

// BudgetRow is one line of the spend-vs-budget report for a month.
type BudgetRow struct {
	Category string
	Budget   int64
	Spent    int64
	Percent  int  // clamped to [0,100]; 0 when Budget <= 0
	Over     bool // Spent > Budget, only when Budget > 0
}
