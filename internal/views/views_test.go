package views

import (
	"reflect"
	"testing"

	"tally/internal/core"
)

func tx(amount int64, date, category string, typ core.TxType, note string) core.Transaction {
	return core.Transaction{Amount: amount, Date: date, Category: category, Type: typ, Note: note}
}

func TestApply(t *testing.T) {
	txs := []core.Transaction{
		tx(500, "2025-08-01", "Food", core.Expense, "Lunch at cafe"),
		tx(1200, "2025-08-15", "Rent", core.Expense, ""),
		tx(9000, "2025-08-20", "Salary", core.Income, "August pay"),
		tx(300, "2025-07-02", "Food", core.Expense, "Groceries"),
	}

	tests := []struct {
		name   string
		filter core.Filter
		want   int
	}{
		{"empty filter keeps all", core.Filter{Type: "all", Category: "all"}, 4},
		{"month", core.Filter{Month: "2025-08", Type: "all", Category: "all"}, 3},
		{"type expense", core.Filter{Type: "expense", Category: "all"}, 3},
		{"type income", core.Filter{Type: "income", Category: "all"}, 1},
		{"category exact", core.Filter{Type: "all", Category: "Food"}, 2},
		{"query matches note", core.Filter{Type: "all", Category: "all", Query: "lunch"}, 1},
		{"query matches category", core.Filter{Type: "all", Category: "all", Query: "sala"}, 1},
		{"query case-insensitive", core.Filter{Type: "all", Category: "all", Query: "GROC"}, 1},
		{"query no match", core.Filter{Type: "all", Category: "all", Query: "pizza"}, 0},
		{"combined", core.Filter{Month: "2025-08", Type: "expense", Category: "Food"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(txs, tt.filter); len(got) != tt.want {
				t.Errorf("Apply() kept %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSum_SplitsByType(t *testing.T) {
	txs := []core.Transaction{
		tx(500, "2025-08-01", "Food", core.Expense, ""),
		tx(1200, "2025-08-02", "Rent", core.Expense, ""),
		tx(9000, "2025-08-03", "Salary", core.Income, ""),
	}
	got := Sum(txs)
	if got.Expense != 1700 || got.Income != 9000 {
		t.Errorf("Sum() = %+v, want expense 1700 income 9000", got)
	}

	// Over the unfiltered set, income + expense equals the grand total.
	var grand int64
	for _, x := range txs {
		grand += x.Amount
	}
	if got.Income+got.Expense != grand {
		t.Errorf("income %d + expense %d != grand total %d", got.Income, got.Expense, grand)
	}
}

func TestCategoryTotals(t *testing.T) {
	txs := []core.Transaction{
		tx(500, "2025-08-01", "Food", core.Expense, ""),
		tx(300, "2025-08-02", "Food", core.Expense, ""),
		tx(1200, "2025-08-03", "Rent", core.Expense, ""),
		tx(9000, "2025-08-04", "Food", core.Income, ""), // income excluded
	}
	got := CategoryTotals(txs)
	want := []core.CategoryTotal{
		{Category: "Food", Total: 800},
		{Category: "Rent", Total: 1200},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryTotals() = %v, want %v", got, want)
	}
}

func TestDailySeries(t *testing.T) {
	txs := []core.Transaction{
		tx(100, "2025-08-15", "Food", core.Expense, ""),
		tx(200, "2025-08-02", "Food", core.Expense, ""),
		tx(300, "2025-08-15", "Rent", core.Expense, ""),
		tx(999, "2025-08-10", "Salary", core.Income, ""), // excluded
	}
	got := DailySeries(txs)
	want := []core.DayTotal{
		{Day: "02", Total: 200},
		{Day: "15", Total: 400},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DailySeries() = %v, want %v", got, want)
	}
}

func TestCategories(t *testing.T) {
	t.Run("empty ledger yields the seed set", func(t *testing.T) {
		got := Categories(nil)
		want := []string{"Food", "Rent", "Transport"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Categories(nil) = %v, want %v", got, want)
		}
	})

	t.Run("union with ledger categories, sorted", func(t *testing.T) {
		txs := []core.Transaction{
			tx(1, "2025-08-01", "Bills", core.Expense, ""),
			tx(1, "2025-08-01", "Food", core.Expense, ""), // overlaps seed
		}
		got := Categories(txs)
		want := []string{"Bills", "Food", "Rent", "Transport"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Categories() = %v, want %v", got, want)
		}
	})
}

// One August expense viewed under a month filter.
func TestMonthScenario(t *testing.T) {
	txs := []core.Transaction{tx(500, "2025-08-01", "Food", core.Expense, "")}

	filtered := Apply(txs, core.Filter{Month: "2025-08", Type: "all", Category: "all"})
	if len(filtered) != 1 {
		t.Fatalf("filtered set = %d entries, want 1", len(filtered))
	}
	if got := Sum(filtered); got.Expense != 500 {
		t.Errorf("expense total = %d, want 500", got.Expense)
	}
	want := []core.CategoryTotal{{Category: "Food", Total: 500}}
	if got := CategoryTotals(filtered); !reflect.DeepEqual(got, want) {
		t.Errorf("category aggregate = %v, want %v", got, want)
	}
}
