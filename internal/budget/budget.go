// Package budget computes spend-vs-budget status per category for a month.
package budget

import (
	"math"
	"sort"
	"strings"

	"tally/internal/core"
)

// SpentFor sums expense-type transaction amounts, optionally narrowed to a
// month ("YYYY-MM", empty for all) and a category (empty for all).
func SpentFor(txs []core.Transaction, month, category string) int64 {
	var sum int64
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		if month != "" && !strings.HasPrefix(t.Date, month) {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		sum += t.Amount
	}
	return sum
}

// Evaluate produces one row per budget entry for the target month: spend,
// percent used (clamped to [0,100], zero for a zero budget) and over-budget
// status. Rows are sorted descending by spend; ties break on category name
// so output is deterministic. An empty budgets map yields no rows.
func Evaluate(budgets map[string]int64, txs []core.Transaction, month string) []core.BudgetRow {
	if len(budgets) == 0 {
		return nil
	}
	rows := make([]core.BudgetRow, 0, len(budgets))
	for category, b := range budgets {
		spent := SpentFor(txs, month, category)
		percent := 0
		if b > 0 {
			percent = int(math.Round(float64(spent) / float64(b) * 100))
			if percent > 100 {
				percent = 100
			}
		}
		rows = append(rows, core.BudgetRow{
			Category: category,
			Budget:   b,
			Spent:    spent,
			Percent:  percent,
			Over:     spent > b && b > 0,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Spent != rows[j].Spent {
			return rows[i].Spent > rows[j].Spent
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
