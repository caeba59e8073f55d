// Package views derives filtered sets, totals, aggregates and chart series
// from a ledger snapshot. Everything here is pure: the same snapshot and
// filter always produce the same output.
package views

import (
	"sort"
	"strings"

	"tally/internal/core"
)

// seedCategories is always offered in the category picker even on an empty
// ledger.
var seedCategories = []string{"Food", "Rent", "Transport"}

// Apply returns the subset of txs matching the filter. A transaction is kept
// iff its date starts with the filter month (when set), its type matches
// (when not "all"), its category matches exactly (when not "all") and the
// query, case-insensitively, is a substring of "category note".
func Apply(txs []core.Transaction, f core.Filter) []core.Transaction {
	q := strings.ToLower(f.Query)
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Month != "" && !strings.HasPrefix(t.Date, f.Month) {
			continue
		}
		if f.Type != "" && f.Type != "all" && string(t.Type) != f.Type {
			continue
		}
		if f.Category != "" && f.Category != "all" && t.Category != f.Category {
			continue
		}
		if q != "" {
			hay := strings.ToLower(t.Category + " " + t.Note)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Sum returns the amount totals of txs split by type.
func Sum(txs []core.Transaction) core.Totals {
	var totals core.Totals
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			totals.Income += t.Amount
		case core.Expense:
			totals.Expense += t.Amount
		}
	}
	return totals
}

// CategoryTotals groups expense-type transactions by category and sums their
// amounts. The result order follows first appearance in txs.
func CategoryTotals(txs []core.Transaction) []core.CategoryTotal {
	idx := map[string]int{}
	var out []core.CategoryTotal
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, core.CategoryTotal{Category: t.Category})
		}
		out[i].Total += t.Amount
	}
	return out
}

// DailySeries groups expense-type transactions by the two-digit day of month
// extracted from the date, summing amounts, sorted ascending by numeric day.
func DailySeries(txs []core.Transaction) []core.DayTotal {
	byDay := map[string]int64{}
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		if len(t.Date) < 10 {
			continue
		}
		day := t.Date[8:10]
		byDay[day] += t.Amount
	}
	out := make([]core.DayTotal, 0, len(byDay))
	for day, total := range byDay {
		out = append(out, core.DayTotal{Day: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Categories returns the union of the fixed seed set and every category
// present in the full transaction list, sorted lexicographically.
func Categories(txs []core.Transaction) []string {
	seen := map[string]struct{}{}
	for _, c := range seedCategories {
		seen[c] = struct{}{}
	}
	for _, t := range txs {
		seen[t.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
