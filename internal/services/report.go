package services

import (
	"fmt"
	"time"

	"tally/internal/budget"
	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/log"
	"tally/internal/views"
)

const (
	reportCacheSize = 64
	reportCacheTTL  = 5 * time.Minute
)

// MonthReport bundles every derived view for one month.
type MonthReport struct {
	Month      string
	Totals     core.Totals
	ByCategory []core.CategoryTotal
	Daily      []core.DayTotal
	Budget     []core.BudgetRow
}

// ReportService computes derived views over the ledger, memoizing monthly
// reports until the ledger changes.
type ReportService struct {
	store  *ledger.Store
	cache  *cache.LRUCache[MonthReport]
	logger *log.Logger
}

func NewReportService(store *ledger.Store, logger *log.Logger) *ReportService {
	s := &ReportService{
		store:  store,
		cache:  cache.NewLRUCache[MonthReport](reportCacheSize, reportCacheTTL),
		logger: logger.WithComponent(log.ComponentReport),
	}
	// Revision-qualified keys already make stale entries unreachable;
	// purging on mutation just frees them eagerly.
	store.Subscribe(func(ledger.Event) { s.cache.Purge() })
	return s
}

// List returns the transactions matching filter, newest first.
func (s *ReportService) List(filter core.Filter) []core.Transaction {
	return views.Apply(s.store.Transactions(), filter)
}

// Categories returns the seed categories merged with every category used
// in the ledger, sorted.
func (s *ReportService) Categories() []string {
	return views.Categories(s.store.Transactions())
}

// Month computes the full report for a YYYY-MM month.
func (s *ReportService) Month(month string) MonthReport {
	key := fmt.Sprintf("%s@%d", month, s.store.Revision())
	if report, ok := s.cache.Get(key); ok {
		return report
	}

	txs := views.Apply(s.store.Transactions(), core.Filter{Month: month})
	settings := s.store.Settings()

	report := MonthReport{
		Month:      month,
		Totals:     views.Sum(txs),
		ByCategory: views.CategoryTotals(txs),
		Daily:      views.DailySeries(txs),
		Budget:     budget.Evaluate(settings.Budgets, txs, month),
	}

	s.cache.Set(key, report)
	s.logger.Debug("month report computed", log.FieldMonth, month)
	return report
}
