package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"tally/internal/core"
	"tally/internal/csvio"
	"tally/internal/ledger"
	applog "tally/internal/log"
	"tally/internal/storage"
)

func testLogger() *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelError, Component: applog.ComponentApp})
}

func testStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(context.Background(), storage.NewMemoryRepository(), testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

const sampleCSV = `date,type,category,amount_cents,note
2025-08-01,expense,Food,1250,lunch
2025-08-02,income,Salary,500000,
2025-08-03,expense,Transport,300,bus
`

func TestImportCSV(t *testing.T) {
	store := testStore(t)
	svc := NewImportService(store, testLogger())

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Imported != 3 {
		t.Errorf("Imported = %d, want 3", result.Imported)
	}
	if len(result.Invalid) != 0 || result.Duplicates != 0 {
		t.Errorf("Invalid = %d, Duplicates = %d, want 0, 0", len(result.Invalid), result.Duplicates)
	}

	txs := store.Transactions()
	if len(txs) != 3 {
		t.Fatalf("len(txs) = %d, want 3", len(txs))
	}
	// AddMany prepends the batch keeping file order.
	if txs[0].Category != "Food" || txs[2].Category != "Transport" {
		t.Errorf("unexpected order: %s ... %s", txs[0].Category, txs[2].Category)
	}
}

func TestImportCSVIdempotent(t *testing.T) {
	store := testStore(t)
	svc := NewImportService(store, testLogger())

	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.Imported != 0 {
		t.Errorf("second import Imported = %d, want 0", result.Imported)
	}
	if result.Duplicates != 3 {
		t.Errorf("second import Duplicates = %d, want 3", result.Duplicates)
	}
	if len(store.Transactions()) != 3 {
		t.Errorf("ledger size = %d after re-import, want 3", len(store.Transactions()))
	}
}

func TestImportCSVWithinFileDuplicates(t *testing.T) {
	store := testStore(t)
	svc := NewImportService(store, testLogger())

	csv := `date,type,category,amount_cents,note
2025-08-01,expense,Food,1250,lunch
2025-08-01,expense,Food,1250,same lunch again
`
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if result.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", result.Duplicates)
	}
}

func TestImportCSVInvalidRows(t *testing.T) {
	store := testStore(t)
	svc := NewImportService(store, testLogger())

	csv := `date,type,category,amount_cents,note
2025-08-01,expense,Food,1250,ok
bad-date,expense,Food,100,
2025-08-02,transfer,Food,100,
`
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if len(result.Invalid) != 2 {
		t.Fatalf("len(Invalid) = %d, want 2", len(result.Invalid))
	}
	if result.Invalid[0].Row != 3 || result.Invalid[1].Row != 4 {
		t.Errorf("invalid rows = %d, %d, want 3, 4", result.Invalid[0].Row, result.Invalid[1].Row)
	}
}

func TestImportCSVMissingHeaders(t *testing.T) {
	svc := NewImportService(testStore(t), testLogger())

	if _, err := svc.ImportCSV(context.Background(), strings.NewReader("1,2,3\n")); err == nil {
		t.Fatal("expected error for csv without headers")
	}
}

func TestImportCSVDedupIgnoresNote(t *testing.T) {
	store := testStore(t)
	store.Add(context.Background(), core.Transaction{
		Amount:   1250,
		Date:     "2025-08-01",
		Category: "Food",
		Type:     core.Expense,
		Note:     "existing",
	})
	svc := NewImportService(store, testLogger())

	csv := `date,type,category,amount_cents,note
2025-08-01,expense,Food,1250,different note
`
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Imported != 0 || result.Duplicates != 1 {
		t.Errorf("Imported = %d, Duplicates = %d, want 0, 1", result.Imported, result.Duplicates)
	}
}

func TestImportResultSummary(t *testing.T) {
	tests := []struct {
		name   string
		result ImportResult
		want   string
	}{
		{
			name:   "nothing",
			result: ImportResult{},
			want:   "No rows imported.",
		},
		{
			name:   "clean import",
			result: ImportResult{Imported: 3},
			want:   "Imported 3 new transaction(s).",
		},
		{
			name:   "mixed",
			result: ImportResult{Imported: 2, Invalid: make([]csvio.RowError, 1), Duplicates: 4},
			want:   "Imported 2 new transaction(s). 1 invalid row(s) skipped. 4 duplicate(s) skipped.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
