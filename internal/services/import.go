package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"tally/internal/core"
	"tally/internal/csvio"
	"tally/internal/ledger"
	"tally/internal/log"
)

// ImportResult summarizes one CSV import: how many rows became new
// transactions, which rows were structurally invalid, and how many were
// skipped as duplicates of existing or earlier-in-file transactions.
type ImportResult struct {
	Imported   int
	Invalid    []csvio.RowError
	Duplicates int
}

// Summary renders the result as a user-facing message.
func (r ImportResult) Summary() string {
	if r.Imported == 0 && len(r.Invalid) == 0 && r.Duplicates == 0 {
		return "No rows imported."
	}
	msg := fmt.Sprintf("Imported %d new transaction(s).", r.Imported)
	if len(r.Invalid) > 0 {
		msg += fmt.Sprintf(" %d invalid row(s) skipped.", len(r.Invalid))
	}
	if r.Duplicates > 0 {
		msg += fmt.Sprintf(" %d duplicate(s) skipped.", r.Duplicates)
	}
	return msg
}

// ImportService decodes CSV data and feeds the valid, non-duplicate rows
// into the ledger in one batch.
type ImportService struct {
	store  *ledger.Store
	logger *log.Logger
}

func NewImportService(store *ledger.Store, logger *log.Logger) *ImportService {
	return &ImportService{
		store:  store,
		logger: logger.WithComponent(log.ComponentImport),
	}
}

// ImportCSV reads CSV text from r and appends every valid new row to the
// ledger. Duplicate detection keys on date, type, category and amount; it
// is seeded from the current ledger so re-importing the same file is a
// no-op, and applies within the file so repeated rows import once.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	rows, rowErrs, err := csvio.Decode(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("decode csv: %w", err)
	}

	seen := make(map[string]bool)
	for _, tx := range s.store.Transactions() {
		seen[tx.DedupKey()] = true
	}

	result := ImportResult{Invalid: rowErrs}
	batch := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := row.Transaction()
		key := tx.DedupKey()
		if seen[key] {
			result.Duplicates++
			continue
		}
		seen[key] = true
		batch = append(batch, tx)
	}

	result.Imported = s.store.AddMany(ctx, batch)

	s.logger.InfoContext(ctx, "csv import finished",
		log.FieldOperation, log.OpImport,
		log.FieldImported, result.Imported,
		log.FieldInvalid, len(result.Invalid),
		log.FieldDuplicates, result.Duplicates)

	return result, nil
}

// ImportFile is ImportCSV over a file path.
func (s *ImportService) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()
	return s.ImportCSV(ctx, f)
}
