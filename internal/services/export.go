package services

import (
	"context"
	"fmt"
	"os"

	"tally/internal/core"
	"tally/internal/csvio"
	"tally/internal/ledger"
	"tally/internal/log"
	"tally/internal/views"
)

// SheetsExporter pushes exported transactions to an external spreadsheet.
// Nil is a valid value: the export service skips the push.
type SheetsExporter interface {
	AppendTransactions(ctx context.Context, txs []core.Transaction) error
}

// ExportService renders ledger transactions as CSV, optionally mirroring
// them to Google Sheets.
type ExportService struct {
	store  *ledger.Store
	sheets SheetsExporter
	logger *log.Logger
}

func NewExportService(store *ledger.Store, sheets SheetsExporter, logger *log.Logger) *ExportService {
	return &ExportService{
		store:  store,
		sheets: sheets,
		logger: logger.WithComponent(log.ComponentExport),
	}
}

// ExportCSV returns the filtered transaction set as CSV text. An empty
// filter exports the whole ledger.
func (s *ExportService) ExportCSV(ctx context.Context, filter core.Filter) (string, error) {
	txs := views.Apply(s.store.Transactions(), filter)
	text, err := csvio.Encode(txs)
	if err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}

	s.logger.InfoContext(ctx, "csv export finished",
		log.FieldOperation, log.OpExport,
		log.FieldTxCount, len(txs))

	return text, nil
}

// ExportFile writes the filtered transaction set to path as CSV.
func (s *ExportService) ExportFile(ctx context.Context, filter core.Filter, path string) error {
	text, err := s.ExportCSV(ctx, filter)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return nil
}

// ExportSheets appends the filtered transaction set to the configured
// spreadsheet. Returns an error when no exporter is configured.
func (s *ExportService) ExportSheets(ctx context.Context, filter core.Filter) (int, error) {
	if s.sheets == nil {
		return 0, fmt.Errorf("sheets export not configured")
	}

	txs := views.Apply(s.store.Transactions(), filter)
	if err := s.sheets.AppendTransactions(ctx, txs); err != nil {
		return 0, fmt.Errorf("append to sheet: %w", err)
	}

	s.logger.InfoContext(ctx, "sheets export finished",
		log.FieldOperation, log.OpExport,
		log.FieldTxCount, len(txs))

	return len(txs), nil
}
