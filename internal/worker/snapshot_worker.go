// Package worker contains the background consumer that mirrors the ledger
// to a CSV snapshot file whenever a change event arrives.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tally/internal/amqp"
	"tally/internal/csvio"
	"tally/internal/ledger"
	"tally/internal/log"
)

// SnapshotWorker reacts to ledger change events by rewriting a CSV snapshot
// of the full ledger. A periodic snapshot acts as a backup mechanism in
// case AMQP messages are lost.
type SnapshotWorker struct {
	repo         ledger.Repository
	snapshotPath string
	interval     time.Duration
	logger       *log.Logger

	lastRevision uint64
}

func NewSnapshotWorker(repo ledger.Repository, snapshotPath string, interval time.Duration, logger *log.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		repo:         repo,
		snapshotPath: snapshotPath,
		interval:     interval,
		logger:       logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent processes a single change event from AMQP. Events older
// than the last snapshot are skipped.
func (w *SnapshotWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if msg.Revision != 0 && msg.Revision <= w.lastRevision {
		w.logger.Debug("skipping stale event",
			log.FieldOperation, msg.Op,
			log.FieldVersion, msg.Revision)
		return nil
	}

	if err := w.Snapshot(ctx); err != nil {
		return err
	}
	w.lastRevision = msg.Revision
	return nil
}

// Snapshot reloads the persisted ledger state and writes it to the
// snapshot path as CSV. The write goes through a temp file and rename so
// readers never see a partial snapshot.
func (w *SnapshotWorker) Snapshot(ctx context.Context) error {
	start := time.Now()

	store, err := ledger.Open(ctx, w.repo, w.logger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	txs := store.Transactions()
	text, err := csvio.Encode(txs)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.snapshotPath), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := w.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, w.snapshotPath); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	w.logger.InfoContext(ctx, "snapshot written",
		log.FieldOperation, log.OpSnapshot,
		log.FieldPath, w.snapshotPath,
		log.FieldTxCount, len(txs),
		log.FieldDuration, time.Since(start))

	return nil
}

// Run writes periodic snapshots until ctx is cancelled. One snapshot is
// taken immediately so a fresh worker starts from current state.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	if err := w.Snapshot(ctx); err != nil {
		w.logger.ErrorContext(ctx, "startup snapshot failed", log.FieldError, err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Snapshot(ctx); err != nil {
				w.logger.ErrorContext(ctx, "periodic snapshot failed", log.FieldError, err)
			}
		}
	}
}
