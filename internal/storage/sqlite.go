// Package storage provides the durable key-value slots the ledger persists
// to: a SQLite-backed repository for normal runs and an in-memory one for
// tests and ephemeral sessions.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	applog "tally/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores one versioned state blob per named slot in a
// SQLite database.
type SQLiteRepository struct {
	db     *sql.DB
	slot   string
	logger *applog.Logger
}

// NewSQLiteRepository opens (creating if necessary) the database at dbPath
// and prepares the app_state table.
func NewSQLiteRepository(dbPath, slot string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		slot:   slot,
		logger: logger.WithComponent(applog.ComponentStorage),
	}, nil
}

// Load implements ledger.Repository.
func (r *SQLiteRepository) Load(ctx context.Context) (int, []byte, bool, error) {
	var (
		version int
		data    []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT version, data FROM app_state WHERE slot = ?`, r.slot,
	).Scan(&version, &data)
	if err == sql.ErrNoRows {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, fmt.Errorf("load state: %w", err)
	}
	return version, data, true, nil
}

// Save implements ledger.Repository. The whole blob is replaced in one
// statement, so readers never see a torn write.
func (r *SQLiteRepository) Save(ctx context.Context, version int, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_state (slot, version, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   version = excluded.version,
		   data = excluded.data,
		   updated_at = CURRENT_TIMESTAMP`,
		r.slot, version, data)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	r.logger.Debug("Persisted state",
		applog.FieldSlot, r.slot,
		applog.FieldVersion, version)
	return nil
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
