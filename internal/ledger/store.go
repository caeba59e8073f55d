// Package ledger owns the mutable application state: the ordered transaction
// list and the settings singleton. All mutations go through the Store, which
// persists the whole state after each change and notifies subscribers.
package ledger

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"tally/internal/core"
	applog "tally/internal/log"
)

// Mutation operation names carried on change events.
const (
	OpAdd      = "add"
	OpAddMany  = "add_many"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpSettings = "settings"
	OpBudget   = "budget"
	OpClear    = "clear"
)

// Event describes a committed mutation. ID is set for single-record
// operations, Count for batch ones.
type Event struct {
	Op    string
	ID    string
	Count int
}

// Repository abstracts the durable key-value slot the ledger persists to.
type Repository interface {
	// Load returns the stored schema version and state blob. found is false
	// when nothing has been persisted yet.
	Load(ctx context.Context) (version int, data []byte, found bool, err error)

	// Save replaces the stored blob and version atomically.
	Save(ctx context.Context, version int, data []byte) error
}

// Store is the single owner of ledger state. It is constructed once at
// process start and passed by reference to consumers; there is no ambient
// global. Mutations are atomic whole-state steps guarded by a mutex, so
// readers never observe a partially applied change.
type Store struct {
	mu       sync.Mutex
	repo     Repository
	logger   *applog.Logger
	txs      []core.Transaction
	settings core.Settings
	revision uint64
	subs     []func(Event)

	// newID generates transaction ids; overridable in tests.
	newID func() string
}

// Open restores state from the repository, migrating older schema versions
// before first read. A missing or malformed blob falls back to empty
// defaults and is never an error.
func Open(ctx context.Context, repo Repository, logger *applog.Logger) (*Store, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	s := &Store{
		repo:     repo,
		logger:   logger.WithComponent(applog.ComponentLedger),
		settings: core.DefaultSettings(),
		newID:    uuid.NewString,
	}

	version, data, found, err := repo.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load persisted state, starting empty", applog.FieldError, err)
		return s, nil
	}
	if !found {
		s.logger.Info("No persisted state found, starting empty")
		return s, nil
	}

	state, ok := restore(version, data, s.logger)
	if !ok {
		return s, nil
	}
	s.txs = state.Transactions
	s.settings = state.Settings

	// Re-persist immediately when the stored version was older so the
	// migration only ever runs once per upgrade.
	if version < CurrentVersion {
		s.persist(ctx)
	}

	s.logger.Info("Restored ledger state",
		applog.FieldTxCount, len(s.txs),
		applog.FieldVersion, version)
	return s, nil
}

// Subscribe registers an observer invoked synchronously after each committed
// mutation. Observers must not mutate the store from the callback path of
// another mutation.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Transactions returns a copy of the ledger, most recent insertion first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Revision is a monotonically increasing counter bumped on every committed
// mutation. Derived-view caches key on it.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Add validates the candidate and prepends it with a fresh id. Invalid input
// is a silent no-op: callers are expected to validate at the edge, and the
// store only guards its own invariants.
func (s *Store) Add(ctx context.Context, t core.Transaction) {
	if err := t.Validate(); err != nil {
		s.logger.Debug("Rejected transaction", applog.FieldError, err)
		return
	}

	s.mu.Lock()
	t.ID = s.newID()
	s.txs = append([]core.Transaction{t}, s.txs...)
	s.commit(ctx)
	s.mu.Unlock()

	s.notify(Event{Op: OpAdd, ID: t.ID, Count: 1})
}

// AddMany prepends the valid subset of the batch as a block, preserving the
// batch's relative order. Invalid rows are dropped silently. Returns the
// number of transactions added.
func (s *Store) AddMany(ctx context.Context, batch []core.Transaction) int {
	valid := make([]core.Transaction, 0, len(batch))
	for _, t := range batch {
		if err := t.Validate(); err != nil {
			s.logger.Debug("Rejected transaction in batch", applog.FieldError, err)
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return 0
	}

	s.mu.Lock()
	for i := range valid {
		valid[i].ID = s.newID()
	}
	s.txs = append(valid, s.txs...)
	s.commit(ctx)
	s.mu.Unlock()

	s.notify(Event{Op: OpAddMany, Count: len(valid)})
	return len(valid)
}

// Update replaces the transaction with a matching id wholesale. The record
// is not revalidated: edit flows validate before calling, mirroring the
// soft-validation split at creation. Unknown ids are a no-op.
func (s *Store) Update(ctx context.Context, t core.Transaction) {
	s.mu.Lock()
	replaced := false
	for i := range s.txs {
		if s.txs[i].ID == t.ID {
			s.txs[i] = t
			replaced = true
			break
		}
	}
	if replaced {
		s.commit(ctx)
	}
	s.mu.Unlock()

	if replaced {
		s.notify(Event{Op: OpUpdate, ID: t.ID, Count: 1})
	}
}

// Delete removes the transaction with the given id; unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	removed := false
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		s.commit(ctx)
	}
	s.mu.Unlock()

	if removed {
		s.notify(Event{Op: OpDelete, ID: id, Count: 1})
	}
}

// SetSettings merges the provided fields into the settings. An invalid
// currency keeps the prior value; a nil budgets map keeps the prior map.
// Budget values are clamped to non-negative, same as SetBudget.
func (s *Store) SetSettings(ctx context.Context, p core.SettingsPatch) {
	s.mu.Lock()
	if p.Currency != nil {
		if p.Currency.IsValid() {
			s.settings.Currency = *p.Currency
		} else {
			s.logger.Debug("Rejected invalid currency", applog.FieldCurrency, string(*p.Currency))
		}
	}
	if p.DarkMode != nil {
		s.settings.DarkMode = *p.DarkMode
	}
	if p.Budgets != nil {
		budgets := make(map[string]int64, len(p.Budgets))
		for k, v := range p.Budgets {
			if v < 0 {
				v = 0
			}
			budgets[k] = v
		}
		s.settings.Budgets = budgets
	}
	s.commit(ctx)
	s.mu.Unlock()

	s.notify(Event{Op: OpSettings})
}

// SetBudget upserts one monthly budget, clamped to a non-negative value.
func (s *Store) SetBudget(ctx context.Context, category string, cents int64) {
	if cents < 0 {
		cents = 0
	}

	s.mu.Lock()
	if s.settings.Budgets == nil {
		s.settings.Budgets = map[string]int64{}
	}
	s.settings.Budgets[category] = cents
	s.commit(ctx)
	s.mu.Unlock()

	s.notify(Event{Op: OpBudget})
}

// ClearAll empties the transaction list. Settings survive.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	s.txs = nil
	s.commit(ctx)
	s.mu.Unlock()

	s.notify(Event{Op: OpClear})
}

// commit bumps the revision and persists the full state. Callers hold the
// mutex. Persistence failures are logged, never surfaced: the in-memory
// state is authoritative for the rest of the session.
func (s *Store) commit(ctx context.Context) {
	s.revision++
	s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}
	data, err := json.Marshal(persistedState{
		Transactions: s.txs,
		Settings:     s.settings,
	})
	if err != nil {
		s.logger.Error("Failed to serialize state", applog.FieldError, err)
		return
	}
	if err := s.repo.Save(ctx, CurrentVersion, data); err != nil {
		s.logger.Error("Failed to persist state", applog.FieldError, err)
	}
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}
