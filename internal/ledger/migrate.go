package ledger

import (
	"encoding/json"

	"tally/internal/core"
	applog "tally/internal/log"
)

// CurrentVersion is the schema version written with every persisted blob.
// Version 1 predates per-category budgets; version 2 introduced the budgets
// map inside settings.
const CurrentVersion = 2

// persistedState is the durable shape: the whole ledger plus settings,
// stored as one JSON document under a versioned slot.
type persistedState struct {
	Transactions []core.Transaction `json:"transactions"`
	Settings     core.Settings      `json:"settings"`
}

// A migration upgrades a blob parsed at version `from` to version from+1.
// Steps are pure in-place transforms applied in order; each must be
// idempotent so a re-run after a crashed upgrade is harmless.
type migration struct {
	from  int
	apply func(*persistedState)
}

var migrations = []migration{
	{from: 1, apply: migrateV1AddBudgets},
}

// migrateV1AddBudgets introduces the budgets map and defaults absent or
// malformed settings fields. DarkMode needs no handling: a missing JSON
// field already decodes to false.
func migrateV1AddBudgets(st *persistedState) {
	if !st.Settings.Currency.IsValid() {
		st.Settings.Currency = core.USD
	}
	if st.Settings.Budgets == nil {
		st.Settings.Budgets = map[string]int64{}
	}
}

// restore decodes a persisted blob and migrates it up to CurrentVersion.
// ok is false when the blob cannot be decoded at all; the caller then falls
// back to empty defaults.
func restore(version int, data []byte, logger *applog.Logger) (persistedState, bool) {
	var st persistedState
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Failed to decode persisted state, starting empty",
			applog.FieldError, err,
			applog.FieldVersion, version)
		return persistedState{}, false
	}

	// Blobs with a missing or nonsense version tag are treated as the
	// oldest known schema so every step runs.
	if version < 1 {
		version = 1
	}

	for _, m := range migrations {
		if version <= m.from {
			m.apply(&st)
			version = m.from + 1
			logger.Info("Migrated persisted state",
				applog.FieldVersion, version)
		}
	}

	normalize(&st)
	return st, true
}

// normalize repairs invariants regardless of version, so even a
// current-version blob with a hand-edited settings object loads cleanly.
func normalize(st *persistedState) {
	if !st.Settings.Currency.IsValid() {
		st.Settings.Currency = core.USD
	}
	if st.Settings.Budgets == nil {
		st.Settings.Budgets = map[string]int64{}
	}
	for k, v := range st.Settings.Budgets {
		if v < 0 {
			st.Settings.Budgets[k] = 0
		}
	}
}
