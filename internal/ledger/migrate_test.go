package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"tally/internal/core"
)

func TestOpen_MigratesV1(t *testing.T) {
	ctx := context.Background()

	// A version-1 blob has no budgets field at all.
	v1 := []byte(`{
		"transactions": [
			{"id":"a","amount":500,"date":"2025-08-01","category":"Food","type":"expense"}
		],
		"settings": {"currency":"EUR","darkMode":true}
	}`)
	repo := &fakeRepo{version: 1, data: v1, found: true}

	s, err := Open(ctx, repo, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	st := s.Settings()
	if st.Budgets == nil || len(st.Budgets) != 0 {
		t.Errorf("budgets = %v, want empty map", st.Budgets)
	}
	if st.Currency != core.EUR {
		t.Errorf("currency = %s, want EUR (unaffected by migration)", st.Currency)
	}
	if !st.DarkMode {
		t.Error("darkMode should be unaffected by migration")
	}
	if txs := s.Transactions(); len(txs) != 1 || txs[0].Amount != 500 {
		t.Errorf("transactions not carried over: %+v", txs)
	}

	// The migrated state is re-persisted at the current version.
	if repo.version != CurrentVersion {
		t.Errorf("repo version after migration = %d, want %d", repo.version, CurrentVersion)
	}
	var envelope persistedState
	if err := json.Unmarshal(repo.data, &envelope); err != nil {
		t.Fatalf("re-persisted blob not decodable: %v", err)
	}
	if envelope.Settings.Budgets == nil {
		t.Error("re-persisted settings should carry a budgets map")
	}
}

func TestOpen_MigrationDefaultsMalformedSettings(t *testing.T) {
	ctx := context.Background()
	v1 := []byte(`{"transactions": [], "settings": {"currency":"BITCOIN"}}`)
	repo := &fakeRepo{version: 1, data: v1, found: true}

	s, err := Open(ctx, repo, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st := s.Settings()
	if st.Currency != core.USD {
		t.Errorf("invalid persisted currency should default to USD, got %s", st.Currency)
	}
	if st.DarkMode {
		t.Error("absent darkMode should default to false")
	}
	if st.Budgets == nil {
		t.Error("budgets should default to an empty map")
	}
}

func TestOpen_CorruptBlobFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{version: 2, data: []byte(`{nope`), found: true}

	s, err := Open(ctx, repo, nil)
	if err != nil {
		t.Fatalf("Open should not fail on a corrupt blob: %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Error("corrupt blob should yield an empty ledger")
	}
	if got := s.Settings(); got.Currency != core.USD || got.DarkMode || len(got.Budgets) != 0 {
		t.Errorf("corrupt blob should yield default settings, got %+v", got)
	}
}

func TestOpen_MissingBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}

	s, err := Open(ctx, repo, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Error("missing blob should yield an empty ledger")
	}
	if got := s.Settings().Currency; got != core.USD {
		t.Errorf("default currency = %s, want USD", got)
	}
}

func TestOpen_LoadErrorFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{loadErr: context.DeadlineExceeded}

	s, err := Open(ctx, repo, nil)
	if err != nil {
		t.Fatalf("Open should swallow repository load errors: %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Error("load error should yield an empty ledger")
	}
}

func TestRestore_Idempotent(t *testing.T) {
	v1 := []byte(`{"transactions": [], "settings": {"currency":"CAD","darkMode":false}}`)
	logger := testLogger()

	st1, ok := restore(1, v1, logger)
	if !ok {
		t.Fatal("restore failed")
	}

	// Feed the migrated state back through the chain at both versions.
	round, err := json.Marshal(st1)
	if err != nil {
		t.Fatal(err)
	}
	for _, version := range []int{1, CurrentVersion} {
		st2, ok := restore(version, round, logger)
		if !ok {
			t.Fatalf("restore at version %d failed", version)
		}
		if st2.Settings.Currency != core.CAD || st2.Settings.Budgets == nil {
			t.Errorf("restore at version %d not idempotent: %+v", version, st2.Settings)
		}
	}
}

func TestRestore_VersionZeroTreatedAsOldest(t *testing.T) {
	blob := []byte(`{"transactions": [], "settings": {}}`)
	st, ok := restore(0, blob, testLogger())
	if !ok {
		t.Fatal("restore failed")
	}
	if st.Settings.Currency != core.USD || st.Settings.Budgets == nil {
		t.Errorf("version 0 should run the whole chain: %+v", st.Settings)
	}
}
