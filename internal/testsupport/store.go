package testsupport

import (
	"path/filepath"
	"testing"

	"waveforge/internal/ledger"
)

// MustOpenStore opens a ledger.Store backed by a temp database and
// registers cleanup.
func MustOpenStore(t testing.TB) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
