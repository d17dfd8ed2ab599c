package testsupport

import (
	"testing"

	"speedpack/internal/planstore"
)

// MustOpenStore opens a planstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *planstore.Store {
	t.Helper()

	store, err := planstore.Open(path)
	if err != nil {
		t.Fatalf("planstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
