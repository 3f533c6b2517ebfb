package testsupport

import (
	"context"
	"testing"

	"aria/internal/catalog"
	"aria/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustLibrary creates (or fetches) a library row for tests.
func MustLibrary(t testing.TB, store *catalog.Store, name, path string) *catalog.LibraryRecord {
	t.Helper()

	library, err := store.EnsureLibrary(context.Background(), name, path)
	if err != nil {
		t.Fatalf("store.EnsureLibrary: %v", err)
	}
	return library
}
