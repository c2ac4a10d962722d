package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/storage"
)

// SetupStore opens a store of the given backend in a temp directory, appends
// records and closes it when the test ends. It returns the store and its path.
func SetupStore(t *testing.T, backend string, records ...model.ExpenseRecord) (storage.Store, string) {
	t.Helper()

	name := "expenses_data.csv"
	if backend == storage.BackendSQLite {
		name = "expenses.db"
	}
	path := filepath.Join(t.TempDir(), name)

	ctx := context.Background()
	store, err := storage.Open(ctx, storage.Config{Backend: backend, Path: path}, nil)
	if err != nil {
		t.Fatalf("failed to open %s store: %v", backend, err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("failed to seed %q: %v", rec.Description, err)
		}
	}

	return store, path
}

// LoadRecords reopens the store at path and returns what was persisted.
func LoadRecords(t *testing.T, backend, path string) []model.ExpenseRecord {
	t.Helper()

	store, err := storage.Open(context.Background(), storage.Config{Backend: backend, Path: path}, nil)
	if err != nil {
		t.Fatalf("failed to reopen %s store: %v", backend, err)
	}
	defer store.Close()

	return store.Records()
}
