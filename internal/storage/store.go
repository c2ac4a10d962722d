// Package storage provides the durable, append-only expense store.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
)

// Store is an ordered, append-only sequence of expense records backed by
// durable storage. Implementations persist synchronously on every append.
type Store interface {
	// Load reads durable storage into memory. Missing storage is an empty store.
	Load(ctx context.Context) ([]model.ExpenseRecord, error)
	// Append adds rec and persists the whole sequence before returning.
	Append(ctx context.Context, rec model.ExpenseRecord) error
	// Records returns a copy of the in-memory sequence in insertion order.
	Records() []model.ExpenseRecord
	Close() error
}

// Backend names accepted by Open.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config selects and locates the durable backend.
type Config struct {
	Backend string
	Path    string
}

// Open creates the configured store and loads its contents.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	var (
		store Store
		err   error
	)

	switch strings.ToLower(cfg.Backend) {
	case "", BackendCSV:
		store, err = NewCSVStore(cfg.Path, logger)
	case BackendSQLite:
		store, err = NewSQLiteStore(ctx, cfg.Path, logger)
	default:
		return nil, fmt.Errorf("%w: unsupported storage backend: %s", common.ErrInvalidConfig, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	records, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	common.LoggerOrDefault(logger).Info("Loaded expenses",
		"backend", cfg.Backend,
		"path", cfg.Path,
		"count", len(records))

	return store, nil
}

func cloneRecords(records []model.ExpenseRecord) []model.ExpenseRecord {
	out := make([]model.ExpenseRecord, len(records))
	copy(out, records)
	return out
}
