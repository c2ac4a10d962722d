package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps expenses in a SQLite database. Each append is one
// transaction; the in-memory sequence only grows after a commit.
type SQLiteStore struct {
	db      *sql.DB
	logger  *slog.Logger
	dbPath  string
	records []model.ExpenseRecord
	mu      sync.Mutex
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// brings its schema up to date.
func NewSQLiteStore(ctx context.Context, dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, &common.StorageError{Op: "open", Path: dbPath, Err: fmt.Errorf("failed to create database directory: %w", err)}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, &common.StorageError{Op: "open", Path: dbPath, Err: err}
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &common.StorageError{Op: "open", Path: dbPath, Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	store := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		logger: common.LoggerOrDefault(logger),
	}

	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, &common.StorageError{Op: "migrate", Path: dbPath, Err: err}
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads every expense in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.ExpenseRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, description, amount, category
		FROM expenses
		ORDER BY id`)
	if err != nil {
		return nil, &common.StorageError{Op: "read", Path: s.dbPath, Err: fmt.Errorf("failed to query expenses: %w", err)}
	}
	defer func() { _ = rows.Close() }()

	var records []model.ExpenseRecord
	for rows.Next() {
		var (
			date        string
			description string
			amount      float64
			category    string
		)
		if err := rows.Scan(&date, &description, &amount, &category); err != nil {
			return nil, &common.StorageError{Op: "read", Path: s.dbPath, Err: fmt.Errorf("failed to scan expense: %w", err)}
		}

		rec, err := decodeRow(date, description, amount, category)
		if err != nil {
			return nil, &common.StorageError{Op: "read", Path: s.dbPath, Err: fmt.Errorf("%w: %w", common.ErrCorruptRecord, err)}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &common.StorageError{Op: "read", Path: s.dbPath, Err: err}
	}

	s.records = records
	if len(records) == 0 {
		return nil, nil
	}
	return cloneRecords(records), nil
}

// Append inserts rec inside a transaction.
func (s *SQLiteStore) Append(ctx context.Context, rec model.ExpenseRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &common.StorageError{Op: "write", Path: s.dbPath, Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (date, description, amount, category)
		VALUES (?, ?, ?, ?)`,
		rec.Date.Format(model.DateLayout),
		rec.Description,
		rec.Amount,
		string(rec.Category))
	if err != nil {
		_ = tx.Rollback()
		return &common.StorageError{Op: "write", Path: s.dbPath, Err: fmt.Errorf("failed to insert expense: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return &common.StorageError{Op: "write", Path: s.dbPath, Err: fmt.Errorf("failed to commit expense: %w", err)}
	}

	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of the in-memory sequence.
func (s *SQLiteStore) Records() []model.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

func decodeRow(date, description string, amount float64, category string) (model.ExpenseRecord, error) {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("invalid date %q", date)
	}

	cat, err := model.ParseCategory(category)
	if err != nil {
		return model.ExpenseRecord{}, err
	}

	rec := model.NewExpenseRecord(day, description, amount, cat)
	return rec, rec.Validate()
}
