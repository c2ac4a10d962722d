package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
)

// csvColumns is the header row of the expense file.
var csvColumns = []string{"date", "description", "amount", "category"}

// CSVStore keeps expenses in a flat CSV file that is rewritten whole on
// every append.
type CSVStore struct {
	logger  *slog.Logger
	path    string
	records []model.ExpenseRecord
	mu      sync.Mutex
}

// NewCSVStore creates a store for the CSV file at path. Nothing is read until Load.
func NewCSVStore(path string, logger *slog.Logger) (*CSVStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	return &CSVStore{
		path:   path,
		logger: common.LoggerOrDefault(logger),
	}, nil
}

// Path returns the backing file location.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the CSV file, replacing the in-memory sequence.
func (s *CSVStore) Load(ctx context.Context) ([]model.ExpenseRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("No expense file yet, starting empty", "path", s.path)
		s.records = nil
		return nil, nil
	}
	if err != nil {
		return nil, &common.StorageError{Op: "read", Path: s.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	records, err := readCSV(f)
	if err != nil {
		return nil, &common.StorageError{Op: "read", Path: s.path, Err: err}
	}

	s.records = records
	if len(records) == 0 {
		return nil, nil
	}
	return cloneRecords(records), nil
}

// Append adds rec and rewrites the file. On a failed write the in-memory
// sequence is left exactly as it was before the call.
func (s *CSVStore) Append(ctx context.Context, rec model.ExpenseRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.ExpenseRecord, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, rec)

	if err := s.writeAll(next); err != nil {
		s.logger.Error("Failed to persist expense",
			"path", s.path,
			"description", rec.Description,
			"error", err)
		return &common.StorageError{Op: "write", Path: s.path, Err: err}
	}

	s.records = next
	return nil
}

// Records returns a copy of the in-memory sequence.
func (s *CSVStore) Records() []model.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

// Close is a no-op; the file is closed after every write.
func (s *CSVStore) Close() error {
	return nil
}

// writeAll writes records to a temp file beside the target and renames it
// into place, so a crash never leaves a half-written file.
func (s *CSVStore) writeAll(records []model.ExpenseRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create expense directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".expenses-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := writeCSV(tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace expense file: %w", err)
	}

	return nil
}

func writeCSV(w io.Writer, records []model.ExpenseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Date.Format(model.DateLayout),
			rec.Description,
			strconv.FormatFloat(rec.Amount, 'f', -1, 64),
			string(rec.Category),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func readCSV(r io.Reader) ([]model.ExpenseRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []model.ExpenseRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", line, common.ErrCorruptRecord, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// columnIndex maps each expected column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: header is missing column %q", common.ErrCorruptRecord, col)
		}
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (model.ExpenseRecord, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseStoredDate(field("date"))
	if err != nil {
		return model.ExpenseRecord{}, err
	}

	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("invalid amount %q", field("amount"))
	}

	category, err := model.ParseCategory(field("category"))
	if err != nil {
		return model.ExpenseRecord{}, err
	}

	rec := model.NewExpenseRecord(date, field("description"), amount, category)
	if err := rec.Validate(); err != nil {
		return model.ExpenseRecord{}, err
	}
	return rec, nil
}

// parseStoredDate accepts plain dates and the timestamp form some
// spreadsheet tools write back.
func parseStoredDate(s string) (time.Time, error) {
	for _, layout := range []string{model.DateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
