package model

import (
	"crypto/sha256"
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar-date format used in storage and on the command line.
const DateLayout = "2006-01-02"

// ExpenseRecord is a single persisted expense.
type ExpenseRecord struct {
	Date        time.Time
	Description string
	Category    Category
	Amount      float64
}

// NewExpenseRecord truncates date to a calendar day in UTC and builds a record.
func NewExpenseRecord(date time.Time, description string, amount float64, category Category) ExpenseRecord {
	return ExpenseRecord{
		Date:        Day(date),
		Description: description,
		Amount:      amount,
		Category:    category,
	}
}

// Validate checks the record invariants held by every stored expense.
func (r ExpenseRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("missing date")
	}
	if !Finite(r.Amount) {
		return fmt.Errorf("amount %v is not a finite number", r.Amount)
	}
	if r.Amount < 0 {
		return fmt.Errorf("negative amount %.2f", r.Amount)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("category %q is not in the enumeration", r.Category)
	}
	return nil
}

// Month returns the calendar month the expense falls in.
func (r ExpenseRecord) Month() YearMonth {
	return MonthOf(r.Date)
}

// Hash identifies a record by its content, for duplicate detection on import.
func (r ExpenseRecord) Hash() string {
	data := fmt.Sprintf("%s:%.2f:%s",
		r.Date.Format(DateLayout),
		r.Amount,
		r.Description)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Day strips the time of day from t, keeping its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
