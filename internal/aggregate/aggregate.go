// Package aggregate derives per-category and per-month totals from the
// expense sequence. Every function is pure over its input.
package aggregate

import (
	"time"

	"github.com/Veraticus/pennywise/internal/model"
)

// RecordSource supplies the ordered expense sequence.
type RecordSource interface {
	Records() []model.ExpenseRecord
}

// Summarize sums amounts by category. Categories without records are absent.
func Summarize(records []model.ExpenseRecord) model.CategorySummary {
	summary := make(model.CategorySummary)
	for _, rec := range records {
		summary[rec.Category] += rec.Amount
	}
	return summary
}

// Filter returns the records whose date satisfies keep, in their original order.
func Filter(records []model.ExpenseRecord, keep func(time.Time) bool) []model.ExpenseRecord {
	var out []model.ExpenseRecord
	for _, rec := range records {
		if keep(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}

// InMonth returns the records dated within ym.
func InMonth(records []model.ExpenseRecord, ym model.YearMonth) []model.ExpenseRecord {
	return Filter(records, ym.Contains)
}

// MonthlySummary sums the amounts of records dated in ym by category.
func MonthlySummary(src RecordSource, ym model.YearMonth) model.CategorySummary {
	return Summarize(InMonth(src.Records(), ym))
}

// TotalForRange sums the amounts of records whose date satisfies pred.
func TotalForRange(src RecordSource, pred func(time.Time) bool) float64 {
	var total float64
	for _, rec := range src.Records() {
		if pred(rec.Date) {
			total += rec.Amount
		}
	}
	return total
}

// All is a TotalForRange predicate that matches every date.
func All(time.Time) bool { return true }

// Between returns a predicate matching dates in [since, until]. A zero bound is open.
func Between(since, until time.Time) func(time.Time) bool {
	return func(t time.Time) bool {
		if !since.IsZero() && t.Before(since) {
			return false
		}
		if !until.IsZero() && t.After(until) {
			return false
		}
		return true
	}
}

// Months lists the distinct months present in src in order of first appearance.
func Months(src RecordSource) []model.YearMonth {
	seen := make(map[model.YearMonth]struct{})
	var months []model.YearMonth
	for _, rec := range src.Records() {
		ym := rec.Month()
		if _, ok := seen[ym]; ok {
			continue
		}
		seen[ym] = struct{}{}
		months = append(months, ym)
	}
	return months
}
