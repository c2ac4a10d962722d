// Package testutil provides expense fixtures and seeded stores for tests.
//
// Example:
//
//	records := testutil.NewBuilder(t).
//		WithFixture(testutil.FixtureTwoMonths).
//		Add("2024-03-01", "kopi", 4.5, model.CategoryFood).
//		Build()
//
//	store, path := testutil.SetupStore(t, storage.BackendSQLite, records...)
package testutil

import (
	"testing"

	"github.com/Veraticus/pennywise/internal/model"
)

// Fixture is a named, predefined list of expense records.
type Fixture string

// Available fixtures.
const (
	// FixtureTwoMonths spans January and February 2024 across three categories.
	FixtureTwoMonths Fixture = "two_months"
	// FixtureEveryCategory holds one January 2024 expense per category.
	FixtureEveryCategory Fixture = "every_category"
)

type entry struct {
	date        string
	description string
	category    model.Category
	amount      float64
}

var fixtures = map[Fixture][]entry{
	FixtureTwoMonths: {
		{"2024-01-05", "rent", model.CategoryHousing, 1200},
		{"2024-01-09", "nasi lemak", model.CategoryFood, 12.5},
		{"2024-01-20", "groceries", model.CategoryFood, 30},
		{"2024-02-01", "movie", model.CategoryEntertainment, 30},
	},
	FixtureEveryCategory: {
		{"2024-01-01", "rent", model.CategoryHousing, 1200},
		{"2024-01-02", "TNB bill", model.CategoryUtilities, 180},
		{"2024-01-03", "groceries", model.CategoryFood, 300},
		{"2024-01-04", "petrol", model.CategoryTransportation, 150},
		{"2024-01-05", "clinic", model.CategoryHealthcare, 60},
		{"2024-01-06", "car insurance", model.CategoryInsurance, 90},
		{"2024-01-07", "card payment", model.CategoryDebtPayment, 400},
		{"2024-01-08", "fixed deposit", model.CategorySaving, 500},
		{"2024-01-09", "unit trust", model.CategoryInvestment, 300},
		{"2024-01-10", "shoes", model.CategoryPersonalSpending, 220},
		{"2024-01-11", "concert", model.CategoryEntertainment, 150},
		{"2024-01-12", "donation", model.CategoryMiscellaneous, 20},
	},
}

// Builder accumulates expense records in insertion order.
type Builder struct {
	t       *testing.T
	records []model.ExpenseRecord
}

// NewBuilder creates an empty builder for t.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// Add appends one record. date must be YYYY-MM-DD.
func (b *Builder) Add(date, description string, amount float64, category model.Category) *Builder {
	b.t.Helper()

	d, err := model.ParseDate(date)
	if err != nil {
		b.t.Fatalf("bad fixture date: %v", err)
	}

	rec := model.NewExpenseRecord(d, description, amount, category)
	if err := rec.Validate(); err != nil {
		b.t.Fatalf("bad fixture record %q: %v", description, err)
	}
	b.records = append(b.records, rec)
	return b
}

// WithFixture appends every record of the named fixture.
func (b *Builder) WithFixture(name Fixture) *Builder {
	b.t.Helper()

	entries, ok := fixtures[name]
	if !ok {
		b.t.Fatalf("unknown fixture %q", name)
	}
	for _, e := range entries {
		b.Add(e.date, e.description, e.amount, e.category)
	}
	return b
}

// Build returns a copy of the accumulated records.
func (b *Builder) Build() []model.ExpenseRecord {
	out := make([]model.ExpenseRecord, len(b.records))
	copy(out, b.records)
	return out
}
