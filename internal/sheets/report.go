package sheets

import (
	"github.com/Veraticus/pennywise/internal/model"
)

// Report is one month of expenses as exported to a sheet.
type Report struct {
	Month   model.YearMonth
	Summary model.CategorySummary
	Records []model.ExpenseRecord
}

// Values lays the report out as sheet rows: a title, the per-category
// summary block, then the expense rows in insertion order.
func (r Report) Values() [][]any {
	slices := r.Summary.Slices()
	values := make([][]any, 0, 8+len(slices)+len(r.Records))

	values = append(values,
		[]any{"Expense Report", r.Month.String()},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Amount", r.Summary.Total()},
		[]any{"Total Expenses", len(r.Records)},
		[]any{},
		[]any{"Category", "Amount"},
	)
	for _, s := range slices {
		values = append(values, []any{s.Label, s.Amount})
	}

	values = append(values,
		[]any{},
		[]any{"Date", "Description", "Amount", "Category"},
	)
	for _, rec := range r.Records {
		values = append(values, []any{
			rec.Date.Format(model.DateLayout),
			rec.Description,
			rec.Amount,
			string(rec.Category),
		})
	}

	return values
}
