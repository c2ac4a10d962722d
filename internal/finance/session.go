// Package finance wires the expense store, categorizer and advisors into the
// user-facing actions of one session.
package finance

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/advisor"
	"github.com/Veraticus/pennywise/internal/aggregate"
	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/storage"
)

// Categorizer assigns a category to an expense description.
type Categorizer interface {
	Categorize(ctx context.Context, description string) model.Category
}

// Session owns one expense store and performs every user action against it.
// Each action runs to completion before returning.
type Session struct {
	store       storage.Store
	categorizer Categorizer
	advisor     *advisor.Advisor
	logger      *slog.Logger
	now         func() time.Time
}

// NewSession creates a session over an already loaded store.
func NewSession(store storage.Store, categorizer Categorizer, adv *advisor.Advisor, logger *slog.Logger) *Session {
	return &Session{
		store:       store,
		categorizer: categorizer,
		advisor:     adv,
		logger:      common.LoggerOrDefault(logger),
		now:         time.Now,
	}
}

// ExpenseInput is an expense as entered by the user, before categorization.
type ExpenseInput struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
}

// Validate rejects input that must never reach the categorizer.
func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return common.NewValidationError("description", "must not be empty")
	}
	if !model.Finite(in.Amount) {
		return common.NewValidationError("amount", "must be a finite number")
	}
	if in.Amount <= 0 {
		return common.NewValidationError("amount", "must be greater than zero")
	}
	return nil
}

// AddExpense validates in, categorizes it and appends it to the store. A
// zero date means today. On a storage failure the returned record is the one
// that was not saved.
func (s *Session) AddExpense(ctx context.Context, in ExpenseInput) (model.ExpenseRecord, error) {
	if err := in.Validate(); err != nil {
		return model.ExpenseRecord{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	description := strings.TrimSpace(in.Description)

	category := s.categorizer.Categorize(ctx, description)
	rec := model.NewExpenseRecord(date, description, in.Amount, category)

	if err := s.store.Append(ctx, rec); err != nil {
		return rec, err
	}

	s.logger.Info("Expense added",
		"date", rec.Date.Format(model.DateLayout),
		"amount", rec.Amount,
		"category", rec.Category)
	return rec, nil
}

// Records returns every stored expense in insertion order.
func (s *Session) Records() []model.ExpenseRecord {
	return s.store.Records()
}

// Months lists the months that have expenses, in first-appearance order.
func (s *Session) Months() []model.YearMonth {
	return aggregate.Months(s.store)
}

// MonthView is the expense table and per-category totals of one month.
type MonthView struct {
	Month   model.YearMonth
	Records []model.ExpenseRecord
	Summary model.CategorySummary
	Total   float64
}

// Month returns the view for ym. A month without expenses is an empty view.
func (s *Session) Month(ym model.YearMonth) MonthView {
	records := aggregate.InMonth(s.store.Records(), ym)
	summary := aggregate.Summarize(records)
	return MonthView{
		Month:   ym,
		Records: records,
		Summary: summary,
		Total:   summary.Total(),
	}
}

// IncomeCheck compares all recorded spending with a monthly income.
type IncomeCheck struct {
	Total    float64 `json:"total"`
	Income   float64 `json:"income"`
	Exceeded bool    `json:"exceeded"`
}

// CheckIncome totals every stored expense against income.
func (s *Session) CheckIncome(income float64) (IncomeCheck, error) {
	if !model.Finite(income) || income <= 0 {
		return IncomeCheck{}, common.NewValidationError("income", "must be greater than zero")
	}

	total := aggregate.TotalForRange(s.store, aggregate.All)
	return IncomeCheck{Total: total, Income: income, Exceeded: total > income}, nil
}

// Budget generates budget advice for income from the spending of ym. The
// month must have at least one expense.
func (s *Session) Budget(ctx context.Context, income float64, ym model.YearMonth) (advisor.BudgetPlan, error) {
	if !model.Finite(income) || income <= 0 {
		return advisor.BudgetPlan{}, common.NewValidationError("income", "must be greater than zero")
	}

	summary := aggregate.MonthlySummary(s.store, ym)
	if len(summary) == 0 {
		return advisor.BudgetPlan{}, common.NewValidationError("month", "no expenses recorded for "+ym.String())
	}

	return s.advisor.Budget(ctx, income, summary)
}

// SavingTips generates saving advice for goal over months using all
// recorded spending as context.
func (s *Session) SavingTips(ctx context.Context, income, goal float64, months int) (advisor.SavingPlan, error) {
	summary := aggregate.Summarize(s.store.Records())
	return s.advisor.SavingTips(ctx, income, goal, months, summary)
}
