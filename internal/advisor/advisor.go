// Package advisor turns income, goals and spending summaries into budget and
// saving advice from the completion service.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
)

const (
	budgetSystemPrompt = "You are a financial assistant that helps users create budgets based on their income and previous expenses."
	savingSystemPrompt = "You are an insightful financial assistant."

	// DefaultCurrency prefixes amounts in prompts when none is configured.
	DefaultCurrency = "RM"

	defaultMaxTokens = 1000
)

// PlaceholderAllocation is the illustrative budget split shown beside the
// generated advice. It is not derived from the advice text.
var PlaceholderAllocation = []model.ChartSlice{
	{Label: "Essentials", Amount: 1950},
	{Label: "Savings", Amount: 1100},
	{Label: "Discretionary Spending", Amount: 2450},
}

// BudgetPlan is generated budget advice plus the allocation to chart.
type BudgetPlan struct {
	Text       string
	Allocation []model.ChartSlice
}

// SavingPlan is generated saving advice plus the derived monthly figures.
type SavingPlan struct {
	Text string
	// Breakdown holds monthly income, the monthly savings target and what remains.
	Breakdown []model.ChartSlice
	// Allocation splits income between savings and the remaining budget.
	Allocation []model.ChartSlice
}

// Config holds advisor settings.
type Config struct {
	Currency  string
	MaxTokens int
}

// Advisor builds advisory prompts. It never touches the expense store.
type Advisor struct {
	client    llm.Client
	logger    *slog.Logger
	currency  string
	maxTokens int
}

// New creates an Advisor.
func New(client llm.Client, cfg Config, logger *slog.Logger) *Advisor {
	currency := cfg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Advisor{
		client:    client,
		logger:    common.LoggerOrDefault(logger),
		currency:  currency,
		maxTokens: maxTokens,
	}
}

// Currency returns the prefix used for amounts.
func (a *Advisor) Currency() string {
	return a.currency
}

// Budget asks for an essentials/savings/discretionary allocation of income
// informed by the previous month's spending.
func (a *Advisor) Budget(ctx context.Context, income float64, previous model.CategorySummary) (BudgetPlan, error) {
	if !positive(income) {
		return BudgetPlan{}, common.NewValidationError("income", "must be greater than zero")
	}

	prompt := fmt.Sprintf(
		"My monthly income is %s. Here are my previous expenses by category: %s. "+
			"Can you suggest a budget allocation including essentials (food, rent), savings, and discretionary spending?",
		a.money(income), a.FormatSummary(previous))

	text, err := a.complete(ctx, "budget", budgetSystemPrompt, prompt)
	if err != nil {
		return BudgetPlan{}, err
	}

	allocation := make([]model.ChartSlice, len(PlaceholderAllocation))
	copy(allocation, PlaceholderAllocation)

	return BudgetPlan{Text: text, Allocation: allocation}, nil
}

// SavingTips asks for ways to reach goal within months given income and
// past spending.
func (a *Advisor) SavingTips(ctx context.Context, income, goal float64, months int, previous model.CategorySummary) (SavingPlan, error) {
	if err := ValidateGoal(income, goal, months); err != nil {
		return SavingPlan{}, err
	}

	prompt := fmt.Sprintf(
		"I have a monthly income of %s, and I want to save %s in %d months. "+
			"Based on my %s spending, suggest ways to save.",
		a.money(income), a.money(goal), months, a.FormatSummary(previous))

	text, err := a.complete(ctx, "saving tips", savingSystemPrompt, prompt)
	if err != nil {
		return SavingPlan{}, err
	}

	plan := GoalBreakdown(income, goal, months)
	plan.Text = text
	return plan, nil
}

// ValidateGoal checks the saving-goal inputs.
func ValidateGoal(income, goal float64, months int) error {
	switch {
	case !positive(income):
		return common.NewValidationError("income", "must be greater than zero")
	case !positive(goal):
		return common.NewValidationError("goal", "must be greater than zero")
	case months <= 0:
		return common.NewValidationError("months", "must be at least one")
	}
	return nil
}

// GoalBreakdown derives the monthly savings figures for a goal without
// consulting the service.
func GoalBreakdown(income, goal float64, months int) SavingPlan {
	monthly := goal / float64(months)
	remaining := income - monthly

	return SavingPlan{
		Breakdown: []model.ChartSlice{
			{Label: "Monthly Income", Amount: income},
			{Label: "Savings Goal", Amount: monthly},
			{Label: "Remaining Budget", Amount: remaining},
		},
		Allocation: []model.ChartSlice{
			{Label: "Savings", Amount: monthly},
			{Label: "Remaining Budget", Amount: remaining},
		},
	}
}

// FormatSummary renders a category summary for embedding in a prompt, in
// enumeration order.
func (a *Advisor) FormatSummary(summary model.CategorySummary) string {
	if len(summary) == 0 {
		return "no recorded"
	}

	parts := make([]string, 0, len(summary))
	for _, slice := range summary.Slices() {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(slice.Label), a.money(slice.Amount)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (a *Advisor) money(v float64) string {
	return a.currency + strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *Advisor) complete(ctx context.Context, op, system, prompt string) (string, error) {
	text, err := a.client.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{llm.System(system), llm.User(prompt)},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		a.logger.Error("Advisor request failed", "op", op, "error", err)
		return "", &common.ServiceError{Op: op, Err: err}
	}
	return text, nil
}

func positive(v float64) bool {
	return model.Finite(v) && v > 0
}
