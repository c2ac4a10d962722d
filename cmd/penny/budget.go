package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/pennywise/internal/advisor"
	"github.com/Veraticus/pennywise/internal/chart"
	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Suggest a budget from a month of spending",
		Long: `Ask the language model for a budget allocation based on your monthly income
and the expenses recorded in a month.

Example:
  penny budget --income 5000 --month 2024-01`,
		RunE: runBudget,
	}

	cmd.Flags().Float64("income", 0, "Monthly income")
	cmd.Flags().String("month", "", "Month of expenses to base the budget on (YYYY-MM, default current month)")

	return cmd
}

func runBudget(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	income, _ := cmd.Flags().GetFloat64("income")
	monthValue, _ := cmd.Flags().GetString("month")

	ym, err := monthFlag(monthValue)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := cli.RunPending(ctx, cmd.ErrOrStderr(), "Generating budget...",
		func(ctx context.Context) (advisor.BudgetPlan, error) {
			return a.session.Budget(ctx, income, ym)
		})
	if err != nil {
		return err
	}

	printLine(out, "Here is your suggested budget:")
	printLine(out, "")
	printLine(out, chart.RenderShares("Suggested Budget Allocation", plan.Allocation, chart.Options{Currency: a.currency}))
	printLine(out, "")
	printLine(out, plan.Text)
	return nil
}

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Get saving strategies for a goal",
		Long: `Ask the language model how to reach a savings goal within a time frame,
using your recorded spending as context.

Example:
  penny goals --income 5000 --goal 6000 --months 12`,
		RunE: runGoals,
	}

	cmd.Flags().Float64("income", 0, "Monthly income")
	cmd.Flags().Float64("goal", 0, "Savings goal")
	cmd.Flags().Int("months", 1, "Time frame in months")

	return cmd
}

func runGoals(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	income, _ := cmd.Flags().GetFloat64("income")
	goal, _ := cmd.Flags().GetFloat64("goal")
	months, _ := cmd.Flags().GetInt("months")

	if err := advisor.ValidateGoal(income, goal, months); err != nil {
		return err
	}

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := cli.RunPending(ctx, cmd.ErrOrStderr(), "Generating saving strategies...",
		func(ctx context.Context) (advisor.SavingPlan, error) {
			return a.session.SavingTips(ctx, income, goal, months)
		})
	if err != nil {
		return err
	}

	opts := chart.Options{Currency: a.currency}
	printLine(out, cli.RenderBox("Savings Strategies", plan.Text))
	printLine(out, "")
	printLine(out, chart.RenderBars("Savings Goal Visualization", plan.Breakdown, opts))
	printLine(out, "")
	printLine(out, chart.RenderShares("Budget Allocation", plan.Allocation, opts))
	printLine(out, "")
	printLine(out, cli.FormatInfo(fmt.Sprintf("Save %s a month to reach %s in %d months.",
		cli.FormatMoney(a.currency, goal/float64(months)),
		cli.FormatMoney(a.currency, goal),
		months)))
	return nil
}
