package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/pennywise/internal/chart"
	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/Veraticus/pennywise/internal/finance"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/spf13/cobra"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and review expenses",
	}

	cmd.AddCommand(expenseAddCmd())
	cmd.AddCommand(expenseListCmd())
	cmd.AddCommand(expenseMonthsCmd())

	return cmd
}

func expenseAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Categorize and add an expense",
		Long: `Categorize an expense with the language model and append it to your expense log.

Without --description and --amount a form asks for the details.

Examples:
  penny expense add --description "nasi lemak" --amount 12.50
  penny expense add --date 2024-01-05 --description "TNB bill" --amount 180`,
		RunE: runExpenseAdd,
	}

	cmd.Flags().String("date", "", "Date of the expense (YYYY-MM-DD, default today)")
	cmd.Flags().String("description", "", "Brief description of the expense")
	cmd.Flags().String("amount", "", "Expense amount")

	return cmd
}

func runExpenseAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var in finance.ExpenseInput
	if cmd.Flags().Changed("description") || cmd.Flags().Changed("amount") {
		date, _ := cmd.Flags().GetString("date")
		description, _ := cmd.Flags().GetString("description")
		amount, _ := cmd.Flags().GetString("amount")
		in, err = parseExpenseInput(date, description, amount)
	} else {
		in, err = promptExpense(ctx, a.currency)
	}
	if err != nil {
		return err
	}

	rec, err := cli.RunPending(ctx, cmd.ErrOrStderr(), "Categorizing expense...",
		func(ctx context.Context) (model.ExpenseRecord, error) {
			return a.session.AddExpense(ctx, in)
		})
	if err != nil {
		return err
	}

	printLine(out, cli.FormatSuccess(fmt.Sprintf("Expense categorized as %s and added!", rec.Category)))
	return nil
}

func expenseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the expenses of a month",
		Long: `Show the expenses of a month with a chart of spending by category.

With --income the total of all recorded expenses is compared with your income.`,
		RunE: runExpenseList,
	}

	cmd.Flags().String("month", "", "Month to view (YYYY-MM, default current month)")
	cmd.Flags().Float64("income", 0, "Monthly income to check spending against")

	return cmd
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	monthValue, _ := cmd.Flags().GetString("month")
	income, _ := cmd.Flags().GetFloat64("income")

	ym, err := monthFlag(monthValue)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	view := a.session.Month(ym)
	if len(view.Records) == 0 {
		printLine(out, cli.FormatWarning(fmt.Sprintf("No expenses recorded for %s", ym)))
	} else {
		printLine(out, cli.ExpenseTable(fmt.Sprintf("Expenses for %s:", ym), a.currency, view.Records).Render())
		printLine(out, "")
		printLine(out, chart.RenderShares("Expenses by Category", view.Summary.Slices(), chart.Options{Currency: a.currency}))
	}

	if cmd.Flags().Changed("income") {
		check, err := a.session.CheckIncome(income)
		if err != nil {
			return err
		}
		printLine(out, "")
		printLine(out, incomeCheckMessage(check, a.currency))
	}

	return nil
}

func incomeCheckMessage(check finance.IncomeCheck, currency string) string {
	total := cli.FormatMoney(currency, check.Total)
	income := cli.FormatMoney(currency, check.Income)
	if check.Exceeded {
		return cli.FormatWarning(fmt.Sprintf("Your total expenses (%s) have exceeded your income (%s)!", total, income))
	}
	return cli.FormatSuccess(fmt.Sprintf("Your total expenses (%s) are within your income (%s).", total, income))
}

func expenseMonthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the months that have expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			months := a.session.Months()
			if len(months) == 0 {
				printLine(cmd.OutOrStdout(), cli.FormatInfo("No expenses recorded yet"))
				return nil
			}
			for _, ym := range months {
				printLine(cmd.OutOrStdout(), ym.String())
			}
			return nil
		},
	}
}
