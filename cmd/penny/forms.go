package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/finance"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/charmbracelet/huh"
)

// promptExpense asks for the expense fields interactively.
func promptExpense(ctx context.Context, currency string) (finance.ExpenseInput, error) {
	date := time.Now().Format(model.DateLayout)
	var description, amount string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date of Expense").
				Description("YYYY-MM-DD").
				Value(&date).
				Validate(validateDate),
			huh.NewInput().
				Title("Enter a brief description of the expense:").
				Value(&description).
				Validate(validateRequired),
			huh.NewInput().
				Title(fmt.Sprintf("Enter the expense amount (%s):", currency)).
				Value(&amount).
				Validate(validatePositive),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return finance.ExpenseInput{}, fmt.Errorf("expense entry canceled")
		}
		return finance.ExpenseInput{}, fmt.Errorf("expense form failed: %w", err)
	}

	return parseExpenseInput(date, description, amount)
}

// parseExpenseInput converts raw field values into an ExpenseInput.
func parseExpenseInput(date, description, amount string) (finance.ExpenseInput, error) {
	in := finance.ExpenseInput{Description: description}

	if strings.TrimSpace(date) != "" {
		d, err := model.ParseDate(strings.TrimSpace(date))
		if err != nil {
			return in, err
		}
		in.Date = d
	}

	if strings.TrimSpace(amount) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return in, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		in.Amount = v
	}

	return in, nil
}

func validateDate(s string) error {
	_, err := model.ParseDate(strings.TrimSpace(s))
	return err
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validatePositive(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if !model.Finite(v) {
		return errors.New("enter a finite number")
	}
	if v <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}
