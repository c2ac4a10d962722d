package api

import (
	"strconv"
	"strings"

	"github.com/Veraticus/pennywise/internal/aggregate"
	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/finance"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/gofiber/fiber/v2"
)

// GET /api/months
func (s *Server) listMonths(c *fiber.Ctx) error {
	months := s.session.Months()
	out := make([]string, 0, len(months))
	for _, ym := range months {
		out = append(out, ym.String())
	}
	return c.JSON(out)
}

// GET /api/expenses?month=YYYY-MM
func (s *Server) listExpenses(c *fiber.Ctx) error {
	ym, ok, err := monthQuery(c)
	if err != nil {
		return err
	}

	records := s.session.Records()
	if ok {
		records = s.session.Month(ym).Records
	}
	return c.JSON(newExpenseResponses(records))
}

// POST /api/expenses
func (s *Server) addExpense(c *fiber.Ctx) error {
	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	in := finance.ExpenseInput{
		Description: body.Description,
		Amount:      body.Amount,
	}
	if strings.TrimSpace(body.Date) != "" {
		date, err := model.ParseDate(strings.TrimSpace(body.Date))
		if err != nil {
			return common.NewValidationError("date", err.Error())
		}
		in.Date = date
	}

	rec, err := s.session.AddExpense(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newExpenseResponse(rec))
}

// GET /api/summary?month=YYYY-MM
func (s *Server) summary(c *fiber.Ctx) error {
	ym, ok, err := monthQuery(c)
	if err != nil {
		return err
	}

	resp := summaryResponse{Currency: s.currency}
	var summary model.CategorySummary
	if ok {
		view := s.session.Month(ym)
		resp.Month = ym.String()
		summary = view.Summary
	} else {
		summary = aggregate.Summarize(s.session.Records())
	}

	resp.Categories = newSlices(summary.Slices())
	resp.Total = summary.Total()
	return c.JSON(resp)
}

// GET /api/total?income=N
func (s *Server) total(c *fiber.Ctx) error {
	income, err := floatQuery(c, "income")
	if err != nil {
		return err
	}

	check, err := s.session.CheckIncome(income)
	if err != nil {
		return err
	}
	return c.JSON(check)
}

// POST /api/budget
func (s *Server) budget(c *fiber.Ctx) error {
	var body budgetRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ym, err := model.ParseYearMonth(body.Month)
	if err != nil {
		return common.NewValidationError("month", err.Error())
	}

	plan, err := s.session.Budget(c.UserContext(), body.Income, ym)
	if err != nil {
		return err
	}
	return c.JSON(budgetResponse{
		Advice:     plan.Text,
		Allocation: newSlices(plan.Allocation),
	})
}

// POST /api/goals
func (s *Server) goals(c *fiber.Ctx) error {
	var body goalRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	plan, err := s.session.SavingTips(c.UserContext(), body.Income, body.Goal, body.Months)
	if err != nil {
		return err
	}
	return c.JSON(goalResponse{
		Tips:       plan.Text,
		Breakdown:  newSlices(plan.Breakdown),
		Allocation: newSlices(plan.Allocation),
	})
}

// monthQuery reads the optional month parameter. ok is false when absent.
func monthQuery(c *fiber.Ctx) (model.YearMonth, bool, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return model.YearMonth{}, false, nil
	}
	ym, err := model.ParseYearMonth(raw)
	if err != nil {
		return model.YearMonth{}, false, common.NewValidationError("month", err.Error())
	}
	return ym, true, nil
}

func floatQuery(c *fiber.Ctx, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, common.NewValidationError(name, "is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !model.Finite(v) {
		return 0, common.NewValidationError(name, "must be a number")
	}
	return v, nil
}
