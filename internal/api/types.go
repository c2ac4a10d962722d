package api

import (
	"github.com/Veraticus/pennywise/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

type expenseRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type expenseResponse struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
}

type sliceResponse struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type summaryResponse struct {
	Month      string          `json:"month,omitempty"`
	Currency   string          `json:"currency"`
	Categories []sliceResponse `json:"categories"`
	Total      float64         `json:"total"`
}

type budgetRequest struct {
	Month  string  `json:"month"`
	Income float64 `json:"income"`
}

type budgetResponse struct {
	Advice     string          `json:"advice"`
	Allocation []sliceResponse `json:"allocation"`
}

type goalRequest struct {
	Income float64 `json:"income"`
	Goal   float64 `json:"goal"`
	Months int     `json:"months"`
}

type goalResponse struct {
	Tips       string          `json:"tips"`
	Breakdown  []sliceResponse `json:"breakdown"`
	Allocation []sliceResponse `json:"allocation"`
}

func newExpenseResponse(rec model.ExpenseRecord) expenseResponse {
	return expenseResponse{
		Date:        rec.Date.Format(model.DateLayout),
		Description: rec.Description,
		Category:    rec.Category.String(),
		Amount:      rec.Amount,
	}
}

func newExpenseResponses(records []model.ExpenseRecord) []expenseResponse {
	out := make([]expenseResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, newExpenseResponse(rec))
	}
	return out
}

func newSlices(slices []model.ChartSlice) []sliceResponse {
	out := make([]sliceResponse, 0, len(slices))
	for _, s := range slices {
		out = append(out, sliceResponse{Label: s.Label, Amount: s.Amount})
	}
	return out
}
