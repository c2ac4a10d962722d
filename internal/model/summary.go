package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a month in YYYY-MM form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month format %q (use YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// String formats the month as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Contains reports whether t falls inside the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// Previous returns the month before ym.
func (ym YearMonth) Previous() YearMonth {
	first := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(first.AddDate(0, -1, 0))
}

// CategorySummary maps a category to the summed amount of its expenses.
type CategorySummary map[Category]float64

// Total sums every category in the summary.
func (s CategorySummary) Total() float64 {
	var total float64
	for _, amount := range s {
		total += amount
	}
	return total
}

// Slices returns the summary as chart slices in enumeration order.
func (s CategorySummary) Slices() []ChartSlice {
	cats := make([]Category, 0, len(s))
	for c := range s {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		return cats[i].Index() < cats[j].Index()
	})

	slices := make([]ChartSlice, 0, len(cats))
	for _, c := range cats {
		slices = append(slices, ChartSlice{Label: string(c), Amount: s[c]})
	}
	return slices
}

// ChartSlice is one labelled amount in a rendered chart.
type ChartSlice struct {
	Label  string
	Amount float64
}
