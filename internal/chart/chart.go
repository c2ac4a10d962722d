// Package chart renders category amounts as terminal charts.
package chart

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// DefaultWidth is the bar width used when a chart is given no width.
const DefaultWidth = 30

var palette = []lipgloss.Color{
	"#4ECDC4",
	"#FFB347",
	"#FF6B6B",
	"#95E1D3",
	"#F9F95D",
	"#8B7EC8",
	"#4385BE",
	"#879A39",
	"#DA702C",
	"#D14D41",
	"#CE5D97",
	"#6F6E69",
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#575653"))
)

// Share is one slice with its fraction of the positive total.
type Share struct {
	model.ChartSlice
	Fraction float64
}

// Shares computes each slice's fraction of the sum of positive amounts.
// Non-positive amounts get a zero fraction.
func Shares(slices []model.ChartSlice) []Share {
	var total float64
	for _, s := range slices {
		if s.Amount > 0 {
			total += s.Amount
		}
	}

	out := make([]Share, len(slices))
	for i, s := range slices {
		out[i] = Share{ChartSlice: s}
		if total > 0 && s.Amount > 0 {
			out[i].Fraction = s.Amount / total
		}
	}
	return out
}

// Options controls chart rendering.
type Options struct {
	Currency string
	Width    int
}

func (o Options) width() int {
	if o.Width <= 0 {
		return DefaultWidth
	}
	return o.Width
}

// RenderShares draws each slice as a bar sized by its share of the total,
// the terminal stand-in for a pie chart.
func RenderShares(title string, slices []model.ChartSlice, opts Options) string {
	if len(slices) == 0 {
		return ""
	}

	shares := Shares(slices)
	labelW := labelWidth(slices)
	width := opts.width()

	var b strings.Builder
	writeTitle(&b, title)
	for i, s := range shares {
		filled := int(s.Fraction*float64(width) + 0.5)
		b.WriteString(row(i, s.Label, labelW, filled, width))
		fmt.Fprintf(&b, " %5.1f%%  %s\n", s.Fraction*100, dimStyle.Render(money(opts.Currency, s.Amount)))
	}
	return b.String()
}

// RenderBars draws each slice as a bar scaled to the largest amount, the
// terminal stand-in for a bar chart.
func RenderBars(title string, slices []model.ChartSlice, opts Options) string {
	if len(slices) == 0 {
		return ""
	}

	var peak float64
	for _, s := range slices {
		if s.Amount > peak {
			peak = s.Amount
		}
	}
	labelW := labelWidth(slices)
	width := opts.width()

	var b strings.Builder
	writeTitle(&b, title)
	for i, s := range slices {
		filled := 0
		if peak > 0 && s.Amount > 0 {
			filled = int(s.Amount/peak*float64(width) + 0.5)
		}
		b.WriteString(row(i, s.Label, labelW, filled, width))
		fmt.Fprintf(&b, " %s\n", money(opts.Currency, s.Amount))
	}
	return b.String()
}

func writeTitle(b *strings.Builder, title string) {
	if title == "" {
		return
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
}

func row(i int, label string, labelW, filled, width int) string {
	if filled > width {
		filled = width
	}
	color := palette[i%len(palette)]
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%-*s %s", labelW, label, bar)
}

func labelWidth(slices []model.ChartSlice) int {
	w := 0
	for _, s := range slices {
		if n := lipgloss.Width(s.Label); n > w {
			w = n
		}
	}
	return w
}

func money(currency string, v float64) string {
	return fmt.Sprintf("%s%.2f", currency, v)
}
