package cli

import (
	"strings"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Table is a bordered text table. Columns listed in RightAlign are right
// aligned, the rest left aligned.
type Table struct {
	Title      string
	Headers    []string
	Rows       [][]string
	RightAlign []int
}

// Render draws the table. An empty table renders as an empty string.
func (t Table) Render() string {
	numCols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	measure := func(cells []string) {
		for i, cell := range cells {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return TableBorderStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	bar := TableBorderStyle.Render("│")
	right := make(map[int]bool, len(t.RightAlign))
	for _, i := range t.RightAlign {
		right[i] = true
	}

	line := func(cells []string, header bool) string {
		var b strings.Builder
		b.WriteString(bar)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			var padded string
			if header || !right[i] {
				padded = " " + cell + pad + " "
			} else {
				padded = " " + pad + cell + " "
			}
			if header {
				padded = TableHeaderStyle.Render(padded)
			}
			b.WriteString(padded)
			b.WriteString(bar)
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(BoldStyle.Render(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, true))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		b.WriteString(line(row, false))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// ExpenseTable builds the table for a list of expenses.
func ExpenseTable(title, currency string, records []model.ExpenseRecord) Table {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Date.Format(model.DateLayout),
			rec.Description,
			FormatMoney(currency, rec.Amount),
			string(rec.Category),
		})
	}
	return Table{
		Title:      title,
		Headers:    []string{"Date", "Description", "Amount", "Category"},
		Rows:       rows,
		RightAlign: []int{2},
	}
}

// SummaryTable builds a per-category totals table with a trailing total row.
func SummaryTable(title, currency string, summary model.CategorySummary) Table {
	slices := summary.Slices()
	rows := make([][]string, 0, len(slices)+1)
	for _, s := range slices {
		rows = append(rows, []string{s.Label, FormatMoney(currency, s.Amount)})
	}
	rows = append(rows, []string{"Total", FormatMoney(currency, summary.Total())})
	return Table{
		Title:      title,
		Headers:    []string{"Category", "Amount"},
		Rows:       rows,
		RightAlign: []int{1},
	}
}
