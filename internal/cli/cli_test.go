package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPending(t *testing.T) {
	t.Run("returns value", func(t *testing.T) {
		got, err := RunPending(context.Background(), io.Discard, "Thinking", func(context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "done", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "done", got)
	})

	t.Run("returns error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := RunPending(context.Background(), io.Discard, "Thinking", func(context.Context) (int, error) {
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var finished atomic.Bool

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := RunPending(ctx, io.Discard, "Thinking", func(ctx context.Context) (int, error) {
			<-ctx.Done()
			finished.Store(true)
			return 0, ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, finished.Load())
	})

	t.Run("work completed after cancel is reported", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		got, err := RunPending(ctx, io.Discard, "Saving", func(context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "saved", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "saved", got)
	})
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		currency string
		want     string
		amount   float64
	}{
		{currency: "RM", amount: 50, want: "RM50"},
		{currency: "RM", amount: 12.5, want: "RM12.50"},
		{currency: "$", amount: 0.126, want: "$0.13"},
		{currency: "$", amount: 0.125, want: "$0.12"},
		{currency: "", amount: 1950, want: "1950"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.currency, tt.amount))
		})
	}
}

func TestTable_Render(t *testing.T) {
	assert.Empty(t, Table{}.Render())

	records := []model.ExpenseRecord{
		model.NewExpenseRecord(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "nasi lemak", 50, model.CategoryFood),
		model.NewExpenseRecord(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "rent", 1200, model.CategoryHousing),
	}
	out := ExpenseTable("Expenses for 2024-01", "RM", records).Render()

	assert.Contains(t, out, "Expenses for 2024-01")
	assert.Contains(t, out, "nasi lemak")
	assert.Contains(t, out, "RM1200")
	assert.Contains(t, out, "Housing")

	// Title, top rule, header, separator, two rows, bottom rule.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 7)
}

func TestSummaryTable(t *testing.T) {
	table := SummaryTable("", "RM", model.CategorySummary{
		model.CategoryFood:    80,
		model.CategoryHousing: 100,
	})

	assert.Equal(t, [][]string{
		{"Housing", "RM100"},
		{"Food", "RM80"},
		{"Total", "RM180"},
	}, table.Rows)
}
