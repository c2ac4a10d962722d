package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// RunPending runs fn in its own goroutine while a spinner with description
// is shown on w. It always waits for fn and returns fn's result, so work that
// finishes after ctx is canceled is still reported. fn must honor ctx.
func RunPending[T any](ctx context.Context, w io.Writer, description string, fn func(context.Context) (T, error)) (T, error) {
	if w == nil {
		w = os.Stderr
	}

	type result struct {
		err   error
		value T
	}
	done := make(chan result, 1)

	go func() {
		value, err := fn(ctx)
		done <- result{value: value, err: err}
	}()

	spinner := NewSpinner(w, description)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	defer func() {
		if err := spinner.Clear(); err != nil {
			slog.Debug("Failed to clear spinner", "error", err)
		}
	}()

	for {
		select {
		case r := <-done:
			return r.value, r.err
		case <-ticker.C:
			if err := spinner.Add(1); err != nil {
				slog.Debug("Failed to update spinner", "error", err)
			}
		}
	}
}

// NewSpinner returns an indeterminate progress bar.
func NewSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

// NewProgressBar returns a counted progress bar for total items.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
