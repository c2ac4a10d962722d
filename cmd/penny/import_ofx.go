package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/Veraticus/pennywise/internal/finance"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX statements",
		Long: `Import debits from OFX or QFX statements exported from your bank. Each new
debit is categorized and added to your expense log; debits already recorded
are skipped.

Examples:
  # Import a single statement
  penny import-ofx ~/Downloads/maybank_jan_2024.ofx

  # Import every statement in a directory
  penny import-ofx ~/Downloads/*.qfx

  # Preview without categorizing or saving
  penny import-ofx --dry-run ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, !dryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	parser := ofx.NewParser(slog.Default())
	var candidates []ofx.Candidate
	for _, path := range files {
		parsed, err := parseStatement(cmd, parser, path)
		if err != nil {
			printLine(cmd.ErrOrStderr(), cli.FormatError(fmt.Sprintf("%s: %v", filepath.Base(path), err)))
			continue
		}
		candidates = append(candidates, parsed...)
	}

	fresh := ofx.Unrecorded(candidates, a.session.Records())
	printLine(out, cli.FormatInfo(fmt.Sprintf("Found %d debits, %d not yet recorded", len(candidates), len(fresh))))
	if len(fresh) == 0 {
		return nil
	}

	if dryRun {
		printLine(out, cli.ExpenseTable("Would import:", a.currency, previewRecords(fresh)).Render())
		printLine(out, cli.FormatInfo("Dry run complete - no data saved"))
		return nil
	}

	var saved atomic.Int64
	handler := cli.NewInterruptHandler(out, "Import", func() string {
		return fmt.Sprintf("%d of %d expenses saved", saved.Load(), len(fresh))
	})
	ctx, stop := handler.Watch(ctx)
	defer stop()

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(fresh), "Categorizing")
	for _, c := range fresh {
		if ctx.Err() != nil {
			break
		}

		_, err := a.session.AddExpense(ctx, finance.ExpenseInput{
			Date:        c.Date,
			Description: c.Description,
			Amount:      c.Amount,
		})
		if err != nil {
			if handler.WasInterrupted() {
				break
			}
			return fmt.Errorf("import stopped after %d expenses: %w", saved.Load(), err)
		}

		saved.Add(1)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if handler.WasInterrupted() {
		return nil
	}

	printLine(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses", saved.Load())))
	return nil
}

// expandFiles resolves glob patterns to the files they match.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, path string) ([]ofx.Candidate, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parser.Parse(cmd.Context(), f)
}

// previewRecords shows candidates as uncategorized expenses.
func previewRecords(candidates []ofx.Candidate) []model.ExpenseRecord {
	records := make([]model.ExpenseRecord, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, model.NewExpenseRecord(c.Date, c.Description, c.Amount, "-"))
	}
	return records
}
