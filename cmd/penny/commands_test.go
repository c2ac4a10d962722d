package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/config"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/storage"
	"github.com/Veraticus/pennywise/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>MYR
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>SHOPEE MY
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

// setupCommandTest points storage at a temp file and replaces the
// completion service with client. It returns the expense file path.
func setupCommandTest(t *testing.T, client *llm.MockClient) string {
	t.Helper()

	viper.Reset()
	config.SetDefaults(viper.GetViper())
	path := filepath.Join(t.TempDir(), "expenses_data.csv")
	viper.Set("storage.path", path)

	original := newCompletionService
	newCompletionService = func() (completionService, error) {
		return client, nil
	}

	t.Cleanup(func() {
		newCompletionService = original
		viper.Reset()
	})

	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	// A nil slice makes cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func storedRecords(t *testing.T, path string) []model.ExpenseRecord {
	t.Helper()
	return testutil.LoadRecords(t, storage.BackendCSV, path)
}

func TestExpenseCommands(t *testing.T) {
	client := llm.NewMockClient("Food", "Utilities")
	path := setupCommandTest(t, client)

	out, err := execute(t, expenseCmd(), "add", "--date", "2024-01-05", "--description", "nasi lemak", "--amount", "12.50")
	require.NoError(t, err)
	assert.Contains(t, out, "Expense categorized as Food and added!")

	_, err = execute(t, expenseCmd(), "add", "--date", "2024-02-01", "--description", "TNB bill", "--amount", "180")
	require.NoError(t, err)

	records := storedRecords(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, model.CategoryUtilities, records[1].Category)

	t.Run("list month with income check", func(t *testing.T) {
		out, err := execute(t, expenseCmd(), "list", "--month", "2024-01", "--income", "100")
		require.NoError(t, err)
		assert.Contains(t, out, "Expenses for 2024-01:")
		assert.Contains(t, out, "nasi lemak")
		assert.NotContains(t, out, "TNB bill")
		assert.Contains(t, out, "Expenses by Category")
		assert.Contains(t, out, "Your total expenses (RM192.50) have exceeded your income (RM100)!")
	})

	t.Run("list empty month", func(t *testing.T) {
		out, err := execute(t, expenseCmd(), "list", "--month", "2023-12")
		require.NoError(t, err)
		assert.Contains(t, out, "No expenses recorded for 2023-12")
	})

	t.Run("months", func(t *testing.T) {
		out, err := execute(t, expenseCmd(), "months")
		require.NoError(t, err)
		assert.Equal(t, "2024-01\n2024-02\n", out)
	})
}

func TestExpenseListSQLite(t *testing.T) {
	setupCommandTest(t, llm.NewMockClient())

	records := testutil.NewBuilder(t).WithFixture(testutil.FixtureTwoMonths).Build()
	store, path := testutil.SetupStore(t, storage.BackendSQLite, records...)
	require.NoError(t, store.Close())
	viper.Set("storage.backend", storage.BackendSQLite)
	viper.Set("storage.path", path)

	out, err := execute(t, expenseCmd(), "list", "--month", "2024-02")
	require.NoError(t, err)
	assert.Contains(t, out, "movie")
	assert.NotContains(t, out, "nasi lemak")

	out, err = execute(t, expenseCmd(), "months")
	require.NoError(t, err)
	assert.Equal(t, "2024-01\n2024-02\n", out)
}

func TestExpenseAddValidation(t *testing.T) {
	for _, amount := range []string{"0", "-4", "NaN", "Inf", "-Inf"} {
		t.Run(amount, func(t *testing.T) {
			client := llm.NewMockClient("Food")
			path := setupCommandTest(t, client)

			_, err := execute(t, expenseCmd(), "add", "--description", "lunch", "--amount="+amount)
			require.Error(t, err)
			assert.True(t, common.IsValidation(err))
			assert.Zero(t, client.CallCount())
			assert.Empty(t, storedRecords(t, path))
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "12.50"},
		{input: " 3 "},
		{input: "0", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "+Inf", wantErr: true},
		{input: "twelve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validatePositive(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBudgetCommand(t *testing.T) {
	client := llm.NewMockClient("Housing", "Put 20% into savings.")
	setupCommandTest(t, client)

	_, err := execute(t, expenseCmd(), "add", "--date", "2024-01-01", "--description", "rent", "--amount", "1200")
	require.NoError(t, err)

	t.Run("month without expenses", func(t *testing.T) {
		_, err := execute(t, budgetCmd(), "--income", "5000", "--month", "2023-01")
		assert.True(t, common.IsValidation(err))
		assert.Equal(t, 1, client.CallCount())
	})

	t.Run("advice and placeholder chart", func(t *testing.T) {
		out, err := execute(t, budgetCmd(), "--income", "5000", "--month", "2024-01")
		require.NoError(t, err)
		assert.Contains(t, out, "Here is your suggested budget:")
		assert.Contains(t, out, "Suggested Budget Allocation")
		assert.Contains(t, out, "Discretionary Spending")
		assert.Contains(t, out, "Put 20% into savings.")
		assert.Contains(t, client.LastPrompt(), "{housing: RM1200}")
	})
}

func TestGoalsCommand(t *testing.T) {
	t.Run("invalid input makes no request", func(t *testing.T) {
		client := llm.NewMockClient("tips")
		setupCommandTest(t, client)

		_, err := execute(t, goalsCmd(), "--income", "5000", "--goal", "0", "--months", "6")
		assert.True(t, common.IsValidation(err))
		assert.Zero(t, client.CallCount())
	})

	t.Run("tips and charts", func(t *testing.T) {
		client := llm.NewMockClient("Cook at home.")
		setupCommandTest(t, client)

		out, err := execute(t, goalsCmd(), "--income", "5000", "--goal", "1200", "--months", "6")
		require.NoError(t, err)
		assert.Contains(t, out, "Cook at home.")
		assert.Contains(t, out, "Savings Goal Visualization")
		assert.Contains(t, out, "Budget Allocation")
		assert.Contains(t, out, "Save RM200 a month to reach RM1200 in 6 months.")
		assert.Contains(t, client.LastPrompt(), "save RM1200 in 6 months")
	})

	t.Run("service failure", func(t *testing.T) {
		client := llm.NewMockClient()
		client.Err = errors.New("unavailable")
		setupCommandTest(t, client)

		_, err := execute(t, goalsCmd(), "--income", "5000", "--goal", "1200", "--months", "6")
		assert.True(t, common.IsService(err))
	})
}

func TestImportOFXCommand(t *testing.T) {
	client := llm.NewMockClient("Personal Spending", "Entertainment")
	path := setupCommandTest(t, client)

	statement := filepath.Join(t.TempDir(), "statement.ofx")
	require.NoError(t, os.WriteFile(statement, []byte(statementOFX), 0600))

	t.Run("dry run saves nothing", func(t *testing.T) {
		out, err := execute(t, importOFXCmd(), "--dry-run", statement)
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 debits, 2 not yet recorded")
		assert.Contains(t, out, "SHOPEE MY")
		assert.Contains(t, out, "Dry run complete")
		assert.Zero(t, client.CallCount())
		assert.Empty(t, storedRecords(t, path))
	})

	t.Run("import categorizes each debit", func(t *testing.T) {
		out, err := execute(t, importOFXCmd(), statement)
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 2 expenses")

		records := storedRecords(t, path)
		require.Len(t, records, 2)
		assert.Equal(t, "SHOPEE MY", records[0].Description)
		assert.Equal(t, model.CategoryPersonalSpending, records[0].Category)
		assert.Equal(t, model.CategoryEntertainment, records[1].Category)
	})

	t.Run("second import skips recorded debits", func(t *testing.T) {
		out, err := execute(t, importOFXCmd(), statement)
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 debits, 0 not yet recorded")
		assert.Len(t, storedRecords(t, path), 2)
	})

	t.Run("no matching files", func(t *testing.T) {
		_, err := execute(t, importOFXCmd(), filepath.Join(t.TempDir(), "*.ofx"))
		assert.ErrorContains(t, err, "no files found")
	})
}

func TestStoryCommand(t *testing.T) {
	client := llm.NewMockClient("The story.", "A cover prompt.")
	client.ImageURL = "https://images.example/cover.png"
	setupCommandTest(t, client)

	out, err := execute(t, storyCmd(), "--topic", "monsoon")
	require.NoError(t, err)
	assert.Contains(t, out, "Cover: https://images.example/cover.png")
	assert.Contains(t, out, "A cover prompt.")
	assert.Contains(t, out, "The story.")

	_, err = execute(t, storyCmd())
	assert.True(t, common.IsValidation(err))
}

func TestChefOnce(t *testing.T) {
	client := llm.NewMockClient("Rinse the rice first.")
	setupCommandTest(t, client)

	out, err := execute(t, chefCmd(), "--once", "Why is my rice mushy?")
	require.NoError(t, err)
	assert.Equal(t, "Rinse the rice first.\n", out)
	assert.Equal(t, "Why is my rice mushy?", client.LastPrompt())
}

func TestCardCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "plain card",
			contains: []string{"A Card For You", "Today is your day", "Goodbye"},
			excludes: []string{cakeImageURL},
		},
		{
			name:     "celebrate",
			args:     []string{"--celebrate"},
			contains: []string{"A Card For You", "Hope you have a great day", cakeImageURL},
			excludes: []string{"Goodbye"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, cardCmd(), tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestParseExpenseInput(t *testing.T) {
	tests := []struct {
		name        string
		date        string
		amount      string
		wantErr     bool
		wantZeroDay bool
	}{
		{name: "all fields", date: "2024-03-01", amount: "12.5"},
		{name: "blank date means today", amount: "3", wantZeroDay: true},
		{name: "bad date", date: "03/01/2024", amount: "3", wantErr: true},
		{name: "bad amount", date: "2024-03-01", amount: "twelve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := parseExpenseInput(tt.date, "coffee", tt.amount)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "coffee", in.Description)
			assert.Equal(t, tt.wantZeroDay, in.Date.IsZero())
		})
	}
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer
	reportError(&out, common.NewValidationError("amount", "must be greater than zero"))

	assert.Equal(t, cli.FormatError("invalid amount: must be greater than zero")+"\n", out.String())
	assert.Contains(t, out.String(), cli.ErrorIcon)
	assert.True(t, rootCmd.SilenceErrors)
}
