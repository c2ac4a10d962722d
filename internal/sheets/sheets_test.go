package sheets

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/sheets/v4"
)

type update struct {
	rng    string
	values [][]any
}

type fakeAPI struct {
	getErr      error
	formatErr   error
	updateErrs  []error
	created     *sheets.Spreadsheet
	updates     []update
	cleared     []string
	formatCalls int
	mu          sync.Mutex
}

func (f *fakeAPI) Get(context.Context, string) error { return f.getErr }

func (f *fakeAPI) Create(_ context.Context, s *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = s
	return &sheets.Spreadsheet{SpreadsheetId: "new-id", SpreadsheetUrl: "https://example.invalid/new-id"}, nil
}

func (f *fakeAPI) Clear(_ context.Context, _ string, rng string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, rng)
	return nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.updates = append(f.updates, update{rng: rng, values: values})
	return nil
}

func (f *fakeAPI) BatchUpdate(context.Context, string, []*sheets.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formatCalls++
	return f.formatErr
}

func testReport() Report {
	jan := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	records := []model.ExpenseRecord{
		model.NewExpenseRecord(jan(5), "nasi lemak", 50, model.CategoryFood),
		model.NewExpenseRecord(jan(20), "rent", 900, model.CategoryHousing),
	}
	return Report{
		Month:   model.YearMonth{Year: 2024, Month: time.January},
		Summary: model.CategorySummary{model.CategoryFood: 50, model.CategoryHousing: 900},
		Records: records,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ServiceAccountPath = "/path/to/key.json"
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestReport_Values(t *testing.T) {
	values := testReport().Values()

	assert.Equal(t, []any{"Expense Report", "2024-01"}, values[0])
	assert.Equal(t, []any{"Total Amount", 950.0}, values[3])
	assert.Equal(t, []any{"Total Expenses", 2}, values[4])
	assert.Equal(t, []any{"Housing", 900.0}, values[7])
	assert.Equal(t, []any{"Food", 50.0}, values[8])
	assert.Equal(t, []any{"Date", "Description", "Amount", "Category"}, values[10])
	assert.Equal(t, []any{"2024-01-05", "nasi lemak", 50.0, "Food"}, values[11])
	assert.Len(t, values, 13)
}

func TestWriter_CreatesSpreadsheet(t *testing.T) {
	api := &fakeAPI{}
	w := newWriter(api, testConfig(), nil)

	id, err := w.Write(context.Background(), testReport())
	require.NoError(t, err)

	assert.Equal(t, "new-id", id)
	require.NotNil(t, api.created)
	assert.Equal(t, "Pennywise Expenses", api.created.Properties.Title)
	assert.Equal(t, []string{"A:Z"}, api.cleared)
	require.Len(t, api.updates, 1)
	assert.Equal(t, "A1", api.updates[0].rng)
	assert.Equal(t, 1, api.formatCalls)
}

func TestWriter_Batches(t *testing.T) {
	api := &fakeAPI{}
	cfg := testConfig()
	cfg.SpreadsheetID = "existing"
	cfg.BatchSize = 5
	cfg.EnableFormatting = false
	w := newWriter(api, cfg, nil)

	id, err := w.Write(context.Background(), testReport())
	require.NoError(t, err)

	assert.Equal(t, "existing", id)
	assert.Nil(t, api.created)
	require.Len(t, api.updates, 3)
	assert.Equal(t, "A1", api.updates[0].rng)
	assert.Equal(t, "A6", api.updates[1].rng)
	assert.Equal(t, "A11", api.updates[2].rng)
	assert.Len(t, api.updates[2].values, 3)
	assert.Equal(t, 0, api.formatCalls)
}

func TestWriter_RetriesWrites(t *testing.T) {
	api := &fakeAPI{updateErrs: []error{errors.New("503")}}
	w := newWriter(api, testConfig(), nil)

	_, err := w.Write(context.Background(), testReport())
	require.NoError(t, err)
	assert.Len(t, api.updates, 1)
}

func TestWriter_Failures(t *testing.T) {
	t.Run("inaccessible spreadsheet", func(t *testing.T) {
		cfg := testConfig()
		cfg.SpreadsheetID = "missing"
		w := newWriter(&fakeAPI{getErr: errors.New("404")}, cfg, nil)

		_, err := w.Write(context.Background(), testReport())
		assert.ErrorContains(t, err, "unable to access spreadsheet missing")
	})

	t.Run("formatting failure is not fatal", func(t *testing.T) {
		cfg := testConfig()
		cfg.RetryAttempts = 1
		w := newWriter(&fakeAPI{formatErr: errors.New("bad request")}, cfg, nil)

		_, err := w.Write(context.Background(), testReport())
		assert.NoError(t, err)
	})

	t.Run("writes exhaust retries", func(t *testing.T) {
		cfg := testConfig()
		cfg.RetryAttempts = 2
		boom := errors.New("boom")
		w := newWriter(&fakeAPI{updateErrs: []error{boom, boom}}, cfg, nil)

		_, err := w.Write(context.Background(), testReport())
		assert.ErrorIs(t, err, common.ErrMaxRetries)
		assert.ErrorIs(t, err, boom)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		wantErr error
		mutate  func(*Config)
		name    string
	}{
		{name: "service account", mutate: func(c *Config) { c.ServiceAccountPath = "/key.json" }},
		{
			name: "oauth",
			mutate: func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
			},
		},
		{name: "no auth", mutate: func(*Config) {}, wantErr: common.ErrMissingConfig},
		{
			name: "partial oauth",
			mutate: func(c *Config) {
				c.ClientID, c.RefreshToken = "id", "token"
			},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "both methods",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/key.json"
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "zero batch size",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/key.json"
				c.BatchSize = 0
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "negative retry delay",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/key.json"
				c.RetryDelay = -time.Second
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	require.NoError(t, saveToken(path, &oauth2.Token{RefreshToken: "refresh-me", TokenType: "Bearer"}))

	token, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh-me", token.RefreshToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
