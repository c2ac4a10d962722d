package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/categorize"
	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/storage"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PENNY_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/expenses.csv", want: filepath.Join(home, "expenses.csv")},
		{in: "$PENNY_TEST_DIR/expenses.csv", want: "/data/expenses.csv"},
		{in: "/abs/path.csv", want: "/abs/path.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadLLMConfig(t *testing.T) {
	t.Run("openai from environment", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-env")
		v := newViper()

		cfg, err := LoadLLMConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "sk-env", cfg.APIKey)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, time.Second, cfg.RetryDelay)
	})

	t.Run("config key wins", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-env")
		v := newViper()
		v.Set("llm.openai_api_key", "sk-config")
		v.Set("llm.model", "gpt-4o")

		cfg, err := LoadLLMConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "sk-config", cfg.APIKey)
		assert.Equal(t, "gpt-4o", cfg.Model)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		_, err := LoadLLMConfig(newViper())
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("anthropic", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "ak")
		v := newViper()
		v.Set("llm.provider", "Anthropic")

		cfg, err := LoadLLMConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "ak", cfg.APIKey)
	})

	t.Run("unknown provider", func(t *testing.T) {
		v := newViper()
		v.Set("llm.provider", "ollama")
		_, err := LoadLLMConfig(v)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadStorageConfig(t *testing.T) {
	cfg, err := LoadStorageConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, storage.BackendCSV, cfg.Backend)
	assert.Equal(t, filepath.Join(DataDir(), "expenses_data.csv"), cfg.Path)

	v := newViper()
	v.Set("storage.backend", "sqlite")
	cfg, err = LoadStorageConfig(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(DataDir(), "expenses.db"), cfg.Path)

	v.Set("storage.path", "/tmp/mine.db")
	cfg, err = LoadStorageConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mine.db", cfg.Path)

	v.Set("storage.backend", "mongo")
	_, err = LoadStorageConfig(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadCategorizerConfig(t *testing.T) {
	v := newViper()
	cfg := LoadCategorizerConfig(v)
	assert.IsType(t, categorize.SubstringPolicy{}, cfg.Policy)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)

	v.Set("categorizer.policy", "strict")
	assert.IsType(t, categorize.StrictPolicy{}, LoadCategorizerConfig(v).Policy)
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}

	t.Run("service account from env", func(t *testing.T) {
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/keys/sa.json")
		v := newViper()
		v.Set("sheets.spreadsheet_name", "Household")

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "Household", cfg.SpreadsheetName)
		assert.Equal(t, `"RM"#,##0.00`, cfg.CurrencyPattern)
	})

	t.Run("refresh token from token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "token.json")
		require.NoError(t, os.WriteFile(tokenFile, []byte(`{"refresh_token":"saved"}`), 0600))

		v := newViper()
		v.Set("sheets.client_id", "id")
		v.Set("sheets.client_secret", "secret")
		v.Set("sheets.token_file", tokenFile)

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "saved", cfg.RefreshToken)
	})

	t.Run("nothing configured", func(t *testing.T) {
		v := newViper()
		v.Set("sheets.token_file", filepath.Join(t.TempDir(), "absent.json"))

		_, err := LoadSheetsConfig(v)
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})
}
