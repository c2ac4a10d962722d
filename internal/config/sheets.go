package config

import (
	"os"
	"path/filepath"

	"github.com/Veraticus/pennywise/internal/sheets"
	"github.com/spf13/viper"
)

// SheetsTokenFile is where `penny export auth` saves the OAuth2 token.
func SheetsTokenFile(v *viper.Viper) string {
	if p := v.GetString("sheets.token_file"); p != "" {
		return ExpandPath(p)
	}
	return filepath.Join(ConfigDir(), "sheets_token.json")
}

// LoadSheetsConfig loads Google Sheets configuration. It follows this precedence:
// 1. Viper configuration (config file or PENNY_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. The refresh token saved by `penny export auth`
// 4. Default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(firstNonEmpty(
		v.GetString("sheets.service_account_path"),
		os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	cfg.ClientID = firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	cfg.ClientSecret = firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	cfg.RefreshToken = firstNonEmpty(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	cfg.SpreadsheetID = firstNonEmpty(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))

	if name := firstNonEmpty(v.GetString("sheets.spreadsheet_name"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME")); name != "" {
		cfg.SpreadsheetName = name
	}
	if tz := v.GetString("sheets.time_zone"); tz != "" {
		cfg.TimeZone = tz
	}
	if currency := v.GetString("currency"); currency != "" {
		cfg.CurrencyPattern = `"` + currency + `"#,##0.00`
	}

	if cfg.RefreshToken == "" && cfg.ServiceAccountPath == "" {
		if token, err := sheets.LoadToken(SheetsTokenFile(v)); err == nil {
			cfg.RefreshToken = token.RefreshToken
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
