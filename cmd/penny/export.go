package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/Veraticus/pennywise/internal/config"
	"github.com/Veraticus/pennywise/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a month of expenses to Google Sheets",
		Long: `Export a month's category summary and expenses to Google Sheets.

Authenticate first with either a service account (sheets.service_account_path)
or OAuth2 (sheets.client_id and sheets.client_secret, then run 'penny export auth').

Example:
  penny export --month 2024-01`,
		RunE: runExport,
	}

	cmd.Flags().String("month", "", "Month to export (YYYY-MM, default current month)")
	cmd.Flags().String("spreadsheet-id", "", "Existing spreadsheet to write to")

	_ = viper.BindPFlag("sheets.spreadsheet_id", cmd.Flags().Lookup("spreadsheet-id"))

	cmd.AddCommand(exportAuthCmd())

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	monthValue, _ := cmd.Flags().GetString("month")
	ym, err := monthFlag(monthValue)
	if err != nil {
		return err
	}

	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets not configured: %w", err)
	}

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	view := a.session.Month(ym)
	if len(view.Records) == 0 {
		printLine(out, cli.FormatWarning(fmt.Sprintf("No expenses recorded for %s", ym)))
		return nil
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return err
	}

	id, err := cli.RunPending(ctx, cmd.ErrOrStderr(), "Exporting to Google Sheets...",
		func(ctx context.Context) (string, error) {
			return writer.Write(ctx, sheets.Report{
				Month:   ym,
				Summary: view.Summary,
				Records: view.Records,
			})
		})
	if err != nil {
		return err
	}

	printLine(out, cli.FormatSuccess(fmt.Sprintf("Exported %d expenses for %s", len(view.Records), ym)))
	printLine(out, fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", id))
	return nil
}

func exportAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Sheets access with OAuth2",
		Long: `Run the OAuth2 consent flow in your browser and save the refresh token.

Requires sheets.client_id and sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID
and GOOGLE_SHEETS_CLIENT_SECRET).`,
		RunE: runExportAuth,
	}

	cmd.Flags().String("listen", "localhost:8080", "Address for the OAuth2 redirect")

	return cmd
}

func runExportAuth(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	listen, _ := cmd.Flags().GetString("listen")

	cfg := sheets.OAuth2Config{
		ClientID:     v.GetString("sheets.client_id"),
		ClientSecret: v.GetString("sheets.client_secret"),
		TokenFile:    config.SheetsTokenFile(v),
		ListenAddr:   listen,
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if _, err := sheets.Authorize(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("google sheets authorization failed: %w", err)
	}

	printLine(cmd.OutOrStdout(), cli.FormatSuccess("Google Sheets authorized; token saved to "+cfg.TokenFile))
	return nil
}
