package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/advisor"
	"github.com/Veraticus/pennywise/internal/categorize"
	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/config"
	"github.com/Veraticus/pennywise/internal/finance"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/storage"
	"github.com/spf13/viper"
)

// app bundles what the finance commands share for one invocation.
type app struct {
	session  *finance.Session
	store    storage.Store
	currency string
}

// openApp loads the configured store and wires the categorizer and advisor
// to the completion service. Read-only commands pass online=false so they
// work without an API key.
func openApp(ctx context.Context, online bool) (*app, error) {
	var client completionService = offlineService{}
	if online {
		var err error
		client, err = newCompletionService()
		if err != nil {
			return nil, err
		}
	}

	storeCfg, err := config.LoadStorageConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, storeCfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to open expense store: %w", err)
	}

	currency := currencySymbol()
	categorizer := categorize.New(client, config.LoadCategorizerConfig(viper.GetViper()), slog.Default())
	adv := advisor.New(client, advisor.Config{Currency: currency}, slog.Default())

	return &app{
		session:  finance.NewSession(store, categorizer, adv, slog.Default()),
		store:    store,
		currency: currency,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close expense store", "error", err)
	}
}

// offlineService rejects every request.
type offlineService struct{}

func (offlineService) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return "", fmt.Errorf("%w: completion service not configured for this command", common.ErrMissingConfig)
}

func (offlineService) GenerateImage(context.Context, llm.ImageRequest) (string, error) {
	return "", fmt.Errorf("%w: image service not configured for this command", common.ErrMissingConfig)
}

func currencySymbol() string {
	if c := viper.GetString("currency"); c != "" {
		return c
	}
	return advisor.DefaultCurrency
}

// monthFlag parses an optional YYYY-MM flag value. An empty value means the
// current month.
func monthFlag(value string) (model.YearMonth, error) {
	if strings.TrimSpace(value) == "" {
		return model.MonthOf(time.Now()), nil
	}
	return model.ParseYearMonth(value)
}

func printLine(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}
