package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Veraticus/pennywise/internal/api"
	"github.com/Veraticus/pennywise/internal/certs"
	"github.com/Veraticus/pennywise/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the expense API over HTTP",
		Long: `Serve expenses, summaries, budgets and saving tips as JSON.

Routes:
  GET  /api/months
  GET  /api/expenses?month=YYYY-MM
  POST /api/expenses
  GET  /api/summary?month=YYYY-MM
  GET  /api/total?income=N
  POST /api/budget
  POST /api/goals

With --tls a self-signed localhost certificate is created under
~/.config/penny/certs and reused on later runs.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	server := api.New(a.session, a.currency, slog.Default())
	addr := viper.GetString("server.addr")

	listen := func() error { return server.Listen(addr) }
	if viper.GetBool("server.tls") {
		store := certs.NewStore(filepath.Join(config.ConfigDir(), "certs"))
		cert, err := store.Certificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		listen = func() error { return server.ListenTLS(addr, cert) }
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(listen)
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
