package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/hq/internal/api"
	"github.com/dgallion1/hq/internal/config"
	"github.com/dgallion1/hq/internal/metrics"
	"github.com/dgallion1/hq/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve queries over HTTP",
		Long: `Serve queries over HTTP.

  POST /api/query        {"css"|"xpath": "...", "document"|"url": "...", "format": "..."}
  GET  /api/stats/query  rolling latency of recent queries
  GET  /metrics          Prometheus metrics
  GET  /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load(v)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			log, closer, err := newLogger(cmd.ErrOrStderr(), cfg, slog.LevelInfo)
			if err != nil {
				return err
			}
			defer closer.Close()
			return serve(cmd.Context(), cfg, log)
		},
	}

	flags := cmd.Flags()
	flags.StringP("port", "p", "", "port to listen on")
	flags.String("api-key", "", "require this bearer token on /api routes")
	flags.Duration("stats-window", 0, "how long query latencies are kept for /api/stats/query")

	bindFlags(v, flags.Lookup, map[string]string{
		config.KeyPort:        "port",
		config.KeyAPIKey:      "api-key",
		config.KeyStatsWindow: "stats-window",
	})
	return cmd
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	resolver := &source.Resolver{
		Fetcher:  source.NewCollyFetcher(cfg.FetchTimeout, cfg.UserAgent, cfg.MaxDocumentBytes, log),
		MaxBytes: cfg.MaxDocumentBytes,
	}
	srv := api.NewServer(resolver, metrics.NewLatencyStats(cfg.StatsWindow), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	if cfg.APIKey == "" {
		log.Warn("no api key configured, /api routes are open")
	}
	log.Info("starting hq", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
