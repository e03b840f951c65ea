package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joao-brasil/stock-overview/internal/api"
	"github.com/joao-brasil/stock-overview/internal/cache"
	"github.com/joao-brasil/stock-overview/internal/config"
	"github.com/joao-brasil/stock-overview/internal/health"
	"github.com/joao-brasil/stock-overview/internal/inventory"
	"github.com/joao-brasil/stock-overview/internal/pool"
)

type options struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "stock-overview",
		Short:         "Read-only materials stock summary API for SQL Server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "optional YAML config file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default: .env if present)")

	return cmd
}

// loadEnvFile loads path, or ./.env when path is empty. A missing default
// file is not an error.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func run(ctx context.Context, opts *options) error {
	if err := loadEnvFile(opts.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath, os.LookupEnv)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	logger := log.With().Str("component", "main").Logger()
	logger.Info().
		Str("server", cfg.Database.Server).
		Int("port", cfg.Database.Port).
		Str("instance", cfg.Database.InstanceName).
		Str("database", cfg.Database.Database).
		Bool("encrypt", cfg.Database.Encrypt).
		Msg("database configuration resolved")

	// ─── Connection pool (created on first request) ──────────────────
	poolMgr := pool.NewManager(cfg.Database, pool.WithOnReady(func(db *sql.DB) {
		if err := prometheus.Register(collectors.NewDBStatsCollector(db, cfg.Database.Database)); err != nil {
			logger.Warn().Err(err).Msg("registering db stats collector")
		}
	}))
	defer func() {
		if err := poolMgr.Close(); err != nil {
			logger.Error().Err(err).Msg("pool close error")
		}
	}()

	// ─── Summary cache (optional) ─────────────────────────────────────
	var (
		svcOpts []inventory.Option
		pinger  health.Pinger
	)
	if cfg.Cache.Enabled() {
		summaryCache := cache.New(cache.NewClient(cfg.Cache), cache.SummaryKey, cfg.Cache.TTL)
		defer summaryCache.Close()
		svcOpts = append(svcOpts, inventory.WithCache(summaryCache))
		pinger = summaryCache
		logger.Info().Str("addr", cfg.Cache.Addr).Dur("ttl", cfg.Cache.TTL).Msg("summary cache enabled")
	}

	service := inventory.NewService(poolMgr, svcOpts...)
	checker := health.NewChecker(poolMgr, pinger)

	// ─── HTTP facade ──────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(service, checker),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
