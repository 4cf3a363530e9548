package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/socially/backend/internal/metrics"
	"github.com/anonto42/socially/backend/internal/router"
	"github.com/anonto42/socially/backend/internal/security"
	"github.com/anonto42/socially/backend/pkg/config"
	"github.com/anonto42/socially/backend/pkg/firebase"
	"github.com/anonto42/socially/backend/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "socially",
	Short:        "Socially API server",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.CloseDB()

		if err := db.Migrate(); err != nil {
			return err
		}

		tokens, err := security.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenExpire)
		if err != nil {
			return fmt.Errorf("token manager: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps := router.Deps{Config: cfg, Store: db.Store, Tokens: tokens, Log: log}
		fb, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		switch {
		case err == nil:
			deps.Firebase = fb
			log.Info("firebase sign-in enabled")
		case errors.Is(err, firebase.ErrNotConfigured):
			log.Info("firebase sign-in disabled")
		default:
			return err
		}

		e := router.New(deps)

		var metricsSrv *http.Server
		if cfg.MetricsPort != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			metricsSrv = &http.Server{Addr: ":" + cfg.MetricsPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				log.WithField("port", cfg.MetricsPort).Info("metrics listening")
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Error("metrics server stopped")
				}
			}()
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env, "db": db.Store.Name()}).Info("server listening")
			errCh <- e.Start(":" + cfg.Port)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			log.Info("shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return e.Shutdown(shutdownCtx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.CloseDB()
		return db.Migrate()
	},
}

func bootstrap() (*config.Config, *logrus.Logger, *config.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	db, err := config.InitDB(cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing database: %w", err)
	}
	return cfg, log, db, nil
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
