package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hapkiduki/boxspec-go/internal/application/service"
	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/infrastructure/config"
	"github.com/hapkiduki/boxspec-go/internal/infrastructure/persistance/sqlite"
	"github.com/hapkiduki/boxspec-go/pkg/logger"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// serve runs the API until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.App.Environment == "development",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting box specification service",
		"version", version,
		"environment", cfg.App.Environment,
	)

	calcCfg, err := cfg.Calculator.Domain()
	if err != nil {
		return err
	}
	calc, err := calculator.NewCalculator(calcCfg)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := sqlite.Migrate(ctx, db, log); err != nil {
			return err
		}
	}

	svc := service.NewBoxService(calc, sqlite.NewBoxTemplateRepository(db), log)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      newRouter(cfg, log, svc, db),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", "address", server.Addr, "database", cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return err
	}
	log.Info("Server shutdown complete")
	return nil
}
