package main

import (
	"context"
	"fmt"
	"github.com/ougirez/covidstat/internal/api"
	"github.com/ougirez/covidstat/internal/pkg/config"
	"github.com/ougirez/covidstat/internal/pkg/logger"
	"github.com/ougirez/covidstat/internal/service/charts"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	svc, err := loadRegions(ctx, cfg)
	if err != nil {
		return err
	}

	if missing := svc.MissingBoundaries(); len(missing) > 0 {
		logger.Warnf(ctx, "regions without boundaries will not be drawn: %v", missing)
	}

	style, err := config.StyleByName(cfg.Dashboard.Style)
	if err != nil {
		return err
	}

	apiService, err := api.NewAPIService(cfg, svc, charts.NewBuilder(style, cfg.Dashboard.MapName))
	if err != nil {
		return fmt.Errorf("api.NewAPIService: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "listening on %s", cfg.HTTP.Addr)
		errCh <- apiService.Serve(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := apiService.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("apiService.Shutdown: %w", err)
	}

	return <-errCh
}
