package main

import (
	"context"
	"fmt"
	"github.com/ougirez/covidstat/internal/pkg/config"
	"github.com/ougirez/covidstat/internal/pkg/logger"
	"github.com/ougirez/covidstat/internal/pkg/source"
	"github.com/ougirez/covidstat/internal/service/regions"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "covidstat",
	Short: "Swedish Covid-19 statistics dashboard",
	Long: `covidstat loads the Folkhälsomyndigheten Covid-19 workbook once at startup
and serves a dashboard with per-region choropleth maps, nationwide totals
and a region detail chart.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level = logLevel
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("config.Validate: %w", err)
		}

		if err := logger.Init(loaded.Log.Level); err != nil {
			return fmt.Errorf("logger.Init: %w", err)
		}

		cfg = loaded
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadRegions fetches the dataset and builds the query layer on top of it.
func loadRegions(ctx context.Context, cfg *config.Config) (*regions.Service, error) {
	loader := source.NewLoader(source.Options{
		SpreadsheetURL: cfg.Source.SpreadsheetURL,
		GeoJSONPath:    cfg.Source.GeoJSONPath,
		FeatureIDKey:   cfg.Source.FeatureIDKey,
		MetadataSheet:  cfg.Source.MetadataSheet,
		Timeout:        cfg.Source.Timeout,
		Retries:        cfg.Source.Retries,
		RetryInterval:  cfg.Source.RetryInterval,
	})

	dataset, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loader.Load: %w", err)
	}

	svc, err := regions.NewRegionService(dataset, cfg.Dashboard.DefaultRegion)
	if err != nil {
		return nil, fmt.Errorf("regions.NewRegionService: %w", err)
	}

	return svc, nil
}
