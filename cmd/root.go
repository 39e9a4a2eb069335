package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/meditationhr/config"
	"github.com/meditationhr/data"
	"github.com/meditationhr/models"
	"github.com/spf13/cobra"
)

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meditationhr",
		Short: "Explore heart rate recorded during meditation",
		Long: `Explore heart rate samples recorded while people practise different
meditation techniques.

The dataset is read from DATA_URL (cached under CACHE_DIR) or DATA_FILE (.csv or
.xlsx). When neither can be read and FALLBACK_ENABLED is true, a synthetic dataset
is generated instead. Settings come from the environment or a .env file.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newInsightsCmd(),
		newSeriesCmd(),
	)
	return rootCmd
}

// loadDataset reads the configuration and loads the samples it points at.
func loadDataset(ctx context.Context) (*config.Config, *models.SampleStore, data.Origin, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	store, origin, err := loadStore(ctx, cfg)
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, store, origin, nil
}

func loadStore(ctx context.Context, cfg *config.Config) (*models.SampleStore, data.Origin, error) {
	store, origin, err := data.LoadStore(ctx, data.Options{
		File:        cfg.Data.File,
		URL:         cfg.Data.URL,
		CacheDir:    cfg.Data.CacheDir,
		CacheMaxAge: cfg.Data.CacheMaxAge,
		Fallback:    cfg.Data.FallbackEnabled,
		Seed:        cfg.Data.FallbackSeed,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load dataset: %w", err)
	}
	return store, origin, nil
}
