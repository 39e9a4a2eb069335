package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/meditationhr/config"
	"github.com/meditationhr/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard web server",
		Long: `Start the dashboard on PORT (default 8080).

Example: meditationhr serve --open`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, open)
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Open the dashboard in the default browser (also OPEN_BROWSER=true)")

	return cmd
}

func runServe(ctx context.Context, open bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := server.SetupLogging(cfg.LogDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	store, origin, err := loadStore(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(store, cfg.Palette, origin)

	url := "http://localhost:" + cfg.Server.Port
	if open || cfg.Server.OpenBrowser {
		go func() {
			// Give the listener a moment before the browser asks for the page.
			time.Sleep(500 * time.Millisecond)
			if err := browser.OpenURL(url); err != nil {
				log.Printf("Failed to open browser: %v", err)
			}
		}()
	}
	log.Printf("Visit %s to see the dashboard", url)

	return srv.Run(ctx, ":"+cfg.Server.Port)
}
