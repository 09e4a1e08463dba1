package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gohstat/internal/config"
	"gohstat/internal/container"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hstat",
		Short: "Friedman's H-statistic of pairwise feature interaction for black-box models",
		Long: `hstat measures how strongly pairs of features interact in a fitted model.

Configuration is read from the environment (and an optional .env file):
- HSTAT_N_MAX, HSTAT_EPS, HSTAT_WORKERS: engine defaults
- HSTAT_MAX_N_MAX, HSTAT_MAX_WORKERS: caps on requested values
- DATABASE_URL: enables the run ledger
- PORT: HTTP port for serve
- LOG_LEVEL: ERROR, WARN, INFO, DEBUG or TRACE`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newComputeCmd(),
		newScoreCmd(),
		newServeCmd(),
		newMigrateCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and builds the container. The database is
// connected whenever DATABASE_URL is set; requireDB makes it mandatory.
func setup(ctx context.Context, requireDB bool) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}

	if requireDB || cfg.Database.Enabled() {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}
