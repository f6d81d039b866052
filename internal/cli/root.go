package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/internal/cli/backtest"
	"github.com/rustyeddy/backtester/internal/cli/configcmd"
	"github.com/rustyeddy/backtester/internal/cli/data"
	"github.com/rustyeddy/backtester/internal/cli/shared"
	"github.com/rustyeddy/backtester/internal/logger"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func NewRootCmd() *cobra.Command {
	rc := &shared.RootConfig{}

	cmd := &cobra.Command{
		Use:           "backtester",
		Short:         "Backtester: SMA crossover + RSI strategy backtests and parameter sweeps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (YAML or JSON, optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.CachePath, "cache", "", "SQLite file for caching downloaded candles (optional)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetLevel(rc.LogLevel)

		// APCA_* credentials may live in a local .env file
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}

	cmd.AddCommand(
		backtest.New(rc),
		data.New(rc),
		configcmd.New(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "backtester (%s)\n", Version)
		},
	})

	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
