package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/sales-dashboard/internal/cli"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/config"
	"github.com/mohammed-shakir/sales-dashboard/internal/logger"
)

var Version = "dev"

// state shared by every subcommand, filled in by the root pre-run
type app struct {
	cfg config.Config
	log *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rt := &app{}
	var (
		envFile  string
		logLevel string
	)

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Sales dashboard over the labdados products dataset",
		Long: `dashboard fetches sales records by region and year, filters them,
and serves the aggregated dashboard over HTTP or prints it in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			zl := logger.Build(logger.Config{
				Level:     cfg.LogLevel,
				Console:   cfg.LogConsole,
				SampleN:   cfg.LogSampleN,
				Component: "dashboard",
			}, cmd.ErrOrStderr())
			rt.cfg = cfg
			rt.log = logger.NewSlog(&zl)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(serveCmd(rt))
	root.AddCommand(exportCmd(rt))
	root.AddCommand(summaryCmd(rt))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "dashboard %s\n", Version)
			return err
		},
	}
}
