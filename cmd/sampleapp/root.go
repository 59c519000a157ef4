package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fllarpy/sampleapp/config"
	"github.com/fllarpy/sampleapp/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootOptions holds what every subcommand needs once flags are parsed.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	rt := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sampleapp",
		Short: "Request-count instrumentation demo",
		Long: `sampleapp serves a few routes with simulated latency, counts every
request by method and path, and exposes the counters at /metrics for
Prometheus to scrape. The simulate command generates load against it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load()
		},
	}

	cmd.PersistentFlags().StringVar(&rt.configPath, "config", ".", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "log level, overrides log_level from the config")

	cmd.AddCommand(newServeCmd(rt), newSimulateCmd(rt))
	return cmd
}

func (rt *rootOptions) load() error {
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	if rt.logLevel != "" {
		cfg.LogLevel = rt.logLevel
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.logger = logger
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
