package main

import (
	"github.com/fllarpy/sampleapp/internal/simulator"
	"github.com/spf13/cobra"
)

func newSimulateCmd(rt *rootOptions) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Send random bursts of requests to the service until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target != "" {
				rt.cfg.Simulator.Target = target
			}

			sim, err := simulator.New(rt.cfg.Simulator, rt.logger)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return sim.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "base URL of the service, overrides simulator.target")
	return cmd
}
