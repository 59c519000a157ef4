package main

import (
	"github.com/fllarpy/sampleapp"
	"github.com/spf13/cobra"
)

func newServeCmd(rt *rootOptions) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the instrumented HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listenAddr != "" {
				rt.cfg.Server.ListenAddr = listenAddr
			}

			app, err := sampleapp.New(rt.cfg, rt.logger)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return app.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address, overrides server.listen_addr")
	return cmd
}
