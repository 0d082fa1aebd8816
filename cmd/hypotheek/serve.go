package main

import (
	"github.com/iwvelando/hypotheek/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(a *app) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.conf.Server
			if address != "" {
				cfg.Address = address
			}

			calc, err := a.calculator()
			if err != nil {
				return err
			}
			client, release, err := a.rateClient()
			if err != nil {
				return err
			}
			defer release()

			a.logger.Info("starting server",
				zap.String("op", "main.serve"),
				zap.String("version", version),
				zap.String("tableVersion", calc.Table().Version()),
				zap.Bool("marketRates", client != nil),
				zap.Int64("maxBodySize", cfg.BodySizeBytes()),
			)

			handler := server.NewHandler(a.logger, calc, client, cfg.BodySizeBytes(), version)
			return server.Serve(cmd.Context(), a.logger, cfg, handler)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
