package main

import (
	"github.com/spf13/cobra"

	"github.com/talgya/hexboard/internal/api"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			srv := api.NewServer(cfg, a.logger)
			if err := srv.Run(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("server stopped", "games", srv.Games.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	return cmd
}
