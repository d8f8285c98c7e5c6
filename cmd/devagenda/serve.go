package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/devagenda/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.Logger.Error("closing database", slog.String("error", err.Error()))
			}
		}()

		return server.New(a, a.Logger).Start(cmd.Context())
	},
}
