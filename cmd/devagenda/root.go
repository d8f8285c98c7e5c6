package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/devagenda/internal/app"
	"github.com/sakif/devagenda/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "devagenda",
	Short: "DevAgenda - projects, GitHub activity and reflections for developers",
	Long: `devagenda tracks a developer's projects, pulls their commits from
GitHub and turns them into weekly and monthly reports and daily reflections.

Configuration comes from the environment (PORT, DB_PATH, JWT_SECRET,
TOKEN_KEY, TIMEZONE, LOG_LEVEL, GITHUB_API_URL, SYNC_WINDOW_DAYS,
SYNC_WORKERS). With ENV=dev a .env file is read first.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(syncCmd)
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openApp loads the configuration and builds the application.
func openApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, newLogger(cfg.LogLevel))
}
