package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/devagenda/internal/model"
)

var (
	syncUser    string
	syncProject string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull recent commits from GitHub for linked projects",
	Long: `sync fetches the commits of the last SYNC_WINDOW_DAYS days for one
project, or for every linked project of the user when --project is omitted.
A failing project is reported and the rest still sync.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncUser, "user", "", "User id (required)")
	syncCmd.Flags().StringVar(&syncProject, "project", "", "Project id (default: all linked projects)")
	_ = syncCmd.MarkFlagRequired("user")
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if _, err := a.Auth.GetUserByID(ctx, syncUser); err != nil {
		return err
	}

	var projects []model.Project
	if syncProject != "" {
		p, err := a.Projects.Get(ctx, syncUser, syncProject)
		if err != nil {
			return err
		}
		projects = append(projects, *p)
	} else {
		projects, err = a.Projects.List(ctx, syncUser, "")
		if err != nil {
			return err
		}
	}

	var failed int
	for _, p := range projects {
		if !p.HasRepository() {
			continue
		}
		n, err := a.Sync.SyncProject(ctx, syncUser, p.ID)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%-28s failed: %v\n", p.Name, err)
			continue
		}
		fmt.Fprintf(out, "%-28s synced %d commits\n", p.Name, n)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d projects failed to sync", failed, len(projects))
	}
	return nil
}
