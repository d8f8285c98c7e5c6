package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/period"
	"github.com/sakif/devagenda/internal/render"
)

var (
	reportUser    string
	reportProject string
	reportDate    string
	reportFormat  string
)

var reportCmd = &cobra.Command{
	Use:       "report weekly|monthly",
	Short:     "Generate and print a weekly or monthly report",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(model.ReportWeekly), string(model.ReportMonthly)},
	RunE:      runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportUser, "user", "", "User id (required)")
	reportCmd.Flags().StringVar(&reportProject, "project", "", "Limit the report to one project id")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Any date in the period, YYYY-MM-DD (default today)")
	reportCmd.Flags().StringVar(&reportFormat, "format", render.FormatText, "Output format: text, json")
	_ = reportCmd.MarkFlagRequired("user")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.Auth.GetUserByID(ctx, reportUser); err != nil {
		return err
	}

	var ref time.Time
	if reportDate != "" {
		ref, err = period.ParseDate(reportDate, a.Config.Location)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
	}

	var report *model.Report
	switch model.ReportType(args[0]) {
	case model.ReportWeekly:
		report, err = a.Reports.GenerateWeekly(ctx, reportUser, reportProject, ref)
	case model.ReportMonthly:
		report, err = a.Reports.GenerateMonthly(ctx, reportUser, reportProject, ref)
	}
	if err != nil {
		return err
	}
	return render.Report(cmd.OutOrStdout(), report, reportFormat)
}
