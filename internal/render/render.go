// Package render prints reports for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sakif/devagenda/internal/model"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	colorPrimary = lipgloss.Color("#6C63FF")
	colorMuted   = lipgloss.Color("#666666")
	colorAdd     = lipgloss.Color("#2ECC71")
	colorDel     = lipgloss.Color("#E74C3C")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	projectStyle = lipgloss.NewStyle().
			Bold(true).
			Width(28)

	numberStyle = lipgloss.NewStyle().
			Width(10).
			Align(lipgloss.Right)

	addStyle = numberStyle.Foreground(colorAdd)
	delStyle = numberStyle.Foreground(colorDel)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// Report writes r to w as styled text or as indented JSON.
func Report(w io.Writer, r *model.Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatText, "":
		_, err := io.WriteString(w, reportText(r)+"\n")
		return err
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}

func reportText(r *model.Report) string {
	p := r.Content.Period
	var b strings.Builder

	title := "Weekly report"
	if r.Type == model.ReportMonthly {
		title = "Monthly report"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s to %s", p.StartFormatted, p.EndFormatted)) + "\n\n")

	b.WriteString(projectStyle.Render("Project") +
		numberStyle.Render("Commits") +
		numberStyle.Render("+") +
		numberStyle.Render("-") + "\n")

	for _, ps := range r.Content.Statistics.Projects {
		b.WriteString(projectStyle.Render(truncate(ps.Name, 26)) +
			numberStyle.Render(fmt.Sprint(ps.Commits)) +
			addStyle.Render(fmt.Sprint(ps.Additions)) +
			delStyle.Render(fmt.Sprint(ps.Deletions)) + "\n")
		for _, c := range ps.CommitsList {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s %s", c.SHA, firstLine(c.Message))) + "\n")
		}
	}
	if len(r.Content.Statistics.Projects) == 0 {
		b.WriteString(mutedStyle.Render("No projects in scope.") + "\n")
	}

	totals := fmt.Sprintf("%d commits across %d projects, +%d / -%d",
		r.TotalCommits, r.ProjectsCount, r.TotalAdditions, r.TotalDeletions)
	b.WriteString("\n" + panelStyle.Render(totals))
	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return truncate(line, 72)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
