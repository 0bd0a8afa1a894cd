// Package report renders the per-job status table shown after every
// batch run.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Render builds the status table plus a summary line. Failed jobs show
// their error in place of the output path.
func Render(jobs []job.Job) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("JOB", "STATUS", "OUTPUT / ERROR", "SCORE")

	succeeded := 0
	for _, j := range jobs {
		detail := j.OutputPath
		status := string(j.Status)
		switch j.Status {
		case job.StatusSucceeded:
			succeeded++
			status = okStyle.Render(status)
		case job.StatusFailed:
			detail = j.ErrorMessage
			status = failStyle.Render(status)
		}

		score := "-"
		if j.Metrics != nil {
			score = fmt.Sprintf("%.3f", j.Metrics.Overall)
		}
		tbl.Row(j.ID, status, detail, score)
	}

	var b strings.Builder
	b.WriteString(tbl.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d job(s) processed, %d succeeded, %d failed\n",
		len(jobs), succeeded, len(jobs)-succeeded)
	return b.String()
}
