package tui

import (
	"fmt"
	"strings"

	"github.com/sdkup/sdkup/internal/core"
)

// reportModel renders the final summary once the run is over. It is a
// pure view over the session report.
type reportModel struct {
	width  int
	height int
}

func newReportModel() reportModel {
	return reportModel{}
}

func (m reportModel) setSize(width, height int) reportModel {
	m.width = width
	m.height = height
	return m
}

func (m reportModel) view(report core.Report, targetDir string) string {
	var b strings.Builder

	b.WriteString(renderSectionHeader("DONE"))
	b.WriteString("\n")

	if len(report.Results) == 0 {
		b.WriteString(mutedStyle.Render("   Nothing was installed."))
		b.WriteString("\n")
		return b.String()
	}

	succeeded := report.Names(core.OutcomeSucceeded)
	skipped := report.Names(core.OutcomeSkipped)
	failed := report.Names(core.OutcomeFailed)

	summary := fmt.Sprintf("   %d succeeded, %d skipped, %d failed",
		len(succeeded), len(skipped), len(failed))
	b.WriteString(mutedStyle.Render(summary))
	b.WriteString("\n\n")

	for _, res := range report.Results {
		switch res.Outcome {
		case core.OutcomeSucceeded:
			b.WriteString(successStyle.Render("   ✓ " + res.Package.Name))
			b.WriteString("\n")
		case core.OutcomeSkipped:
			b.WriteString(mutedStyle.Render("   − " + res.Package.Name + " (skipped)"))
			b.WriteString("\n")
		case core.OutcomeFailed:
			b.WriteString(errorStyle.Render("   ✗ " + res.Package.Name))
			b.WriteString("\n")
			if res.Err != nil {
				b.WriteString(mutedStyle.Render("       " + res.Err.Error()))
				b.WriteString("\n")
				if fe, ok := core.AsFetchError(res.Err); ok {
					for _, hint := range fe.Hints {
						b.WriteString(mutedStyle.Render("       hint: " + hint))
						b.WriteString("\n")
					}
				}
			}
		}
	}

	if len(succeeded) > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("   Installed under " + targetDir))
		b.WriteString("\n")
	}

	return b.String()
}
