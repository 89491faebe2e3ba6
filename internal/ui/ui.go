// Package ui renders plain-terminal output for the non-interactive
// commands. The TUI has its own rendering; this package covers list
// output, install progress, and the final report.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/sdkup/sdkup/internal/core"
)

// IsTTY returns true if stdout is a terminal.
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Success prints a success line.
func Success(format string, args ...any) {
	pterm.Success.Printfln(format, args...)
}

// Error prints an error line.
func Error(format string, args ...any) {
	pterm.Error.Printfln(format, args...)
}

// Warning prints a warning line.
func Warning(format string, args ...any) {
	pterm.Warning.Printfln(format, args...)
}

// Info prints an informational line.
func Info(format string, args ...any) {
	pterm.Info.Printfln(format, args...)
}

// Header prints a section header before a package's install output.
func Header(text string) {
	if !IsTTY() {
		fmt.Printf("== %s ==\n", text)
		return
	}
	pterm.DefaultSection.Println(text)
}

// CatalogTable prints the catalog grouped by tag.
func CatalogTable(tags []core.TagView) {
	rows := pterm.TableData{{"Package", "Tag", "Source", "Steps"}}
	for _, tv := range tags {
		if !tv.Active {
			continue
		}
		for _, p := range tv.Packages {
			rows = append(rows, []string{p.Name, tv.DisplayName, p.Source, fmt.Sprintf("%d", len(p.Steps))})
		}
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		// Table rendering is cosmetic; fall back to plain lines.
		for _, row := range rows[1:] {
			fmt.Println(row[0], "("+row[1]+")", row[2])
		}
	}
}

// Report prints the final aggregate of a batch: counts plus the names
// in each bucket. Failures are reported, never fatal.
func Report(report core.Report) {
	succeeded := report.Names(core.OutcomeSucceeded)
	failed := report.Names(core.OutcomeFailed)
	skipped := report.Names(core.OutcomeSkipped)

	pterm.DefaultSection.Println("Install report")
	if len(succeeded) > 0 {
		pterm.Success.Printfln("Succeeded (%d): %s", len(succeeded), join(succeeded))
	}
	if len(skipped) > 0 {
		pterm.Warning.Printfln("Skipped (%d): %s", len(skipped), join(skipped))
	}
	if len(failed) > 0 {
		pterm.Error.Printfln("Failed (%d): %s", len(failed), join(failed))
		for _, res := range report.Results {
			if res.Outcome != core.OutcomeFailed || res.Err == nil {
				continue
			}
			pterm.Error.Printfln("  %s: %v", res.Package.Name, res.Err)
			if fe, ok := core.AsFetchError(res.Err); ok {
				for _, hint := range fe.Hints {
					pterm.Info.Printfln("    hint: %s", hint)
				}
			}
		}
	}
	if len(report.Results) == 0 {
		pterm.Info.Println("Nothing was installed.")
	}
}

func join(names []string) string {
	return strings.Join(names, ", ")
}
