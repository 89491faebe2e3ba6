package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdkup/sdkup/internal/core"
)

// pkgProbeMsg reports what the installer found on disk for the package
// at queue position index, before any work starts.
type pkgProbeMsg struct {
	index int
	state core.ProbeState
}

// pkgDoneMsg reports the finished install attempt for one package,
// with the captured git and step output.
type pkgDoneMsg struct {
	index   int
	outcome core.Outcome
	err     error
	output  string
}

// installingModel drives the sequential install run. Packages are
// processed one at a time; an existing matching clone pauses the run
// behind the confirm dialog so the user can decide whether to update.
type installingModel struct {
	width  int
	height int

	spinner spinner.Model

	queue []core.Package
	index int

	// stopRequested is set by ctrl+c. The current package always runs
	// to completion; the queue is abandoned afterwards.
	stopRequested bool

	// lastFailOutput holds the tail of the most recent failed package's
	// output so the run screen can show what went wrong in place.
	lastFailOutput string
}

func newInstallingModel() installingModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	return installingModel{
		spinner: s,
	}
}

func (m installingModel) setSize(width, height int) installingModel {
	m.width = width
	m.height = height
	return m
}

// start begins the run over the chosen packages. The caller has already
// moved the session into the installing state.
func (m installingModel) start(app *App) (installingModel, tea.Cmd) {
	m.queue = app.session.Selection.ChosenPackages()
	m.index = 0
	m.stopRequested = false
	m.lastFailOutput = ""

	if len(m.queue) == 0 {
		return m, app.finishInstall()
	}
	return m, tea.Batch(m.spinner.Tick, m.probeCmd(app, 0))
}

func (m installingModel) update(msg tea.Msg, app *App) (installingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pkgProbeMsg:
		return m.handleProbe(msg, app)

	case pkgDoneMsg:
		return m.handleDone(msg, app)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.stopRequested {
			m.stopRequested = true
			return m, app.toastCmd("Stopping after the current package", toastWarning)
		}
	}

	return m, nil
}

func (m installingModel) handleProbe(msg pkgProbeMsg, app *App) (installingModel, tea.Cmd) {
	if msg.index != m.index {
		return m, nil
	}
	pkg := m.queue[msg.index]

	if msg.state == core.ProbeMatchingClone {
		// Pause the run behind the dialog. Declining still produces an
		// outcome for the package, recorded as skipped by the installer.
		question := fmt.Sprintf("%s is already present. Pull the latest changes and rerun its install steps?", pkg.Name)
		app.confirm = app.confirm.show(question,
			m.installCmd(app, msg.index, true),
			m.installCmd(app, msg.index, false),
		)
		return m, nil
	}

	// Absent or foreign: the update decision never comes up, the
	// installer handles both cases on its own.
	return m, m.installCmd(app, msg.index, false)
}

func (m installingModel) handleDone(msg pkgDoneMsg, app *App) (installingModel, tea.Cmd) {
	if msg.index != m.index {
		return m, nil
	}
	pkg := m.queue[msg.index]

	app.session.Report.Add(pkg, msg.outcome, msg.err)
	if msg.outcome == core.OutcomeFailed {
		m.lastFailOutput = tailLines(msg.output, 6)
	}

	m.index++
	if m.stopRequested || m.index >= len(m.queue) {
		return m, app.finishInstall()
	}
	return m, m.probeCmd(app, m.index)
}

func (m installingModel) probeCmd(app *App, index int) tea.Cmd {
	pkg := m.queue[index]
	targetDir := app.session.TargetDir
	inst := app.newInstaller(nil)

	return func() tea.Msg {
		return pkgProbeMsg{index: index, state: inst.Probe(pkg, targetDir)}
	}
}

func (m installingModel) installCmd(app *App, index int, update bool) tea.Cmd {
	pkg := m.queue[index]
	targetDir := app.session.TargetDir

	return func() tea.Msg {
		var buf bytes.Buffer
		inst := app.newInstaller(&buf)

		outcome, err := inst.Install(pkg, targetDir, func(core.Package, string) bool {
			return update
		})

		return pkgDoneMsg{
			index:   index,
			outcome: outcome,
			err:     err,
			output:  buf.String(),
		}
	}
}

func (m installingModel) view(report core.Report) string {
	var b strings.Builder

	b.WriteString(renderSectionHeader("INSTALLING"))
	b.WriteString("\n")

	// Finished packages first, in run order.
	for _, res := range report.Results {
		var line string
		switch res.Outcome {
		case core.OutcomeSucceeded:
			line = successStyle.Render("   ✓ " + res.Package.Name)
		case core.OutcomeSkipped:
			line = mutedStyle.Render("   − " + res.Package.Name + " (skipped)")
		case core.OutcomeFailed:
			line = errorStyle.Render("   ✗ " + res.Package.Name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.index < len(m.queue) {
		current := m.queue[m.index]
		b.WriteString("   " + m.spinner.View() + fmt.Sprintf("%s  %s",
			current.Name,
			mutedStyle.Render(fmt.Sprintf("(%d of %d)", m.index+1, len(m.queue)))))
		b.WriteString("\n")
	}

	if m.lastFailOutput != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(indent(m.lastFailOutput, "   ")))
		b.WriteString("\n")
	}

	if m.stopRequested {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("   Stopping after the current package."))
		b.WriteString("\n")
	}

	return b.String()
}

// tailLines returns the last n non-empty lines of s.
func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
