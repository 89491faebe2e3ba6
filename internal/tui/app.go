package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sdkup/sdkup/internal/core"
)

// Options configures a TUI run. The command layer resolves settings
// and flags before handing over.
type Options struct {
	// CatalogPath overrides the embedded catalog when non-empty.
	CatalogPath string

	// TargetDir is where packages get cloned.
	TargetDir string

	// Overrides maps package names to replacement clone URLs.
	Overrides map[string]string
}

// Run starts the interactive session and blocks until the user quits.
// A catalog or target directory problem surfaces as the returned error;
// per-package install failures do not.
func Run(opts Options) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return err
	}
	if a, ok := final.(App); ok && a.fatal != nil {
		return a.fatal
	}
	return nil
}

// App is the root Bubbletea model for sdkup.
type App struct {
	opts    Options
	session *core.Session

	// View state.
	width  int
	height int
	ready  bool

	// Fatal startup error, handed back to Run after the program exits.
	fatal error

	// Sub-models, one per session stage.
	tags       tagsModel
	packages   packagesModel
	installing installingModel
	report     reportModel

	// Package preview overlay.
	previewOpen     bool
	previewViewport viewport.Model
	previewTitle    string
	previewLoading  bool
	previewSpinner  spinner.Model

	// Cached glamour renderer (lazy-initialized on first preview).
	glamourRenderer *glamour.TermRenderer

	// Help bar.
	help help.Model

	// Toast notifications.
	toast toastModel

	// Confirmation dialog. Used for the pre-install summary and for
	// update decisions on existing clones.
	confirm confirmModel
}

// NewApp creates the root model. The catalog is loaded asynchronously
// in Init, so the session starts in its loading stage.
func NewApp(opts Options) App {
	h := help.New()
	h.ShortSeparator = "  |  "

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	return App{
		opts:           opts,
		session:        core.NewSession(),
		tags:           newTagsModel(),
		packages:       newPackagesModel(),
		installing:     newInstallingModel(),
		report:         newReportModel(),
		help:           h,
		previewSpinner: s,
		toast:          newToastModel(),
		confirm:        newConfirmModel(),
	}
}

// --- Messages ---

type catalogLoadedMsg struct {
	catalog  *core.Catalog
	warnings []string
	err      error
}

type errMsg struct {
	err error
}

// beginInstallMsg is emitted when the user confirms the summary dialog.
type beginInstallMsg struct{}

// declineInstallMsg is emitted when the user backs out of it.
type declineInstallMsg struct{}

type openPreviewMsg struct {
	title   string
	content string
}

type previewRenderedMsg struct {
	content  string
	renderer *glamour.TermRenderer
}

// --- Init / Update / View ---

func (a App) Init() tea.Cmd {
	return a.loadCatalogCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.propagateSize()
		return a, nil

	case catalogLoadedMsg:
		if msg.err != nil {
			a.fatal = msg.err
			return a, tea.Quit
		}
		if err := a.session.Begin(msg.catalog, a.opts.TargetDir); err != nil {
			a.fatal = err
			return a, tea.Quit
		}
		a.tags = a.tags.refresh(a.session.Selection)
		if len(msg.warnings) > 0 {
			return a, a.toastCmd(msg.warnings[0], toastWarning)
		}
		return a, nil

	case beginInstallMsg:
		if err := a.session.To(core.StateInstalling); err != nil {
			return a, a.toastCmd(fmt.Sprintf("Error: %v", err), toastError)
		}
		var cmd tea.Cmd
		a.installing, cmd = a.installing.start(&a)
		return a, cmd

	case declineInstallMsg:
		if err := a.session.To(core.StatePackageSelection); err != nil {
			return a, a.toastCmd(fmt.Sprintf("Error: %v", err), toastError)
		}
		return a, nil

	case openPreviewMsg:
		a.previewOpen = true
		a.previewTitle = msg.title
		a.previewLoading = true
		w, h := a.innerContentSize()
		// -4 for preview's own header, separator, footer, and separator lines.
		vp := viewport.New(w, max(0, h-4))
		a.previewViewport = vp

		// Render markdown in background to avoid blocking the UI.
		rawContent := msg.content
		cachedRenderer := a.glamourRenderer
		renderCmd := func() tea.Msg {
			r := cachedRenderer
			if r == nil {
				var err error
				r, err = glamour.NewTermRenderer(
					glamour.WithAutoStyle(),
					glamour.WithWordWrap(w),
				)
				if err != nil {
					return previewRenderedMsg{content: rawContent}
				}
			}
			rendered, err := r.Render(rawContent)
			if err != nil {
				rendered = rawContent
			}
			return previewRenderedMsg{
				content:  strings.TrimRight(rendered, "\n"),
				renderer: r,
			}
		}
		return a, tea.Batch(a.previewSpinner.Tick, renderCmd)

	case previewRenderedMsg:
		a.previewLoading = false
		a.previewViewport.SetContent(msg.content)
		if msg.renderer != nil {
			a.glamourRenderer = msg.renderer
		}
		return a, nil

	case spinner.TickMsg:
		if a.previewLoading {
			var cmd tea.Cmd
			a.previewSpinner, cmd = a.previewSpinner.Update(msg)
			return a, cmd
		}
		// Fall through for the installing stage spinner.

	case toastDismissMsg:
		var cmd tea.Cmd
		a.toast, cmd = a.toast.update(msg)
		return a, cmd

	case errMsg:
		return a, a.toastCmd(fmt.Sprintf("Error: %v", msg.err), toastError)

	case tea.KeyMsg:
		// Confirmation dialog intercepts all keys when active.
		if a.confirm.active {
			var cmd tea.Cmd
			var consumed bool
			a.confirm, cmd, consumed = a.confirm.update(msg)
			if consumed {
				return a, cmd
			}
		}

		// Preview overlay keys -- viewport needs arrow/pgup/pgdn.
		if a.previewOpen {
			if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Quit) || key.Matches(msg, keys.Preview) {
				a.previewOpen = false
				return a, nil
			}
			var cmd tea.Cmd
			a.previewViewport, cmd = a.previewViewport.Update(msg)
			return a, cmd
		}

		// Global quit. During the install run ctrl+c means "stop after
		// the current package" and is handled by the installing model.
		if key.Matches(msg, keys.Quit) {
			if a.session.State() == core.StateInstalling {
				break
			}
			if a.isListFiltering() {
				break
			}
			a.session.Cancel()
			return a, tea.Quit
		}
	}

	// Delegate to the stage's sub-model.
	var cmd tea.Cmd
	switch a.session.State() {
	case core.StateTagSelection:
		a.tags, cmd = a.tags.update(msg, &a)
	case core.StatePackageSelection:
		a.packages, cmd = a.packages.update(msg, &a)
	case core.StateInstalling:
		a.installing, cmd = a.installing.update(msg, &a)
	case core.StateDone:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(keyMsg, keys.Enter) || key.Matches(keyMsg, keys.Quit) || key.Matches(keyMsg, keys.Back) {
				return a, tea.Quit
			}
		}
	}

	return a, cmd
}

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	// Layout: fixed header + flex content box + help bar. The content
	// box gets whatever height remains.

	// 1. Render fixed chrome (header, help bar / toast).
	header := a.renderHeader()
	helpBar := a.renderHelpBar()

	// If a toast is active, it replaces the help bar.
	if a.toast.active {
		helpBar = a.toast.view()
	}

	// 2. Measure fixed chrome height. JoinVertical adds \n between each
	//    block; three blocks mean two separators.
	separators := 2
	chromeH := lipgloss.Height(header)
	chromeH += lipgloss.Height(helpBar)
	chromeH += separators

	// 3. Compute content box dimensions from contentStyle's own frame
	//    sizes so the layout adapts if the style changes.
	frameV := contentStyle.GetVerticalFrameSize()
	frameH := contentStyle.GetHorizontalFrameSize()
	borderV := contentStyle.GetVerticalBorderSize()
	borderH := contentStyle.GetHorizontalBorderSize()

	innerW := max(0, a.width-borderH)
	innerH := max(0, a.height-chromeH-borderV)

	textW := max(0, a.width-frameH)
	textH := max(0, a.height-chromeH-frameV)

	// 4. Render the active stage.
	content := ""
	switch a.session.State() {
	case core.StateLoading:
		content = mutedStyle.Render("   Loading catalog...")
	case core.StateTagSelection:
		content = a.tags.view()
	case core.StatePackageSelection:
		content = a.packages.view(a.session.Selection)
	case core.StateConfirming:
		// The confirm dialog carries this stage.
	case core.StateInstalling:
		content = a.installing.view(a.session.Report)
	case core.StateDone:
		content = a.report.view(a.session.Report, a.session.TargetDir)
	}

	if a.previewOpen {
		content = a.renderPreview()
	}

	// The dialog overlays the content area when active.
	if a.confirm.active {
		content = a.confirm.view()
	}

	// Clamp content to the text area so it can't inflate the box.
	content = clampWidth(content, textW)
	content = clampHeight(content, textH)

	styled := contentStyle.
		Width(innerW).
		Height(innerH).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, styled, helpBar)
}

func (a App) renderHeader() string {
	logo := logoStyle.Render("sdkup")
	path := headerPathStyle.Render(a.opts.TargetDir)

	var hints string
	switch {
	case a.previewOpen:
		hints = headerHintStyle.Render(a.previewTitle)
	case a.session.State() == core.StateTagSelection:
		hints = headerHintStyle.Render("Select Ecosystems")
	case a.session.State() == core.StatePackageSelection:
		hints = headerHintStyle.Render("Select Packages")
	case a.session.State() == core.StateConfirming:
		hints = headerHintStyle.Render("Confirm")
	case a.session.State() == core.StateInstalling:
		hints = headerHintStyle.Render("Installing...")
	case a.session.State() == core.StateDone:
		hints = headerHintStyle.Render("Summary")
	}

	// Indent 1 char to align with content box's left border.
	indent := " "
	left := lipgloss.JoinHorizontal(lipgloss.Top, indent, logo, " ", path)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(hints) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + hints
}

func (a App) renderHelpBar() string {
	var km help.KeyMap

	switch {
	case a.previewOpen:
		km = previewHelpKeyMap{}
	case a.session.State() == core.StatePackageSelection:
		km = packageHelpKeyMap{}
	case a.session.State() == core.StateInstalling:
		km = installHelpKeyMap{}
	case a.session.State() == core.StateDone:
		km = reportHelpKeyMap{}
	default:
		km = tagHelpKeyMap{}
	}

	// Indent 1 char to align with content box's left border.
	return " " + helpStyle.Render(a.help.View(km))
}

func (a App) renderPreview() string {
	w, _ := a.innerContentSize()
	title := viewportTitleStyle.Render(" " + a.previewTitle + " ")
	line := strings.Repeat("─", max(0, w-lipgloss.Width(title)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, mutedStyle.Render(line))

	if a.previewLoading {
		loading := a.previewSpinner.View() + " Rendering preview..."
		return header + "\n\n" + loading
	}

	pct := fmt.Sprintf(" %3.0f%% ", a.previewViewport.ScrollPercent()*100)
	footer := previewPctStyle.Render(pct)

	return header + "\n\n" + a.previewViewport.View() + "\n\n" + footer
}

// isListFiltering returns true if the package list is in filter mode.
func (a App) isListFiltering() bool {
	if a.session.State() == core.StatePackageSelection {
		return a.packages.list.SettingFilter()
	}
	return false
}

// --- Stage transitions ---

func (a *App) advanceToPackages() tea.Cmd {
	if err := a.session.To(core.StatePackageSelection); err != nil {
		return a.toastCmd(fmt.Sprintf("Error: %v", err), toastError)
	}
	a.packages = a.packages.activate(a.session.Selection)
	return nil
}

func (a *App) backToTags() tea.Cmd {
	if err := a.session.To(core.StateTagSelection); err != nil {
		return a.toastCmd(fmt.Sprintf("Error: %v", err), toastError)
	}
	a.tags = a.tags.refresh(a.session.Selection)
	return nil
}

// confirmInstall moves to the confirmation stage and raises the summary
// dialog over the chosen packages.
func (a *App) confirmInstall() tea.Cmd {
	if err := a.session.To(core.StateConfirming); err != nil {
		return a.toastCmd(fmt.Sprintf("Error: %v", err), toastError)
	}

	chosen := a.session.Selection.ChosenPackages()
	names := make([]string, len(chosen))
	for i, pkg := range chosen {
		names[i] = pkg.Name
	}

	noun := "packages"
	if len(chosen) == 1 {
		noun = "package"
	}
	question := fmt.Sprintf("Install %d %s into %s?\n\n%s",
		len(chosen), noun, a.session.TargetDir, strings.Join(names, ", "))

	a.confirm = a.confirm.show(question,
		func() tea.Msg { return beginInstallMsg{} },
		func() tea.Msg { return declineInstallMsg{} },
	)
	return nil
}

// finishInstall closes out the run and moves to the summary stage.
func (a *App) finishInstall() tea.Cmd {
	if a.session.State() == core.StateInstalling {
		if err := a.session.To(core.StateDone); err != nil {
			a.session.Cancel()
		}
	}
	return nil
}

// openPreview builds a markdown card for the package and opens it in
// the viewport overlay.
func (a *App) openPreview(pkg core.Package) tea.Cmd {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pkg.Name)
	if pkg.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", pkg.Description)
	}
	fmt.Fprintf(&b, "- **Ecosystem:** %s\n", pkg.TagName)
	fmt.Fprintf(&b, "- **Source:** %s\n", pkg.Source)
	fmt.Fprintf(&b, "- **Installs to:** %s\n", a.newInstaller(nil).LocalPath(a.session.TargetDir, pkg))

	if len(pkg.Steps) == 0 {
		b.WriteString("\nClone only, no install steps.\n")
	} else {
		b.WriteString("\n## Install steps\n\n")
		for _, step := range pkg.Steps {
			fmt.Fprintf(&b, "```sh\n%s\n```\n", step.Raw)
		}
	}

	content := b.String()
	title := pkg.Name
	return func() tea.Msg {
		return openPreviewMsg{title: title, content: content}
	}
}

// --- Helpers shared with sub-models ---

func (a *App) toastCmd(message string, kind toastKind) tea.Cmd {
	var cmd tea.Cmd
	a.toast, cmd = a.toast.show(message, kind)
	return cmd
}

func (a *App) newInstaller(out io.Writer) *core.Installer {
	inst := core.NewInstaller(out)
	inst.Overrides = a.opts.Overrides
	return inst
}

func (a App) loadCatalogCmd() tea.Cmd {
	path := a.opts.CatalogPath
	return func() tea.Msg {
		var cat *core.Catalog
		var err error
		if path != "" {
			cat, err = core.LoadCatalog(path)
		} else {
			cat, err = core.DefaultCatalog()
		}
		if err != nil {
			return catalogLoadedMsg{err: err}
		}
		return catalogLoadedMsg{catalog: cat, warnings: cat.Warnings()}
	}
}

func (a *App) propagateSize() {
	w, h := a.innerContentSize()
	a.tags = a.tags.setSize(w, h)
	a.packages = a.packages.setSize(w, h)
	a.installing = a.installing.setSize(w, h)
	a.report = a.report.setSize(w, h)
	a.confirm = a.confirm.setSize(w, h)

	if a.previewOpen {
		a.previewViewport.Width = w
		a.previewViewport.Height = max(0, h-4) // header + separator + footer + separator
	}
}

// innerContentSize computes the text content area available to the
// stage views: the space inside contentStyle after border and padding.
func (a App) innerContentSize() (width, height int) {
	header := a.renderHeader()
	helpBar := a.renderHelpBar()

	separators := 2
	chromeH := lipgloss.Height(header)
	chromeH += lipgloss.Height(helpBar)
	chromeH += separators

	frameV := contentStyle.GetVerticalFrameSize()
	frameH := contentStyle.GetHorizontalFrameSize()

	width = max(0, a.width-frameH)
	height = max(0, a.height-chromeH-frameV)

	return width, height
}

// clampHeight truncates content to at most maxLines lines so a stage
// view can never push the header off-screen.
func clampHeight(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n")
}

// clampWidth truncates each line to at most maxWidth visible characters
// (ANSI-escape aware). Long lines would otherwise wrap inside the
// Width()-constrained box and inflate its rendered height.
func clampWidth(content string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > maxWidth {
			lines[i] = ansi.Truncate(line, maxWidth, "")
		}
	}
	return strings.Join(lines, "\n")
}
