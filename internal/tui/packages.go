package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sdkup/sdkup/internal/core"
)

// packagesModel is the package pick stage: a filterable bubbles list over
// every package whose ecosystem survived the tag stage.
type packagesModel struct {
	width  int
	height int

	list list.Model
}

func newPackagesModel() packagesModel {
	l := list.New(nil, packageDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetShowPagination(false)

	return packagesModel{
		list: l,
	}
}

func (m packagesModel) setSize(width, height int) packagesModel {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(1, height))
	return m
}

// activate is called whenever the stage is (re)entered. The visible
// set depends on which tags are active, so the items are rebuilt and
// any stale filter cleared.
func (m packagesModel) activate(sel *core.Selection) packagesModel {
	m.list.SetItems(packagesToItems(sel.VisiblePackages(), sel))
	m.list.ResetFilter()
	m.list.Select(0)
	return m
}

// refreshChecks rebuilds the items in place so checkbox state tracks the
// selection model without losing the cursor or an active filter.
func (m packagesModel) refreshChecks(sel *core.Selection) packagesModel {
	idx := m.list.Index()
	m.list.SetItems(packagesToItems(sel.VisiblePackages(), sel))
	m.list.Select(idx)
	return m
}

func (m packagesModel) selectedPackage() (core.Package, bool) {
	item := m.list.SelectedItem()
	if item == nil {
		return core.Package{}, false
	}
	pi, ok := item.(packageItem)
	if !ok {
		return core.Package{}, false
	}
	return pi.pkg, true
}

func (m packagesModel) update(msg tea.Msg, app *App) (packagesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys while filtering.
		if m.list.SettingFilter() {
			break
		}

		switch {
		case key.Matches(msg, keys.Toggle):
			pkg, ok := m.selectedPackage()
			if !ok {
				return m, nil
			}
			if err := app.session.Selection.TogglePackage(pkg.Name); err != nil {
				return m, app.toastCmd(fmt.Sprintf("Error: %v", err), toastError)
			}
			m = m.refreshChecks(app.session.Selection)
			return m, nil

		case key.Matches(msg, keys.SelectAll):
			app.session.Selection.SelectAllVisible()
			m = m.refreshChecks(app.session.Selection)
			return m, nil

		case key.Matches(msg, keys.SelectNone):
			app.session.Selection.SelectNoneVisible()
			m = m.refreshChecks(app.session.Selection)
			return m, nil

		case key.Matches(msg, keys.Preview):
			pkg, ok := m.selectedPackage()
			if !ok {
				return m, nil
			}
			return m, app.openPreview(pkg)

		case key.Matches(msg, keys.Back):
			return m, app.backToTags()

		case key.Matches(msg, keys.Enter):
			if app.session.Selection.ChosenCount() == 0 {
				return m, app.toastCmd("Choose at least one package first", toastWarning)
			}
			return m, app.confirmInstall()
		}
	}

	// Forward to list for navigation + filtering.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m packagesModel) view(sel *core.Selection) string {
	// --- Render-then-measure ---

	// 1. Render fixed chrome.
	sectionHeader := renderSectionHeader("SELECT PACKAGES") + "\n"
	chosen := sel.ChosenCount()
	visible := len(sel.VisiblePackages())
	status := mutedStyle.Render(fmt.Sprintf("   %d of %d chosen", chosen, visible)) + "\n"

	if visible == 0 {
		return sectionHeader + status +
			mutedStyle.Render("   No packages in the active ecosystems.") + "\n" +
			mutedStyle.Render("   Press [esc] to adjust the ecosystem filter.")
	}

	// 2. Measure chrome, size list to fill remaining space.
	chromeH := lipgloss.Height(sectionHeader + status)
	listH := m.height - chromeH
	if listH < 1 {
		listH = 1
	}
	m.list.SetSize(m.width, listH)

	// 3. Assemble.
	return sectionHeader + status + m.list.View()
}
