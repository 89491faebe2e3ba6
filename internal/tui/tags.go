package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdkup/sdkup/internal/core"
)

// tagsModel is the ecosystem filter stage: a checkbox list over the
// catalog's tags in declared order. Space toggles; toggling a tag off
// cascades into the chosen set via the selection model.
type tagsModel struct {
	width  int
	height int

	cursor int
	tags   []core.TagView
}

func newTagsModel() tagsModel {
	return tagsModel{}
}

func (m tagsModel) setSize(width, height int) tagsModel {
	m.width = width
	m.height = height
	return m
}

// refresh pulls the current tag views from the selection model.
func (m tagsModel) refresh(sel *core.Selection) tagsModel {
	m.tags = sel.VisibleTags()
	if m.cursor >= len(m.tags) {
		m.cursor = 0
	}
	return m
}

func (m tagsModel) update(msg tea.Msg, app *App) (tagsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.tags)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, keys.Toggle):
		if len(m.tags) == 0 {
			return m, nil
		}
		if err := app.session.Selection.ToggleTag(m.tags[m.cursor].Key); err != nil {
			return m, app.toastCmd(fmt.Sprintf("Error: %v", err), toastError)
		}
		m = m.refresh(app.session.Selection)

	case key.Matches(keyMsg, keys.SelectAll):
		app.session.Selection.ActivateAllTags()
		m = m.refresh(app.session.Selection)

	case key.Matches(keyMsg, keys.SelectNone):
		app.session.Selection.DeactivateAllTags()
		m = m.refresh(app.session.Selection)

	case key.Matches(keyMsg, keys.Enter):
		if app.session.Selection.ActiveCount() == 0 {
			return m, app.toastCmd("Activate at least one ecosystem first", toastWarning)
		}
		return m, app.advanceToPackages()
	}

	return m, nil
}

func (m tagsModel) view() string {
	var b strings.Builder

	b.WriteString(renderSectionHeader("SELECT ECOSYSTEMS"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("   Only packages from active ecosystems are offered in the next step."))
	b.WriteString("\n\n")

	for i, tv := range m.tags {
		check := "[ ]"
		if tv.Active {
			check = "[x]"
		}

		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}

		line := prefix + check + " " + tv.DisplayName
		count := mutedStyle.Render(fmt.Sprintf(" (%d packages)", len(tv.Packages)))
		if len(tv.Packages) == 1 {
			count = mutedStyle.Render(" (1 package)")
		}

		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render(line))
		} else {
			b.WriteString(normalItemStyle.Render(line))
		}
		b.WriteString(count)
		b.WriteString("\n")
	}

	return b.String()
}
