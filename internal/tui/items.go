package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdkup/sdkup/internal/core"
)

// packageItem wraps a catalog package for the bubbles list, carrying
// its current chosen state.
type packageItem struct {
	pkg    core.Package
	chosen bool
}

func (i packageItem) FilterValue() string { return i.pkg.Name }

// packagesToItems converts visible packages into list items, marking
// the chosen ones.
func packagesToItems(pkgs []core.Package, sel *core.Selection) []list.Item {
	items := make([]list.Item, len(pkgs))
	for idx, p := range pkgs {
		items[idx] = packageItem{pkg: p, chosen: sel.IsChosen(p.Name)}
	}
	return items
}

// packageDelegate renders one package per line as a checkbox row:
//
//	> [x] Google ADK  (Python)  Google Agent Development Kit
type packageDelegate struct{}

func (d packageDelegate) Height() int                             { return 1 }
func (d packageDelegate) Spacing() int                            { return 0 }
func (d packageDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d packageDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(packageItem)
	if !ok {
		return
	}

	check := "[ ]"
	if pi.chosen {
		check = "[x]"
	}

	tag := mutedStyle.Render(" (" + pi.pkg.TagName + ")")
	desc := ""
	if pi.pkg.Description != "" {
		desc = mutedStyle.Render("  " + pi.pkg.Description)
	}

	if index == m.Index() {
		fmt.Fprint(w, selectedItemStyle.Render("> "+check+" "+pi.pkg.Name)+tag+desc)
		return
	}
	fmt.Fprint(w, normalItemStyle.Render("  "+check+" "+pi.pkg.Name)+tag+desc)
}
