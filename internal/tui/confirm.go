package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel is a reusable yes/no dialog rendered as a centered
// bordered modal over the content area. While active it intercepts
// all key input.
//
// Both outcomes carry a command so callers can react to "no" as well:
// the installing stage uses that to record a skipped outcome when the
// user declines an update.
type confirmModel struct {
	active    bool
	message   string
	onConfirm tea.Cmd
	onCancel  tea.Cmd
	focusYes  bool

	width  int
	height int
}

func newConfirmModel() confirmModel {
	return confirmModel{}
}

// show activates the dialog. Focus defaults to No.
func (m confirmModel) show(message string, onConfirm, onCancel tea.Cmd) confirmModel {
	m.active = true
	m.message = message
	m.onConfirm = onConfirm
	m.onCancel = onCancel
	m.focusYes = false
	return m
}

// setSize updates the area the dialog centers itself in.
func (m confirmModel) setSize(width, height int) confirmModel {
	m.width = width
	m.height = height
	return m
}

func (m confirmModel) dismiss() confirmModel {
	m.active = false
	m.message = ""
	m.onConfirm = nil
	m.onCancel = nil
	m.focusYes = false
	return m
}

func (m confirmModel) confirm() (confirmModel, tea.Cmd) {
	cmd := m.onConfirm
	return m.dismiss(), cmd
}

func (m confirmModel) cancel() (confirmModel, tea.Cmd) {
	cmd := m.onCancel
	return m.dismiss(), cmd
}

// update handles key input while the dialog is active. The third
// return value says whether the message was consumed.
func (m confirmModel) update(msg tea.Msg) (confirmModel, tea.Cmd, bool) {
	if !m.active {
		return m, nil, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, confirmYesKey):
		m, cmd := m.confirm()
		return m, cmd, true

	case key.Matches(keyMsg, confirmNoKey), key.Matches(keyMsg, keys.Back):
		m, cmd := m.cancel()
		return m, cmd, true

	case key.Matches(keyMsg, keys.Enter):
		if m.focusYes {
			m, cmd := m.confirm()
			return m, cmd, true
		}
		m, cmd := m.cancel()
		return m, cmd, true

	case key.Matches(keyMsg, confirmLeft), key.Matches(keyMsg, confirmRight),
		key.Matches(keyMsg, confirmTab):
		m.focusYes = !m.focusYes
		return m, nil, true
	}

	// Swallow everything else while the dialog is up.
	return m, nil, true
}

// view renders the centered dialog box.
func (m confirmModel) view() string {
	if !m.active {
		return ""
	}

	width := 48
	for _, line := range strings.Split(m.message, "\n") {
		if w := lipgloss.Width(line); w+4 > width {
			width = w + 4
		}
	}

	question := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(m.message)

	var yesBtn, noBtn string
	if m.focusYes {
		yesBtn = dialogActiveButtonStyle.Render("Yes")
		noBtn = dialogButtonStyle.Render("No")
	} else {
		yesBtn = dialogButtonStyle.Render("Yes")
		noBtn = dialogActiveButtonStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn)
	dialog := dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, question, "", buttons))

	if m.width <= 0 || m.height <= 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

// Key bindings local to the confirm dialog.
var (
	confirmYesKey = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	)
	confirmNoKey = key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "no"),
	)
	confirmLeft  = key.NewBinding(key.WithKeys("left", "h"))
	confirmRight = key.NewBinding(key.WithKeys("right", "l"))
	confirmTab   = key.NewBinding(key.WithKeys("tab", "shift+tab"))
)
