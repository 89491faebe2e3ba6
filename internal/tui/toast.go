package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// toastKind selects the visual style of a toast notification.
type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
	toastWarning
)

// toastAutoDismiss is how long a toast stays visible.
const toastAutoDismiss = 3 * time.Second

// toastModel manages a single notification displayed in the help bar
// area. At most one toast is visible; showing a new one replaces it.
type toastModel struct {
	active  bool
	message string
	kind    toastKind
	id      int // Monotonic ID to ignore stale dismiss timers.
	nextID  int
}

// toastDismissMsg is sent by the auto-dismiss timer.
type toastDismissMsg struct {
	id int
}

func newToastModel() toastModel {
	return toastModel{}
}

// show displays a new toast and schedules its dismissal.
func (m toastModel) show(message string, kind toastKind) (toastModel, tea.Cmd) {
	m.active = true
	m.message = message
	m.kind = kind
	m.id = m.nextID
	m.nextID++

	id := m.id
	return m, tea.Tick(toastAutoDismiss, func(_ time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

// update handles dismiss timers.
func (m toastModel) update(msg tea.Msg) (toastModel, tea.Cmd) {
	if dismiss, ok := msg.(toastDismissMsg); ok && dismiss.id == m.id {
		m.active = false
		m.message = ""
	}
	return m, nil
}

// view renders the toast left-aligned with 1 char indent, or empty
// when inactive.
func (m toastModel) view() string {
	if !m.active {
		return ""
	}

	var style lipgloss.Style
	switch m.kind {
	case toastError:
		style = errorStyle
	case toastWarning:
		style = warningStyle
	default:
		style = successStyle
	}
	return " " + style.Render(m.message)
}
