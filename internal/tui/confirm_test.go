package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmedMsg struct{}
type declinedMsg struct{}

func activeConfirm() confirmModel {
	m := newConfirmModel()
	return m.show("Pull latest changes?",
		func() tea.Msg { return confirmedMsg{} },
		func() tea.Msg { return declinedMsg{} },
	)
}

func TestNewConfirmModel(t *testing.T) {
	m := newConfirmModel()
	if m.active {
		t.Error("new confirm should not be active")
	}
	if m.onConfirm != nil || m.onCancel != nil {
		t.Error("callbacks should be nil before show")
	}
}

func TestConfirmShow(t *testing.T) {
	m := activeConfirm()
	if !m.active {
		t.Error("confirm should be active after show")
	}
	if m.message != "Pull latest changes?" {
		t.Errorf("message = %q, want %q", m.message, "Pull latest changes?")
	}
	if m.onConfirm == nil || m.onCancel == nil {
		t.Error("both callbacks should be set after show")
	}
	if m.focusYes {
		t.Error("default focus should be on No")
	}
}

func TestConfirmYesKey(t *testing.T) {
	m := activeConfirm()

	yKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	m, cmd, consumed := m.update(yKey)

	if !consumed {
		t.Error("y key should be consumed")
	}
	if m.active {
		t.Error("confirm should be dismissed after y")
	}
	if cmd == nil {
		t.Fatal("cmd should not be nil after y")
	}
	if _, ok := cmd().(confirmedMsg); !ok {
		t.Error("y should run the onConfirm command")
	}
}

func TestConfirmNoKeyRunsCancelCommand(t *testing.T) {
	m := activeConfirm()

	nKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
	m, cmd, consumed := m.update(nKey)

	if !consumed {
		t.Error("n key should be consumed")
	}
	if m.active {
		t.Error("confirm should be dismissed after n")
	}
	if cmd == nil {
		t.Fatal("cmd should not be nil after n")
	}
	if _, ok := cmd().(declinedMsg); !ok {
		t.Error("n should run the onCancel command")
	}
}

func TestConfirmEscCancels(t *testing.T) {
	m := activeConfirm()

	escKey := tea.KeyMsg{Type: tea.KeyEscape}
	m, cmd, consumed := m.update(escKey)

	if !consumed {
		t.Error("esc should be consumed")
	}
	if m.active {
		t.Error("confirm should be dismissed after esc")
	}
	if cmd == nil {
		t.Fatal("cmd should not be nil after esc")
	}
	if _, ok := cmd().(declinedMsg); !ok {
		t.Error("esc should run the onCancel command")
	}
}

func TestConfirmEnterFollowsFocus(t *testing.T) {
	m := activeConfirm()

	// Default focus is No: enter cancels.
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	dismissed, cmd, _ := m.update(enter)
	if dismissed.active {
		t.Error("confirm should be dismissed after enter")
	}
	if _, ok := cmd().(declinedMsg); !ok {
		t.Error("enter on No should run the onCancel command")
	}

	// Tab moves focus to Yes: enter confirms.
	m = activeConfirm()
	tab := tea.KeyMsg{Type: tea.KeyTab}
	m, _, _ = m.update(tab)
	if !m.focusYes {
		t.Fatal("tab should move focus to Yes")
	}
	m, cmd, _ = m.update(enter)
	if _, ok := cmd().(confirmedMsg); !ok {
		t.Error("enter on Yes should run the onConfirm command")
	}
}

func TestConfirmFocusToggles(t *testing.T) {
	m := activeConfirm()

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyLeft},
		{Type: tea.KeyRight},
		{Type: tea.KeyTab},
		{Type: tea.KeyShiftTab},
		{Type: tea.KeyRunes, Runes: []rune{'h'}},
		{Type: tea.KeyRunes, Runes: []rune{'l'}},
	} {
		before := m.focusYes
		var consumed bool
		m, _, consumed = m.update(k)
		if !consumed {
			t.Errorf("key %v should be consumed", k)
		}
		if m.focusYes == before {
			t.Errorf("key %v should toggle focus", k)
		}
	}
}

func TestConfirmSwallowsOtherKeys(t *testing.T) {
	m := activeConfirm()

	for _, r := range []rune{'a', 'z', 'q', 'x', '1'} {
		k := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		m2, cmd, consumed := m.update(k)
		if !consumed {
			t.Errorf("key %q should be consumed while the dialog is up", string(r))
		}
		if !m2.active {
			t.Errorf("key %q should not dismiss the dialog", string(r))
		}
		if cmd != nil {
			t.Errorf("key %q should return nil cmd", string(r))
		}
	}
}

func TestConfirmInactiveIgnoresKeys(t *testing.T) {
	m := newConfirmModel()

	yKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	_, cmd, consumed := m.update(yKey)

	if consumed {
		t.Error("inactive confirm should not consume keys")
	}
	if cmd != nil {
		t.Error("inactive confirm should return nil cmd")
	}
}

func TestConfirmNonKeyMsgIgnored(t *testing.T) {
	m := activeConfirm()

	m2, cmd, consumed := m.update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if consumed {
		t.Error("non-key message should not be consumed")
	}
	if cmd != nil {
		t.Error("non-key message should return nil cmd")
	}
	if !m2.active {
		t.Error("confirm should remain active after non-key message")
	}
}

func TestConfirmView(t *testing.T) {
	m := newConfirmModel()
	if v := m.view(); v != "" {
		t.Errorf("view() = %q, want empty when inactive", v)
	}

	m = activeConfirm()
	m = m.setSize(80, 24)
	v := m.view()
	if !strings.Contains(v, "Pull latest changes?") {
		t.Errorf("view() should contain the question, got %q", v)
	}
	if !strings.Contains(v, "Yes") || !strings.Contains(v, "No") {
		t.Errorf("view() should contain both buttons, got %q", v)
	}

	m = m.dismiss()
	if v := m.view(); v != "" {
		t.Errorf("view() = %q, want empty after dismiss", v)
	}
}

func TestConfirmViewWithoutSize(t *testing.T) {
	m := activeConfirm()
	// No setSize: still renders the box, just not centered.
	v := m.view()
	if !strings.Contains(v, "Pull latest changes?") {
		t.Errorf("view() should contain the question, got %q", v)
	}
}
