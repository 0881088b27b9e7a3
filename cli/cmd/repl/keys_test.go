package repl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeLine(m model, line string) model {
	m.input.SetValue(line)
	m.input.SetCursor(len(line))

	return m
}

func TestHandleKey_EnterEvaluates(t *testing.T) {
	m := typeLine(testModel(t, ""), "total = 7")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("Enter returned no command")
	}

	if v, ok := m.session.env.Lookup("total"); !ok || v.String() != "7" {
		t.Errorf("total = %v (bound %v), want 7", v, ok)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after Enter, want empty", m.input.Value())
	}

	if m.history.Len() != 1 || m.historyIdx != 1 {
		t.Errorf("history Len() = %d, historyIdx = %d, want 1, 1", m.history.Len(), m.historyIdx)
	}
}

func TestHandleKey_EscTogglesMode(t *testing.T) {
	m := typeLine(testModel(t, ""), "x = 1")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode %v, input %q", m.mode, m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeEval || m.input.Value() != "x = 1" {
		t.Errorf("after second Esc: mode %v, input %q, want eval, %q", m.mode, m.input.Value(), "x = 1")
	}
}

func TestHandleKey_CtrlC(t *testing.T) {
	m := typeLine(testModel(t, ""), "partial")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting || cmd != nil || m.input.Value() != "" {
		t.Fatalf("Ctrl+C on input: quitting %v, input %q", m.quitting, m.input.Value())
	}

	m, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || cmd == nil {
		t.Error("Ctrl+C on empty input did not quit")
	}
}

func TestHandleKey_History(t *testing.T) {
	m := testModel(t, "")

	for _, e := range []HistoryEntry{
		{"a = 1", modeEval},
		{"list", modeCtrl},
		{"b = 2", modeEval},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		key      tea.KeyMsg
		wantLine string
		wantMode inputMode
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, "b = 2", modeEval},
		{tea.KeyMsg{Type: tea.KeyUp}, "list", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyUp}, "a = 1", modeEval},
		{tea.KeyMsg{Type: tea.KeyUp}, "a = 1", modeEval},
		{tea.KeyMsg{Type: tea.KeyShiftDown}, "b = 2", modeEval},
		{tea.KeyMsg{Type: tea.KeyDown}, "", modeEval},
		{tea.KeyMsg{Type: tea.KeyUp, Alt: true}, "list", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyDown, Alt: true}, "", modeEval},
	}

	for i, step := range steps {
		m, _ = m.handleKey(step.key)

		if m.input.Value() != step.wantLine || m.mode != step.wantMode {
			t.Fatalf("step %d (%s): input %q mode %v, want %q mode %v",
				i, step.key, m.input.Value(), m.mode, step.wantLine, step.wantMode)
		}
	}
}

func TestExecuteCommand(t *testing.T) {
	tests := []struct {
		input    string
		quitting bool
	}{
		{"help", false},
		{"list", false},
		{"clear", false},
		{"nosuch", false},
		{"quit", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			m, cmd := testModel(t, "").executeCommand(tt.input)
			if cmd == nil {
				t.Errorf("executeCommand(%q) returned no command", tt.input)
			}

			if m.quitting != tt.quitting {
				t.Errorf("quitting = %v, want %v", m.quitting, tt.quitting)
			}
		})
	}
}

func TestExecuteCommand_Reset(t *testing.T) {
	m, _ := testModel(t, "").executeCommand("reset")

	if _, ok := m.session.env.Lookup("counter"); ok {
		t.Error("counter is still bound after reset")
	}
}
