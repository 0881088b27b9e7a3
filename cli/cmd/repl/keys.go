package repl

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNavActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycleCandidate(1), nil

	case tea.KeyShiftTab:
		return m.cycleCandidate(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		return m.historyStep(-1), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1), nil
		}

		return m.historyStep(1), nil

	case tea.KeyShiftUp:
		return m.historyInMode(-1), nil

	case tea.KeyShiftDown:
		return m.historyInMode(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode(), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space is a "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycleCandidate replaces the current word with the next candidate in the
// direction of step (1 for Tab, -1 for Shift-Tab).
func (m model) cycleCandidate(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	// Single candidate: complete and confirm immediately.
	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// showHistory loads history entry i into the input, switching to its mode
// when switchMode is set. An index past the end clears the input.
func (m model) showHistory(i int, switchMode bool) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)

		return m
	}

	if switchMode && m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// historyStep moves through history in either mode, switching modes to match
// each entry.
func (m model) historyStep(step int) model {
	i := m.history.Seek(m.historyIdx, step, nil)
	if i < 0 {
		if step < 0 {
			return m
		}

		i = m.history.Len()
	}

	return m.showHistory(i, true)
}

// historyInMode moves through the history entries of the current mode only.
func (m model) historyInMode(step int) model {
	mode := m.mode

	i := m.history.Seek(m.historyIdx, step, func(e HistoryEntry) bool {
		return e.Mode == mode
	})
	if i < 0 {
		if step < 0 || m.historyIdx >= m.history.Len() {
			return m
		}

		i = m.history.Len()
	}

	return m.showHistory(i, false)
}

// historyCtrl moves through control-mode history from either mode. The
// original mode and input are restored when either end is reached.
func (m model) historyCtrl(step int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	i := m.history.Seek(m.historyIdx, step, func(e HistoryEntry) bool {
		return e.Mode == modeCtrl
	})
	if i >= 0 {
		return m.showHistory(i, false)
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving the input of each
// mode across switches.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
