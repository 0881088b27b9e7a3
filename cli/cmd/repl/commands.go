package repl

import (
	"errors"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/minilang/lang"
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	refreshMatches(&m, false)

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command",
			slog.String("input", input))

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input))

	res, err := m.session.eval(m.ctxFunc(), input)

	return m, tea.Sequence(
		append([]tea.Cmd{tea.Println(formatCommand(input))}, printResult(res, err)...)...,
	)
}

// printResult returns the commands printing the output of an evaluation,
// followed by its echoed value or error.
func printResult(res result, err error) []tea.Cmd {
	var cmds []tea.Cmd

	if out := strings.TrimSuffix(res.output, "\n"); res.output != "" {
		cmds = append(cmds, tea.Println(outputStyle.Render(out)))
	}

	switch {
	case err != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	case res.echo != "":
		cmds = append(cmds, tea.Println(resultStyle.Render(res.echo)))
	}

	return cmds
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		list := m.session.bindings()
		if list == "" {
			list = hintStyle.Render("  (no bindings)")
		}

		return m, tea.Sequence(echoCmd, tea.Println(strings.TrimSuffix(list, "\n")))

	case "r", "reset":
		m.session.reset()
		refreshMatches(&m, false)

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// handleEdit opens the session program in the user's editor.
func (m model) handleEdit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		program: m.session.program(),
		opts:    m.session.parseOptions(),
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		return editDoneMsg{program: cmd.edited}
	})
}

// replaceProgram discards the session state and evaluates prog in its place.
func (m model) replaceProgram(prog *lang.Program) tea.Cmd {
	m.session.reset()

	res, err := m.session.run(m.ctxFunc(), prog)

	m.logger.TraceContext(m.ctxFunc(), "repl program replaced",
		slog.Int("statements", len(prog.Statements)),
		slog.Bool("failed", err != nil))

	return tea.Sequence(append(
		[]tea.Cmd{tea.Println(hintStyle.Render("✓ — program reloaded"))},
		printResult(res, err)...,
	)...)
}
