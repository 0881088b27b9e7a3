// Package repl implements the interactive read-eval-print loop of minilang.
//
// Every line entered in eval mode is parsed and evaluated in one persistent
// root environment, so definitions carry over between lines. A line may hold
// a complete program using ';' separators and inline blocks. The value of a
// trailing expression is echoed.
//
// Esc toggles control mode, which accepts the commands listed by help.
package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this message
  list     List variables and functions
  edit     Edit the session program in external $EDITOR
  reset    Discard all variables and functions
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement or expression to evaluate it
  Separate statements with ';', e.g. x = 4; print(x * x)
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	outputStyle     = lipgloss.NewStyle()
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)

	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// Config configures a REPL session.
type Config struct {
	// CacheDir is the directory holding the history file. An empty CacheDir
	// keeps history in memory only.
	CacheDir string
	// Logger receives trace output of the session and the interpreter.
	Logger log.Logger
	// Options are applied to parsing and evaluation of every input.
	Options []lang.Option
	// Preload is evaluated before the session starts.
	Preload []io.Reader
	// Input and Output replace the terminal, if set.
	Input  io.Reader
	Output io.Writer
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	session          *session
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts an interactive session and blocks until the user quits.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := cfg.Logger

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("preload_count", len(cfg.Preload)))

	s := newSession(logger, cfg.Options...)

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	for _, r := range cfg.Preload {
		res, err := s.load(ctx, r)
		fmt.Fprint(out, res.output)

		if err != nil {
			return err
		}
	}

	var historyPath string
	if cfg.CacheDir != "" {
		historyPath = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(historyPath)

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()))

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	_, err = tea.NewProgram(newModel(ctx, s, history, logger), opts...).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// editDoneMsg is sent when an edit completes. A nil program means the user
// cleared the editor content.
type editDoneMsg struct{ program *lang.Program }

// editDeclinedMsg is sent when the user declined to re-edit after a syntax
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-syntax error.
type editErrorMsg struct{ err error }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		if msg.program == nil {
			return m, tea.Println(hintStyle.Render("🗴 — edit cancelled"))
		}

		return m, m.replaceProgram(msg.program)

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("🗴 — edit abandoned"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 — error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	return b.String()
}

// statusLine returns the line shown below the input: the history position,
// a usage hint, a signature hint, or the completion candidates.
func (m model) statusLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && !m.tabActive {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if params, ok := signatureOf(m.session.env, call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	isFunc := func(name string) bool {
		return m.mode == modeEval && isFunction(m.session.env, name)
	}

	return renderCandidateBar(m.matches, isFunc, m.suggIdx, m.tabActive, m.width)
}
