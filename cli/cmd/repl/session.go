package repl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

// session holds the language state of a REPL: a persistent root environment
// shared by every evaluated input, and the statements evaluated so far.
type session struct {
	opts   []lang.Option
	logger log.Logger
	interp *lang.Interpreter
	output *bytes.Buffer // captures print statements
	env    *lang.Env
	stmts  []lang.Node
}

func newSession(logger log.Logger, opts ...lang.Option) *session {
	s := &session{
		opts:   opts,
		logger: logger,
		output: new(bytes.Buffer),
	}

	s.interp = lang.New(append(s.parseOptions(), lang.WithOutput(s.output))...)
	s.reset()

	return s
}

// parseOptions returns the options shared by parsing and evaluation.
func (s *session) parseOptions() []lang.Option {
	return append([]lang.Option{lang.WithLogger(s.logger)}, s.opts...)
}

// reset discards every binding and the evaluated statements.
func (s *session) reset() {
	s.env = lang.NewEnv()
	s.stmts = nil
}

// result is the outcome of evaluating one input.
type result struct {
	output string // text written by print statements
	echo   string // value of a trailing expression, if any
}

// eval parses and evaluates source in the session environment. Statements
// that ran before a runtime error keep their effects, and are remembered.
func (s *session) eval(ctx context.Context, source string) (result, error) {
	prog, err := lang.Parse(ctx, source, s.parseOptions()...)
	if err != nil {
		return result{}, err
	}

	return s.run(ctx, prog)
}

func (s *session) run(ctx context.Context, prog *lang.Program) (res result, err error) {
	defer func() {
		res.output = s.output.String()
		s.output.Reset()
	}()

	for _, skipped := range prog.Skipped {
		fmt.Fprintf(s.output, "skipped: %v\n", skipped)
	}

	var value lang.Value

	for _, stmt := range prog.Statements {
		value, err = s.interp.Evaluate(ctx, stmt, s.env)
		if err != nil {
			return res, err
		}

		s.stmts = append(s.stmts, stmt)
	}

	if prog.EndsWithExpr() && !value.IsNone() {
		res.echo = value.String()
	}

	s.logger.TraceContext(ctx, "repl evaluated",
		slog.Int("statements", len(prog.Statements)),
		slog.Bool("echo", res.echo != ""))

	return res, nil
}

// load evaluates the program read from r, as by eval.
func (s *session) load(ctx context.Context, r io.Reader) (result, error) {
	prog, err := lang.ParseReader(ctx, r, s.parseOptions()...)
	if err != nil {
		return result{}, err
	}

	return s.run(ctx, prog)
}

// program returns the statements evaluated so far as a program.
func (s *session) program() *lang.Program {
	return &lang.Program{Statements: s.stmts}
}

// bindings describes every name visible in the session environment, one per
// line, as "name = value" or "name(a, b)" for functions.
func (s *session) bindings() string {
	var b strings.Builder

	for name, v := range s.env.Bindings() {
		if fn := v.AsFunction(); v.Kind() == lang.KindFunction && fn != nil && fn.Name == name {
			fmt.Fprintf(&b, "  %s\n", fn.Signature())

			continue
		}

		fmt.Fprintf(&b, "  %s = %s %s\n", name, preview(v), hintStyle.Render(v.Kind().String()))
	}

	return b.String()
}

// previewWidth is the maximum display width of a value shown by bindings.
const previewWidth = 40

func preview(v lang.Value) string {
	s := v.String()
	if v.Kind() == lang.KindString {
		s = lang.FormatNode(&lang.StringLiteral{Value: s})
	}

	return ansi.Truncate(s, previewWidth, "...")
}
