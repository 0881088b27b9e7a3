package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

// Fmt parses a program and writes its syntax tree in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented tree."`
}

// Input is the program operand shared by the fmt subcommands.
type Input struct {
	Source      string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
	LexRecovery bool   `help:"Skip illegal characters instead of failing the parse"`
}

// parse reads and parses the program named by Source.
func (i Input) parse(ctx context.Context, format string) (*lang.Program, error) {
	name, src, err := readSource(ctx, i.Source)
	if err != nil {
		return nil, err
	}

	prog, err := lang.Parse(ctx, src,
		lang.WithLogger(log.Default()),
		lang.WithLexRecovery(i.LexRecovery))
	if err != nil {
		return nil, ErrFormat.
			With(slog.String("format", format), slog.String("file", name)).
			Wrap(err)
	}

	for _, skipped := range prog.Skipped {
		fmt.Fprintf(streamsFrom(ctx).Err, "%s: %v\n", name, skipped)
	}

	return prog, nil
}

// Native formats a program as canonical source.
type Native struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width, or 0 to write each block on one line" short:"i"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	return prog.Format(ctx, streamsFrom(ctx).Out, f.Indent)
}

// JSON formats a program's syntax tree as JSON.
type JSON struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output, or 0 for one line" short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return prog.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent)
}

// YAML formats a program's syntax tree as YAML.
type YAML struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output, or 0 for flow style" short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return prog.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent)
}

// AST formats a program's syntax tree as an indented outline.
type AST struct {
	Input `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return prog.Dump(streamsFrom(ctx).Out)
}
