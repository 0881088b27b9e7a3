package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

// Run parses and evaluates programs.
type Run struct {
	Files []string `arg:"" default:"-" help:"Program source file(s) or '-' for stdin" name:"file" optional:""`

	KeepGoing   bool `help:"Report runtime errors and continue with the next statement" short:"k"`
	MaxDepth    int  `default:"0" help:"Maximum function call depth (0 for no limit)"`
	LexRecovery bool `help:"Skip illegal characters instead of failing the parse"`
}

// Run executes the run command.
//
// All files are evaluated in order in one root environment, so a program may
// use the functions and variables defined by the files before it.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	srcs, err := openSources(streams.In, r.Files)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithOutput(streams.Out),
		lang.WithMaxDepth(r.MaxDepth),
		lang.WithLexRecovery(r.LexRecovery),
	}

	env := lang.NewEnv()
	in := lang.New(opts...)
	failures := 0

	for _, src := range srcs {
		file := slog.String("file", src.name)

		prog, err := lang.ParseReader(ctx, src, opts...)
		if err != nil {
			fmt.Fprintf(streams.Err, "%s: %v\n", src.name, err)

			return ErrRun.With(file).Wrap(err)
		}

		for _, skipped := range prog.Skipped {
			fmt.Fprintf(streams.Err, "%s: %v\n", src.name, skipped)
		}

		log.DebugContext(ctx, "parsed program", file,
			slog.Int("statements", len(prog.Statements)))

		if !r.KeepGoing {
			if _, err := in.Run(ctx, prog, env); err != nil {
				fmt.Fprintf(streams.Err, "%s: %v\n", src.name, err)

				return ErrRun.With(file).Wrap(err)
			}

			continue
		}

		for _, stmt := range prog.Statements {
			_, err := in.Evaluate(ctx, stmt, env)
			if err == nil {
				continue
			}

			if errors.Is(err, lang.ErrCanceled) {
				return ErrRun.With(file).Wrap(err)
			}

			failures++

			fmt.Fprintf(streams.Err, "%s: %v\n", src.name, err)
			log.DebugContext(ctx, "statement failed", file, slog.Any("error", err))
		}
	}

	if failures > 0 {
		return ErrRun.With(slog.Int("failures", failures))
	}

	return nil
}
