package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/minilang/cli/cmd/repl"
	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

// Repl starts an interactive session.
type Repl struct {
	Files []string `arg:"" help:"Program source file(s) to evaluate before the session starts" name:"file" optional:""`

	MaxDepth    int  `default:"0" help:"Maximum function call depth (0 for no limit)"`
	LexRecovery bool `help:"Skip illegal characters instead of failing the parse"`
	NoHistory   bool `help:"Do not read or write the history file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	srcs, err := openSources(streams.In, r.Files)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	preload := make([]io.Reader, len(srcs))
	for i, src := range srcs {
		preload[i] = src
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	log.DebugContext(ctx, "starting repl",
		slog.String("cache_dir", cacheDir),
		slog.Int("preload", len(preload)))

	err = repl.Run(ctx, repl.Config{
		CacheDir: cacheDir,
		Logger:   log.Default(),
		Options: []lang.Option{
			lang.WithMaxDepth(r.MaxDepth),
			lang.WithLexRecovery(r.LexRecovery),
		},
		Preload: preload,
		Output:  streams.Out,
	})
	if err != nil {
		return ErrRepl.Wrap(err)
	}

	return nil
}
