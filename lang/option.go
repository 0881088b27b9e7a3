package lang

import (
	"io"
	"os"

	"github.com/ardnew/minilang/log"
)

// options collects the settings shared by the parser and the interpreter.
type options struct {
	output      io.Writer
	logger      log.Logger
	maxDepth    int
	lexRecovery bool
}

func makeOptions(opts ...Option) options {
	o := options{output: os.Stdout}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Option configures [Parse] and [New].
type Option func(*options)

// WithLogger sets the logger used for trace and diagnostic output.
// The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOutput sets the writer that print statements write to.
// The default is [os.Stdout]; a nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.output = w
	}
}

// WithMaxDepth limits how deeply function calls may nest. A call that would
// exceed depth fails with a MaxDepthExceeded [RuntimeError]. Zero or a
// negative depth means no limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = max(depth, 0) }
}

// WithLexRecovery controls whether [Parse] continues past illegal characters.
//
// When enabled, each illegal character is skipped and its error recorded in
// [Program.Skipped]. Otherwise the first one fails the parse.
func WithLexRecovery(enable bool) Option {
	return func(o *options) { o.lexRecovery = enable }
}
