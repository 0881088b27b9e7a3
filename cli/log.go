package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/minilang/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// Kong calls it while parsing --log-format, early enough to affect the error
// messages of the parse itself.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"warn"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format (a layout name or 'none')."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() { log.TraceContext(ctx, "logger stopped") }
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before kong begins parsing, so the logger is
// configured regardless of flag position.
//
// Level and format are also applied by their UnmarshalText as kong parses
// them, but boolean flags never are.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		negated := strings.HasPrefix(name, "--no-log-")
		if negated {
			name = "--log-" + strings.TrimPrefix(name, "--no-log-")
		} else if !strings.HasPrefix(name, "--log-") {
			continue
		}

		// next consumes the following argument as the value of a non-boolean
		// flag given without '='.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		// boolean reports the value of a boolean flag, if it is valid.
		boolean := func() (bool, bool) {
			v := true

			if assigned {
				var err error

				v, err = strconv.ParseBool(value)
				if err != nil {
					return false, false
				}
			}

			return v != negated, true
		}

		switch name {
		case "--log-level":
			if !negated {
				_ = f.Level.UnmarshalText([]byte(next()))
			}

		case "--log-format":
			if !negated {
				_ = f.Format.UnmarshalText([]byte(next()))
			}

		case "--log-pretty":
			if v, ok := boolean(); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "--log-caller":
			if v, ok := boolean(); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}
