package log

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"
)

// FormatTime defines a function that formats a time.Time value as a string.
// An empty result omits the timestamp.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is the default setting for including caller information
// in log output.
const DefaultCaller = false

// DefaultPretty is the default setting for pretty printing log output.
const DefaultPretty = true

// config holds the configuration of a Logger. A config is never modified
// after the Logger holding it is created; options always apply to a copy.
type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// Option modifies a Logger configuration.
type Option func(*config)

// makeConfig returns the default configuration writing to w, overridden by
// opts.
func makeConfig(w io.Writer, opts ...Option) config {
	var c config

	WithDefaults(w)(&c)

	return c.with(opts...)
}

// with returns a copy of c with opts applied.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// handlerOptions returns the slog options implied by c. Timestamps are
// rendered by formatTime and levels by [Level.String], so that trace is not
// shown as "DEBUG-4".
func (c config) handlerOptions() *slog.HandlerOptions {
	formatTime := c.formatTime
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}

			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					s := formatTime(t)
					if s == "" {
						return slog.Attr{}
					}

					a.Value = slog.StringValue(s)
				}

			case slog.LevelKey:
				if level, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
				}
			}

			return a
		},
	}
}

// handler returns a slog.Handler implementing c.
func (c config) handler() slog.Handler {
	if c.output == nil {
		return slog.DiscardHandler
	}

	opts := c.handlerOptions()

	switch {
	case c.pretty && c.format == FormatJSON:
		return newPrettyHandler(c.output, opts, true)
	case c.pretty && c.format == FormatText:
		return newPrettyHandler(c.output, opts, false)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	default:
		return slog.DiscardHandler
	}
}

// WithDefaults returns a functional option that restores the default
// configuration writing to w: [DefaultTimeLayout], [DefaultLevel],
// [DefaultFormat], [DefaultCaller] and [DefaultPretty].
func WithDefaults(w io.Writer) Option {
	return func(c *config) {
		*c = config{
			formatTime: makeFormatTimeFunc(DefaultTimeLayout),
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		}

		WithOutput(w)(c)
	}
}

// WithOutput returns a functional option that sets the output [io.Writer]
// for log messages.
// If a nil writer is provided, [io.Discard] is used instead.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel returns a functional option that sets the minimum log level.
// Messages below this level are discarded.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat returns a functional option that sets the output format
// for log messages.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout returns a functional option that sets the layout used to
// format log timestamps.
//
// The layout string can be one of the named layouts from the [time] package
// (for example, "RFC3339" or "Kitchen") in any case. Otherwise, it is passed
// verbatim to [time.Time.Format].
//
// An empty or "none" layout disables timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.formatTime = makeFormatTimeFunc(layout) }
}

// WithCaller returns a functional option that controls whether caller
// information is included in log output.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty returns a functional option that controls whether log output
// is colorized. Pretty text omits quotes; pretty JSON is indented.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

// timeLayout maps named layouts to their corresponding time.Time constants.
var timeLayout = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,

	"stamp":      time.Stamp,
	"stampmilli": time.StampMilli,
	"ms":         time.StampMilli,
	"stampmicro": time.StampMicro,
	"us":         time.StampMicro,
	"stampnano":  time.StampNano,
	"ns":         time.StampNano,

	"none": "",
}

// TimeLayouts returns the sorted names of layouts accepted by
// [WithTimeLayout].
func TimeLayouts() []string {
	return slices.Sorted(maps.Keys(timeLayout))
}

func makeFormatTimeFunc(layout string) FormatTime {
	// Named layouts match ignoring case and punctuation.
	// Custom layouts are used verbatim.
	key := strings.Map(
		func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}

			return -1
		},
		strings.ToLower(layout),
	)

	if key == "" {
		return func(time.Time) string { return "" }
	}

	if std, ok := timeLayout[key]; ok {
		layout = std
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
