package log

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the lowercase name of the level. Levels between the named
// ones are rendered relative to the nearest named level below, as in
// "info+2".
func (l Level) String() string {
	if l < LevelTrace {
		return "trace" + strconv.Itoa(int(l-LevelTrace))
	}

	name := "trace"
	base := LevelTrace

	for _, named := range levels {
		if l >= named {
			base = named
		}
	}

	switch base {
	case LevelDebug:
		name = "debug"
	case LevelInfo:
		name = "info"
	case LevelWarn:
		name = "warn"
	case LevelError:
		name = "error"
	}

	if l == base {
		return name
	}

	return name + "+" + strconv.Itoa(int(l-base))
}

// Levels returns an iterator over the names of all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range levels {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a string representation of a log level.
// Valid level strings are "trace", "debug", "info", "warn" and "error" in any
// case, optionally followed by "+" or "-" and an integer offset. Anything else
// yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	// slog does not know about trace.
	if len(s) >= 5 && strings.EqualFold(s[:5], "trace") {
		var l slog.Level
		if err := l.UnmarshalText([]byte("debug" + s[5:])); err != nil {
			return DefaultLevel
		}

		return Level(l) + LevelTrace - LevelDebug
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{FormatJSON, FormatText} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a string representation of a log format.
// Valid format strings are "json" and "text"; anything else yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}
