package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal, either as key=value
// pairs on one line or as an indented JSON-like object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr // from WithAttrs, already qualified by group
	prefix string      // open groups joined by "."
	json   bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	json bool,
) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		json: json,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(cp.attrs[:len(cp.attrs):len(cp.attrs)], h.qualify(attrs)...)

	return &cp
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	cp := *h
	cp.prefix = h.prefix + name + "."

	return &cp
}

// qualify prefixes attribute keys with the open groups.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.appendBuiltin(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.appendBuiltin(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = h.appendBuiltin(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = h.appendBuiltin(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify([]slog.Attr{a})...)

		return true
	})

	buf := new(bytes.Buffer)

	if h.json {
		h.writeObject(buf, fields, 1)
	} else {
		h.writeLine(buf, "", fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// appendBuiltin appends a built-in attribute after passing it through
// ReplaceAttr. A replacement with an empty key is dropped.
func (h *prettyHandler) appendBuiltin(fields []slog.Attr, a slog.Attr) []slog.Attr {
	if h.opts.ReplaceAttr != nil {
		// The level is colored by its original value.
		level, isLevel := a.Value.Any().(slog.Level)

		a = h.opts.ReplaceAttr(nil, a)
		if a.Key == "" {
			return fields
		}

		if isLevel {
			a.Value = slog.AnyValue(coloredLevel{level, a.Value.String()})
		}
	}

	return append(fields, a)
}

// coloredLevel is a level whose text has been replaced.
type coloredLevel struct {
	level slog.Level
	text  string
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, prefix string, attrs []slog.Attr) {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() == slog.KindGroup {
			h.writeLine(buf, prefix+a.Key+".", a.Value.Group())

			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(prefix + a.Key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')
		writeValue(buf, a.Value)
	}
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString("{\n")

	for i, a := range attrs {
		a.Value = a.Value.Resolve()

		buf.WriteString(indent)
		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		if a.Value.Kind() == slog.KindGroup {
			h.writeObject(buf, a.Value.Group(), depth+1)
		} else {
			writeValue(buf, a.Value)
		}

		if i < len(attrs)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString(strings.Repeat("  ", depth-1))
	buf.WriteByte('}')
}

func colorize(buf *bytes.Buffer, color, text string) {
	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		colorize(buf, colorCyan, v.String())

	case slog.KindInt64:
		colorize(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		colorize(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		colorize(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			colorize(buf, colorGreen, "true")
		} else {
			colorize(buf, colorRed, "false")
		}

	case slog.KindDuration:
		colorize(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		colorize(buf, colorBlue, v.Time().Format(time.RFC3339))

	default:
		switch val := v.Any().(type) {
		case coloredLevel:
			colorize(buf, levelColor(val.level), val.text)
		case slog.Level:
			colorize(buf, levelColor(val), val.String())
		case error:
			colorize(buf, colorRed, val.Error())
		case nil:
			colorize(buf, colorGray, "null")
		default:
			colorize(buf, colorCyan, fmt.Sprint(val))
		}
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}
