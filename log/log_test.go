package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestMake_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithTimeLayout("none"))
	logger.Info("hello", slog.String("user", "alice"), slog.Int("n", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if rec["msg"] != "hello" || rec["level"] != "INFO" {
		t.Errorf("unexpected record: %v", rec)
	}

	if rec["user"] != "alice" || rec["n"] != float64(3) {
		t.Errorf("attributes missing: %v", rec)
	}

	if _, ok := rec["time"]; ok {
		t.Errorf("time present with layout none: %v", rec)
	}
}

func TestMake_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
	logger.Warn("careful", slog.String("why", "reasons"))

	out := buf.String()
	for _, want := range []string{"level=WARN", "msg=careful", "why=reasons", "time="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  []string
		skip  []string
	}{
		{"trace", LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}, nil},
		{"info", LevelInfo, []string{"INFO", "WARN", "ERROR"}, []string{"TRACE", "DEBUG"}},
		{"error", LevelError, []string{"ERROR"}, []string{"TRACE", "DEBUG", "INFO", "WARN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(tt.level), WithPretty(false))
			logger.Trace("m")
			logger.Debug("m")
			logger.Info("m")
			logger.Warn("m")
			logger.Error("m")

			out := buf.String()

			for _, level := range tt.want {
				if !strings.Contains(out, `"level":"`+level+`"`) {
					t.Errorf("expected %s record in:\n%s", level, out)
				}
			}

			for _, level := range tt.skip {
				if strings.Contains(out, `"level":"`+level+`"`) {
					t.Errorf("unexpected %s record in:\n%s", level, out)
				}
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false))
	child := base.With(slog.String("component", "parser"))

	child.Info("one")
	base.Info("two")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], `"component":"parser"`) {
		t.Errorf("child record lacks attribute: %s", lines[0])
	}

	if strings.Contains(lines[1], "component") {
		t.Errorf("parent record gained attribute: %s", lines[1])
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false))
	debug := base.Wrap(WithLevel(LevelDebug), WithFormat(FormatText))

	if base.Level() != LevelInfo || base.Format() != FormatJSON {
		t.Errorf("Wrap modified the original logger: %s %s", base.Level(), base.Format())
	}

	if debug.Level() != LevelDebug || debug.Format() != FormatText {
		t.Errorf("Wrap did not apply options: %s %s", debug.Level(), debug.Format())
	}

	debug.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("wrapped logger did not write to the original output: %q", buf.String())
	}
}

func TestLogger_Zero(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("ignored")
	logger.TraceContext(context.Background(), "ignored")
	logger = logger.With(slog.String("k", "v"))

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Errorf("zero logger reports %s %s", logger.Level(), logger.Format())
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithCaller(true))
	logger.Info("where")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller does not point at the test: %s", buf.String())
	}
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", "TypeError"), slog.Int("line", 4))
}

func TestPretty(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{
			name:   "text",
			format: FormatText,
			want:   []string{"msg", "started", "err.kind", "TypeError", "cause", "boom"},
		},
		{
			name:   "json",
			format: FormatJSON,
			want:   []string{"{\n", "msg", "started", "kind", "TypeError", "line", "4", "}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithFormat(tt.format), WithPretty(true))
			logger.With(slog.String("module", "lang")).Info("started",
				slog.Any("err", valuer{}),
				slog.Any("cause", errors.New("boom")))

			out := buf.String()
			if !strings.Contains(out, colorReset) {
				t.Errorf("pretty output is not colorized: %q", out)
			}

			for _, want := range append(tt.want, "module", "lang", "INFO") {
				if !strings.Contains(out, want) {
					t.Errorf("output does not contain %q:\n%s", want, out)
				}
			}
		})
	}
}
