package log

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelWarn), func(c config) bool { return c.level == LevelWarn }},
		{"trace", WithLevel(LevelTrace), func(c config) bool { return c.level == LevelTrace }},
		{"format", WithFormat(FormatText), func(c config) bool { return c.format == FormatText }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(false), func(c config) bool { return !c.pretty }},
		{"output", WithOutput(io.Discard), func(c config) bool { return c.output == io.Discard }},
		{"nil_output", WithOutput(nil), func(c config) bool { return c.output == io.Discard }},
		{"time", WithTimeLayout("kitchen"), func(c config) bool { return c.formatTime != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := config{pretty: true}
			tt.opt(&c)

			if !tt.check(c) {
				t.Errorf("option not applied: %+v", c)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	var buf bytes.Buffer

	c := makeConfig(&buf)

	if c.level != DefaultLevel || c.format != DefaultFormat {
		t.Errorf("unexpected defaults: level=%s format=%s", c.level, c.format)
	}

	if c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: caller=%t pretty=%t", c.caller, c.pretty)
	}

	if c.output != &buf {
		t.Error("output not set")
	}
}

func TestConfig_WithIsCopy(t *testing.T) {
	base := makeConfig(io.Discard)
	derived := base.with(WithLevel(LevelError), WithFormat(FormatText))

	if base.level != DefaultLevel || base.format != DefaultFormat {
		t.Errorf("with modified the receiver: %+v", base)
	}

	if derived.level != LevelError || derived.format != FormatText {
		t.Errorf("with did not apply options: %+v", derived)
	}
}

func TestConfig_Handler(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		pretty bool
		want   string
	}{
		{"json", FormatJSON, false, "*slog.JSONHandler"},
		{"text", FormatText, false, "*slog.TextHandler"},
		{"pretty_json", FormatJSON, true, "*log.prettyHandler"},
		{"pretty_text", FormatText, true, "*log.prettyHandler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := makeConfig(io.Discard, WithFormat(tt.format), WithPretty(tt.pretty))

			if got := typeName(c.handler()); got != tt.want {
				t.Errorf("handler type = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *slog.JSONHandler:
		return "*slog.JSONHandler"
	case *slog.TextHandler:
		return "*slog.TextHandler"
	case *prettyHandler:
		return "*log.prettyHandler"
	default:
		return "other"
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-05T14:07:09Z"},
		{"rfc-3339", "2024-03-05T14:07:09Z"},
		{"Kitchen", "2:07PM"},
		{"DateOnly", "2024-03-05"},
		{"2006/01/02", "2024/03/05"},
		{"none", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			t.Parallel()

			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestTimeLayouts(t *testing.T) {
	layouts := TimeLayouts()

	for i := 1; i < len(layouts); i++ {
		if layouts[i-1] >= layouts[i] {
			t.Fatalf("layouts not sorted: %v", layouts)
		}
	}

	if !strings.Contains(strings.Join(layouts, ","), "rfc3339") {
		t.Errorf("rfc3339 missing from %v", layouts)
	}
}
