package repl

import (
	"context"
	"slices"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"digits", "x1 = y2", 7, "y2", 5, 7},
		{"unicode", "π + r", 2, "π", 0, 2},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
		{"in_list", "[a, bc]", 6, "bc", 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
		want   bool
	}{
		{"no_string", "abc", 2, false},
		{"inside", `x = "ab`, 6, true},
		{"after_close", `x = "ab" + c`, 11, false},
		{"escaped_quote", `"a\"b`, 5, true},
		{"escaped_backslash", `"a\\" + b`, 8, false},
		{"before_open", `ab "cd"`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := inString(tt.input, tt.offset); got != tt.want {
				t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestEvalCandidates(t *testing.T) {
	env := lang.NewEnv()
	env.Set("total", lang.NewInt(1))
	env.Set("len", lang.NewInt(2)) // shadows the keyword

	got := evalCandidates(env)

	for _, want := range []string{"total", "len", "while", "print", "True"} {
		if !slices.Contains(got, want) {
			t.Errorf("evalCandidates() missing %q: %v", want, got)
		}
	}

	count := 0

	for _, name := range got {
		if name == "len" {
			count++
		}
	}

	if count != 1 {
		t.Errorf("evalCandidates() lists len %d times, want 1", count)
	}
}

func testModel(t *testing.T, input string) model {
	t.Helper()

	s := newSession(log.Logger{})
	if _, err := s.eval(context.Background(), "counter = 0; def compute(a, b): return a * b"); err != nil {
		t.Fatalf("eval: %v", err)
	}

	m := newModel(context.Background(), s, NewHistory(""), log.Logger{})
	m.input.SetValue(input)
	m.input.SetCursor(len(input))

	return m
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  inputMode
		want  []string // must be among the matches
		none  bool
	}{
		{name: "binding", input: "co", want: []string{"counter", "compute"}},
		{name: "keyword", input: "x = whi", want: []string{"while"}},
		{name: "empty_word", input: "x + ", none: true},
		{name: "digit_leading", input: "x = 1e", none: true},
		{name: "in_string", input: `s = "co`, none: true},
		{name: "command", input: "li", mode: modeCtrl, want: []string{"list"}},
		{name: "command_no_bindings", input: "counter", mode: modeCtrl, none: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := testModel(t, tt.input)
			m.mode = tt.mode

			matches, _, _, end := m.computeMatches()

			if end != len(tt.input) && !tt.none {
				t.Errorf("word end = %d, want %d", end, len(tt.input))
			}

			if tt.none {
				if len(matches) != 0 {
					t.Errorf("computeMatches() = %v, want none", matches)
				}

				return
			}

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			for _, want := range tt.want {
				if !slices.Contains(got, want) {
					t.Errorf("computeMatches() = %v, missing %q", got, want)
				}
			}
		})
	}
}

func TestRefreshMatches_AutoConfirm(t *testing.T) {
	m := testModel(t, "counter")

	refreshMatches(&m, true)

	if len(m.matches) != 0 {
		t.Errorf("matches = %v, want none after typing a complete name", m.matches)
	}

	m = testModel(t, "counte")
	refreshMatches(&m, true)

	if len(m.matches) != 1 || m.matches[0].Str != "counter" {
		t.Errorf("matches = %v, want [counter]", m.matches)
	}
}

func TestCycleCandidate(t *testing.T) {
	m := testModel(t, "x = co")
	refreshMatches(&m, false)

	if len(m.matches) < 2 {
		t.Fatalf("matches = %v, want at least 2", m.matches)
	}

	first := m.matches[0].Str
	second := m.matches[1].Str

	m = m.cycleCandidate(1)
	if !m.tabActive || m.input.Value() != "x = "+first {
		t.Errorf("after Tab: input %q, tabActive %v", m.input.Value(), m.tabActive)
	}

	m = m.cycleCandidate(1)
	if m.input.Value() != "x = "+second {
		t.Errorf("after second Tab: input %q, want %q", m.input.Value(), "x = "+second)
	}

	m = m.cycleCandidate(-1)
	if m.input.Value() != "x = "+first {
		t.Errorf("after Shift-Tab: input %q, want %q", m.input.Value(), "x = "+first)
	}

	if m.preTabText != "x = co" {
		t.Errorf("preTabText = %q, want %q", m.preTabText, "x = co")
	}
}

func TestCycleCandidate_Single(t *testing.T) {
	m := testModel(t, "x = coun")
	refreshMatches(&m, false)

	if len(m.matches) != 1 {
		t.Fatalf("matches = %v, want 1", m.matches)
	}

	m = m.cycleCandidate(1)

	if got := m.input.Value(); got != "x = counter" {
		t.Errorf("input = %q, want %q", got, "x = counter")
	}

	if m.tabActive {
		t.Error("tabActive = true after completing the only candidate")
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("a", []string{"alpha", "apple", "avocado", "banana"})
	isFunc := func(name string) bool { return name == "apple" }

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		if got := renderCandidateBar(nil, isFunc, -1, false, 80); got != "" {
			t.Errorf("renderCandidateBar(nil) = %q, want empty", got)
		}
	})

	t.Run("fits", func(t *testing.T) {
		t.Parallel()

		got := renderCandidateBar(matches, isFunc, -1, false, 80)

		// Four names, "()" for the function, and three separators.
		want := len("alpha") + len("apple()") + len("avocado") + len("banana") + 3*2
		if w := lipgloss.Width(got); w != want {
			t.Errorf("width = %d, want %d", w, want)
		}
	})

	t.Run("ellipsized", func(t *testing.T) {
		t.Parallel()

		width := 20

		got := renderCandidateBar(matches, isFunc, 0, true, width)
		if w := lipgloss.Width(got); w > width {
			t.Errorf("width = %d, want at most %d", w, width)
		}
	})
}

func TestNewModel(t *testing.T) {
	m := newModel(context.Background(), newSession(log.Logger{}), NewHistory(""), log.Logger{})

	if m.suggIdx != -1 {
		t.Errorf("suggIdx = %d, want -1", m.suggIdx)
	}

	if m.mode != modeEval {
		t.Errorf("mode = %v, want eval", m.mode)
	}

	if m.input.CharLimit != 4096 {
		t.Errorf("CharLimit = %d, want 4096", m.input.CharLimit)
	}
}
