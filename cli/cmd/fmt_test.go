package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/minilang/lang"
)

const fmtSource = "def sq(n): return n * n\nif sq(3) > 5: print(\"big\")\nelse: { print(\"small\") }\n"

func TestFmtNative(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name:   "indented",
			indent: 2,
			want: `def sq(n): {
  return n * n
}
if sq(3) > 5: {
  print("big")
} else: {
  print("small")
}
`,
		},
		{
			name:   "one line",
			indent: 0,
			want:   `def sq(n): { return n * n }; if sq(3) > 5: { print("big") } else: { print("small") }` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out, _ := testStreams(fmtSource)

			f := &Native{Input: Input{Source: "-"}, Indent: tt.indent}
			if err := f.Run(ctx); err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output:\n%s\nwant:\n%s", out.String(), tt.want)
			}

			// The output is itself a program with the same tree.
			again, err := lang.Parse(ctx, out.String())
			if err != nil {
				t.Fatalf("formatted output does not parse: %v", err)
			}

			orig, err := lang.Parse(ctx, fmtSource)
			if err != nil {
				t.Fatal(err)
			}

			if dumpOf(t, again) != dumpOf(t, orig) {
				t.Error("formatted program differs from the original")
			}
		})
	}
}

func TestFmtJSON(t *testing.T) {
	ctx, out, _ := testStreams("x = 1 + 2\n")

	if err := (&JSON{Input: Input{Source: "-"}, Indent: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var tree map[string]any
	if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	stmts, ok := tree["statements"].([]any)
	if tree["type"] != "Program" || !ok || len(stmts) != 1 {
		t.Fatalf("unexpected tree: %v", tree)
	}

	if stmt := stmts[0].(map[string]any); stmt["type"] != "Assignment" || stmt["name"] != "x" {
		t.Errorf("unexpected statement: %v", stmt)
	}
}

func TestFmtYAML(t *testing.T) {
	ctx, out, _ := testStreams("print(\"hi\")\n")

	if err := (&YAML{Input: Input{Source: "-"}, Indent: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}

	stmts, ok := tree["statements"].([]any)
	if !ok || len(stmts) != 1 {
		t.Fatalf("unexpected tree: %v", tree)
	}

	if stmt := stmts[0].(map[string]any); stmt["type"] != "Print" {
		t.Errorf("unexpected statement: %v", stmt)
	}
}

func TestFmtAST(t *testing.T) {
	ctx, out, _ := testStreams("x = -1\n")

	if err := (&AST{Input: Input{Source: "-"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := "Program\n  Assignment x\n    UnaryOp -\n      Number 1\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestFmtErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		stdin   string
		wantErr error
	}{
		{"syntax", Input{Source: "-"}, "x = (", lang.ErrSyntax},
		{"illegal character", Input{Source: "-"}, "x = 1 $", lang.ErrSyntax},
		{"missing file", Input{Source: "/nonexistent/p.ml"}, "", ErrReadSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out, _ := testStreams(tt.stdin)

			err := (&Native{Input: tt.input, Indent: 2}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if out.Len() != 0 {
				t.Errorf("output = %q on error", out.String())
			}
		})
	}
}

func TestFmtLexRecovery(t *testing.T) {
	ctx, out, errOut := testStreams("x = 1 $\n")

	f := &Native{Input: Input{Source: "-", LexRecovery: true}, Indent: 2}
	if err := f.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if out.String() != "x = 1\n" {
		t.Errorf("output = %q, want %q", out.String(), "x = 1\n")
	}

	if !strings.Contains(errOut.String(), "illegal character '$'") {
		t.Errorf("stderr = %q, want the skipped character reported", errOut.String())
	}
}

func dumpOf(t *testing.T, prog *lang.Program) string {
	t.Helper()

	var sb strings.Builder
	if err := prog.Dump(&sb); err != nil {
		t.Fatal(err)
	}

	return sb.String()
}
