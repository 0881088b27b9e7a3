package lang

import (
	"errors"
	"slices"
	"testing"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}

	return out
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "assignment",
			input: "x = 1",
			want:  []TokenKind{TokenIdent, TokenAssign, TokenNumber, TokenEOF},
		},
		{
			name:  "integer and float",
			input: "3.14 7",
			want:  []TokenKind{TokenFloat, TokenNumber, TokenEOF},
		},
		{
			name:  "compound operators",
			input: "a += 1; a **= 2",
			want: []TokenKind{
				TokenIdent, TokenPlusAssign, TokenNumber, TokenSemicolon,
				TokenIdent, TokenPowerAssign, TokenNumber, TokenEOF,
			},
		},
		{
			name:  "longest operator first",
			input: "a ** b <= c != d",
			want: []TokenKind{
				TokenIdent, TokenPower, TokenIdent, TokenLessEq, TokenIdent,
				TokenNotEq, TokenIdent, TokenEOF,
			},
		},
		{
			name:  "keywords",
			input: "if else while for in def return print len and or not True False",
			want: []TokenKind{
				TokenIf, TokenElse, TokenWhile, TokenFor, TokenIn, TokenDef,
				TokenReturn, TokenPrint, TokenLen, TokenAnd, TokenOr, TokenNot,
				TokenTrue, TokenFalse, TokenEOF,
			},
		},
		{
			name:  "newlines collapse",
			input: "a\n\n\n  \nb",
			want:  []TokenKind{TokenIdent, TokenNewline, TokenIdent, TokenEOF},
		},
		{
			name:  "comment runs to end of line",
			input: "a # ignored = 3\nb",
			want:  []TokenKind{TokenIdent, TokenNewline, TokenIdent, TokenEOF},
		},
		{
			name:  "punctuation",
			input: "f([1, 2]): {}",
			want: []TokenKind{
				TokenIdent, TokenLParen, TokenLBracket, TokenNumber, TokenComma,
				TokenNumber, TokenRBracket, TokenRParen, TokenColon, TokenLBrace,
				TokenRBrace, TokenEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}

			if got := kinds(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"q\"q"`, `q"q`},
		{`"back\\slash"`, `back\slash`},
		{`"\z"`, "z"},
		{"\"two\nlines\"", "two\nlines"},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%s) error: %v", tt.input, err)
		}

		if tokens[0].Kind != TokenString || tokens[0].Text != tt.want {
			t.Errorf("Tokenize(%s) = %v, want string %q", tt.input, tokens[0], tt.want)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize("a = 1\n  bb")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}

	want := []struct{ line, col int }{{1, 1}, {1, 3}, {1, 5}, {1, 6}, {2, 3}}

	for i, w := range want {
		if tokens[i].Line != w.line || tokens[i].Column != w.col {
			t.Errorf("token %d (%v) at %d:%d, want %d:%d",
				i, tokens[i], tokens[i].Line, tokens[i].Column, w.line, w.col)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	t.Parallel()

	t.Run("illegal character", func(t *testing.T) {
		t.Parallel()

		tokens, err := Tokenize("a = 1 @ 2")
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("expected syntax error, got %v", err)
		}

		var se *SyntaxError
		if !errors.As(err, &se) || se.Column != 7 {
			t.Errorf("expected error at column 7, got %v", err)
		}

		// The illegal character is skipped and lexing continues.
		want := []TokenKind{TokenIdent, TokenAssign, TokenNumber, TokenNumber, TokenEOF}
		if got := kinds(tokens); !slices.Equal(got, want) {
			t.Errorf("tokens = %v, want %v", got, want)
		}
	})

	t.Run("unterminated string", func(t *testing.T) {
		t.Parallel()

		_, err := Tokenize(`x = "open`)

		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("expected *SyntaxError, got %v", err)
		}

		if se.Message != "unterminated string" {
			t.Errorf("message = %q, want %q", se.Message, "unterminated string")
		}
	})
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	kw := Keywords()
	for _, want := range []string{"if", "def", "True", "len"} {
		if !slices.Contains(kw, want) {
			t.Errorf("Keywords() missing %q", want)
		}
	}

	if !TokenWhile.IsKeyword() || TokenIdent.IsKeyword() {
		t.Error("IsKeyword misclassified a token kind")
	}
}
