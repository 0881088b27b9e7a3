package lang

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize converts source text into an ordered sequence of tokens that always
// ends with [TokenEOF].
//
// Illegal characters are skipped one at a time so the rest of the input is
// still tokenized. Each one is reported as a *[SyntaxError], and all of them
// are combined with [errors.Join] into the returned error. The token slice is
// complete either way.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{
		src:  source,
		line: 1,
		col:  1,
	}

	lx.run()

	return lx.tokens, errors.Join(lx.errs...)
}

// lexer holds the scanning state.
type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	tokens []Token
	errs   []error
}

func (lx *lexer) run() {
	for !lx.eof() {
		r := lx.peek()

		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v':
			lx.advance()

		case r == '#':
			for !lx.eof() && lx.peek() != '\n' {
				lx.advance()
			}

		case r == '\n':
			lx.newline()

		case isDigit(r):
			lx.number()

		case r == '"':
			lx.quoted()

		case isIdentStart(r):
			lx.identifier()

		default:
			if !lx.operator() {
				lx.illegal(r)
			}
		}
	}

	lx.emit(TokenEOF, "", lx.line, lx.col)
}

// newline collapses a run of line breaks (with any blank or comment-only lines
// between them) into a single token.
func (lx *lexer) newline() {
	line, col := lx.line, lx.col

	lx.advance()

	if n := len(lx.tokens); n > 0 && lx.tokens[n-1].Kind == TokenNewline {
		return
	}

	lx.emit(TokenNewline, "\n", line, col)
}

func (lx *lexer) number() {
	line, col, start := lx.line, lx.col, lx.pos
	kind := TokenNumber

	for !lx.eof() && isDigit(lx.peek()) {
		lx.advance()
	}

	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		kind = TokenFloat

		lx.advance()

		for !lx.eof() && isDigit(lx.peek()) {
			lx.advance()
		}
	}

	lx.emit(kind, lx.src[start:lx.pos], line, col)
}

func (lx *lexer) quoted() {
	line, col := lx.line, lx.col

	lx.advance() // opening quote

	var sb strings.Builder

	for {
		if lx.eof() {
			lx.errs = append(lx.errs, &SyntaxError{
				Message: "unterminated string",
				Line:    line,
				Column:  col,
			})

			break
		}

		r := lx.advance()
		if r == '"' {
			break
		}

		if r == '\\' && !lx.eof() {
			r = unescape(lx.advance())
		}

		sb.WriteRune(r)
	}

	lx.emit(TokenString, sb.String(), line, col)
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}

func (lx *lexer) identifier() {
	line, col, start := lx.line, lx.col, lx.pos

	for !lx.eof() && isIdentPart(lx.peek()) {
		lx.advance()
	}

	word := lx.src[start:lx.pos]

	if kind, ok := keywords[word]; ok {
		lx.emit(kind, word, line, col)

		return
	}

	lx.emit(TokenIdent, word, line, col)
}

// operators lists every operator and punctuation spelling, longest first, so
// that multi-character operators win over their prefixes.
var operators = []struct {
	text string
	kind TokenKind
}{
	{"**=", TokenPowerAssign},
	{"**", TokenPower},
	{"==", TokenEq},
	{"!=", TokenNotEq},
	{"<=", TokenLessEq},
	{">=", TokenGreaterEq},
	{"+=", TokenPlusAssign},
	{"-=", TokenMinusAssign},
	{"*=", TokenStarAssign},
	{"/=", TokenSlashAssign},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
	{"=", TokenAssign},
	{"<", TokenLess},
	{">", TokenGreater},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{",", TokenComma},
	{":", TokenColon},
	{";", TokenSemicolon},
}

func (lx *lexer) operator() bool {
	rest := lx.src[lx.pos:]

	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			line, col := lx.line, lx.col

			for range op.text {
				lx.advance()
			}

			lx.emit(op.kind, op.text, line, col)

			return true
		}
	}

	return false
}

func (lx *lexer) illegal(r rune) {
	lx.errs = append(lx.errs, &SyntaxError{
		Message: "illegal character " + strconv.QuoteRune(r),
		Line:    lx.line,
		Column:  lx.col,
	})

	lx.advance()
}

func (lx *lexer) emit(kind TokenKind, text string, line, col int) {
	lx.tokens = append(lx.tokens, Token{
		Kind:   kind,
		Text:   text,
		Line:   line,
		Column: col,
	})
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peek() rune { return lx.peekAt(0) }

// peekAt returns the rune n runes past the current position, or -1 at end of
// input.
func (lx *lexer) peekAt(n int) rune {
	pos := lx.pos

	for ; n > 0 && pos < len(lx.src); n-- {
		_, size := utf8.DecodeRuneInString(lx.src[pos:])
		pos += size
	}

	if pos >= len(lx.src) {
		return -1
	}

	r, _ := utf8.DecodeRuneInString(lx.src[pos:])

	return r
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += size

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }
