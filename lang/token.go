package lang

import "strconv"

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenNumber
	TokenFloat
	TokenString
	TokenIdent

	// Keywords.
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenIn
	TokenDef
	TokenReturn
	TokenPrint
	TokenLen
	TokenAnd
	TokenOr
	TokenNot
	TokenTrue
	TokenFalse

	// Operators.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenPower
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPowerAssign
	TokenEq
	TokenNotEq
	TokenLess
	TokenLessEq
	TokenGreater
	TokenGreaterEq

	// Punctuation.
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenColon
	TokenSemicolon
)

var tokenNames = [...]string{
	TokenEOF:         "end of input",
	TokenNewline:     "newline",
	TokenNumber:      "number",
	TokenFloat:       "float",
	TokenString:      "string",
	TokenIdent:       "identifier",
	TokenIf:          "if",
	TokenElse:        "else",
	TokenWhile:       "while",
	TokenFor:         "for",
	TokenIn:          "in",
	TokenDef:         "def",
	TokenReturn:      "return",
	TokenPrint:       "print",
	TokenLen:         "len",
	TokenAnd:         "and",
	TokenOr:          "or",
	TokenNot:         "not",
	TokenTrue:        "True",
	TokenFalse:       "False",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenPercent:     "%",
	TokenPower:       "**",
	TokenAssign:      "=",
	TokenPlusAssign:  "+=",
	TokenMinusAssign: "-=",
	TokenStarAssign:  "*=",
	TokenSlashAssign: "/=",
	TokenPowerAssign: "**=",
	TokenEq:          "==",
	TokenNotEq:       "!=",
	TokenLess:        "<",
	TokenLessEq:      "<=",
	TokenGreater:     ">",
	TokenGreaterEq:   ">=",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenComma:       ",",
	TokenColon:       ":",
	TokenSemicolon:   ";",
}

// String returns the source spelling of operators, punctuation and keywords,
// or a descriptive name for the literal classes.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool { return k >= TokenIf && k <= TokenFalse }

// keywords maps each reserved word to its token kind.
var keywords = map[string]TokenKind{
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"for":    TokenFor,
	"in":     TokenIn,
	"def":    TokenDef,
	"return": TokenReturn,
	"print":  TokenPrint,
	"len":    TokenLen,
	"and":    TokenAnd,
	"or":     TokenOr,
	"not":    TokenNot,
	"True":   TokenTrue,
	"False":  TokenFalse,
}

// Keywords returns the reserved words of the language in declaration order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for k := TokenIf; k <= TokenFalse; k++ {
		words = append(words, k.String())
	}

	return words
}

// compoundOps maps each compound assignment token to the binary operator it
// applies.
var compoundOps = map[TokenKind]string{
	TokenPlusAssign:  "+",
	TokenMinusAssign: "-",
	TokenStarAssign:  "*",
	TokenSlashAssign: "/",
	TokenPowerAssign: "**",
}

// Token is a single lexeme produced by [Tokenize].
//
// Text holds the literal payload: the digits of a number, the unescaped body
// of a string, or the spelling of an identifier, keyword or operator.
type Token struct {
	Text   string
	Kind   TokenKind
	Line   int
	Column int
}

// String describes the token for use in diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenIdent:
		return "identifier " + strconv.Quote(t.Text)
	case TokenNumber, TokenFloat:
		return "number " + t.Text
	case TokenString:
		return "string " + strconv.Quote(t.Text)
	case TokenEOF, TokenNewline:
		return t.Kind.String()
	default:
		return strconv.Quote(t.Kind.String())
	}
}
