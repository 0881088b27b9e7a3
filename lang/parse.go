package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
)

// ParseReader parses a program from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse tokenizes and parses a program from source text.
//
// Failures are reported as a *[SyntaxError] that renders the offending source
// line. Illegal characters fail the parse unless [WithLexRecovery] is given,
// in which case they are returned in [Program.Skipped].
func Parse(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	tokens, lexErr := Tokenize(source)
	if lexErr != nil {
		for _, err := range unwrapAll(lexErr) {
			o.logger.DebugContext(ctx, "lexer error", slog.Any("error", err))
		}

		if !o.lexRecovery {
			var se *SyntaxError
			if errors.As(lexErr, &se) {
				return nil, se.withSource(source)
			}

			return nil, lexErr
		}
	}

	prog, err := ParseTokens(ctx, tokens, opts...)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			return nil, se.withSource(source)
		}

		return nil, err
	}

	if lexErr != nil {
		for _, err := range unwrapAll(lexErr) {
			var se *SyntaxError
			if errors.As(err, &se) {
				err = se.withSource(source)
			}

			prog.Skipped = append(prog.Skipped, err)
		}
	}

	return prog, nil
}

// ParseTokens parses a program from a token sequence such as the one returned
// by [Tokenize]. A missing trailing [TokenEOF] is implied.
func ParseTokens(
	ctx context.Context,
	tokens []Token,
	opts ...Option,
) (*Program, error) {
	o := makeOptions(opts...)

	if n := len(tokens); n == 0 || tokens[n-1].Kind != TokenEOF {
		eof := Token{Kind: TokenEOF, Line: 1, Column: 1}
		if n > 0 {
			eof.Line = tokens[n-1].Line
		}

		tokens = append(slices.Clip(tokens), eof)
	}

	p := &parser{tokens: tokens}

	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(prog.Statements)))

	return prog, nil
}

// parser holds the parser state.
type parser struct {
	tokens    []Token
	pos       int
	funcDepth int // number of enclosing function bodies
}

func (p *parser) parseProgram() (*Program, error) {
	stmts, err := p.parseStatements(TokenEOF)
	if err != nil {
		return nil, err
	}

	return &Program{Statements: stmts, Pos: Pos{Line: 1}}, nil
}

// parseStatements parses separated statements up to, but not including, end.
// A statement ending in a closing brace needs no separator after it.
func (p *parser) parseStatements(end TokenKind) ([]Node, error) {
	var stmts []Node

	p.skipSeparators()

	for !p.at(end) {
		if p.at(TokenEOF) {
			return nil, p.unexpected(p.peek(), strconv.Quote(end.String()))
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)

		if p.at(end) {
			break
		}

		if !p.at(TokenNewline, TokenSemicolon) && p.prev().Kind != TokenRBrace {
			return nil, p.unexpected(p.peek(), "newline or ';'")
		}

		p.skipSeparators()
	}

	return stmts, nil
}

func (p *parser) parseStatement() (Node, error) {
	switch tok := p.peek(); tok.Kind {
	case TokenIf:
		return p.parseIf()

	case TokenWhile:
		return p.parseWhile()

	case TokenFor:
		return p.parseFor()

	case TokenDef:
		return p.parseDef()

	case TokenReturn:
		return p.parseReturn()

	case TokenPrint:
		return p.parsePrint()

	case TokenIdent:
		next := p.peekAt(1).Kind
		if _, ok := compoundOps[next]; ok || next == TokenAssign {
			return p.parseAssignment()
		}
	}

	return p.parseExpr()
}

// parseAssignment parses: IDENT ('=' | '+=' | '-=' | '*=' | '/=' | '**=') expr.
func (p *parser) parseAssignment() (Node, error) {
	name := p.next()
	op := p.next()

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	pos := Pos{Line: name.Line}

	if op.Kind == TokenAssign {
		return &Assignment{Name: name.Text, Value: value, Pos: pos}, nil
	}

	return &CompoundAssignment{
		Name:  name.Text,
		Op:    compoundOps[op.Kind],
		Value: value,
		Pos:   pos,
	}, nil
}

// parseIf parses: 'if' expr block (NEWLINE* 'else' (if | block))?.
func (p *parser) parseIf() (Node, error) {
	tok := p.next()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &If{Cond: cond, Then: then, Pos: Pos{Line: tok.Line}}

	// else may follow on the same line or after any number of line breaks.
	save := p.pos

	p.skipNewlines()

	if !p.at(TokenElse) {
		p.pos = save

		return stmt, nil
	}

	elseTok := p.next()

	if p.at(TokenIf) {
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		stmt.Else = &Block{
			Statements: []Node{nested},
			Pos:        Pos{Line: elseTok.Line},
		}

		return stmt, nil
	}

	stmt.Else, err = p.parseBlock()
	if err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseWhile parses: 'while' expr block.
func (p *parser) parseWhile() (Node, error) {
	tok := p.next()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &While{Cond: cond, Body: body, Pos: Pos{Line: tok.Line}}, nil
}

// parseFor parses: 'for' IDENT 'in' expr block.
func (p *parser) parseFor() (Node, error) {
	tok := p.next()

	name, err := p.expect(TokenIdent, "loop variable")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenIn, "'in'"); err != nil {
		return nil, err
	}

	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &For{
		Var:      name.Text,
		Iterable: iter,
		Body:     body,
		Pos:      Pos{Line: tok.Line},
	}, nil
}

// parseDef parses: 'def' IDENT '(' (IDENT (',' IDENT)*)? ')' block.
func (p *parser) parseDef() (Node, error) {
	tok := p.next()

	name, err := p.expect(TokenIdent, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	var params []string

	for !p.at(TokenRParen) {
		param, err := p.expect(TokenIdent, "parameter name")
		if err != nil {
			return nil, err
		}

		if slices.Contains(params, param.Text) {
			return nil, &SyntaxError{
				Message: "duplicate parameter " + strconv.Quote(param.Text) +
					" in function " + strconv.Quote(name.Text),
				Line:   param.Line,
				Column: param.Column,
			}
		}

		params = append(params, param.Text)

		if !p.accept(TokenComma) {
			break
		}
	}

	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}

	p.funcDepth++
	body, err := p.parseBlock()
	p.funcDepth--

	if err != nil {
		return nil, err
	}

	return &FunctionDef{
		Name:   name.Text,
		Params: params,
		Body:   body,
		Pos:    Pos{Line: tok.Line},
	}, nil
}

// parseReturn parses: 'return' expr?.
func (p *parser) parseReturn() (Node, error) {
	tok := p.next()

	if p.funcDepth == 0 {
		return nil, &SyntaxError{
			Message: "'return' outside function",
			Line:    tok.Line,
			Column:  tok.Column,
		}
	}

	stmt := &Return{Pos: Pos{Line: tok.Line}}

	if p.at(TokenNewline, TokenSemicolon, TokenRBrace, TokenEOF, TokenElse) {
		return stmt, nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	stmt.Value = value

	return stmt, nil
}

// parsePrint parses: 'print' '(' expr ')'.
func (p *parser) parsePrint() (Node, error) {
	tok := p.next()

	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}

	return &Print{Value: value, Pos: Pos{Line: tok.Line}}, nil
}

// parseBlock parses a colon followed by either a braced statement list or
// one or more ';'-separated statements ending the line. Line breaks between
// the colon and the body are allowed only before a brace, since an unbraced
// body spanning lines has no closing delimiter.
func (p *parser) parseBlock() (*Block, error) {
	colon, err := p.expect(TokenColon, "':'")
	if err != nil {
		return nil, err
	}

	block := &Block{Pos: Pos{Line: colon.Line}}

	if p.at(TokenNewline) {
		p.skipNewlines()

		if !p.at(TokenLBrace) {
			return nil, p.unexpected(p.peek(),
				"'{' (a body on the next line must be braced)")
		}
	}

	if p.accept(TokenLBrace) {
		block.Statements, err = p.parseStatements(TokenRBrace)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRBrace, "'}'"); err != nil {
			return nil, err
		}

		return block, nil
	}

	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)

		if !p.accept(TokenSemicolon) ||
			p.at(TokenNewline, TokenRBrace, TokenEOF) {
			break
		}
	}

	return block, nil
}

func (p *parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (Expr, error) {
	return p.parseLeftAssoc(p.parseAnd, TokenOr)
}

func (p *parser) parseAnd() (Expr, error) {
	return p.parseLeftAssoc(p.parseNot, TokenAnd)
}

func (p *parser) parseNot() (Expr, error) {
	if !p.at(TokenNot) {
		return p.parseEquality()
	}

	tok := p.next()

	operand, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	return &UnaryOp{Op: "not", Operand: operand, Pos: Pos{Line: tok.Line}}, nil
}

func (p *parser) parseEquality() (Expr, error) {
	return p.parseLeftAssoc(p.parseRelational, TokenEq, TokenNotEq)
}

func (p *parser) parseRelational() (Expr, error) {
	return p.parseLeftAssoc(p.parseAdditive,
		TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq)
}

func (p *parser) parseAdditive() (Expr, error) {
	return p.parseLeftAssoc(p.parseMultiplicative, TokenPlus, TokenMinus)
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.parseLeftAssoc(p.parsePower, TokenStar, TokenSlash, TokenPercent)
}

// parseLeftAssoc parses operand (op operand)* for any of the given operator
// kinds, folding to the left.
func (p *parser) parseLeftAssoc(
	operand func() (Expr, error),
	ops ...TokenKind,
) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.at(ops...) {
		op := p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{
			Op:    op.Kind.String(),
			Left:  left,
			Right: right,
			Pos:   Pos{Line: op.Line},
		}
	}

	return left, nil
}

// parsePower parses: unary ('**' power)?, which makes '**' right-associative.
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if !p.at(TokenPower) {
		return base, nil
	}

	op := p.next()

	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	return &BinaryOp{Op: "**", Left: base, Right: exp, Pos: Pos{Line: op.Line}}, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if !p.at(TokenMinus, TokenPlus) {
		return p.parsePrimary()
	}

	tok := p.next()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &UnaryOp{
		Op:      tok.Kind.String(),
		Operand: operand,
		Pos:     Pos{Line: tok.Line},
	}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	pos := Pos{Line: tok.Line}

	switch tok.Kind {
	case TokenNumber:
		p.next()

		i, err := strconv.ParseInt(tok.Text, 10, 64)
		if err == nil {
			return &NumberLiteral{Value: NewInt(i), Pos: pos}, nil
		}

		// Too large for an integer.
		return floatLiteral(tok)

	case TokenFloat:
		p.next()

		return floatLiteral(tok)

	case TokenString:
		p.next()

		return &StringLiteral{Value: tok.Text, Pos: pos}, nil

	case TokenTrue, TokenFalse:
		p.next()

		return &BoolLiteral{Value: tok.Kind == TokenTrue, Pos: pos}, nil

	case TokenLen:
		p.next()

		if _, err := p.expect(TokenLParen, "'('"); err != nil {
			return nil, err
		}

		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}

		return &Len{Arg: arg, Pos: pos}, nil

	case TokenIdent:
		p.next()

		if !p.accept(TokenLParen) {
			return &VariableRef{Name: tok.Text, Pos: pos}, nil
		}

		args, err := p.parseExprList(TokenRParen)
		if err != nil {
			return nil, err
		}

		return &FunctionCall{Name: tok.Text, Args: args, Pos: pos}, nil

	case TokenLParen:
		p.next()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}

		return inner, nil

	case TokenLBracket:
		p.next()

		elems, err := p.parseExprList(TokenRBracket)
		if err != nil {
			return nil, err
		}

		return &ListLiteral{Elements: elems, Pos: pos}, nil
	}

	return nil, p.unexpected(tok, "expression")
}

// parseExprList parses comma-separated expressions up to and including the
// closing token. Line breaks around elements and a trailing comma are
// allowed.
func (p *parser) parseExprList(end TokenKind) ([]Expr, error) {
	var list []Expr

	p.skipNewlines()

	for !p.at(end) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		list = append(list, e)

		p.skipNewlines()

		if !p.accept(TokenComma) {
			break
		}

		p.skipNewlines()
	}

	if _, err := p.expect(end, strconv.Quote(end.String())); err != nil {
		return nil, err
	}

	return list, nil
}

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) peekAt(n int) Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}

	return p.tokens[len(p.tokens)-1]
}

func (p *parser) prev() Token {
	if p.pos == 0 {
		return Token{}
	}

	return p.tokens[p.pos-1]
}

func (p *parser) next() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) at(kinds ...TokenKind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *parser) accept(kind TokenKind) bool {
	if p.at(kind) {
		p.next()

		return true
	}

	return false
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	if !p.at(kind) {
		return Token{}, p.unexpected(p.peek(), what)
	}

	return p.next(), nil
}

// floatLiteral converts a numeric token to a Float literal. Values beyond the
// float64 range are rejected since they have no source form.
func floatLiteral(tok Token) (Expr, error) {
	f, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		msg := "invalid number " + tok.Text
		if errors.Is(err, strconv.ErrRange) {
			msg = "number out of range"
		}

		return nil, &SyntaxError{
			Message: msg,
			Line:    tok.Line,
			Column:  tok.Column,
		}
	}

	return &NumberLiteral{Value: NewFloat(f), Pos: Pos{Line: tok.Line}}, nil
}

func (p *parser) skipNewlines() {
	for p.at(TokenNewline) {
		p.next()
	}
}

func (p *parser) skipSeparators() {
	for p.at(TokenNewline, TokenSemicolon) {
		p.next()
	}
}

func (p *parser) unexpected(tok Token, want string) *SyntaxError {
	return &SyntaxError{
		Message: "unexpected " + tok.String() + ", expected " + want,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// unwrapAll flattens an error built by [errors.Join].
func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}

	return []error{err}
}
