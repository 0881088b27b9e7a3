// Package lang implements a small dynamically typed scripting language.
//
// Source text is turned into tokens by [Tokenize], into a syntax tree by
// [Parse], and executed by an [Interpreter] against an [Env]. The pipeline is
// hand-written: a single-pass lexer, a recursive descent parser and a tree
// walking evaluator.
//
// # Values
//
// A [Value] is None, a Bool, an Int (64-bit), a Float, a String, a List or a
// Function. Integer arithmetic that overflows produces a Float. The operator
// "/" always produces a Float and "%" is floored.
//
// # Grammar
//
// Informal EBNF:
//
//	Program     → Sep* (Statement (Sep+ Statement)*)? Sep* EOF
//	Sep         → NEWLINE | ';'
//	Statement   → If | While | For | Def | Return | Print | Assign | Expr
//	If          → 'if' Expr Block (NEWLINE* 'else' (If | Block))?
//	While       → 'while' Expr Block
//	For         → 'for' IDENT 'in' Expr Block
//	Def         → 'def' IDENT '(' (IDENT (',' IDENT)*)? ')' Block
//	Return      → 'return' Expr?
//	Print       → 'print' '(' Expr ')'
//	Assign      → IDENT ('=' | '+=' | '-=' | '*=' | '/=' | '**=') Expr
//	Block       → ':' (NEWLINE* '{' Program '}' | Statement (';' Statement)*)
//	Expr        → Or
//	Or          → And ('or' And)*
//	And         → Not ('and' Not)*
//	Not         → 'not' Not | Equality
//	Equality    → Relational (('==' | '!=') Relational)*
//	Relational  → Additive (('<' | '<=' | '>' | '>=') Additive)*
//	Additive    → Term (('+' | '-') Term)*
//	Term        → Power (('*' | '/' | '%') Power)*
//	Power       → Unary ('**' Power)?
//	Unary       → ('-' | '+') Unary | Primary
//	Primary     → NUMBER | FLOAT | STRING | 'True' | 'False'
//	            | 'len' '(' Expr ')' | IDENT ('(' ExprList? ')')?
//	            | '(' Expr ')' | '[' ExprList? ']'
//
// Comments begin with '#' and run to the end of the line.
//
// # Scoping
//
// Every function call runs in a new scope enclosed by the scope the function
// was defined in, so functions are closures. Assignment always binds in the
// innermost scope; it never updates an outer variable. Blocks of if, while
// and for statements do not open a scope.
//
// # Example
//
//	def counter(start): {
//	  n = start
//	  def next(): return n + 1
//	  return next
//	}
//
//	c = counter(41)
//	print(c())   # 42
//
// # Errors
//
// Parse failures are reported as a *[SyntaxError] and evaluation failures as
// a *[RuntimeError]. Both match their sentinel with [errors.Is], for example
// [ErrSyntax] or [ErrDivisionByZero].
package lang
