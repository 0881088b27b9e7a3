package lang

// Pos is the source position of a node.
type Pos struct {
	Line int
}

// Position returns p.
func (p Pos) Position() Pos { return p }

// Node is an element of the abstract syntax tree.
//
// The set of nodes is closed: only the types declared in this package
// implement Node.
type Node interface {
	Position() Pos
	node()
}

// Expr is a [Node] that produces a value without requiring a statement
// context. Only expression statements are echoed by interactive sessions.
type Expr interface {
	Node
	expr()
}

// Program is the root of a parsed source unit.
type Program struct {
	Statements []Node

	// Skipped holds the *[SyntaxError] of each illegal character passed over
	// under [WithLexRecovery], in source order.
	Skipped []error
	Pos
}

// Block is a sequence of statements forming the body of a compound
// statement.
type Block struct {
	Statements []Node
	Pos
}

// NumberLiteral is an integer or floating-point literal.
type NumberLiteral struct {
	Value Value
	Pos
}

// StringLiteral is a string literal with escapes already resolved.
type StringLiteral struct {
	Value string
	Pos
}

// BoolLiteral is True or False.
type BoolLiteral struct {
	Pos
	Value bool
}

// ListLiteral is a bracketed, comma-separated list of expressions.
type ListLiteral struct {
	Elements []Expr
	Pos
}

// VariableRef reads a variable, or a function by name.
type VariableRef struct {
	Name string
	Pos
}

// Assignment binds the value of an expression in the innermost scope.
type Assignment struct {
	Value Expr
	Name  string
	Pos
}

// CompoundAssignment applies a binary operator to a variable's current value
// and rebinds the result. Op is the binary operator, such as "+" for "+=".
type CompoundAssignment struct {
	Value Expr
	Name  string
	Op    string
	Pos
}

// BinaryOp applies an infix operator.
type BinaryOp struct {
	Left  Expr
	Right Expr
	Op    string
	Pos
}

// UnaryOp applies a prefix operator: "-", "+" or "not".
type UnaryOp struct {
	Operand Expr
	Op      string
	Pos
}

// If executes Then when Cond is truthy, otherwise Else if present.
type If struct {
	Cond Expr
	Then *Block
	Else *Block // nil if absent
	Pos
}

// While executes Body for as long as Cond is truthy.
type While struct {
	Cond Expr
	Body *Block
	Pos
}

// For binds Var to each element of a list and executes Body.
type For struct {
	Iterable Expr
	Body     *Block
	Var      string
	Pos
}

// FunctionDef defines a named function in the current scope.
type FunctionDef struct {
	Body   *Block
	Name   string
	Params []string
	Pos
}

// FunctionCall calls a function by name with positional arguments.
type FunctionCall struct {
	Name string
	Args []Expr
	Pos
}

// Len is the built-in length of a string or list.
type Len struct {
	Arg Expr
	Pos
}

// Return leaves the enclosing function with an optional value.
type Return struct {
	Value Expr // nil if absent
	Pos
}

// Print writes the formatted value of an expression followed by a newline.
type Print struct {
	Value Expr
	Pos
}

func (*Program) node()            {}
func (*Block) node()              {}
func (*NumberLiteral) node()      {}
func (*StringLiteral) node()      {}
func (*BoolLiteral) node()        {}
func (*ListLiteral) node()        {}
func (*VariableRef) node()        {}
func (*Assignment) node()         {}
func (*CompoundAssignment) node() {}
func (*BinaryOp) node()           {}
func (*UnaryOp) node()            {}
func (*If) node()                 {}
func (*While) node()              {}
func (*For) node()                {}
func (*FunctionDef) node()        {}
func (*FunctionCall) node()       {}
func (*Len) node()                {}
func (*Return) node()             {}
func (*Print) node()              {}

func (*NumberLiteral) expr() {}
func (*StringLiteral) expr() {}
func (*BoolLiteral) expr()   {}
func (*ListLiteral) expr()   {}
func (*VariableRef) expr()   {}
func (*BinaryOp) expr()      {}
func (*UnaryOp) expr()       {}
func (*FunctionCall) expr()  {}
func (*Len) expr()           {}

// EndsWithExpr reports whether the last top-level statement of the program is
// an expression, in which case its result is worth echoing.
func (p *Program) EndsWithExpr() bool {
	if len(p.Statements) == 0 {
		return false
	}

	_, ok := p.Statements[len(p.Statements)-1].(Expr)

	return ok
}
