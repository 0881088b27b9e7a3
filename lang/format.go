package lang

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"
)

// Format writes the program in canonical source form to the writer.
//
// Every block is written with braces. With a positive indent, statements are
// placed one per line and nested blocks are indented by that many spaces.
// With indent zero the whole program is written on a single line. Parsing the
// output yields a program equivalent to p.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	pr := &printer{w: w, indent: max(indent, 0)}

	pr.statements(p.Statements, 0)

	if len(p.Statements) > 0 {
		pr.write("\n")
	}

	return pr.err
}

// FormatNode returns the canonical source form of a single node on one line.
func FormatNode(n Node) string {
	var sb strings.Builder

	pr := &printer{w: &sb}
	pr.node(n, 0)

	return sb.String()
}

// printer writes source text, remembering the first write error.
type printer struct {
	w      io.Writer
	err    error
	indent int
}

func (pr *printer) write(s ...string) {
	for _, str := range s {
		if pr.err != nil {
			return
		}

		_, pr.err = io.WriteString(pr.w, str)
	}
}

func (pr *printer) pad(depth int) {
	if pr.indent > 0 {
		pr.write(strings.Repeat(" ", depth*pr.indent))
	}
}

func (pr *printer) statements(stmts []Node, depth int) {
	for i, stmt := range stmts {
		if i > 0 {
			if pr.indent > 0 {
				pr.write("\n")
			} else {
				pr.write("; ")
			}
		}

		pr.pad(depth)
		pr.node(stmt, depth)
	}
}

func (pr *printer) block(b *Block, depth int) {
	pr.write(": {")

	if len(b.Statements) == 0 {
		pr.write("}")

		return
	}

	if pr.indent > 0 {
		pr.write("\n")
		pr.statements(b.Statements, depth+1)
		pr.write("\n")
		pr.pad(depth)
	} else {
		pr.write(" ")
		pr.statements(b.Statements, depth+1)
		pr.write(" ")
	}

	pr.write("}")
}

func (pr *printer) node(n Node, depth int) {
	switch n := n.(type) {
	case *Program:
		pr.statements(n.Statements, depth)

	case *Block:
		pr.statements(n.Statements, depth)

	case *Assignment:
		pr.write(n.Name, " = ")
		pr.expr(n.Value, 0)

	case *CompoundAssignment:
		pr.write(n.Name, " ", n.Op, "= ")
		pr.expr(n.Value, 0)

	case *If:
		pr.ifStmt(n, depth)

	case *While:
		pr.write("while ")
		pr.expr(n.Cond, 0)
		pr.block(n.Body, depth)

	case *For:
		pr.write("for ", n.Var, " in ")
		pr.expr(n.Iterable, 0)
		pr.block(n.Body, depth)

	case *FunctionDef:
		pr.write("def ", n.Name, "(", strings.Join(n.Params, ", "), ")")
		pr.block(n.Body, depth)

	case *Return:
		pr.write("return")

		if n.Value != nil {
			pr.write(" ")
			pr.expr(n.Value, 0)
		}

	case *Print:
		pr.write("print(")
		pr.expr(n.Value, 0)
		pr.write(")")

	case Expr:
		pr.expr(n, 0)
	}
}

func (pr *printer) ifStmt(n *If, depth int) {
	pr.write("if ")
	pr.expr(n.Cond, 0)
	pr.block(n.Then, depth)

	if n.Else == nil {
		return
	}

	pr.write(" else")

	if len(n.Else.Statements) == 1 {
		if elif, ok := n.Else.Statements[0].(*If); ok {
			pr.write(" ")
			pr.ifStmt(elif, depth)

			return
		}
	}

	pr.block(n.Else, depth)
}

// Binding strength of each expression form, loosest first.
const (
	precOr = iota + 1
	precAnd
	precNot
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPrimary
)

func precedence(e Expr) int {
	switch e := e.(type) {
	case *BinaryOp:
		switch e.Op {
		case "or":
			return precOr
		case "and":
			return precAnd
		case "==", "!=":
			return precEquality
		case "<", "<=", ">", ">=":
			return precRelational
		case "+", "-":
			return precAdditive
		case "*", "/", "%":
			return precMultiplicative
		default:
			return precPower
		}

	case *UnaryOp:
		if e.Op == "not" {
			return precNot
		}

		return precUnary

	default:
		return precPrimary
	}
}

// expr writes e, enclosed in parentheses if it binds looser than floor.
func (pr *printer) expr(e Expr, floor int) {
	prec := precedence(e)

	if prec < floor {
		pr.write("(")
		defer pr.write(")")
	}

	switch e := e.(type) {
	case *NumberLiteral:
		pr.write(formatNumber(e.Value))

	case *StringLiteral:
		pr.write(quote(e.Value))

	case *BoolLiteral:
		if e.Value {
			pr.write("True")
		} else {
			pr.write("False")
		}

	case *ListLiteral:
		pr.write("[")

		for i, elem := range e.Elements {
			if i > 0 {
				pr.write(", ")
			}

			pr.expr(elem, 0)
		}

		pr.write("]")

	case *VariableRef:
		pr.write(e.Name)

	case *BinaryOp:
		if e.Op == "**" {
			pr.expr(e.Left, precUnary)
			pr.write(" ** ")
			pr.expr(e.Right, precPower)

			return
		}

		pr.expr(e.Left, prec)
		pr.write(" ", e.Op, " ")
		pr.expr(e.Right, prec+1)

	case *UnaryOp:
		if e.Op == "not" {
			pr.write("not ")
			pr.expr(e.Operand, precNot)

			return
		}

		pr.write(e.Op)
		pr.expr(e.Operand, precUnary)

	case *FunctionCall:
		pr.write(e.Name, "(")

		for i, arg := range e.Args {
			if i > 0 {
				pr.write(", ")
			}

			pr.expr(arg, 0)
		}

		pr.write(")")

	case *Len:
		pr.write("len(")
		pr.expr(e.Arg, 0)
		pr.write(")")
	}
}

// formatNumber writes a number the way the lexer reads it back: an integer
// as digits, and a float always with a fractional part.
func formatNumber(v Value) string {
	if v.Kind() != KindFloat {
		return strconv.FormatInt(v.AsInt(), 10)
	}

	f := v.AsFloat()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return v.String()
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
	"\x00", `\0`,
)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
