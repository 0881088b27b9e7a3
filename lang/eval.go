package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"github.com/ardnew/minilang/log"
)

// Interpreter evaluates syntax trees.
//
// An Interpreter is not safe for concurrent use, but independent interpreters
// with independent root environments may run concurrently.
type Interpreter struct {
	output   io.Writer
	logger   log.Logger
	maxDepth int
	depth    int // current call nesting
}

// New returns an Interpreter configured by opts. Print statements write to
// [os.Stdout] unless [WithOutput] is given.
func New(opts ...Option) *Interpreter {
	o := makeOptions(opts...)

	return &Interpreter{
		output:   o.output,
		logger:   o.logger,
		maxDepth: o.maxDepth,
	}
}

// Evaluate evaluates node in env with a default [Interpreter].
func Evaluate(ctx context.Context, node Node, env *Env) (Value, error) {
	return New().Evaluate(ctx, node, env)
}

// Evaluate evaluates node in env and returns its value, which for a program
// or block is the value of its last statement.
//
// Failures are reported as a *[RuntimeError]. A return statement that is not
// enclosed by a function body is a ReturnOutsideFunction error.
func (in *Interpreter) Evaluate(
	ctx context.Context,
	node Node,
	env *Env,
) (Value, error) {
	c, err := in.exec(ctx, node, env)
	if err != nil {
		return None, err
	}

	if c.returning {
		return None, newRuntimeError(ReturnOutsideFunction,
			"'return' outside function").With(slog.String("value", c.value.String()))
	}

	return c.value, nil
}

// Run evaluates each statement of prog in env. See [Interpreter.Evaluate].
func (in *Interpreter) Run(
	ctx context.Context,
	prog *Program,
	env *Env,
) (Value, error) {
	return in.Evaluate(ctx, prog, env)
}

// Call calls fn with the given arguments.
func (in *Interpreter) Call(
	ctx context.Context,
	fn *Function,
	args ...Value,
) (Value, error) {
	return in.call(ctx, fn, args, 0)
}

// completion is the outcome of executing a statement. When returning is set,
// a return statement was executed and value must be delivered to the nearest
// enclosing call without executing any further statement.
type completion struct {
	value     Value
	returning bool
}

func (in *Interpreter) exec(
	ctx context.Context,
	node Node,
	env *Env,
) (completion, error) {
	switch n := node.(type) {
	case *Program:
		return in.execStatements(ctx, n.Statements, env)

	case *Block:
		return in.execStatements(ctx, n.Statements, env)

	case *Assignment:
		v, err := in.eval(ctx, n.Value, env)
		if err != nil {
			return completion{}, err
		}

		env.Set(n.Name, v)

		return completion{value: v}, nil

	case *CompoundAssignment:
		cur, err := env.Get(n.Name)
		if err != nil {
			return completion{}, at(err, n.Line)
		}

		rhs, err := in.eval(ctx, n.Value, env)
		if err != nil {
			return completion{}, err
		}

		v, err := binaryOp(n.Op, cur, rhs)
		if err != nil {
			return completion{}, at(err, n.Line)
		}

		env.Set(n.Name, v)

		return completion{value: v}, nil

	case *If:
		cond, err := in.eval(ctx, n.Cond, env)
		if err != nil {
			return completion{}, err
		}

		switch {
		case cond.Truthy():
			return in.exec(ctx, n.Then, env)
		case n.Else != nil:
			return in.exec(ctx, n.Else, env)
		default:
			return completion{}, nil
		}

	case *While:
		return in.execWhile(ctx, n, env)

	case *For:
		return in.execFor(ctx, n, env)

	case *FunctionDef:
		fn := &Function{
			Name:    n.Name,
			Params:  n.Params,
			Body:    n.Body,
			Closure: env,
		}

		env.DefineFunction(fn)

		return completion{value: NewFunction(fn)}, nil

	case *Return:
		v := None

		if n.Value != nil {
			var err error

			v, err = in.eval(ctx, n.Value, env)
			if err != nil {
				return completion{}, err
			}
		}

		return completion{value: v, returning: true}, nil

	case *Print:
		v, err := in.eval(ctx, n.Value, env)
		if err != nil {
			return completion{}, err
		}

		if _, err := fmt.Fprintln(in.output, v.String()); err != nil {
			return completion{}, err
		}

		return completion{value: v}, nil

	case Expr:
		v, err := in.eval(ctx, n, env)
		if err != nil {
			return completion{}, err
		}

		return completion{value: v}, nil

	default:
		return completion{}, newRuntimeError(TypeError,
			fmt.Sprintf("cannot execute %T", node))
	}
}

// execStatements executes stmts in order, stopping at the first return.
func (in *Interpreter) execStatements(
	ctx context.Context,
	stmts []Node,
	env *Env,
) (completion, error) {
	var c completion

	for _, stmt := range stmts {
		var err error

		c, err = in.exec(ctx, stmt, env)
		if err != nil || c.returning {
			return c, err
		}
	}

	return c, nil
}

// execWhile forwards a return from the body to the caller.
func (in *Interpreter) execWhile(
	ctx context.Context,
	n *While,
	env *Env,
) (completion, error) {
	for {
		if err := canceled(ctx, n.Line); err != nil {
			return completion{}, err
		}

		cond, err := in.eval(ctx, n.Cond, env)
		if err != nil {
			return completion{}, err
		}

		if !cond.Truthy() {
			return completion{}, nil
		}

		c, err := in.exec(ctx, n.Body, env)
		if err != nil || c.returning {
			return c, err
		}
	}
}

// execFor binds the loop variable in env itself, so it remains visible after
// the loop. A return from the body is forwarded to the caller.
func (in *Interpreter) execFor(
	ctx context.Context,
	n *For,
	env *Env,
) (completion, error) {
	iter, err := in.eval(ctx, n.Iterable, env)
	if err != nil {
		return completion{}, err
	}

	if iter.Kind() != KindList {
		return completion{}, &RuntimeError{
			Kind:    TypeError,
			Message: "'" + iter.Kind().String() + "' object is not iterable",
			Line:    n.Line,
		}
	}

	for _, elem := range iter.AsList() {
		if err := canceled(ctx, n.Line); err != nil {
			return completion{}, err
		}

		env.Set(n.Var, elem)

		c, err := in.exec(ctx, n.Body, env)
		if err != nil || c.returning {
			return c, err
		}
	}

	return completion{}, nil
}

func (in *Interpreter) eval(ctx context.Context, e Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case *NumberLiteral:
		return n.Value, nil

	case *StringLiteral:
		return NewString(n.Value), nil

	case *BoolLiteral:
		return NewBool(n.Value), nil

	case *ListLiteral:
		elems := make([]Value, len(n.Elements))

		for i, elem := range n.Elements {
			v, err := in.eval(ctx, elem, env)
			if err != nil {
				return None, err
			}

			elems[i] = v
		}

		return NewList(elems...), nil

	case *VariableRef:
		if v, ok := env.Value(n.Name); ok {
			return v, nil
		}

		return None, &RuntimeError{
			Kind:    NameNotFound,
			Message: "name '" + n.Name + "' is not defined",
			Line:    n.Line,
		}

	case *BinaryOp:
		return in.evalBinary(ctx, n, env)

	case *UnaryOp:
		v, err := in.eval(ctx, n.Operand, env)
		if err != nil {
			return None, err
		}

		v, err = unaryOp(n.Op, v)

		return v, at(err, n.Line)

	case *FunctionCall:
		fn, err := env.Resolve(n.Name)
		if err != nil {
			return None, at(err, n.Line)
		}

		args := make([]Value, len(n.Args))

		for i, arg := range n.Args {
			v, err := in.eval(ctx, arg, env)
			if err != nil {
				return None, err
			}

			args[i] = v
		}

		return in.call(ctx, fn, args, n.Line)

	case *Len:
		v, err := in.eval(ctx, n.Arg, env)
		if err != nil {
			return None, err
		}

		switch v.Kind() {
		case KindString:
			return NewInt(int64(utf8.RuneCountInString(v.AsString()))), nil
		case KindList:
			return NewInt(int64(len(v.AsList()))), nil
		default:
			return None, &RuntimeError{
				Kind:    TypeError,
				Message: "object of type '" + v.Kind().String() + "' has no len()",
				Line:    n.Line,
			}
		}

	default:
		return None, newRuntimeError(TypeError,
			fmt.Sprintf("cannot evaluate %T", e))
	}
}

func (in *Interpreter) evalBinary(
	ctx context.Context,
	n *BinaryOp,
	env *Env,
) (Value, error) {
	l, err := in.eval(ctx, n.Left, env)
	if err != nil {
		return None, err
	}

	switch n.Op {
	case "and":
		if !l.Truthy() {
			return NewBool(false), nil
		}

		r, err := in.eval(ctx, n.Right, env)
		if err != nil {
			return None, err
		}

		return NewBool(r.Truthy()), nil

	case "or":
		if l.Truthy() {
			return NewBool(true), nil
		}

		r, err := in.eval(ctx, n.Right, env)
		if err != nil {
			return None, err
		}

		return NewBool(r.Truthy()), nil
	}

	r, err := in.eval(ctx, n.Right, env)
	if err != nil {
		return None, err
	}

	v, err := binaryOp(n.Op, l, r)

	return v, at(err, n.Line)
}

// call runs fn in a new scope enclosed by the environment fn was defined in.
// The scope is unreachable once call returns unless a closure defined during
// the call captured it.
func (in *Interpreter) call(
	ctx context.Context,
	fn *Function,
	args []Value,
	line int,
) (Value, error) {
	if err := canceled(ctx, line); err != nil {
		return None, err
	}

	if len(args) != len(fn.Params) {
		return None, &RuntimeError{
			Kind: ArityError,
			Message: fn.Name + "() takes " + plural(len(fn.Params), "argument") +
				" but got " + strconv.Itoa(len(args)),
			Line: line,
		}
	}

	if in.maxDepth > 0 && in.depth >= in.maxDepth {
		return None, &RuntimeError{
			Kind:    MaxDepthExceeded,
			Message: "calling " + fn.Name + "() exceeds depth " + strconv.Itoa(in.maxDepth),
			Line:    line,
		}
	}

	in.depth++
	defer func() { in.depth-- }()

	scope := fn.Closure.NewChild()
	for i, name := range fn.Params {
		scope.Set(name, args[i])
	}

	in.logger.TraceContext(ctx, "call",
		slog.String("function", fn.Name),
		slog.Int("depth", in.depth),
		slog.Int("line", line))

	c, err := in.execStatements(ctx, fn.Body.Statements, scope)
	if err != nil {
		return None, err
	}

	if !c.returning {
		return None, nil
	}

	in.logger.TraceContext(ctx, "return",
		slog.String("function", fn.Name),
		slog.String("kind", c.value.Kind().String()))

	return c.value, nil
}

func canceled(ctx context.Context, line int) error {
	if ctx.Err() == nil {
		return nil
	}

	return (&RuntimeError{
		Kind:    Canceled,
		Message: "evaluation interrupted",
		Line:    line,
	}).Wrap(context.Cause(ctx))
}

func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}

	return s
}
