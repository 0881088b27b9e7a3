package lang

import (
	"math"
	"math/bits"
	"strings"
)

// binaryOp applies an arithmetic, comparison or equality operator. The
// short-circuiting operators "and" and "or" are handled by the evaluator.
func binaryOp(op string, l, r Value) (Value, error) {
	switch op {
	case "+":
		return add(l, r)
	case "-", "*":
		return arith(op, l, r)
	case "/":
		return divide(l, r)
	case "%":
		return modulo(l, r)
	case "**":
		return power(l, r)
	case "==":
		return NewBool(Equal(l, r)), nil
	case "!=":
		return NewBool(!Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		return compare(op, l, r)
	default:
		return None, newRuntimeError(TypeError, "unknown operator "+op)
	}
}

func unaryOp(op string, v Value) (Value, error) {
	switch op {
	case "not":
		return NewBool(!v.Truthy()), nil

	case "+":
		if !v.IsNumber() {
			return None, unaryTypeError(op, v)
		}

		return v, nil

	case "-":
		switch v.Kind() {
		case KindInt:
			if v.AsInt() == math.MinInt64 {
				return NewFloat(-float64(v.AsInt())), nil
			}

			return NewInt(-v.AsInt()), nil
		case KindFloat:
			return NewFloat(-v.AsFloat()), nil
		default:
			return None, unaryTypeError(op, v)
		}

	default:
		return None, newRuntimeError(TypeError, "unknown operator "+op)
	}
}

func add(l, r Value) (Value, error) {
	switch {
	case l.IsNumber() && r.IsNumber():
		return arith("+", l, r)

	case l.Kind() == KindString && r.Kind() == KindString:
		return NewString(l.AsString() + r.AsString()), nil

	case l.Kind() == KindList && r.Kind() == KindList:
		elems := make([]Value, 0, len(l.AsList())+len(r.AsList()))
		elems = append(elems, l.AsList()...)
		elems = append(elems, r.AsList()...)

		return NewList(elems...), nil
	}

	return None, binaryTypeError("+", l, r)
}

// arith applies +, - or * to two numbers. Integer results that overflow are
// promoted to Float.
func arith(op string, l, r Value) (Value, error) {
	if !l.IsNumber() || !r.IsNumber() {
		return None, binaryTypeError(op, l, r)
	}

	if l.Kind() == KindInt && r.Kind() == KindInt {
		a, b := l.AsInt(), r.AsInt()

		var (
			n  int64
			ok bool
		)

		switch op {
		case "+":
			n, ok = addInt(a, b)
		case "-":
			n, ok = subInt(a, b)
		case "*":
			n, ok = mulInt(a, b)
		}

		if ok {
			return NewInt(n), nil
		}
	}

	a, b := l.AsFloat(), r.AsFloat()

	switch op {
	case "+":
		return NewFloat(a + b), nil
	case "-":
		return NewFloat(a - b), nil
	default:
		return NewFloat(a * b), nil
	}
}

// divide is true division; the result is always a Float.
func divide(l, r Value) (Value, error) {
	if !l.IsNumber() || !r.IsNumber() {
		return None, binaryTypeError("/", l, r)
	}

	if r.AsFloat() == 0 {
		return None, newRuntimeError(DivisionByZero, "division by zero")
	}

	return NewFloat(l.AsFloat() / r.AsFloat()), nil
}

// modulo is floored: a non-zero result has the sign of the divisor.
func modulo(l, r Value) (Value, error) {
	if !l.IsNumber() || !r.IsNumber() {
		return None, binaryTypeError("%", l, r)
	}

	if r.AsFloat() == 0 {
		return None, newRuntimeError(DivisionByZero, "modulo by zero")
	}

	if l.Kind() == KindInt && r.Kind() == KindInt {
		a, b := l.AsInt(), r.AsInt()
		if b == -1 {
			return NewInt(0), nil
		}

		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}

		return NewInt(m), nil
	}

	a, b := l.AsFloat(), r.AsFloat()

	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}

	return NewFloat(m), nil
}

// power raises l to r. An Int raised to a non-negative Int stays an Int
// unless it overflows; every other combination is a Float. Zero raised to a
// negative power is a division by zero.
func power(l, r Value) (Value, error) {
	if !l.IsNumber() || !r.IsNumber() {
		return None, binaryTypeError("**", l, r)
	}

	if l.AsFloat() == 0 && r.AsFloat() < 0 {
		return None, newRuntimeError(DivisionByZero,
			"zero cannot be raised to a negative power")
	}

	if l.Kind() == KindInt && r.Kind() == KindInt && r.AsInt() >= 0 {
		if n, ok := powInt(l.AsInt(), r.AsInt()); ok {
			return NewInt(n), nil
		}
	}

	return NewFloat(math.Pow(l.AsFloat(), r.AsFloat())), nil
}

func compare(op string, l, r Value) (Value, error) {
	var c int

	switch {
	case l.Kind() == KindInt && r.Kind() == KindInt:
		a, b := l.AsInt(), r.AsInt()

		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}

	case l.IsNumber() && r.IsNumber():
		a, b := l.AsFloat(), r.AsFloat()

		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		case a != b: // NaN
			return NewBool(false), nil
		}

	case l.Kind() == KindString && r.Kind() == KindString:
		c = strings.Compare(l.AsString(), r.AsString())

	default:
		return None, binaryTypeError(op, l, r)
	}

	switch op {
	case "<":
		return NewBool(c < 0), nil
	case "<=":
		return NewBool(c <= 0), nil
	case ">":
		return NewBool(c > 0), nil
	default:
		return NewBool(c >= 0), nil
	}
}

func addInt(a, b int64) (int64, bool) {
	s := a + b

	return s, (a^s)&(b^s) >= 0
}

func subInt(a, b int64) (int64, bool) {
	d := a - b

	return d, (a^b)&(a^d) >= 0
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	neg := (a < 0) != (b < 0)

	hi, lo := bits.Mul64(absInt(a), absInt(b))
	if hi != 0 {
		return 0, false
	}

	if neg {
		if lo > 1<<63 {
			return 0, false
		}

		return int64(-lo), true //nolint:gosec // range checked above
	}

	if lo > math.MaxInt64 {
		return 0, false
	}

	return int64(lo), true
}

func powInt(base, exp int64) (int64, bool) {
	result := int64(1)

	for exp > 0 {
		var ok bool

		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}

		exp >>= 1

		if exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}

	return result, true
}

func absInt(n int64) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}

	return uint64(n)
}

func binaryTypeError(op string, l, r Value) *RuntimeError {
	return newRuntimeError(TypeError,
		"unsupported operand types for "+op+": "+
			l.Kind().String()+" and "+r.Kind().String())
}

func unaryTypeError(op string, v Value) *RuntimeError {
	return newRuntimeError(TypeError,
		"bad operand type for unary "+op+": "+v.Kind().String())
}
