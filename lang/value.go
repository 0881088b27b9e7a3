package lang

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindFunction
)

var kindNames = [...]string{
	KindNone:     "None",
	KindBool:     "Bool",
	KindInt:      "Int",
	KindFloat:    "Float",
	KindString:   "String",
	KindList:     "List",
	KindFunction: "Function",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a runtime value. The zero Value is None.
//
// Int and Float are both numbers; arithmetic mixing them promotes to Float.
// Lists are never modified in place, so a Value may be copied freely.
type Value struct {
	list []Value
	fn   *Function
	str  string
	num  float64
	i    int64
	kind Kind
}

// None is the absence of a value.
var None = Value{}

// NewBool returns a Bool value.
func NewBool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}

	return v
}

// NewInt returns an Int value.
func NewInt(i int64) Value { return Value{kind: KindInt, i: i} }

// NewFloat returns a Float value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, num: f} }

// NewString returns a String value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewList returns a List value holding elems. The slice is not copied and must
// not be modified afterward.
func NewList(elems ...Value) Value { return Value{kind: KindList, list: elems} }

// NewFunction returns a Function value referring to fn.
func NewFunction(fn *Function) Value { return Value{kind: KindFunction, fn: fn} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is None.
func (v Value) IsNone() bool { return v.kind == KindNone }

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsBool returns the boolean held by a Bool value.
func (v Value) AsBool() bool { return v.kind == KindBool && v.i != 0 }

// AsInt returns the integer held by an Int value, or a Float truncated toward
// zero.
func (v Value) AsInt() int64 {
	if v.kind == KindFloat {
		return int64(v.num)
	}

	return v.i
}

// AsFloat returns any number as a float64.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}

	return v.num
}

// AsString returns the text of a String value.
func (v Value) AsString() string { return v.str }

// AsList returns the elements of a List value. The result must not be
// modified.
func (v Value) AsList() []Value { return v.list }

// AsFunction returns the function referred to by a Function value.
func (v Value) AsFunction() *Function { return v.fn }

// Truthy coerces v to a boolean for conditional contexts.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.i != 0
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindList:
		return len(v.list) > 0
	case KindFunction:
		return true
	default:
		return false
	}
}

// Equal reports whether a and b are structurally equal.
//
// Numbers compare by numeric value regardless of Int or Float. Values of any
// other differing kinds are unequal. Functions are equal only to themselves.
func Equal(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		if a.kind == KindInt && b.kind == KindInt {
			return a.i == b.i
		}

		return a.AsFloat() == b.AsFloat()
	}

	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNone:
		return true
	case KindBool:
		return a.i == b.i
	case KindString:
		return a.str == b.str
	case KindFunction:
		return a.fn == b.fn
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}

		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String formats v the way print displays it.
func (v Value) String() string {
	var sb strings.Builder

	v.format(&sb)

	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindNone:
		sb.WriteString("None")

	case KindBool:
		if v.i != 0 {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}

	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))

	case KindFloat:
		sb.WriteString(formatFloat(v.num))

	case KindString:
		sb.WriteString(v.str)

	case KindList:
		sb.WriteByte('[')

		for i, e := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}

			e.format(sb)
		}

		sb.WriteByte(']')

	case KindFunction:
		sb.WriteString("<function ")
		sb.WriteString(v.fn.Signature())
		sb.WriteByte('>')
	}
}

// formatFloat renders f in positional notation with at least one fractional
// digit when its magnitude is in [1e-4, 1e16), and in exponent notation
// otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}

// Function is a user-defined function together with the environment it was
// defined in.
type Function struct {
	Body    *Block
	Closure *Env
	Name    string
	Params  []string
}

// Signature returns the function's name and parameter list, such as
// "add(a, b)".
func (fn *Function) Signature() string {
	return fn.Name + "(" + strings.Join(fn.Params, ", ") + ")"
}
