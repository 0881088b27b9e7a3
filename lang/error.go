package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by [Parse] matches [ErrSyntax] with [errors.Is], and
// every error returned by [Interpreter.Evaluate] matches the sentinel of its
// [ErrorKind].
var (
	ErrSyntax                = NewError("syntax error")
	ErrNameNotFound          = NewError("name not found")
	ErrType                  = NewError("type error")
	ErrArity                 = NewError("arity mismatch")
	ErrDivisionByZero        = NewError("division by zero")
	ErrReturnOutsideFunction = NewError("return outside function")
	ErrMaxDepthExceeded      = NewError("maximum call depth exceeded")
	ErrCanceled              = NewError("evaluation canceled")
	ErrReadInput             = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
// An err that is itself an *Error is returned unchanged.
func WrapError(err error) *Error {
	if ee, ok := err.(*Error); ok { //nolint:errorlint // only err itself
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>", or "", depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// The receiver is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// SyntaxError reports a malformed token stream or a grammar violation.
type SyntaxError struct {
	Message string
	Source  string // The original source input, if known
	Line    int
	Column  int
}

// Error implements the error interface.
//
// When the source is known, the offending line is rendered beneath the
// message with a caret under the reported column.
func (e *SyntaxError) Error() string {
	var buf strings.Builder

	buf.WriteString("syntax error")

	if e.Line > 0 {
		buf.WriteString(" at line ")
		buf.WriteString(strconv.Itoa(e.Line))

		if e.Column > 0 {
			buf.WriteString(", column ")
			buf.WriteString(strconv.Itoa(e.Column))
		}
	}

	buf.WriteString(": ")
	buf.WriteString(e.Message)

	if snippet := e.snippet(); snippet != "" {
		buf.WriteRune('\n')
		buf.WriteString(snippet)
	}

	return buf.String()
}

// snippet returns the offending source line and a column marker, or "" if the
// source is unknown or the line is out of range.
func (e *SyntaxError) snippet() string {
	if e.Source == "" || e.Line <= 0 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(e.Line)

	var src strings.Builder

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(strings.TrimRight(lines[e.Line-1], "\r"))
	src.WriteRune('\n')

	// 2 leading spaces + " | " precede the line text.
	padding := strings.Repeat(" ", len(num)+5)
	if e.Column > 0 {
		padding += strings.Repeat(" ", e.Column-1)
	}

	src.WriteString(padding)
	src.WriteRune('^')

	return src.String()
}

// Unwrap returns [ErrSyntax].
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Message),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	)
}

// withSource returns a copy of e carrying the given source text.
func (e *SyntaxError) withSource(src string) *SyntaxError {
	cp := *e
	cp.Source = src

	return &cp
}

// ErrorKind classifies a [RuntimeError].
type ErrorKind int

const (
	NameNotFound ErrorKind = iota
	TypeError
	ArityError
	DivisionByZero
	ReturnOutsideFunction
	MaxDepthExceeded
	Canceled
)

var errorKinds = [...]struct {
	name     string
	sentinel *Error
}{
	NameNotFound:          {"NameNotFound", ErrNameNotFound},
	TypeError:             {"TypeError", ErrType},
	ArityError:            {"ArityError", ErrArity},
	DivisionByZero:        {"DivisionByZero", ErrDivisionByZero},
	ReturnOutsideFunction: {"ReturnOutsideFunction", ErrReturnOutsideFunction},
	MaxDepthExceeded:      {"MaxDepthExceeded", ErrMaxDepthExceeded},
	Canceled:              {"Canceled", ErrCanceled},
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKinds) {
		return errorKinds[k].name
	}

	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// Sentinel returns the predefined error matched by runtime errors of kind k.
func (k ErrorKind) Sentinel() *Error {
	if k >= 0 && int(k) < len(errorKinds) {
		return errorKinds[k].sentinel
	}

	return nil
}

// RuntimeError reports a failure during evaluation.
type RuntimeError struct {
	Message string
	err     error // underlying cause, if any
	attrs   []slog.Attr
	Kind    ErrorKind
	Line    int // 0 if unknown
}

func newRuntimeError(kind ErrorKind, msg string) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: msg}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	var buf strings.Builder

	buf.WriteString(e.Kind.String())

	if e.Line > 0 {
		buf.WriteString(" at line ")
		buf.WriteString(strconv.Itoa(e.Line))
	}

	buf.WriteString(": ")
	buf.WriteString(e.Message)

	if e.err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.err.Error())
	}

	return buf.String()
}

// Unwrap returns the sentinel of the error's kind and its cause, if any.
func (e *RuntimeError) Unwrap() []error {
	errs := []error{e.Kind.Sentinel()}
	if e.err != nil {
		errs = append(errs, e.err)
	}

	return errs
}

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)
	attrs = append(attrs,
		slog.String("kind", e.Kind.String()),
		slog.String("error", e.Message),
	)

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// With returns a copy of e carrying additional logging attributes.
func (e *RuntimeError) With(attrs ...slog.Attr) *RuntimeError {
	cp := *e
	cp.attrs = append(append([]slog.Attr{}, e.attrs...), attrs...)

	return &cp
}

// Wrap returns a copy of e with err as its cause.
func (e *RuntimeError) Wrap(err error) *RuntimeError {
	cp := *e
	cp.err = err

	return &cp
}

// at sets the line of a runtime error that does not have one yet.
func at(err error, line int) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.Line == 0 {
		re.Line = line
	}

	return err
}
