package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/minilang/lang"
)

// builtinSignatures are the call-like keywords of the language.
var builtinSignatures = map[string][]string{
	"len":   {"value"},
	"print": {"value"},
}

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // called function name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// the argument list of a call. Brackets and string literals are skipped, so
// commas inside nested lists or quoted text do not advance the argument index.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Stack of open parentheses and brackets preceding the cursor, with the
	// number of top-level commas seen inside each.
	type open struct {
		pos    int
		paren  bool
		commas int
	}

	var (
		stack   []open
		quoted  bool
		escaped bool
	)

	for i, r := range input[:cursor] {
		switch {
		case escaped:
			escaped = false
		case quoted:
			switch r {
			case '\\':
				escaped = true
			case '"':
				quoted = false
			}
		case r == '"':
			quoted = true
		case r == '(' || r == '[':
			stack = append(stack, open{pos: i, paren: r == '('})
		case r == ')' || r == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case r == ',':
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}
	}

	if quoted || len(stack) == 0 || !stack[len(stack)-1].paren {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	// The callee is the identifier immediately before the parenthesis.
	end := top.pos
	for end > 0 && input[end-1] == ' ' {
		end--
	}

	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	name := input[start:end]
	if name == "" {
		return functionCall{}
	}

	if r, _ := utf8.DecodeRuneInString(name); r >= '0' && r <= '9' {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.commas, inCall: true}
}

// signatureOf returns the parameter names of the function or call-like
// keyword named name as visible from env.
func signatureOf(env *lang.Env, name string) (params []string, ok bool) {
	if params, ok := builtinSignatures[name]; ok {
		return params, true
	}

	fn, err := env.Resolve(name)
	if err != nil {
		return nil, false
	}

	return fn.Params, true
}

// isFunction reports whether name calls a function from env.
func isFunction(env *lang.Env, name string) bool {
	_, ok := signatureOf(env, name)

	return ok
}

// renderSignatureHint renders the signature of the named function with the
// current parameter highlighted.
func renderSignatureHint(name string, params []string, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if currentArgIdx > 0 && currentArgIdx >= len(params) {
		b.WriteString(errorStyle.Render(" too many arguments"))
	}

	return b.String()
}
