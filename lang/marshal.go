package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// FormatJSON writes the syntax tree of the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree of the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// ToMap converts the syntax tree rooted at p to native Go maps and slices.
//
// Every node becomes a map with a "type" key naming the node and a "line" key
// holding its source line, plus one key per child or attribute.
func (p *Program) ToMap() map[string]any {
	return toMap(p)
}

func toMap(n Node) map[string]any {
	m := map[string]any{"line": n.Position().Line}

	switch n := n.(type) {
	case *Program:
		m["type"] = "Program"
		m["statements"] = nodeList(n.Statements)

	case *Block:
		m["type"] = "Block"
		m["statements"] = nodeList(n.Statements)

	case *NumberLiteral:
		m["type"] = "Number"
		if n.Value.Kind() == KindFloat {
			m["value"] = n.Value.AsFloat()
		} else {
			m["value"] = n.Value.AsInt()
		}

	case *StringLiteral:
		m["type"] = "String"
		m["value"] = n.Value

	case *BoolLiteral:
		m["type"] = "Bool"
		m["value"] = n.Value

	case *ListLiteral:
		m["type"] = "List"
		m["elements"] = exprList(n.Elements)

	case *VariableRef:
		m["type"] = "Variable"
		m["name"] = n.Name

	case *Assignment:
		m["type"] = "Assignment"
		m["name"] = n.Name
		m["value"] = toMap(n.Value)

	case *CompoundAssignment:
		m["type"] = "CompoundAssignment"
		m["name"] = n.Name
		m["op"] = n.Op
		m["value"] = toMap(n.Value)

	case *BinaryOp:
		m["type"] = "BinaryOp"
		m["op"] = n.Op
		m["left"] = toMap(n.Left)
		m["right"] = toMap(n.Right)

	case *UnaryOp:
		m["type"] = "UnaryOp"
		m["op"] = n.Op
		m["operand"] = toMap(n.Operand)

	case *If:
		m["type"] = "If"
		m["cond"] = toMap(n.Cond)
		m["then"] = toMap(n.Then)

		if n.Else != nil {
			m["else"] = toMap(n.Else)
		}

	case *While:
		m["type"] = "While"
		m["cond"] = toMap(n.Cond)
		m["body"] = toMap(n.Body)

	case *For:
		m["type"] = "For"
		m["var"] = n.Var
		m["iterable"] = toMap(n.Iterable)
		m["body"] = toMap(n.Body)

	case *FunctionDef:
		m["type"] = "FunctionDef"
		m["name"] = n.Name
		m["params"] = append([]string{}, n.Params...)
		m["body"] = toMap(n.Body)

	case *FunctionCall:
		m["type"] = "FunctionCall"
		m["name"] = n.Name
		m["args"] = exprList(n.Args)

	case *Len:
		m["type"] = "Len"
		m["arg"] = toMap(n.Arg)

	case *Return:
		m["type"] = "Return"

		if n.Value != nil {
			m["value"] = toMap(n.Value)
		}

	case *Print:
		m["type"] = "Print"
		m["value"] = toMap(n.Value)
	}

	return m
}

func nodeList(nodes []Node) []any {
	list := make([]any, len(nodes))
	for i, n := range nodes {
		list[i] = toMap(n)
	}

	return list
}

func exprList(exprs []Expr) []any {
	list := make([]any, len(exprs))
	for i, e := range exprs {
		list[i] = toMap(e)
	}

	return list
}

// Dump writes the syntax tree of the program to the writer, one node per line
// and each child indented beneath its parent. Source lines are omitted, so
// equivalent programs produce identical dumps.
func (p *Program) Dump(w io.Writer) error {
	var sb strings.Builder

	dumpMap(&sb, p.ToMap(), 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

// Child keys of a node map in the order they are dumped.
var dumpChildren = []string{
	"cond", "then", "else", "iterable", "left", "right", "operand", "arg",
	"value", "args", "elements", "body", "statements",
}

func dumpMap(sb *strings.Builder, m map[string]any, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(m["type"].(string))

	for _, key := range []string{"name", "var", "op", "params", "value"} {
		switch v := m[key].(type) {
		case nil, map[string]any:
		case string:
			if key == "value" {
				fmt.Fprintf(sb, " %q", v)
			} else {
				fmt.Fprintf(sb, " %s", v)
			}
		case []string:
			fmt.Fprintf(sb, " (%s)", strings.Join(v, ", "))
		case float64:
			fmt.Fprintf(sb, " %s", formatNumber(NewFloat(v)))
		default:
			fmt.Fprintf(sb, " %v", v)
		}
	}

	sb.WriteByte('\n')

	for _, key := range dumpChildren {
		switch v := m[key].(type) {
		case map[string]any:
			dumpMap(sb, v, depth+1)
		case []any:
			for _, elem := range v {
				dumpMap(sb, elem.(map[string]any), depth+1)
			}
		}
	}
}
