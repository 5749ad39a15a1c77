// Package display renders two kinds of diagnostics: a branch-drawn
// pretty-print of a parsed AST for `check -p`, and a source-line-plus-caret
// rendering of an evaluation error for every CLI entry point that surfaces
// one to a terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// FormatterOptions controls AST pretty-printing.
type FormatterOptions struct {
	ShowLocations bool // annotate each node with file:line:col
	MaxDepth      int  // 0 means unlimited
	Indent        string
}

// TreeFormatter pretty-prints a parsed ast.File as a branch-drawn tree.
type TreeFormatter struct {
	options FormatterOptions
}

// NewTreeFormatter builds a formatter with the given options.
func NewTreeFormatter(options FormatterOptions) *TreeFormatter {
	if options.Indent == "" {
		options.Indent = "  "
	}
	return &TreeFormatter{options: options}
}

// Format pretty-prints every top-level statement in f.
func (tf *TreeFormatter) Format(f *ast.File) string {
	if f == nil || len(f.Stmts) == 0 {
		return "(empty file)\n"
	}
	var sb strings.Builder
	for i, stmt := range f.Stmts {
		isLast := i == len(f.Stmts)-1
		tf.formatNode(&sb, stmt, "", isLast, 0)
	}
	return sb.String()
}

func (tf *TreeFormatter) formatNode(sb *strings.Builder, n ast.Node, prefix string, isLast bool, depth int) {
	if n == nil {
		return
	}
	if tf.options.MaxDepth > 0 && depth > tf.options.MaxDepth {
		return
	}

	branch := "├─→ "
	childPrefix := prefix + "│ "
	if isLast {
		branch = "└─→ "
		childPrefix = prefix + "  "
	}
	if depth == 0 {
		branch = ""
		childPrefix = ""
	}

	sb.WriteString(prefix)
	sb.WriteString(branch)
	sb.WriteString(describe(n))
	if tf.options.ShowLocations {
		sb.WriteString(fmt.Sprintf(" [%s]", n.Location()))
	}
	sb.WriteByte('\n')

	children := childNodes(n)
	for i, c := range children {
		tf.formatNode(sb, c, childPrefix, i == len(children)-1, depth+1)
	}
}

// describe returns the one-line label for a node: its kind plus whatever
// scalar payload it carries (literal value, operator, identifier name).
func describe(n ast.Node) string {
	switch v := n.(type) {
	case *ast.BoolLit:
		return fmt.Sprintf("BoolLit %v", v.Value)
	case *ast.IntLit:
		return fmt.Sprintf("IntLit %d", v.Value)
	case *ast.StringLit:
		return fmt.Sprintf("StringLit %q", v.Value)
	case *ast.FStringLit:
		return fmt.Sprintf("FStringLit %q", v.Value)
	case *ast.ArrayLit:
		return "ArrayLit"
	case *ast.DictLit:
		return "DictLit"
	case *ast.Ident:
		return fmt.Sprintf("Ident %s", v.Name)
	case *ast.BinOp:
		return fmt.Sprintf("BinOp %s", v.Op)
	case *ast.UnaryOp:
		return fmt.Sprintf("UnaryOp %s", v.Op)
	case *ast.Call:
		return "Call"
	case *ast.MethodCall:
		return fmt.Sprintf("MethodCall .%s", v.Name)
	case *ast.Index:
		return "Index"
	case *ast.Slice:
		return "Slice"
	case *ast.Ternary:
		return "Ternary"
	case *ast.ExprStmt:
		return "ExprStmt"
	case *ast.Assign:
		return fmt.Sprintf("Assign %s", v.Op)
	case *ast.If:
		return fmt.Sprintf("If (%d branches)", len(v.Branches))
	case *ast.Foreach:
		return fmt.Sprintf("Foreach %s", strings.Join(v.Vars, ", "))
	case *ast.Break:
		return "Break"
	case *ast.Continue:
		return "Continue"
	case *ast.FuncDef:
		return fmt.Sprintf("FuncDef %s(%s)", v.Name, strings.Join(v.Params, ", "))
	case *ast.Return:
		return "Return"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// childNodes returns n's direct AST children in source order, flattening
// call arguments, dict entries, and block bodies into the same list.
func childNodes(n ast.Node) []ast.Node {
	switch v := n.(type) {
	case *ast.ArrayLit:
		return v.Elems
	case *ast.DictLit:
		var out []ast.Node
		for _, e := range v.Entries {
			out = append(out, e.Key, e.Value)
		}
		return out
	case *ast.BinOp:
		return []ast.Node{v.Left, v.Right}
	case *ast.UnaryOp:
		return []ast.Node{v.Operand}
	case *ast.Call:
		out := []ast.Node{v.Func}
		for _, a := range v.Args {
			out = append(out, a.Value)
		}
		return out
	case *ast.MethodCall:
		out := []ast.Node{v.Receiver}
		for _, a := range v.Args {
			out = append(out, a.Value)
		}
		return out
	case *ast.Index:
		return []ast.Node{v.Recv, v.Idx}
	case *ast.Slice:
		out := []ast.Node{v.Recv}
		if v.Start != nil {
			out = append(out, v.Start)
		}
		if v.Stop != nil {
			out = append(out, v.Stop)
		}
		return out
	case *ast.Ternary:
		return []ast.Node{v.Cond, v.Then, v.Else}
	case *ast.ExprStmt:
		return []ast.Node{v.X}
	case *ast.Assign:
		return []ast.Node{v.Target, v.Value}
	case *ast.If:
		var out []ast.Node
		for _, b := range v.Branches {
			if b.Cond != nil {
				out = append(out, b.Cond)
			}
			out = append(out, b.Body...)
		}
		out = append(out, v.Else...)
		return out
	case *ast.Foreach:
		out := []ast.Node{v.In}
		return append(out, v.Body...)
	case *ast.FuncDef:
		return v.Body
	case *ast.Return:
		if v.Value != nil {
			return []ast.Node{v.Value}
		}
	}
	return nil
}

// RenderError formats an evaluation error as its message followed by the
// offending source line and a caret under the reported column.
func RenderError(src string, err error) string {
	ee, ok := err.(*merrors.EvalError)
	if !ok {
		return err.Error()
	}
	line := sourceLine(src, ee.Loc.Line)
	col := ee.Loc.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s\n", ee.Loc, ee.Kind, ee.Message)
	if ee.Suggestion != "" {
		fmt.Fprintf(&sb, "  (did you mean %q?)\n", ee.Suggestion)
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", col-1))
	sb.WriteString("^")
	return sb.String()
}

func sourceLine(src string, line int) string {
	if line < 1 {
		line = 1
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
