package parser

import (
	"testing"

	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/lexer"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	toks, err := lexer.New("t.build", src, lexer.Standard).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	f, err := New("t.build", toks, lexer.Standard).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return f
}

func TestParseArithmeticPrecedence(t *testing.T) {
	f := parse(t, "x = 1 + 2 * 3\n")
	assign := f.Stmts[0].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	if bin.Op != "+" {
		t.Fatalf("top op = %q, want +", bin.Op)
	}
	rhs := bin.Right.(*ast.BinOp)
	if rhs.Op != "*" {
		t.Fatalf("rhs op = %q, want *", rhs.Op)
	}
}

func TestParseAndOrPrecedence(t *testing.T) {
	f := parse(t, "x = a or b and c\n")
	assign := f.Stmts[0].(*ast.Assign)
	top := assign.Value.(*ast.BinOp)
	if top.Op != "or" {
		t.Fatalf("top op = %q, want or (lowest precedence)", top.Op)
	}
	right := top.Right.(*ast.BinOp)
	if right.Op != "and" {
		t.Fatalf("right op = %q, want and", right.Op)
	}
}

func TestParseUnaryAndPostfixBindTighter(t *testing.T) {
	f := parse(t, "x = -a.len()\n")
	assign := f.Stmts[0].(*ast.Assign)
	u := assign.Value.(*ast.UnaryOp)
	if u.Op != "-" {
		t.Fatalf("op = %q, want -", u.Op)
	}
	if _, ok := u.Operand.(*ast.MethodCall); !ok {
		t.Fatalf("operand = %T, want *ast.MethodCall", u.Operand)
	}
}

func TestParseComparisonChainsLeftToRight(t *testing.T) {
	f := parse(t, "x = a < b\n")
	assign := f.Stmts[0].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	if bin.Op != "<" {
		t.Fatalf("op = %q, want <", bin.Op)
	}
}

func TestParseNotInOperator(t *testing.T) {
	f := parse(t, "x = a not in b\n")
	assign := f.Stmts[0].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	if bin.Op != "not in" {
		t.Fatalf("op = %q, want 'not in'", bin.Op)
	}
}

func TestParsePositionalAndKeywordArgs(t *testing.T) {
	f := parse(t, "foo(1, 2, name: 'x')\n")
	call := f.Stmts[0].(*ast.ExprStmt).X.(*ast.Call)
	if len(call.Args) != 3 {
		t.Fatalf("args = %d, want 3", len(call.Args))
	}
	if call.Args[2].Name != "name" {
		t.Fatalf("args[2].Name = %q, want name", call.Args[2].Name)
	}
}

func TestParseKeywordBeforePositionalIsError(t *testing.T) {
	toks, err := lexer.New("t.build", "foo(a: 1, 2)\n", lexer.Standard).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = New("t.build", toks, lexer.Standard).Parse()
	if err == nil {
		t.Fatalf("expected parse error for positional-after-keyword")
	}
}

func TestParseIfElifElse(t *testing.T) {
	f := parse(t, "if a\n  x = 1\nelif b\n  x = 2\nelse\n  x = 3\nendif\n")
	ifs := f.Stmts[0].(*ast.If)
	if len(ifs.Branches) != 2 {
		t.Fatalf("branches = %d, want 2", len(ifs.Branches))
	}
	if ifs.Else == nil {
		t.Fatalf("expected else body")
	}
}

func TestParseForeachTwoVars(t *testing.T) {
	f := parse(t, "foreach k, v in d\n  message(k)\nendforeach\n")
	fe := f.Stmts[0].(*ast.Foreach)
	if len(fe.Vars) != 2 || fe.Vars[0] != "k" || fe.Vars[1] != "v" {
		t.Fatalf("vars = %v", fe.Vars)
	}
}

func TestParseForeachOneVar(t *testing.T) {
	f := parse(t, "foreach x in arr\n  message(x)\nendforeach\n")
	fe := f.Stmts[0].(*ast.Foreach)
	if len(fe.Vars) != 1 || fe.Vars[0] != "x" {
		t.Fatalf("vars = %v", fe.Vars)
	}
}

func TestParsePlusAssign(t *testing.T) {
	f := parse(t, "x += 1\n")
	a := f.Stmts[0].(*ast.Assign)
	if a.Op != "+=" {
		t.Fatalf("op = %q, want +=", a.Op)
	}
}

func TestParseArrayAndDictLiterals(t *testing.T) {
	f := parse(t, "x = [1, 2, 3]\ny = {'a': 1, 'b': 2}\n")
	arr := f.Stmts[0].(*ast.Assign).Value.(*ast.ArrayLit)
	if len(arr.Elems) != 3 {
		t.Fatalf("elems = %d, want 3", len(arr.Elems))
	}
	dict := f.Stmts[1].(*ast.Assign).Value.(*ast.DictLit)
	if len(dict.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(dict.Entries))
	}
}

func TestParseIndexAndSlice(t *testing.T) {
	f := parse(t, "x = a[0]\ny = a[1:2]\n")
	idx := f.Stmts[0].(*ast.Assign).Value.(*ast.Index)
	if _, ok := idx.Idx.(*ast.IntLit); !ok {
		t.Fatalf("idx type = %T", idx.Idx)
	}
	sl := f.Stmts[1].(*ast.Assign).Value.(*ast.Slice)
	if sl.Start == nil || sl.Stop == nil {
		t.Fatalf("expected both slice bounds set")
	}
}

func TestParseRootRequiresLeadingProject(t *testing.T) {
	toks, err := lexer.New("meson.build", "message('hi')\nproject('p', 'c')\n", lexer.Standard).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = New("meson.build", toks, lexer.Standard).RequireLeadingProject().Parse()
	if err == nil {
		t.Fatalf("expected error: first statement must be project()")
	}
}

func TestParseRootAcceptsLeadingProject(t *testing.T) {
	toks, err := lexer.New("meson.build", "project('p', 'c')\nmessage('hi')\n", lexer.Standard).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	f, err := New("meson.build", toks, lexer.Standard).RequireLeadingProject().Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Stmts) != 2 {
		t.Fatalf("stmts = %d, want 2", len(f.Stmts))
	}
}

func TestParseTernary(t *testing.T) {
	f := parse(t, "x = a if cond else b\n")
	tern := f.Stmts[0].(*ast.Assign).Value.(*ast.Ternary)
	if _, ok := tern.Cond.(*ast.Ident); !ok {
		t.Fatalf("cond type = %T", tern.Cond)
	}
}

func TestParseFStringLiteral(t *testing.T) {
	f := parse(t, "x = f'hi @name@'\n")
	lit := f.Stmts[0].(*ast.Assign).Value.(*ast.FStringLit)
	if lit.Value != "hi @name@" {
		t.Fatalf("value = %q", lit.Value)
	}
}
