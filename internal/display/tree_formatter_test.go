package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/merrors"
	"github.com/standardbeagle/mbs/internal/parser"
)

func TestNewTreeFormatter(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{})
	assert.NotNil(t, formatter)
	assert.Equal(t, "  ", formatter.options.Indent)

	options := FormatterOptions{ShowLocations: true, MaxDepth: 5, Indent: "\t"}
	formatter = NewTreeFormatter(options)
	assert.Equal(t, options, formatter.options)
}

func TestTreeFormatter_Format_EmptyFile(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{})
	assert.Equal(t, "(empty file)\n", formatter.Format(nil))
	assert.Equal(t, "(empty file)\n", formatter.Format(ast.NewFile(merrors.Location{}, nil)))
}

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	lx := lexer.New("<test>", src, lexer.Standard)
	toks, err := lx.Scan()
	require.NoError(t, err)
	p := parser.New("<test>", toks, lexer.Standard)
	f, err := p.Parse()
	require.NoError(t, err)
	return f
}

func TestTreeFormatter_Format_SimpleExpr(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{})
	f := parseFile(t, "x = 1 + 2\n")

	output := formatter.Format(f)

	assert.Contains(t, output, "Assign =")
	assert.Contains(t, output, "Ident x")
	assert.Contains(t, output, "BinOp +")
	assert.Contains(t, output, "IntLit 1")
	assert.Contains(t, output, "IntLit 2")
}

func TestTreeFormatter_Format_BranchGlyphs(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{})
	f := parseFile(t, "foo(1, 2, 3)\n")

	output := formatter.Format(f)

	assert.Contains(t, output, "├─→")
	assert.Contains(t, output, "└─→")
}

func TestTreeFormatter_Format_ShowLocations(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{ShowLocations: true})
	f := parseFile(t, "x = 1\n")

	output := formatter.Format(f)

	assert.Contains(t, output, "<test>:1:")
}

func TestTreeFormatter_Format_MaxDepth(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{MaxDepth: 1})
	f := parseFile(t, "x = (1 + 2) * 3\n")

	output := formatter.Format(f)

	assert.Contains(t, output, "Assign =")
	assert.Contains(t, output, "BinOp *")
	assert.NotContains(t, output, "IntLit 1")
}

func TestTreeFormatter_Format_Foreach(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{})
	f := parseFile(t, "foreach x in [1, 2]\n  y = x\nendforeach\n")

	output := formatter.Format(f)

	assert.Contains(t, output, "Foreach x")
	assert.Contains(t, output, "ArrayLit")
	assert.Contains(t, output, "Assign =")
}

func TestRenderError_FormatsLocationAndCaret(t *testing.T) {
	err := merrors.Type(merrors.Location{File: "meson.build", Line: 1, Column: 5}, "expected string, got int")
	out := RenderError("y = 1 + nothere", err)

	lines := splitLines(out)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "meson.build:1:5")
	assert.Contains(t, lines[0], "expected string, got int")
	assert.Equal(t, "y = 1 + nothere", lines[1])
	assert.Equal(t, "    ^", lines[2])
}

func TestRenderError_NameErrorIncludesSuggestion(t *testing.T) {
	err := merrors.Name(merrors.Location{Line: 1, Column: 1}, "complier", "compiler")
	out := RenderError("complier", err)

	assert.Contains(t, out, `did you mean "compiler"?`)
}

func TestRenderError_NonEvalErrorFallsBackToPlainMessage(t *testing.T) {
	out := RenderError("irrelevant", assert.AnError)
	assert.Equal(t, assert.AnError.Error(), out)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
