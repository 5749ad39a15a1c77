package replui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/interp"
)

func newTestInterp() *interp.Interp {
	a := arena.New()
	ip := interp.New(a, interp.NewScope(), "/src", "/build")
	builtin.Register(ip)
	return ip
}

func TestEval_Arithmetic(t *testing.T) {
	ip := newTestInterp()
	h, err := Eval(ip, "1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, "7", builtin.Stringify(ip, h))
}

func TestEval_BindingPersistsAcrossCalls(t *testing.T) {
	ip := newTestInterp()
	_, err := Eval(ip, "x = 10")
	require.Error(t, err) // assignment is a statement, not an expression

	ip.Define("x", ip.A.NewNumber(10))
	h, err := Eval(ip, "x + 1")
	require.NoError(t, err)
	assert.Equal(t, "11", builtin.Stringify(ip, h))
}

func TestEval_UnknownIdentifier(t *testing.T) {
	ip := newTestInterp()
	_, err := Eval(ip, "nope")
	require.Error(t, err)
}

func TestRenderError_PointsCaretAtColumn(t *testing.T) {
	ip := newTestInterp()
	_, err := Eval(ip, "nope")
	require.Error(t, err)

	out := RenderError("nope", err)
	assert.Contains(t, out, "^")
}
