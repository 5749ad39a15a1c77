package interp

import "github.com/standardbeagle/mbs/internal/arena"

// Control-flow signals are propagated up the evaluation recursion as
// ordinary errors returned from eval calls, with no hidden unwinding,
// then intercepted by the nearest loop or function call. A break or
// continue outside any loop is not intercepted: EvalFile returns it to its
// caller as an error ("break outside loop", "continue outside loop").

type breakSignal struct{}

func (breakSignal) Error() string { return "break outside loop" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue outside loop" }

type returnSignal struct {
	Value arena.Handle
}

func (returnSignal) Error() string { return "return outside function" }
