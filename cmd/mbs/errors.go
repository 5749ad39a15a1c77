package main

import (
	"fmt"
	"os"

	"github.com/standardbeagle/mbs/internal/display"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// reportEvalError prints err to stderr, rendering the source line and
// caret from display.RenderError when err carries a DSL location. The
// file is re-read here rather than threaded through from evaluation
// because most callers only have an error, not the interpreter state
// that produced it.
func reportEvalError(err error) {
	evalErr, ok := err.(*merrors.EvalError)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	src, readErr := os.ReadFile(evalErr.Loc.File)
	if readErr != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprint(os.Stderr, display.RenderError(string(src), evalErr))
}
