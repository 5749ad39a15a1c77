// Package merrors defines the located, typed error taxonomy used across the
// lexer, parser, interpreter, and workspace. Every evaluation failure is
// reported exactly once, at the deepest frame that can name a useful
// location, and propagates upward as a plain error return.
package merrors

import (
	"fmt"
	"time"
)

// Kind classifies an evaluation failure per the error taxonomy.
type Kind string

const (
	KindLex      Kind = "lex"
	KindParse    Kind = "parse"
	KindType     Kind = "type"
	KindName     Kind = "name"
	KindValue    Kind = "value"
	KindIO       Kind = "io"
	KindExternal Kind = "external"
	KindInternal Kind = "internal"
)

// Location pinpoints a source position for diagnostics.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// EvalError is the single located-error type returned by every evaluator.
type EvalError struct {
	Kind       Kind
	Loc        Location
	Message    string
	Suggestion string // populated only for KindName
	Underlying error
	Timestamp  time.Time
}

func newErr(kind Kind, loc Location, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...), Timestamp: time.Now()}
}

func Lex(loc Location, format string, args ...any) *EvalError   { return newErr(KindLex, loc, format, args...) }
func Parse(loc Location, format string, args ...any) *EvalError { return newErr(KindParse, loc, format, args...) }
func Type(loc Location, format string, args ...any) *EvalError  { return newErr(KindType, loc, format, args...) }
func Value(loc Location, format string, args ...any) *EvalError { return newErr(KindValue, loc, format, args...) }
func Internal(loc Location, format string, args ...any) *EvalError {
	return newErr(KindInternal, loc, format, args...)
}

// Name builds a name-resolution error, optionally annotated with a
// did-you-mean suggestion (see internal/interp/suggest.go).
func Name(loc Location, ident, suggestion string) *EvalError {
	e := newErr(KindName, loc, "unknown identifier %q", ident)
	e.Suggestion = suggestion
	return e
}

// IO wraps a filesystem failure located at the DSL call site that triggered it.
func IO(loc Location, op, path string, err error) *EvalError {
	e := newErr(KindIO, loc, "%s failed for %s: %v", op, path, err)
	e.Underlying = err
	return e
}

// External wraps a non-zero child-process exit, carrying captured stderr.
func External(loc Location, argv []string, status int, stderr string) *EvalError {
	return newErr(KindExternal, loc, "command %v exited %d: %s", argv, status, stderr)
}

func (e *EvalError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Loc, e.Kind, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *EvalError) Unwrap() error { return e.Underlying }

// MultiError aggregates independent failures, e.g. from the lexer continuing
// past the first unterminated string to collect further diagnostics.
type MultiError struct {
	Errors []*EvalError
}

func NewMultiError(errs []*EvalError) *MultiError {
	filtered := make([]*EvalError, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	return &MultiError{Errors: filtered}
}

func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return "no errors"
	case 1:
		return m.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors, first: %v", len(m.Errors), m.Errors[0])
	}
}

func (m *MultiError) Unwrap() []error {
	out := make([]error, len(m.Errors))
	for i, e := range m.Errors {
		out[i] = e
	}
	return out
}
