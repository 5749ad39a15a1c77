// Package ast defines the syntax tree produced by the parser.
// Nodes are plain structs referencing children as interface values
// rather than handles: the AST is short-lived scaffolding consumed once by
// the interpreter, unlike the long-lived object arena.
package ast

import "github.com/standardbeagle/mbs/internal/merrors"

// Node is implemented by every AST node kind.
type Node interface {
	Location() merrors.Location
}

type base struct {
	Loc merrors.Location
}

func (b base) Location() merrors.Location { return b.Loc }

// --- expressions -----------------------------------------------------------

type BoolLit struct {
	base
	Value bool
}

type IntLit struct {
	base
	Value int64
}

type StringLit struct {
	base
	Value string
}

// FStringLit is a string literal containing @identifier@ interpolation
// markers, decoded at evaluation time.
type FStringLit struct {
	base
	Value string
}

type ArrayLit struct {
	base
	Elems []Node
}

type DictEntry struct {
	Key   Node // StringLit in practice, but kept general
	Value Node
}

type DictLit struct {
	base
	Entries []DictEntry
}

type Ident struct {
	base
	Name string
}

type BinOp struct {
	base
	Op    string // "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "and", "or", "in", "not in"
	Left  Node
	Right Node
}

type UnaryOp struct {
	base
	Op      string // "-", "not"
	Operand Node
}

// Arg is one call argument: positional when Name == "".
type Arg struct {
	Name  string
	Value Node
}

type Call struct {
	base
	Func Node // Ident, or a MethodCall target chain resolved by the interpreter
	Args []Arg
}

// MethodCall represents `receiver.name(args...)`.
type MethodCall struct {
	base
	Receiver Node
	Name     string
	Args     []Arg
}

type Index struct {
	base
	Recv Node
	Idx  Node
}

// Slice represents `recv[start:stop]`; Start/Stop may be nil.
type Slice struct {
	base
	Recv  Node
	Start Node
	Stop  Node
}

type Ternary struct {
	base
	Cond, Then, Else Node
}

// --- statements --------------------------------------------------------

type ExprStmt struct {
	base
	X Node
}

// Assign covers both `=` and `+=` via Op.
type Assign struct {
	base
	Op     string // "=" or "+="
	Target Node   // Ident or Index
	Value  Node
}

type IfBranch struct {
	Cond Node
	Body []Node
}

type If struct {
	base
	Branches []IfBranch // first is `if`, rest are `elif`
	Else     []Node     // nil if no else
}

type Foreach struct {
	base
	Vars []string // one or two loop variables
	In   Node
	Body []Node
}

type Break struct{ base }
type Continue struct{ base }

// FuncDef is only produced in Extended lexer mode.
type FuncDef struct {
	base
	Name   string
	Params []string
	Body   []Node
}

type Return struct {
	base
	Value Node // nil for bare return
}

// File is the root node: a sequence of top-level statements.
type File struct {
	base
	Stmts []Node
}

// --- constructors ------------------------------------------------------
//
// base is unexported so every field participating in Location() stays
// write-once from the parser's perspective; construction goes through
// these functions instead of composite literals reaching into ast.base.

func NewBoolLit(loc merrors.Location, v bool) *BoolLit     { return &BoolLit{base{loc}, v} }
func NewIntLit(loc merrors.Location, v int64) *IntLit      { return &IntLit{base{loc}, v} }
func NewStringLit(loc merrors.Location, v string) *StringLit {
	return &StringLit{base{loc}, v}
}
func NewFStringLit(loc merrors.Location, v string) *FStringLit {
	return &FStringLit{base{loc}, v}
}
func NewArrayLit(loc merrors.Location, elems []Node) *ArrayLit {
	return &ArrayLit{base{loc}, elems}
}
func NewDictLit(loc merrors.Location, entries []DictEntry) *DictLit {
	return &DictLit{base{loc}, entries}
}
func NewIdent(loc merrors.Location, name string) *Ident { return &Ident{base{loc}, name} }
func NewBinOp(loc merrors.Location, op string, l, r Node) *BinOp {
	return &BinOp{base{loc}, op, l, r}
}
func NewUnaryOp(loc merrors.Location, op string, x Node) *UnaryOp {
	return &UnaryOp{base{loc}, op, x}
}
func NewCall(loc merrors.Location, fn Node, args []Arg) *Call {
	return &Call{base{loc}, fn, args}
}
func NewMethodCall(loc merrors.Location, recv Node, name string, args []Arg) *MethodCall {
	return &MethodCall{base{loc}, recv, name, args}
}
func NewIndex(loc merrors.Location, recv, idx Node) *Index { return &Index{base{loc}, recv, idx} }
func NewSlice(loc merrors.Location, recv, start, stop Node) *Slice {
	return &Slice{base{loc}, recv, start, stop}
}
func NewTernary(loc merrors.Location, cond, then, els Node) *Ternary {
	return &Ternary{base{loc}, cond, then, els}
}
func NewExprStmt(loc merrors.Location, x Node) *ExprStmt { return &ExprStmt{base{loc}, x} }
func NewAssign(loc merrors.Location, op string, target, value Node) *Assign {
	return &Assign{base{loc}, op, target, value}
}
func NewIf(loc merrors.Location, branches []IfBranch, els []Node) *If {
	return &If{base{loc}, branches, els}
}
func NewForeach(loc merrors.Location, vars []string, in Node, body []Node) *Foreach {
	return &Foreach{base{loc}, vars, in, body}
}
func NewBreak(loc merrors.Location) *Break       { return &Break{base{loc}} }
func NewContinue(loc merrors.Location) *Continue { return &Continue{base{loc}} }
func NewFuncDef(loc merrors.Location, name string, params []string, body []Node) *FuncDef {
	return &FuncDef{base{loc}, name, params, body}
}
func NewReturn(loc merrors.Location, value Node) *Return { return &Return{base{loc}, value} }
func NewFile(loc merrors.Location, stmts []Node) *File   { return &File{base{loc}, stmts} }
