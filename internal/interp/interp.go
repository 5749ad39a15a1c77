// Package interp is the tree-walking evaluator over internal/ast, backed
// by internal/arena. It knows nothing about specific builtins;
// internal/builtin registers global functions and per-kind method tables
// into it, which keeps this package free of an import cycle back to
// builtin (builtin depends on interp, not the reverse).
package interp

import (
	"fmt"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// GlobalFunc implements a top-level builtin such as project() or files().
type GlobalFunc func(ip *Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error)

// MethodFunc implements one (kind, name) method table entry.
type MethodFunc func(ip *Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error)

// UserFunc is a DSL-level function defined with `func`/`endfunc` in
// extended mode.
type UserFunc struct {
	Params []string
	Body   []ast.Node
	Scope  *Scope // closed-over defining scope (the project scope in practice)
}

// Interp evaluates one project's AST against a shared arena. The workspace
// (internal/workspace) owns one Interp per project and wires SourceRoot/
// BuildRoot/Cwd and the shared global scope before evaluation starts.
type Interp struct {
	A *arena.Arena

	SourceRoot string
	BuildRoot  string
	Cwd        string // current subdir relative to SourceRoot, "" at project root

	scopes *scopeStack

	Globals map[string]GlobalFunc
	Methods map[arena.Kind]map[string]MethodFunc
	Funcs   map[string]*UserFunc

	Messages []string // message()/warning() output, collected for the caller to flush

	// Subdir hooks let internal/builtin implement subdir()/subproject()
	// without this package knowing about internal/workspace.
	OnSubdir     func(ip *Interp, name string) error
	OnSubproject func(ip *Interp, name string) (arena.Handle, error)
}

func New(a *arena.Arena, global *Scope, sourceRoot, buildRoot string) *Interp {
	return &Interp{
		A:          a,
		SourceRoot: sourceRoot,
		BuildRoot:  buildRoot,
		scopes:     newScopeStack(global),
		Globals:    make(map[string]GlobalFunc),
		Methods:    make(map[arena.Kind]map[string]MethodFunc),
		Funcs:      make(map[string]*UserFunc),
	}
}

func (ip *Interp) RegisterGlobal(name string, fn GlobalFunc) { ip.Globals[name] = fn }

func (ip *Interp) RegisterMethod(k arena.Kind, name string, fn MethodFunc) {
	if ip.Methods[k] == nil {
		ip.Methods[k] = make(map[string]MethodFunc)
	}
	ip.Methods[k][name] = fn
}

// Lookup/Assign/Define expose the scope stack to internal/builtin (e.g.
// subproject() binding the returned object, funcdef binding parameters).
func (ip *Interp) Lookup(name string) (arena.Handle, bool) { return ip.scopes.lookup(name) }
func (ip *Interp) Assign(name string, h arena.Handle)      { ip.scopes.assign(name, h) }
func (ip *Interp) Define(name string, h arena.Handle)      { ip.scopes.define(name, h) }
func (ip *Interp) PushScope() *Scope { return ip.scopes.push() }
func (ip *Interp) PopScope()         { ip.scopes.pop() }

// DefineGlobal binds name directly in the workspace-shared global scope,
// bypassing the "nearest existing binding" rule define()/assign() use.
// The workspace calls this for each new project to bind `meson` before
// that project's evaluation starts.
func (ip *Interp) DefineGlobal(name string, h arena.Handle) {
	ip.scopes.Global.vars[name] = h
}

func (ip *Interp) message(format string, args ...any) {
	ip.Messages = append(ip.Messages, fmt.Sprintf(format, args...))
}

// EvalExpr evaluates a single standalone expression node, returning its
// resulting handle. Used by the REPL and `internal eval -e`, which parse
// one expression rather than a whole statement sequence.
func (ip *Interp) EvalExpr(n ast.Node) (arena.Handle, error) {
	return ip.evalExpr(n)
}

// EvalFile runs every top-level statement in sequence, stopping at the
// first error.
func (ip *Interp) EvalFile(f *ast.File) error {
	for _, stmt := range f.Stmts {
		if err := ip.evalStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interp) evalStmt(n ast.Node) error {
	switch s := n.(type) {
	case *ast.ExprStmt:
		_, err := ip.evalExpr(s.X)
		return err
	case *ast.Assign:
		return ip.evalAssign(s)
	case *ast.If:
		return ip.evalIf(s)
	case *ast.Foreach:
		return ip.evalForeach(s)
	case *ast.Break:
		return breakSignal{}
	case *ast.Continue:
		return continueSignal{}
	case *ast.FuncDef:
		ip.Funcs[s.Name] = &UserFunc{Params: s.Params, Body: s.Body, Scope: ip.scopes.innermost()}
		return nil
	case *ast.Return:
		var v arena.Handle
		if s.Value != nil {
			h, err := ip.evalExpr(s.Value)
			if err != nil {
				return err
			}
			v = h
		}
		return returnSignal{Value: v}
	default:
		return merrors.Internal(n.Location(), "unhandled statement type %T", n)
	}
}

func (ip *Interp) evalBlock(body []ast.Node) error {
	ip.scopes.push()
	defer ip.scopes.pop()
	for _, stmt := range body {
		if err := ip.evalStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interp) evalAssign(s *ast.Assign) error {
	val, err := ip.evalExpr(s.Value)
	if err != nil {
		return err
	}
	switch target := s.Target.(type) {
	case *ast.Ident:
		if s.Op == "+=" {
			cur, ok := ip.scopes.lookup(target.Name)
			if !ok {
				return merrors.Name(s.Loc, target.Name, "")
			}
			sum, err := ip.add(cur, val, s.Loc)
			if err != nil {
				return err
			}
			ip.scopes.assign(target.Name, sum)
			return nil
		}
		ip.scopes.assign(target.Name, val)
		return nil
	case *ast.Index:
		recv, err := ip.evalExpr(target.Recv)
		if err != nil {
			return err
		}
		idx, err := ip.evalExpr(target.Idx)
		if err != nil {
			return err
		}
		return ip.assignIndex(recv, idx, val, s.Loc)
	default:
		return merrors.Parse(s.Loc, "invalid assignment target")
	}
}

func (ip *Interp) assignIndex(recv, idx, val arena.Handle, loc merrors.Location) error {
	switch ip.A.Kind(recv) {
	case arena.KindArray:
		i, err := intIndex(ip.A, idx, loc)
		if err != nil {
			return err
		}
		items := ip.A.ArrayItems(recv)
		if i < 0 || i >= len(items) {
			return merrors.Value(loc, "array index %d out of range (len %d)", i, len(items))
		}
		items[i] = val
		return nil
	case arena.KindDict:
		key, ok := ip.A.String2(idx)
		if !ok {
			return merrors.Type(loc, "dict key must be a string")
		}
		return ip.A.DictSet(recv, key, val)
	default:
		return merrors.Type(loc, "cannot index-assign into %s", ip.A.Kind(recv))
	}
}

func (ip *Interp) evalIf(s *ast.If) error {
	for _, br := range s.Branches {
		h, err := ip.evalExpr(br.Cond)
		if err != nil {
			return err
		}
		if ip.A.Kind(h) != arena.KindBool {
			return merrors.Type(br.Cond.Location(), "if condition must be a bool, got %s", ip.A.Kind(h))
		}
		if ip.A.Bool(h) {
			return ip.evalBlock(br.Body)
		}
	}
	if s.Else != nil {
		return ip.evalBlock(s.Else)
	}
	return nil
}

func (ip *Interp) evalForeach(s *ast.Foreach) error {
	in, err := ip.evalExpr(s.In)
	if err != nil {
		return err
	}
	switch ip.A.Kind(in) {
	case arena.KindArray:
		if len(s.Vars) != 1 {
			return merrors.Type(s.Loc, "foreach over an array takes exactly one loop variable, got %d", len(s.Vars))
		}
		return ip.foreachArray(in, s)
	case arena.KindDict:
		if len(s.Vars) != 2 {
			return merrors.Type(s.Loc, "foreach over a dict takes exactly two loop variables (key, value), got %d", len(s.Vars))
		}
		return ip.foreachDict(in, s)
	default:
		return merrors.Type(s.In.Location(), "foreach expects an array or dict, got %s", ip.A.Kind(in))
	}
}

func (ip *Interp) foreachArray(in arena.Handle, s *ast.Foreach) error {
	items := append([]arena.Handle(nil), ip.A.ArrayItems(in)...) // snapshot before mutation
	for _, item := range items {
		ip.scopes.push()
		ip.scopes.define(s.Vars[0], item)
		err := ip.runLoopBody(s.Body)
		ip.scopes.pop()
		if brk, stop, rerr := classifyLoopErr(err); rerr != nil {
			return rerr
		} else if stop {
			if brk {
				break
			}
			continue
		}
	}
	return nil
}

func (ip *Interp) foreachDict(in arena.Handle, s *ast.Foreach) error {
	keys := ip.A.DictKeys(in)
	for _, k := range keys {
		v, _ := ip.A.DictGet(in, k)
		ip.scopes.push()
		ip.scopes.define(s.Vars[0], ip.A.NewString(k))
		ip.scopes.define(s.Vars[1], v)
		err := ip.runLoopBody(s.Body)
		ip.scopes.pop()
		if brk, stop, rerr := classifyLoopErr(err); rerr != nil {
			return rerr
		} else if stop && brk {
			break
		}
	}
	return nil
}

func (ip *Interp) runLoopBody(body []ast.Node) error {
	for _, stmt := range body {
		if err := ip.evalStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// classifyLoopErr interprets an error from one loop iteration: (isBreak,
// shouldStopIterating, errorToPropagate). continueSignal/breakSignal are
// absorbed here; any other error propagates.
func classifyLoopErr(err error) (bool, bool, error) {
	switch err.(type) {
	case nil:
		return false, false, nil
	case breakSignal:
		return true, true, nil
	case continueSignal:
		return false, true, nil
	default:
		return false, true, err
	}
}
