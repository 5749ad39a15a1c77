package interp

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/merrors"
)

func (ip *Interp) evalExpr(n ast.Node) (arena.Handle, error) {
	switch e := n.(type) {
	case *ast.BoolLit:
		return ip.A.NewBool(e.Value), nil
	case *ast.IntLit:
		return ip.A.NewNumber(e.Value), nil
	case *ast.StringLit:
		return ip.A.NewString(e.Value), nil
	case *ast.FStringLit:
		return ip.evalFString(e)
	case *ast.ArrayLit:
		items := make([]arena.Handle, 0, len(e.Elems))
		for _, el := range e.Elems {
			h, err := ip.evalExpr(el)
			if err != nil {
				return arena.NullHandle, err
			}
			items = append(items, h)
		}
		return ip.A.NewArray(items...), nil
	case *ast.DictLit:
		d := ip.A.NewDict()
		for _, entry := range e.Entries {
			kh, err := ip.evalExpr(entry.Key)
			if err != nil {
				return arena.NullHandle, err
			}
			key, ok := ip.A.String2(kh)
			if !ok {
				return arena.NullHandle, merrors.Type(entry.Key.Location(), "dict key must be a string")
			}
			vh, err := ip.evalExpr(entry.Value)
			if err != nil {
				return arena.NullHandle, err
			}
			_ = ip.A.DictSet(d, key, vh)
		}
		return d, nil
	case *ast.Ident:
		h, ok := ip.scopes.lookup(e.Name)
		if !ok {
			return arena.NullHandle, merrors.Name(e.Loc, e.Name, ip.suggest(e.Name))
		}
		return h, nil
	case *ast.UnaryOp:
		return ip.evalUnary(e)
	case *ast.BinOp:
		return ip.evalBinOp(e)
	case *ast.Ternary:
		c, err := ip.evalExpr(e.Cond)
		if err != nil {
			return arena.NullHandle, err
		}
		if ip.A.Kind(c) != arena.KindBool {
			return arena.NullHandle, merrors.Type(e.Cond.Location(), "ternary condition must be a bool, got %s", ip.A.Kind(c))
		}
		if ip.A.Bool(c) {
			return ip.evalExpr(e.Then)
		}
		return ip.evalExpr(e.Else)
	case *ast.Index:
		return ip.evalIndex(e)
	case *ast.Slice:
		return ip.evalSlice(e)
	case *ast.Call:
		return ip.evalCall(e)
	case *ast.MethodCall:
		return ip.evalMethodCall(e)
	default:
		return arena.NullHandle, merrors.Internal(n.Location(), "unhandled expression type %T", n)
	}
}

func (ip *Interp) evalUnary(e *ast.UnaryOp) (arena.Handle, error) {
	v, err := ip.evalExpr(e.Operand)
	if err != nil {
		return arena.NullHandle, err
	}
	switch e.Op {
	case "-":
		if ip.A.Kind(v) != arena.KindNumber {
			return arena.NullHandle, merrors.Type(e.Loc, "unary - requires a number, got %s", ip.A.Kind(v))
		}
		return ip.A.NewNumber(-ip.A.Number(v)), nil
	case "not":
		if ip.A.Kind(v) != arena.KindBool {
			return arena.NullHandle, merrors.Type(e.Loc, "'not' requires a bool, got %s", ip.A.Kind(v))
		}
		return ip.A.NewBool(!ip.A.Bool(v)), nil
	default:
		return arena.NullHandle, merrors.Internal(e.Loc, "unknown unary operator %q", e.Op)
	}
}

func (ip *Interp) evalBinOp(e *ast.BinOp) (arena.Handle, error) {
	// Short-circuit and/or evaluate the right operand only when necessary.
	if e.Op == "and" || e.Op == "or" {
		l, err := ip.evalExpr(e.Left)
		if err != nil {
			return arena.NullHandle, err
		}
		if ip.A.Kind(l) != arena.KindBool {
			return arena.NullHandle, merrors.Type(e.Left.Location(), "%s requires a bool, got %s", e.Op, ip.A.Kind(l))
		}
		if e.Op == "and" && !ip.A.Bool(l) {
			return ip.A.NewBool(false), nil
		}
		if e.Op == "or" && ip.A.Bool(l) {
			return ip.A.NewBool(true), nil
		}
		r, err := ip.evalExpr(e.Right)
		if err != nil {
			return arena.NullHandle, err
		}
		if ip.A.Kind(r) != arena.KindBool {
			return arena.NullHandle, merrors.Type(e.Right.Location(), "%s requires a bool, got %s", e.Op, ip.A.Kind(r))
		}
		return r, nil
	}

	l, err := ip.evalExpr(e.Left)
	if err != nil {
		return arena.NullHandle, err
	}
	r, err := ip.evalExpr(e.Right)
	if err != nil {
		return arena.NullHandle, err
	}
	switch e.Op {
	case "+":
		return ip.add(l, r, e.Loc)
	case "-":
		return ip.sub(l, r, e.Loc)
	case "*":
		return ip.mul(l, r, e.Loc)
	case "/":
		return ip.div(l, r, e.Loc)
	case "%":
		return ip.mod(l, r, e.Loc)
	case "==", "!=", "<", "<=", ">", ">=":
		return ip.compare(e.Op, l, r, e.Loc)
	case "in":
		return ip.in(l, r, e.Loc)
	case "not in":
		h, err := ip.in(l, r, e.Loc)
		if err != nil {
			return arena.NullHandle, err
		}
		return ip.A.NewBool(!ip.A.Bool(h)), nil
	default:
		return arena.NullHandle, merrors.Internal(e.Loc, "unknown binary operator %q", e.Op)
	}
}

func (ip *Interp) evalIndex(e *ast.Index) (arena.Handle, error) {
	recv, err := ip.evalExpr(e.Recv)
	if err != nil {
		return arena.NullHandle, err
	}
	idx, err := ip.evalExpr(e.Idx)
	if err != nil {
		return arena.NullHandle, err
	}
	switch ip.A.Kind(recv) {
	case arena.KindArray:
		i, err := intIndex(ip.A, idx, e.Loc)
		if err != nil {
			return arena.NullHandle, err
		}
		items := ip.A.ArrayItems(recv)
		if i < 0 {
			i += len(items)
		}
		if i < 0 || i >= len(items) {
			return arena.NullHandle, merrors.Value(e.Loc, "array index out of range (len %d)", len(items))
		}
		return items[i], nil
	case arena.KindDict:
		key, ok := ip.A.String2(idx)
		if !ok {
			return arena.NullHandle, merrors.Type(e.Loc, "dict index must be a string")
		}
		v, ok := ip.A.DictGet(recv, key)
		if !ok {
			return arena.NullHandle, merrors.Value(e.Loc, "dict has no key %q", key)
		}
		return v, nil
	default:
		return arena.NullHandle, merrors.Type(e.Loc, "cannot index into %s", ip.A.Kind(recv))
	}
}

func (ip *Interp) evalSlice(e *ast.Slice) (arena.Handle, error) {
	recv, err := ip.evalExpr(e.Recv)
	if err != nil {
		return arena.NullHandle, err
	}
	if ip.A.Kind(recv) != arena.KindArray {
		return arena.NullHandle, merrors.Type(e.Loc, "slicing requires an array, got %s", ip.A.Kind(recv))
	}
	items := ip.A.ArrayItems(recv)
	start, stop := 0, len(items)
	if e.Start != nil {
		h, err := ip.evalExpr(e.Start)
		if err != nil {
			return arena.NullHandle, err
		}
		i, err := intIndex(ip.A, h, e.Loc)
		if err != nil {
			return arena.NullHandle, err
		}
		start = clampIndex(i, len(items))
	}
	if e.Stop != nil {
		h, err := ip.evalExpr(e.Stop)
		if err != nil {
			return arena.NullHandle, err
		}
		i, err := intIndex(ip.A, h, e.Loc)
		if err != nil {
			return arena.NullHandle, err
		}
		stop = clampIndex(i, len(items))
	}
	if start > stop {
		start = stop
	}
	return ip.A.NewArray(items[start:stop]...), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// evalArgs evaluates a Call/MethodCall's argument list into positional and
// keyword argmatch.Value lists, enforcing keyword-after-positional at
// parse time already, so here we just bucket by Name.
func (ip *Interp) evalArgs(args []ast.Arg) ([]argmatch.Value, map[string]argmatch.Value, error) {
	var pos []argmatch.Value
	kw := make(map[string]argmatch.Value)
	for _, a := range args {
		h, err := ip.evalExpr(a.Value)
		if err != nil {
			return nil, nil, err
		}
		v := argmatch.Value{H: h, Loc: a.Value.Location()}
		if a.Name == "" {
			pos = append(pos, v)
		} else {
			kw[a.Name] = v
		}
	}
	return pos, kw, nil
}

func (ip *Interp) evalCall(e *ast.Call) (arena.Handle, error) {
	id, ok := e.Func.(*ast.Ident)
	if !ok {
		return arena.NullHandle, merrors.Type(e.Loc, "expression is not callable")
	}
	pos, kw, err := ip.evalArgs(e.Args)
	if err != nil {
		return arena.NullHandle, err
	}
	if fn, ok := ip.Globals[id.Name]; ok {
		return fn(ip, pos, kw, e.Loc)
	}
	if uf, ok := ip.Funcs[id.Name]; ok {
		return ip.callUserFunc(uf, pos, e.Loc)
	}
	return arena.NullHandle, merrors.Name(e.Loc, id.Name, ip.suggest(id.Name))
}

func (ip *Interp) callUserFunc(uf *UserFunc, pos []argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	if len(pos) != len(uf.Params) {
		return arena.NullHandle, merrors.Type(loc, "function expects %d argument(s), got %d", len(uf.Params), len(pos))
	}
	ip.scopes.push()
	defer ip.scopes.pop()
	for i, p := range uf.Params {
		ip.scopes.define(p, pos[i].H)
	}
	for _, stmt := range uf.Body {
		err := ip.evalStmt(stmt)
		if err == nil {
			continue
		}
		if rs, ok := err.(returnSignal); ok {
			return rs.Value, nil
		}
		return arena.NullHandle, err
	}
	return arena.NullHandle, nil
}

func (ip *Interp) evalMethodCall(e *ast.MethodCall) (arena.Handle, error) {
	recv, err := ip.evalExpr(e.Receiver)
	if err != nil {
		return arena.NullHandle, err
	}
	pos, kw, err := ip.evalArgs(e.Args)
	if err != nil {
		return arena.NullHandle, err
	}
	k := ip.A.Kind(recv)
	table, ok := ip.Methods[k]
	if !ok {
		return arena.NullHandle, merrors.Type(e.Loc, "%s has no methods", k)
	}
	fn, ok := table[e.Name]
	if !ok {
		return arena.NullHandle, merrors.Type(e.Loc, "%s has no method %q%s", k, e.Name, ip.suggestMethod(k, e.Name))
	}
	return fn(ip, recv, pos, kw, e.Loc)
}

// evalFString replaces every @identifier@ marker with the stringification
// of that identifier's current binding.
func (ip *Interp) evalFString(e *ast.FStringLit) (arena.Handle, error) {
	var out strings.Builder
	s := e.Value
	for {
		start := strings.IndexByte(s, '@')
		if start < 0 {
			out.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start+1:], '@')
		if end < 0 {
			out.WriteString(s)
			break
		}
		out.WriteString(s[:start])
		name := s[start+1 : start+1+end]
		h, ok := ip.scopes.lookup(name)
		if !ok {
			return arena.NullHandle, merrors.Name(e.Loc, name, ip.suggest(name))
		}
		out.WriteString(ip.stringify(h))
		s = s[start+1+end+1:]
	}
	return ip.A.NewString(out.String()), nil
}

func (ip *Interp) stringify(h arena.Handle) string {
	switch ip.A.Kind(h) {
	case arena.KindString, arena.KindFile:
		s, _ := ip.A.String2(h)
		return s
	case arena.KindBool:
		if ip.A.Bool(h) {
			return "true"
		}
		return "false"
	case arena.KindNumber:
		return strconv.FormatInt(ip.A.Number(h), 10)
	default:
		return "<" + ip.A.Kind(h).String() + ">"
	}
}
