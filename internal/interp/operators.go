package interp

import (
	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// add implements `+` for every kind the operator is defined on (spec
// §4.6): array concatenation, dict merge (later keys win), string
// concatenation, integer add.
func (ip *Interp) add(l, r arena.Handle, loc merrors.Location) (arena.Handle, error) {
	lk, rk := ip.A.Kind(l), ip.A.Kind(r)
	switch {
	case lk == arena.KindArray:
		out := ip.A.NewArray(ip.A.ArrayItems(l)...)
		if rk == arena.KindArray {
			_ = ip.A.ArrayExtend(out, r)
		} else {
			_ = ip.A.ArrayPush(out, r)
		}
		return out, nil
	case lk == arena.KindDict && rk == arena.KindDict:
		return ip.A.DictMerge(l, r), nil
	case lk == arena.KindString && rk == arena.KindString:
		s, _ := ip.A.String2(r)
		return ip.A.AppendString(ip.A.NewString(ip.A.String(l)), s), nil
	case lk == arena.KindNumber && rk == arena.KindNumber:
		return ip.A.NewNumber(ip.A.Number(l) + ip.A.Number(r)), nil
	default:
		return arena.NullHandle, merrors.Type(loc, "unsupported operand types for +: %s and %s", lk, rk)
	}
}

func (ip *Interp) sub(l, r arena.Handle, loc merrors.Location) (arena.Handle, error) {
	if ip.A.Kind(l) != arena.KindNumber || ip.A.Kind(r) != arena.KindNumber {
		return arena.NullHandle, merrors.Type(loc, "unsupported operand types for -: %s and %s", ip.A.Kind(l), ip.A.Kind(r))
	}
	return ip.A.NewNumber(ip.A.Number(l) - ip.A.Number(r)), nil
}

func (ip *Interp) mul(l, r arena.Handle, loc merrors.Location) (arena.Handle, error) {
	if ip.A.Kind(l) != arena.KindNumber || ip.A.Kind(r) != arena.KindNumber {
		return arena.NullHandle, merrors.Type(loc, "unsupported operand types for *: %s and %s", ip.A.Kind(l), ip.A.Kind(r))
	}
	return ip.A.NewNumber(ip.A.Number(l) * ip.A.Number(r)), nil
}

// div implements truncating integer division (toward zero), which is
// what Go's / already does for int64.
func (ip *Interp) div(l, r arena.Handle, loc merrors.Location) (arena.Handle, error) {
	if ip.A.Kind(l) != arena.KindNumber || ip.A.Kind(r) != arena.KindNumber {
		return arena.NullHandle, merrors.Type(loc, "unsupported operand types for /: %s and %s", ip.A.Kind(l), ip.A.Kind(r))
	}
	rv := ip.A.Number(r)
	if rv == 0 {
		return arena.NullHandle, merrors.Value(loc, "division by zero")
	}
	return ip.A.NewNumber(ip.A.Number(l) / rv), nil
}

// mod implements modulo matching the sign of the divisor,
// unlike Go's native %, which matches the sign of the dividend.
func (ip *Interp) mod(l, r arena.Handle, loc merrors.Location) (arena.Handle, error) {
	if ip.A.Kind(l) != arena.KindNumber || ip.A.Kind(r) != arena.KindNumber {
		return arena.NullHandle, merrors.Type(loc, "unsupported operand types for %%: %s and %s", ip.A.Kind(l), ip.A.Kind(r))
	}
	lv, rv := ip.A.Number(l), ip.A.Number(r)
	if rv == 0 {
		return arena.NullHandle, merrors.Value(loc, "modulo by zero")
	}
	m := lv % rv
	if m != 0 && (m < 0) != (rv < 0) {
		m += rv
	}
	return ip.A.NewNumber(m), nil
}

func (ip *Interp) compare(op string, l, r arena.Handle, loc merrors.Location) (arena.Handle, error) {
	switch op {
	case "==":
		return ip.A.NewBool(ip.A.Equal(l, r)), nil
	case "!=":
		return ip.A.NewBool(!ip.A.Equal(l, r)), nil
	}
	if ip.A.Kind(l) != arena.KindNumber || ip.A.Kind(r) != arena.KindNumber {
		return arena.NullHandle, merrors.Type(loc, "operator %s requires numbers, got %s and %s", op, ip.A.Kind(l), ip.A.Kind(r))
	}
	lv, rv := ip.A.Number(l), ip.A.Number(r)
	var res bool
	switch op {
	case "<":
		res = lv < rv
	case "<=":
		res = lv <= rv
	case ">":
		res = lv > rv
	case ">=":
		res = lv >= rv
	}
	return ip.A.NewBool(res), nil
}

// in implements array-membership / dict-key-membership.
func (ip *Interp) in(l, r arena.Handle, loc merrors.Location) (arena.Handle, error) {
	switch ip.A.Kind(r) {
	case arena.KindArray:
		return ip.A.NewBool(ip.A.ArrayContains(r, l)), nil
	case arena.KindDict:
		key, ok := ip.A.String2(l)
		if !ok {
			return arena.NullHandle, merrors.Type(loc, "'in' on a dict requires a string key")
		}
		return ip.A.NewBool(ip.A.DictHas(r, key)), nil
	default:
		return arena.NullHandle, merrors.Type(loc, "'in' requires an array or dict, got %s", ip.A.Kind(r))
	}
}

func intIndex(a *arena.Arena, h arena.Handle, loc merrors.Location) (int, error) {
	if a.Kind(h) != arena.KindNumber {
		return 0, merrors.Type(loc, "index must be a number, got %s", a.Kind(h))
	}
	return int(a.Number(h)), nil
}
