package builtin

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

func registerStringMethods(ip *interp.Interp) {
	m := func(name string, fn interp.MethodFunc) { ip.RegisterMethod(arena.KindString, name, fn) }

	m("strip", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		cutset := " \t\n\r"
		if len(pos) > 0 {
			if c, ok := ip.A.String2(pos[0].H); ok {
				cutset = c
			}
		}
		return ip.A.NewString(strings.Trim(s, cutset)), nil
	})

	m("split", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		sep := " "
		if len(pos) > 0 {
			if c, ok := ip.A.String2(pos[0].H); ok {
				sep = c
			}
		}
		var items []arena.Handle
		for _, part := range strings.Split(s, sep) {
			items = append(items, ip.A.NewString(part))
		}
		return ip.A.NewArray(items...), nil
	})

	m("join", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		sep, _ := ip.A.String2(recv)
		if len(pos) != 1 {
			return arena.NullHandle, merrors.Type(loc, "join() requires exactly one array argument")
		}
		parts := stringList(ip, ip.A.Flatten(pos[0].H))
		return ip.A.NewString(strings.Join(parts, sep)), nil
	})

	m("to_int", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return arena.NullHandle, merrors.Value(loc, "cannot convert %q to int", s)
		}
		return ip.A.NewNumber(n), nil
	})

	m("to_lower", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		return ip.A.NewString(strings.ToLower(s)), nil
	})

	m("to_upper", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		return ip.A.NewString(strings.ToUpper(s)), nil
	})

	m("underscorify", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		var b strings.Builder
		for _, r := range s {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			} else {
				b.WriteByte('_')
			}
		}
		return ip.A.NewString(b.String()), nil
	})

	m("startswith", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		if len(pos) != 1 {
			return arena.NullHandle, merrors.Type(loc, "startswith() requires exactly one argument")
		}
		prefix, _ := ip.A.String2(pos[0].H)
		return ip.A.NewBool(strings.HasPrefix(s, prefix)), nil
	})

	m("endswith", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		if len(pos) != 1 {
			return arena.NullHandle, merrors.Type(loc, "endswith() requires exactly one argument")
		}
		suffix, _ := ip.A.String2(pos[0].H)
		return ip.A.NewBool(strings.HasSuffix(s, suffix)), nil
	})

	m("contains", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		if len(pos) != 1 {
			return arena.NullHandle, merrors.Type(loc, "contains() requires exactly one argument")
		}
		needle, _ := ip.A.String2(pos[0].H)
		return ip.A.NewBool(strings.Contains(s, needle)), nil
	})

	m("format", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		for i, v := range pos {
			placeholder := "@" + strconv.Itoa(i) + "@"
			s = strings.ReplaceAll(s, placeholder, Stringify(ip, v.H))
		}
		return ip.A.NewString(s), nil
	})

	m("version_compare", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		s, _ := ip.A.String2(recv)
		if len(pos) != 1 {
			return arena.NullHandle, merrors.Type(loc, "version_compare() requires exactly one argument")
		}
		cmp, _ := ip.A.String2(pos[0].H)
		return ip.A.NewBool(versionCompare(s, cmp)), nil
	})
}

// versionCompare evaluates expressions like ">=1.2.0" against a dotted
// version string using numeric segment comparison.
func versionCompare(version, expr string) bool {
	ops := []string{">=", "<=", "==", "!=", ">", "<"}
	op, target := "==", expr
	for _, o := range ops {
		if strings.HasPrefix(expr, o) {
			op, target = o, strings.TrimSpace(expr[len(o):])
			break
		}
	}
	c := compareVersions(version, target)
	switch op {
	case ">=":
		return c >= 0
	case "<=":
		return c <= 0
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case ">":
		return c > 0
	case "<":
		return c < 0
	default:
		return false
	}
}

func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var an, bn int64
		if i < len(as) {
			an, _ = strconv.ParseInt(as[i], 10, 64)
		}
		if i < len(bs) {
			bn, _ = strconv.ParseInt(bs[i], 10, 64)
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return 0
}

func registerArrayMethods(ip *interp.Interp) {
	ip.RegisterMethod(arena.KindArray, "length", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		return ip.A.NewNumber(int64(ip.A.ArrayLen(recv))), nil
	})
	ip.RegisterMethod(arena.KindArray, "contains", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		if len(pos) != 1 {
			return arena.NullHandle, merrors.Type(loc, "contains() requires exactly one argument")
		}
		return ip.A.NewBool(ip.A.ArrayContains(recv, pos[0].H)), nil
	})
	ip.RegisterMethod(arena.KindArray, "get", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		if len(pos) < 1 {
			return arena.NullHandle, merrors.Type(loc, "get() requires an index argument")
		}
		if ip.A.Kind(pos[0].H) != arena.KindNumber {
			return arena.NullHandle, merrors.Type(loc, "index must be a number, got %s", ip.A.Kind(pos[0].H))
		}
		i := int(ip.A.Number(pos[0].H))
		items := ip.A.ArrayItems(recv)
		if i < 0 {
			i += len(items)
		}
		if i < 0 || i >= len(items) {
			if len(pos) > 1 {
				return pos[1].H, nil
			}
			return arena.NullHandle, merrors.Value(loc, "array index %d out of bounds", i)
		}
		return items[i], nil
	})
}

func registerDictMethods(ip *interp.Interp) {
	ip.RegisterMethod(arena.KindDict, "has_key", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		if len(pos) != 1 {
			return arena.NullHandle, merrors.Type(loc, "has_key() requires exactly one argument")
		}
		key, _ := ip.A.String2(pos[0].H)
		return ip.A.NewBool(ip.A.DictHas(recv, key)), nil
	})
	ip.RegisterMethod(arena.KindDict, "get", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		if len(pos) < 1 {
			return arena.NullHandle, merrors.Type(loc, "get() requires a key argument")
		}
		key, _ := ip.A.String2(pos[0].H)
		if v, ok := ip.A.DictGet(recv, key); ok {
			return v, nil
		}
		if len(pos) > 1 {
			return pos[1].H, nil
		}
		return arena.NullHandle, merrors.Value(loc, "unknown dict key %q", key)
	})
	ip.RegisterMethod(arena.KindDict, "keys", func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
		var items []arena.Handle
		for _, k := range ip.A.DictKeys(recv) {
			items = append(items, ip.A.NewString(k))
		}
		return ip.A.NewArray(items...), nil
	})
}
