package builtin

import (
	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/argmatch"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/merrors"
)

func biEnvironment(ip *interp.Interp, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
	sig := argmatch.Signature{
		Name:       "environment",
		Positional: []argmatch.PosSpec{{Name: "env", Types: []arena.Kind{arena.KindDict}, Optional: true}},
	}
	m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
	if err != nil {
		return arena.NullHandle, err
	}
	h := ip.A.NewEnvironment()
	if m.PosSet[0] {
		dict := m.Get(0)
		for _, key := range ip.A.DictKeys(dict) {
			v, _ := ip.A.DictGet(dict, key)
			s, _ := ip.A.String2(v)
			if err := ip.A.EnvApply(h, key, s, arena.EnvMergeSet); err != nil {
				return arena.NullHandle, merrors.Internal(loc, "environment(): %v", err)
			}
		}
	}
	return h, nil
}

func registerEnvironmentMethods(ip *interp.Interp) {
	sig := argmatch.Signature{
		Name: "environment method",
		Positional: []argmatch.PosSpec{
			{Name: "key", Types: []arena.Kind{arena.KindString}},
			{Name: "value", Types: []arena.Kind{arena.KindString}},
		},
	}
	apply := func(policy arena.EnvMergePolicy) interp.MethodFunc {
		return func(ip *interp.Interp, recv arena.Handle, pos []argmatch.Value, kw map[string]argmatch.Value, loc merrors.Location) (arena.Handle, error) {
			m, err := argmatch.Match(ip.A, sig, loc, pos, kw)
			if err != nil {
				return arena.NullHandle, err
			}
			key, _ := ip.A.String2(m.Get(0))
			value, _ := ip.A.String2(m.Get(1))
			if err := ip.A.EnvApply(recv, key, value, policy); err != nil {
				return arena.NullHandle, merrors.Internal(loc, "environment: %v", err)
			}
			return arena.NullHandle, nil
		}
	}
	ip.RegisterMethod(arena.KindEnvironment, "set", apply(arena.EnvMergeSet))
	ip.RegisterMethod(arena.KindEnvironment, "append", apply(arena.EnvMergeAppend))
	ip.RegisterMethod(arena.KindEnvironment, "prepend", apply(arena.EnvMergePrepend))
}
