// Package argmatch implements the declarative builtin-argument matcher:
// each builtin declares a signature of positional, glob, and keyword
// specs; Match validates counts and kinds, coerces
// string↔file and single-element-to-array, and reports typed, located
// errors for anything it can't reconcile.
package argmatch

import (
	"strings"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// Value is one already-evaluated argument: a handle plus the source
// location of the expression that produced it, for error reporting.
type Value struct {
	H   arena.Handle
	Loc merrors.Location
}

// PosSpec describes one required positional slot, or — when Optional is
// set — one of the optional positional slots that follow the required
// ones.
type PosSpec struct {
	Name     string
	Types    []arena.Kind
	Optional bool
}

// GlobSpec is the single optional trailing spec that absorbs every
// positional argument beyond the declared Positional slots into an array.
type GlobSpec struct {
	Types []arena.Kind
}

// KeySpec describes one keyword argument.
type KeySpec struct {
	Name     string
	Types    []arena.Kind
	Required bool
}

type Signature struct {
	Name       string
	Positional []PosSpec
	Glob       *GlobSpec
	Keywords   []KeySpec
}

// Matched holds resolved handles after a successful Match. Pos has exactly
// len(Signature.Positional) entries; an unset optional positional slot
// holds arena.NullHandle with PosSet[i] == false.
type Matched struct {
	Pos    []arena.Handle
	PosSet []bool
	Glob   arena.Handle // always a valid array handle, empty if Signature.Glob is nil or nothing overflowed
	Kw     map[string]arena.Handle
	KwSet  map[string]bool
}

func (m *Matched) Get(i int) arena.Handle { return m.Pos[i] }

func (m *Matched) Keyword(name string) (arena.Handle, bool) {
	h, ok := m.Kw[name]
	return h, ok
}

// Match resolves pos/kw against sig, coercing values where the signature's
// type set allows it. The loc is used for arity errors that aren't
// attributable to one specific argument (e.g. "too few arguments").
func Match(a *arena.Arena, sig Signature, loc merrors.Location, pos []Value, kw map[string]Value) (*Matched, error) {
	required := 0
	for _, p := range sig.Positional {
		if !p.Optional {
			required++
		}
	}
	if len(pos) < required {
		return nil, merrors.Type(loc, "%s: expected at least %d positional argument(s), got %d", sig.Name, required, len(pos))
	}
	if sig.Glob == nil && len(pos) > len(sig.Positional) {
		return nil, merrors.Type(loc, "%s: expected at most %d positional argument(s), got %d", sig.Name, len(sig.Positional), len(pos))
	}

	m := &Matched{
		Pos:    make([]arena.Handle, len(sig.Positional)),
		PosSet: make([]bool, len(sig.Positional)),
		Kw:     make(map[string]arena.Handle),
		KwSet:  make(map[string]bool),
	}

	i := 0
	for idx, spec := range sig.Positional {
		if i >= len(pos) {
			if !spec.Optional {
				return nil, merrors.Type(loc, "%s: missing required argument %q", sig.Name, spec.Name)
			}
			continue
		}
		v := pos[i]
		h, err := coerce(a, v.H, spec.Types)
		if err != nil {
			return nil, merrors.Type(v.Loc, "%s: argument %q: %v", sig.Name, spec.Name, err)
		}
		m.Pos[idx] = h
		m.PosSet[idx] = true
		i++
	}

	var globItems []arena.Handle
	for ; i < len(pos); i++ {
		v := pos[i]
		if sig.Glob == nil {
			return nil, merrors.Type(v.Loc, "%s: unexpected extra positional argument", sig.Name)
		}
		h, err := coerce(a, v.H, sig.Glob.Types)
		if err != nil {
			return nil, merrors.Type(v.Loc, "%s: extra argument: %v", sig.Name, err)
		}
		globItems = append(globItems, h)
	}
	m.Glob = a.NewArray(globItems...)

	keySpecByName := make(map[string]KeySpec, len(sig.Keywords))
	for _, ks := range sig.Keywords {
		keySpecByName[ks.Name] = ks
	}
	for name, v := range kw {
		spec, ok := keySpecByName[name]
		if !ok {
			return nil, merrors.Type(v.Loc, "%s: unknown keyword argument %q%s", sig.Name, name, suggestKeyword(name, sig.Keywords))
		}
		h, err := coerce(a, v.H, spec.Types)
		if err != nil {
			return nil, merrors.Type(v.Loc, "%s: keyword %q: %v", sig.Name, name, err)
		}
		m.Kw[name] = h
		m.KwSet[name] = true
	}
	for _, spec := range sig.Keywords {
		if spec.Required && !m.KwSet[spec.Name] {
			return nil, merrors.Type(loc, "%s: missing required keyword argument %q", sig.Name, spec.Name)
		}
	}

	return m, nil
}

func suggestKeyword(got string, specs []KeySpec) string {
	for _, s := range specs {
		if strings.EqualFold(s.Name, got) {
			return ", did you mean " + s.Name + "?"
		}
	}
	return ""
}

func hasKind(kinds []arena.Kind, k arena.Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// coerce attempts to make h satisfy one of allowed, applying the two
// coercions this DSL permits: string↔file, and wrapping a scalar into a
// one-element array when the signature wants an array. A nil allowed list
// means "any kind" (used for builtins like message() that accept
// anything).
func coerce(a *arena.Arena, h arena.Handle, allowed []arena.Kind) (arena.Handle, error) {
	if len(allowed) == 0 {
		return h, nil
	}
	k := a.Kind(h)
	if hasKind(allowed, k) {
		return h, nil
	}
	if k == arena.KindString && hasKind(allowed, arena.KindFile) {
		s, _ := a.String2(h)
		return a.NewFile(s), nil
	}
	if k == arena.KindFile && hasKind(allowed, arena.KindString) {
		return a.NewString(a.FilePath(h)), nil
	}
	if hasKind(allowed, arena.KindArray) && k != arena.KindArray {
		return a.NewArray(h), nil
	}
	return arena.NullHandle, merrors.Type(merrors.Location{}, "expected %s, got %s", kindList(allowed), k)
}

func kindList(kinds []arena.Kind) string {
	var sb strings.Builder
	for i, k := range kinds {
		if i > 0 {
			sb.WriteString(" or ")
		}
		sb.WriteString(k.String())
	}
	return sb.String()
}
