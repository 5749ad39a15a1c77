// Package arena implements the process-wide, handle-addressed object heap
// every DSL value lives in. All cross-object references are
// integer handles, never pointers, which is what makes the arena safely
// relocatable and keeps the DSL unable to construct reference cycles.
package arena

import "fmt"

// Arena owns every object and the side tables composite kinds spill into.
// It grows by simple append (Go slices already double capacity), so handles
// remain stable across growth: nothing is ever moved once assigned a handle.
type Arena struct {
	objects []Object
	strings *StringPool

	arrays       []ArrayData
	dicts        []DictData
	compilers    []CompilerData
	dependencies []DependencyData
	externals    []ExternalProgramData
	targets      []BuildTargetData
	customs      []CustomTargetData
	bothLibs     []BothLibsData
	generators   []GeneratorData
	genLists     []GeneratedListData
	environments []EnvironmentData
	runResults   []RunResultData
	features     []FeatureOptionData
	subprojects  []SubprojectData

	mesonHandle Handle
}

// New allocates an arena with handle 0 already bound to the null object.
func New() *Arena {
	a := &Arena{strings: newStringPool()}
	a.objects = append(a.objects, Object{Kind: KindNull, Ref: -1})
	return a
}

// Null is the singleton null handle, always handle 0.
func (a *Arena) Null() Handle { return NullHandle }

func (a *Arena) alloc(obj Object) Handle {
	h := Handle(len(a.objects))
	a.objects = append(a.objects, obj)
	return h
}

// Get returns a read-only view of the object at h. The second return is
// false for an out-of-range handle, which should never happen for handles
// the arena itself produced.
func (a *Arena) Get(h Handle) (Object, bool) {
	if int(h) >= len(a.objects) {
		return Object{}, false
	}
	return a.objects[h], true
}

// Kind is a convenience wrapper around Get for dispatch sites that only
// need the discriminant.
func (a *Arena) Kind(h Handle) Kind {
	obj, ok := a.Get(h)
	if !ok {
		return KindNull
	}
	return obj.Kind
}

// --- scalars -----------------------------------------------------------

func (a *Arena) NewBool(v bool) Handle {
	return a.alloc(Object{Kind: KindBool, Bool: v, Ref: -1})
}

func (a *Arena) Bool(h Handle) bool {
	obj, _ := a.Get(h)
	return obj.Bool
}

func (a *Arena) NewNumber(v int64) Handle {
	return a.alloc(Object{Kind: KindNumber, Num: v, Ref: -1})
}

func (a *Arena) Number(h Handle) int64 {
	obj, _ := a.Get(h)
	return obj.Num
}

// NewString copies s to the pool tail and returns a fresh KindString
// handle. Identical short strings are not deduplicated here; see
// NewStringInterned for that.
func (a *Arena) NewString(s string) Handle {
	span := a.strings.push(s)
	return a.alloc(Object{Kind: KindString, Str: span, Ref: -1})
}

// NewStringInterned returns an existing handle for s if one was already
// interned (used for identifiers, dict keys, builtin names - data that
// repeats heavily across a typical project), else interns and returns a
// fresh one. Only used where no mutation of the resulting string will ever
// be observed, since interned handles may be shared.
func (a *Arena) NewStringInterned(s string) Handle {
	span := a.strings.push(s)
	key := internKey(span.Hash, len(s))
	if existing, ok := a.strings.intern[key]; ok {
		if obj, _ := a.Get(existing); obj.Kind == KindString && a.strings.View(obj.Str) == s {
			// Roll back the speculative push: it's always the tail since
			// nothing else has been allocated between push and this check.
			a.strings.buf = a.strings.buf[:span.Offset]
			return existing
		}
	}
	h := a.alloc(Object{Kind: KindString, Str: span, Ref: -1})
	a.strings.intern[key] = h
	return h
}

func (a *Arena) String(h Handle) string {
	obj, ok := a.Get(h)
	if !ok {
		return ""
	}
	return a.strings.View(obj.Str)
}

// AppendString implements `+=`/string concatenation: if h is still the
// pool tail the bytes are appended in place and h is returned unchanged
// (same handle, longer span); otherwise a new handle is allocated.
func (a *Arena) AppendString(h Handle, more string) Handle {
	obj, ok := a.Get(h)
	if !ok || obj.Kind != KindString {
		return a.NewString(more)
	}
	span, reused := a.strings.appendToTail(obj.Str, more)
	if reused {
		a.objects[h].Str = span
		return h
	}
	return a.alloc(Object{Kind: KindString, Str: span, Ref: -1})
}

func (a *Arena) NewFile(absPath string) Handle {
	span := a.strings.push(absPath)
	return a.alloc(Object{Kind: KindFile, Str: span, Ref: -1})
}

func (a *Arena) FilePath(h Handle) string {
	obj, ok := a.Get(h)
	if !ok {
		return ""
	}
	return a.strings.View(obj.Str)
}

// --- structural equality -------------------------------------------------

// Equal implements `==`: structural for string/number/bool/file, handle
// identity for every other kind.
func (a *Arena) Equal(x, y Handle) bool {
	ox, okx := a.Get(x)
	oy, oky := a.Get(y)
	if !okx || !oky {
		return x == y
	}
	if ox.Kind != oy.Kind {
		return false
	}
	switch ox.Kind {
	case KindNull:
		return true
	case KindBool:
		return ox.Bool == oy.Bool
	case KindNumber:
		return ox.Num == oy.Num
	case KindString, KindFile:
		return a.strings.View(ox.Str) == a.strings.View(oy.Str)
	default:
		return x == y
	}
}

func (a *Arena) String2(h Handle) (string, bool) {
	obj, ok := a.Get(h)
	if !ok || (obj.Kind != KindString && obj.Kind != KindFile) {
		return "", false
	}
	return a.strings.View(obj.Str), true
}

func (a *Arena) assertKind(h Handle, k Kind) error {
	obj, ok := a.Get(h)
	if !ok {
		return fmt.Errorf("invalid handle %d", h)
	}
	if obj.Kind != k {
		return fmt.Errorf("expected %s, got %s", k, obj.Kind)
	}
	return nil
}
