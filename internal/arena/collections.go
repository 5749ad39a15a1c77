package arena

// NewArray allocates an array holding a copy of items (empty when none are
// given) and returns its handle.
func (a *Arena) NewArray(items ...Handle) Handle {
	idx := int32(len(a.arrays))
	cp := append([]Handle(nil), items...)
	a.arrays = append(a.arrays, ArrayData{Items: cp})
	return a.alloc(Object{Kind: KindArray, Ref: idx})
}

func (a *Arena) array(h Handle) (*ArrayData, error) {
	if err := a.assertKind(h, KindArray); err != nil {
		return nil, err
	}
	obj, _ := a.Get(h)
	return &a.arrays[obj.Ref], nil
}

// ArrayItems returns the live backing slice; callers must not retain it
// across further arena mutation of h.
func (a *Arena) ArrayItems(h Handle) []Handle {
	ad, err := a.array(h)
	if err != nil {
		return nil
	}
	return ad.Items
}

func (a *Arena) ArrayLen(h Handle) int {
	return len(a.ArrayItems(h))
}

// ArrayPush appends v to h's backing slice in place.
func (a *Arena) ArrayPush(h Handle, v Handle) error {
	ad, err := a.array(h)
	if err != nil {
		return err
	}
	ad.Items = append(ad.Items, v)
	return nil
}

// ArrayExtend appends other's elements to h ("+" on two arrays).
func (a *Arena) ArrayExtend(h, other Handle) error {
	ad, err := a.array(h)
	if err != nil {
		return err
	}
	ad.Items = append(ad.Items, a.ArrayItems(other)...)
	return nil
}

// Flatten recursively splices nested arrays into a single flat array.
// Idempotent: Flatten(Flatten(a)) == Flatten(a).
func (a *Arena) Flatten(h Handle) Handle {
	var out []Handle
	a.flattenInto(h, &out)
	return a.NewArray(out...)
}

func (a *Arena) flattenInto(h Handle, out *[]Handle) {
	if a.Kind(h) == KindArray {
		for _, item := range a.ArrayItems(h) {
			a.flattenInto(item, out)
		}
		return
	}
	*out = append(*out, h)
}

// FlattenOne reduces a single-element array to its sole element, whatever
// that element's kind; any other shape (non-arrays, empty and multi-element
// arrays) passes through unchanged. Used where the DSL lets a caller write `foo: [x]` or `foo: x`
// interchangeably for a scalar-or-list keyword.
func (a *Arena) FlattenOne(h Handle) Handle {
	if a.Kind(h) != KindArray {
		return h
	}
	items := a.ArrayItems(h)
	if len(items) == 1 {
		return items[0]
	}
	return h
}

// ArrayForEach iterates a snapshot of h's length taken at call time: items
// appended by the callback during iteration are not visited, and the
// callback must not delete from h (documented open-question resolution,
// explicit copy).
func (a *Arena) ArrayForEach(h Handle, fn func(i int, v Handle) error) error {
	ad, err := a.array(h)
	if err != nil {
		return err
	}
	n := len(ad.Items)
	for i := 0; i < n; i++ {
		if err := fn(i, ad.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// ArrayIndexOf returns the index of the first element equal (per Equal) to
// v, or -1.
func (a *Arena) ArrayIndexOf(h, v Handle) int {
	for i, item := range a.ArrayItems(h) {
		if a.Equal(item, v) {
			return i
		}
	}
	return -1
}

// ArrayContains reports membership via Equal, backing the `in` operator.
func (a *Arena) ArrayContains(h, v Handle) bool {
	return a.ArrayIndexOf(h, v) >= 0
}

// ArrayDel removes the element at index i.
func (a *Arena) ArrayDel(h Handle, i int) error {
	ad, err := a.array(h)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(ad.Items) {
		return errOutOfRange(i, len(ad.Items))
	}
	ad.Items = append(ad.Items[:i], ad.Items[i+1:]...)
	return nil
}

// --- dict ----------------------------------------------------------------

func (a *Arena) NewDict() Handle {
	idx := int32(len(a.dicts))
	a.dicts = append(a.dicts, DictData{Index: make(map[string]int)})
	return a.alloc(Object{Kind: KindDict, Ref: idx})
}

func (a *Arena) dict(h Handle) (*DictData, error) {
	if err := a.assertKind(h, KindDict); err != nil {
		return nil, err
	}
	obj, _ := a.Get(h)
	return &a.dicts[obj.Ref], nil
}

// DictSet inserts or overwrites key, preserving original insertion order
// for existing keys.
func (a *Arena) DictSet(h Handle, key string, v Handle) error {
	dd, err := a.dict(h)
	if err != nil {
		return err
	}
	if i, ok := dd.Index[key]; ok {
		dd.Vals[i] = v
		return nil
	}
	dd.Index[key] = len(dd.Keys)
	dd.Keys = append(dd.Keys, key)
	dd.Vals = append(dd.Vals, v)
	return nil
}

func (a *Arena) DictGet(h Handle, key string) (Handle, bool) {
	dd, err := a.dict(h)
	if err != nil {
		return NullHandle, false
	}
	i, ok := dd.Index[key]
	if !ok {
		return NullHandle, false
	}
	return dd.Vals[i], true
}

func (a *Arena) DictHas(h Handle, key string) bool {
	_, ok := a.DictGet(h, key)
	return ok
}

func (a *Arena) DictLen(h Handle) int {
	dd, err := a.dict(h)
	if err != nil {
		return 0
	}
	return len(dd.Keys)
}

// DictKeys returns keys in insertion order.
func (a *Arena) DictKeys(h Handle) []string {
	dd, err := a.dict(h)
	if err != nil {
		return nil
	}
	return append([]string(nil), dd.Keys...)
}

// DictForEach visits entries in insertion order.
func (a *Arena) DictForEach(h Handle, fn func(key string, v Handle) error) error {
	dd, err := a.dict(h)
	if err != nil {
		return err
	}
	for i, k := range dd.Keys {
		if err := fn(k, dd.Vals[i]); err != nil {
			return err
		}
	}
	return nil
}

// DictMerge implements `+` on two dicts: later keys (from other) win.
func (a *Arena) DictMerge(h, other Handle) Handle {
	merged := a.NewDict()
	_ = a.DictForEach(h, func(k string, v Handle) error { return a.DictSet(merged, k, v) })
	_ = a.DictForEach(other, func(k string, v Handle) error { return a.DictSet(merged, k, v) })
	return merged
}

type rangeError struct {
	i, n int
}

func (e rangeError) Error() string {
	return "index out of range"
}

func errOutOfRange(i, n int) error { return rangeError{i, n} }
