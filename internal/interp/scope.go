package interp

import "github.com/standardbeagle/mbs/internal/arena"

// Scope is one stack frame: a flat name→handle map. Scopes are pushed for
// each foreach/if block and function call and popped on
// exit, so a binding created inside a block that didn't already exist in
// an outer scope disappears when the block ends (testable property 7).
type Scope struct {
	vars map[string]arena.Handle
}

func newScope() *Scope {
	return &Scope{vars: make(map[string]arena.Handle)}
}

// NewScope constructs an empty scope frame. Exposed so internal/workspace
// can build the shared global scope passed into interp.New.
func NewScope() *Scope { return newScope() }

// scopeStack implements the innermost→project→global lookup chain. Global
// and Project are always present; Blocks holds the nested foreach/if/call
// frames, innermost last.
type scopeStack struct {
	Global  *Scope
	Project *Scope
	Blocks  []*Scope
}

func newScopeStack(global *Scope) *scopeStack {
	return &scopeStack{Global: global, Project: newScope()}
}

func (s *scopeStack) push() *Scope {
	sc := newScope()
	s.Blocks = append(s.Blocks, sc)
	return sc
}

func (s *scopeStack) pop() {
	s.Blocks = s.Blocks[:len(s.Blocks)-1]
}

// frames returns every frame from innermost to outermost, for lookup order.
func (s *scopeStack) frames() []*Scope {
	out := make([]*Scope, 0, len(s.Blocks)+2)
	for i := len(s.Blocks) - 1; i >= 0; i-- {
		out = append(out, s.Blocks[i])
	}
	out = append(out, s.Project, s.Global)
	return out
}

func (s *scopeStack) lookup(name string) (arena.Handle, bool) {
	for _, f := range s.frames() {
		if h, ok := f.vars[name]; ok {
			return h, true
		}
	}
	return arena.NullHandle, false
}

// assign writes into the nearest scope that already binds name (per spec
// §4.6); if no frame binds it, it is created in the innermost frame (the
// top of Blocks, or Project if no block is active).
func (s *scopeStack) assign(name string, h arena.Handle) {
	for _, f := range s.frames() {
		if _, ok := f.vars[name]; ok {
			f.vars[name] = h
			return
		}
	}
	s.innermost().vars[name] = h
}

func (s *scopeStack) innermost() *Scope {
	if len(s.Blocks) > 0 {
		return s.Blocks[len(s.Blocks)-1]
	}
	return s.Project
}

// define forces a binding into the innermost frame regardless of outer
// bindings (used for foreach loop variables and function parameters,
// which always shadow).
func (s *scopeStack) define(name string, h arena.Handle) {
	s.innermost().vars[name] = h
}
