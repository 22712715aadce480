package prolog

// Substitution is the running binding environment of a proof (§3.2): a
// mapping from variable id to the term it is bound to. Unlike the
// teacher's copy-on-bind design, bindings here are mutated in place and
// undone through the Trail (trail.go) — the resolver's explicit
// choice-point stack needs cheap, positional undo, not structural
// sharing of the whole map.
type Substitution struct {
	bindings map[int64]Term
}

// NewSubstitution creates an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: make(map[int64]Term, 64)}
}

// Lookup returns the term bound to v, or nil if v is unbound.
func (s *Substitution) Lookup(v *Variable) Term {
	return s.bindings[v.ID]
}

// bindUntrailed records a binding without logging it to any trail. Only
// the trail itself (for redo) and tests should call this directly;
// resolver code must go through Trail.Bind so undo works.
func (s *Substitution) bindUntrailed(v *Variable, t Term) {
	s.bindings[v.ID] = t
}

// unbind removes a binding. Used only by Trail.UndoTo.
func (s *Substitution) unbind(id int64) {
	delete(s.bindings, id)
}

// Deref follows variable→variable chains until reaching either a
// non-variable term or an unbound variable (§3.2). It is idempotent and
// must be used before any type inspection in the resolver.
func (s *Substitution) Deref(t Term) Term {
	for {
		v, ok := t.(*Variable)
		if !ok {
			return t
		}
		bound, present := s.bindings[v.ID]
		if !present {
			return v
		}
		t = bound
	}
}

// Apply recursively replaces bound variables in t with their dereferenced
// values, returning a term free of bindings held in this substitution.
// Apply is total: it never fails, and unbound variables are returned
// as-is (§3.2). A variable met again inside its own binding (a cyclic
// binding such as X = f(X) made without the occurs-check) is left in
// place at that point, so Apply terminates on cyclic bindings too.
func (s *Substitution) Apply(t Term) Term {
	return s.applyGuarded(t, nil)
}

// applyGuarded is Apply's worker; expanding holds the ids of the
// variables whose bindings are being substituted on the current path.
func (s *Substitution) applyGuarded(t Term, expanding map[int64]bool) Term {
	if v, isVar := t.(*Variable); isVar {
		bound, present := s.bindings[v.ID]
		if !present || expanding[v.ID] {
			return v
		}
		if expanding == nil {
			expanding = make(map[int64]bool)
		}
		expanding[v.ID] = true
		defer delete(expanding, v.ID)
		return s.applyGuarded(bound, expanding)
	}
	c, ok := t.(*Compound)
	if !ok {
		return t
	}
	args := make([]Term, len(c.Args))
	changed := false
	for i, a := range c.Args {
		applied := s.applyGuarded(a, expanding)
		args[i] = applied
		if applied != a {
			changed = true
		}
	}
	if !changed {
		return c
	}
	return &Compound{Functor: c.Functor, Args: args}
}

// IsGround reports whether t, under this substitution, contains no
// variable reachable from it that is unbound (§8 invariant 1).
func (s *Substitution) IsGround(t Term) bool {
	d := s.Deref(t)
	switch v := d.(type) {
	case *Variable:
		return false
	case *Compound:
		for _, a := range v.Args {
			if !s.IsGround(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsProperList reports whether t, after dereferencing its spine under
// this substitution, is a proper `[]`-terminated list (§3.1's is_list).
func (s *Substitution) IsProperList(t Term) bool {
	for {
		d := s.Deref(t)
		if a, ok := d.(*Atom); ok {
			return a == AtomEmptyList
		}
		c, ok := d.(*Compound)
		if !ok || c.Functor != "." || len(c.Args) != 2 {
			return false
		}
		t = c.Args[1]
	}
}

// ListSlice dereferences the spine of a proper list and returns its
// elements. ok is false if t does not dereference to a proper list.
func (s *Substitution) ListSlice(t Term) (elems []Term, ok bool) {
	for {
		d := s.Deref(t)
		if a, isAtom := d.(*Atom); isAtom {
			if a == AtomEmptyList {
				return elems, true
			}
			return nil, false
		}
		c, isCompound := d.(*Compound)
		if !isCompound || c.Functor != "." || len(c.Args) != 2 {
			return nil, false
		}
		elems = append(elems, c.Args[0])
		t = c.Args[1]
	}
}

// Equal reports whether a and b, dereferenced recursively under this
// substitution, are structurally identical (variable identity aside).
func (s *Substitution) Equal(a, b Term) bool {
	da, db := s.Deref(a), s.Deref(b)
	switch av := da.(type) {
	case *Variable:
		bv, ok := db.(*Variable)
		return ok && av.ID == bv.ID
	case *Atom:
		bv, ok := db.(*Atom)
		return ok && av == bv
	case *Integer:
		bv, ok := db.(*Integer)
		return ok && av.Value.Cmp(bv.Value) == 0
	case *Float:
		bv, ok := db.(*Float)
		return ok && av.Value == bv.Value
	case *Compound:
		bv, ok := db.(*Compound)
		if !ok || av.Functor != bv.Functor || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !s.Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// snapshot copies every current binding into a new map. Nothing in the
// package calls it at present: the engine facade renders each solution
// with Apply instead.
func (s *Substitution) snapshot() map[int64]Term {
	cp := make(map[int64]Term, len(s.bindings))
	for k, v := range s.bindings {
		cp[k] = v
	}
	return cp
}
