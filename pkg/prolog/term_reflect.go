package prolog

// functor/3, arg/3 and univ (=../2) — SPEC_FULL.md §C.3's term-inspection
// and term-construction builtins, both directions of each per ISO.

// dispatchFunctor implements functor/3. In decomposition mode (t bound)
// it binds Name/Arity to t's principal functor and arity; in
// construction mode (t unbound, Name and Arity bound) it builds a fresh
// compound (or atomic term, for Arity 0) and binds t to it.
func (s *State) dispatchFunctor(t, name, arity Term) (bool, error) {
	dt := s.subst.Deref(t)

	if !IsVariable(dt) {
		switch v := dt.(type) {
		case *Compound:
			return Unify(name, Intern(v.Functor), s.subst, s.trail, s.occurCheck) &&
				Unify(arity, NewInt(int64(len(v.Args))), s.subst, s.trail, s.occurCheck), nil
		case *Atom:
			return Unify(name, v, s.subst, s.trail, s.occurCheck) &&
				Unify(arity, NewInt(0), s.subst, s.trail, s.occurCheck), nil
		default:
			return Unify(name, dt, s.subst, s.trail, s.occurCheck) &&
				Unify(arity, NewInt(0), s.subst, s.trail, s.occurCheck), nil
		}
	}

	dName := s.subst.Deref(name)
	dArity := s.subst.Deref(arity)
	if IsVariable(dName) || IsVariable(dArity) {
		return false, &thrownException{term: InstantiationError(nil)}
	}
	arityInt, ok := dArity.(*Integer)
	if !ok {
		return false, &thrownException{term: TypeError("integer", dArity, nil)}
	}
	n := arityInt.Value.Int64()
	if n == 0 {
		return Unify(t, dName, s.subst, s.trail, s.occurCheck), nil
	}
	nameAtom, ok := dName.(*Atom)
	if !ok {
		return false, &thrownException{term: TypeError("atom", dName, nil)}
	}
	args := make([]Term, n)
	for i := range args {
		args[i] = NewVariable("")
	}
	return Unify(t, &Compound{Functor: nameAtom.Name, Args: args}, s.subst, s.trail, s.occurCheck), nil
}

// dispatchArg implements arg/3: N is 1-based per ISO.
func (s *State) dispatchArg(n, t, a Term) (bool, error) {
	dn := s.subst.Deref(n)
	dt := s.subst.Deref(t)

	ni, ok := dn.(*Integer)
	if !ok {
		return false, &thrownException{term: TypeError("integer", dn, nil)}
	}
	c, ok := dt.(*Compound)
	if !ok {
		return false, &thrownException{term: TypeError("compound", dt, nil)}
	}

	idx := ni.Value.Int64()
	if idx < 1 || idx > int64(len(c.Args)) {
		return false, nil
	}
	return Unify(a, c.Args[idx-1], s.subst, s.trail, s.occurCheck), nil
}

// dispatchUniv implements =../2 both ways: decomposing a bound term into
// [Functor|Args], or constructing a term from such a list.
func (s *State) dispatchUniv(t, list Term) (bool, error) {
	dt := s.subst.Deref(t)

	if !IsVariable(dt) {
		switch v := dt.(type) {
		case *Compound:
			elems := make([]Term, 0, len(v.Args)+1)
			elems = append(elems, Intern(v.Functor))
			elems = append(elems, v.Args...)
			return Unify(list, MakeList(elems...), s.subst, s.trail, s.occurCheck), nil
		default:
			return Unify(list, MakeList(dt), s.subst, s.trail, s.occurCheck), nil
		}
	}

	elems, ok := s.subst.ListSlice(list)
	if !ok || len(elems) == 0 {
		return false, &thrownException{term: InstantiationError(nil)}
	}
	head := s.subst.Deref(elems[0])
	if len(elems) == 1 {
		return Unify(t, head, s.subst, s.trail, s.occurCheck), nil
	}
	nameAtom, ok := head.(*Atom)
	if !ok {
		return false, &thrownException{term: TypeError("atom", head, nil)}
	}
	return Unify(t, &Compound{Functor: nameAtom.Name, Args: elems[1:]}, s.subst, s.trail, s.occurCheck), nil
}
