package prolog

// unifyPair is one entry of the iterative work stack used by Unify.
type unifyPair struct {
	a, b Term
}

// Unify implements Robinson's algorithm per §4.1: iterative over an
// explicit work stack so deep terms cannot blow the Go call stack. On
// success, new bindings are recorded in subst and logged to trail. On
// failure, the caller is responsible for undoing via the trail — Unify
// itself may leave partial bindings in place, exactly as §4.1 specifies.
//
// occurCheck selects ISO's two unification modes: '='/2 unifies with no
// occur-check (may create rational trees); unify_with_occurs_check/2
// passes occurCheck=true and rejects any binding that would make a
// variable occur within the term it's bound to.
func Unify(t1, t2 Term, subst *Substitution, trail *Trail, occurCheck bool) bool {
	stack := []unifyPair{{t1, t2}}

	for len(stack) > 0 {
		n := len(stack) - 1
		pair := stack[n]
		stack = stack[:n]

		a := subst.Deref(pair.a)
		b := subst.Deref(pair.b)

		if samePointer(a, b) {
			continue
		}

		av, aIsVar := a.(*Variable)
		bv, bIsVar := b.(*Variable)

		switch {
		case aIsVar && bIsVar:
			// Both unbound: bind one to the other; no occur-check needed
			// since neither side has structure to occur within.
			trail.Bind(subst, av, bv)
			continue
		case aIsVar:
			if occurCheck && occursIn(subst, av, b) {
				return false
			}
			trail.Bind(subst, av, b)
			continue
		case bIsVar:
			if occurCheck && occursIn(subst, bv, a) {
				return false
			}
			trail.Bind(subst, bv, a)
			continue
		}

		switch av2 := a.(type) {
		case *Atom:
			bv2, ok := b.(*Atom)
			if !ok || av2 != bv2 {
				return false
			}
		case *Integer:
			bv2, ok := b.(*Integer)
			if !ok || av2.Value.Cmp(bv2.Value) != 0 {
				return false
			}
		case *Float:
			bv2, ok := b.(*Float)
			if !ok || av2.Value != bv2.Value {
				return false
			}
		case *Compound:
			bv2, ok := b.(*Compound)
			if !ok || av2.Functor != bv2.Functor || len(av2.Args) != len(bv2.Args) {
				return false
			}
			// Push argument pairs in reverse so argument 0 is processed
			// first (§4.1 step 5).
			for i := len(av2.Args) - 1; i >= 0; i-- {
				stack = append(stack, unifyPair{av2.Args[i], bv2.Args[i]})
			}
		default:
			return false
		}
	}

	return true
}

// samePointer reports whether a and b are the same variable, or the same
// interned atom — the "pointer-equal" fast path of §4.1 step 2.
func samePointer(a, b Term) bool {
	if av, ok := a.(*Variable); ok {
		if bv, ok := b.(*Variable); ok {
			return av.ID == bv.ID
		}
		return false
	}
	if aa, ok := a.(*Atom); ok {
		bb, ok := b.(*Atom)
		return ok && aa == bb
	}
	return false
}

// occursIn performs the occur-check itself iteratively over a term
// stack (§4.1: "Occur-check is itself iterative over a term-stack"),
// reporting whether v occurs anywhere within t under subst.
func occursIn(subst *Substitution, v *Variable, t Term) bool {
	stack := []Term{t}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := subst.Deref(stack[n])
		stack = stack[:n]

		if cv, ok := cur.(*Variable); ok {
			if cv.ID == v.ID {
				return true
			}
			continue
		}
		if c, ok := cur.(*Compound); ok {
			for _, a := range c.Args {
				stack = append(stack, a)
			}
		}
	}
	return false
}
