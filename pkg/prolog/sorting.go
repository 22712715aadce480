package prolog

import "golang.org/x/exp/slices"

// sort/2, msort/2, compare/3 and the @</@>/@=</@>= order-comparison
// family (SPEC_FULL.md §C.4), all built over compareTerms' standard
// order of terms (§4.6).

// dispatchSort implements sort/2 (dedup=true) and msort/2 (dedup=false):
// the input must dereference to a proper list; the result is a fresh
// list in standard order, with sort/2 additionally removing terms equal
// under that order.
func (s *State) dispatchSort(listTerm, sortedTerm Term, dedup bool) (bool, error) {
	elems, ok := s.subst.ListSlice(listTerm)
	if !ok {
		return false, &thrownException{term: TypeError("list", s.subst.Apply(listTerm), nil)}
	}
	applied := make([]Term, len(elems))
	for i, e := range elems {
		applied[i] = s.subst.Apply(e)
	}

	if dedup {
		applied = sortAndDedupTerms(s, applied)
	} else {
		sortTermsStable(s, applied)
	}

	return Unify(sortedTerm, MakeList(applied...), s.subst, s.trail, s.occurCheck), nil
}

// dispatchCompare implements compare/3: binds Order to one of the atoms
// '<', '=', '>' describing how First and Second relate in standard
// order.
func (s *State) dispatchCompare(orderTerm, first, second Term) (bool, error) {
	var sym string
	switch c := s.compareTerms(first, second); {
	case c < 0:
		sym = "<"
	case c > 0:
		sym = ">"
	default:
		sym = "="
	}
	return Unify(orderTerm, Intern(sym), s.subst, s.trail, s.occurCheck), nil
}

// dispatchOrderOp implements the @</2, @>/2, @=</2, @>=/2 comparison
// operators.
func (s *State) dispatchOrderOp(op string, a, b Term) (bool, error) {
	c := s.compareTerms(a, b)
	switch op {
	case "@<":
		return c < 0, nil
	case "@>":
		return c > 0, nil
	case "@=<":
		return c <= 0, nil
	case "@>=":
		return c >= 0, nil
	}
	return false, nil
}

func sortTermsStable(s *State, terms []Term) {
	slices.SortStableFunc(terms, func(a, b Term) bool {
		return s.compareTerms(a, b) < 0
	})
}

func sortAndDedupTerms(s *State, terms []Term) []Term {
	cp := make([]Term, len(terms))
	copy(cp, terms)
	sortTermsStable(s, cp)

	out := cp[:0]
	for i, t := range cp {
		if i == 0 || s.compareTerms(out[len(out)-1], t) != 0 {
			out = append(out, t)
		}
	}
	return out
}
