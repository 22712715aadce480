package prolog

import "math/big"

// compareTerms implements the ISO standard order of terms (§4.6):
// Variable < Number < Atom < Compound; within numbers, compare by value
// with a float sorting before an equal-valued integer; atoms compare by
// name; compounds compare first by arity, then functor name, then
// arguments left to right. The comparison dereferences through s but
// does not otherwise mutate anything.
func (s *State) compareTerms(a, b Term) int {
	da, db := s.subst.Deref(a), s.subst.Deref(b)
	ra, rb := termOrderRank(da), termOrderRank(db)
	if ra != rb {
		return ra - rb
	}

	switch av := da.(type) {
	case *Variable:
		bv := db.(*Variable)
		return int(av.ID - bv.ID)
	case *Integer:
		return compareNumeric(av, db)
	case *Float:
		return compareNumeric(av, db)
	case *Atom:
		bv := db.(*Atom)
		return compareStrings(av.Name, bv.Name)
	case *Compound:
		bv := db.(*Compound)
		if len(av.Args) != len(bv.Args) {
			return len(av.Args) - len(bv.Args)
		}
		if c := compareStrings(av.Functor, bv.Functor); c != 0 {
			return c
		}
		for i := range av.Args {
			if c := s.compareTerms(av.Args[i], bv.Args[i]); c != 0 {
				return c
			}
		}
		return 0
	}
	return 0
}

// termOrderRank buckets terms into the four major standard-order
// classes; numbers (Integer and Float) share a rank so they compare by
// value against each other regardless of kind, with float-before-equal-
// integer broken in compareNumeric.
func termOrderRank(t Term) int {
	switch t.(type) {
	case *Variable:
		return 0
	case *Integer, *Float:
		return 1
	case *Atom:
		return 2
	case *Compound:
		return 3
	}
	return 4
}

func compareNumeric(a Term, b Term) int {
	ai, aIsInt := a.(*Integer)
	bi, bIsInt := b.(*Integer)

	if aIsInt && bIsInt {
		return ai.Value.Cmp(bi.Value)
	}

	af, aIsFloat := a.(*Float)
	bf, bIsFloat := b.(*Float)

	if aIsFloat && bIsFloat {
		switch {
		case af.Value < bf.Value:
			return -1
		case af.Value > bf.Value:
			return 1
		default:
			return 0
		}
	}

	// Mixed integer/float: compare by value via big.Float, then break
	// an equal-valued tie with float-before-integer (§4.6).
	var av, bv *big.Float
	if aIsInt {
		av = new(big.Float).SetInt(ai.Value)
	} else {
		av = big.NewFloat(af.Value)
	}
	if bIsInt {
		bv = new(big.Float).SetInt(bi.Value)
	} else {
		bv = big.NewFloat(bf.Value)
	}

	if c := av.Cmp(bv); c != 0 {
		return c
	}
	if aIsFloat && bIsInt {
		return -1
	}
	if aIsInt && bIsFloat {
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
