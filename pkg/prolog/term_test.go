package prolog

import "testing"

func TestVariableIdentity(t *testing.T) {
	t.Run("fresh variables are never equal even with the same name", func(t *testing.T) {
		v1 := NewVariable("X")
		v2 := NewVariable("X")
		if v1.ID == v2.ID {
			t.Error("expected distinct ids for two NewVariable calls")
		}
		if StructurallyEqual(v1, v2) {
			t.Error("distinct variables with the same name must not be structurally equal")
		}
	})
}

func TestAtomInterning(t *testing.T) {
	t.Run("same name always returns the same pointer", func(t *testing.T) {
		a1 := Intern("foo")
		a2 := Intern("foo")
		if a1 != a2 {
			t.Error("expected Intern to return the same *Atom for the same name")
		}
	})

	t.Run("distinguished atoms are pre-interned", func(t *testing.T) {
		if Intern("[]") != AtomEmptyList {
			t.Error("AtomEmptyList should be the interned [] atom")
		}
		if Intern("!") != AtomCut {
			t.Error("AtomCut should be the interned ! atom")
		}
	})
}

func TestCompoundConstruction(t *testing.T) {
	t.Run("zero-arity NewCompound returns an atom", func(t *testing.T) {
		term := NewCompound("foo")
		if _, ok := term.(*Atom); !ok {
			t.Errorf("expected *Atom for zero-arity NewCompound, got %T", term)
		}
	})

	t.Run("list rendering uses bracket notation", func(t *testing.T) {
		list := MakeList(NewInt(1), NewInt(2), NewInt(3))
		if got, want := list.String(), "[1,2,3]"; got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("partial list renders with a bar", func(t *testing.T) {
		list := Cons(NewInt(1), NewVariable("T"))
		want := "[1|_T_"
		if got := list.String(); len(got) < len(want) || got[:len(want)] != want {
			t.Errorf("String() = %q, want prefix %q", got, want)
		}
	})
}

func TestDerivedPredicates(t *testing.T) {
	cases := []struct {
		name string
		term Term
		pred func(Term) bool
		want bool
	}{
		{"variable is variable", NewVariable(""), IsVariable, true},
		{"atom is not variable", Intern("a"), IsVariable, false},
		{"compound is callable", NewCompound("f", Intern("a")), IsCallable, true},
		{"number is atomic", NewInt(1), IsAtomic, true},
		{"ground compound is ground", NewCompound("f", Intern("a"), NewInt(1)), IsGround, true},
		{"compound with variable is not ground", NewCompound("f", NewVariable("X")), IsGround, false},
		{"proper list", MakeList(NewInt(1), NewInt(2)), IsProperList, true},
		{"partial list is not proper", Cons(NewInt(1), NewVariable("T")), IsProperList, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.pred(c.term); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestIndicator(t *testing.T) {
	t.Run("compound indicator", func(t *testing.T) {
		ind, ok := Indicator(NewCompound("foo", Intern("a"), Intern("b")))
		if !ok || ind != "foo/2" {
			t.Errorf("Indicator = %q, %v; want foo/2, true", ind, ok)
		}
	})
	t.Run("atom indicator", func(t *testing.T) {
		ind, ok := Indicator(Intern("foo"))
		if !ok || ind != "foo/0" {
			t.Errorf("Indicator = %q, %v; want foo/0, true", ind, ok)
		}
	})
	t.Run("variable has no indicator", func(t *testing.T) {
		_, ok := Indicator(NewVariable(""))
		if ok {
			t.Error("expected ok=false for a variable")
		}
	})
}
