package prolog

import "testing"

func TestUnify(t *testing.T) {
	t.Run("variable binds to atom", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		x := NewVariable("X")
		if !Unify(x, Intern("a"), subst, trail, false) {
			t.Fatal("expected unification to succeed")
		}
		if got := subst.Deref(x); got != Term(Intern("a")) {
			t.Errorf("X bound to %v, want a", got)
		}
	})

	t.Run("mismatched atoms fail", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		if Unify(Intern("a"), Intern("b"), subst, trail, false) {
			t.Error("expected unification to fail for distinct atoms")
		}
	})

	t.Run("compounds unify argument-wise", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		x := NewVariable("X")
		left := NewCompound("f", x, Intern("b"))
		right := NewCompound("f", Intern("a"), Intern("b"))
		if !Unify(left, right, subst, trail, false) {
			t.Fatal("expected unification to succeed")
		}
		if got := subst.Deref(x); got != Term(Intern("a")) {
			t.Errorf("X bound to %v, want a", got)
		}
	})

	t.Run("arity mismatch fails", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		if Unify(NewCompound("f", Intern("a")), NewCompound("f", Intern("a"), Intern("b")), subst, trail, false) {
			t.Error("expected unification to fail for mismatched arity")
		}
	})

	t.Run("without occurs-check, a variable can bind to a term containing it", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		x := NewVariable("X")
		if !Unify(x, NewCompound("f", x), subst, trail, false) {
			t.Error("expected unification to succeed without occurs-check")
		}
	})

	t.Run("with occurs-check, a variable cannot bind to a term containing it", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		x := NewVariable("X")
		if Unify(x, NewCompound("f", x), subst, trail, true) {
			t.Error("expected unification to fail with occurs-check")
		}
	})

	t.Run("trail undo restores prior state", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		x := NewVariable("X")
		mark := trail.Mark()
		if !Unify(x, Intern("a"), subst, trail, false) {
			t.Fatal("expected unification to succeed")
		}
		trail.UndoTo(mark, subst)
		if subst.Deref(x) != Term(x) {
			t.Error("expected X to be unbound after UndoTo")
		}
	})

	t.Run("numbers compare by value and kind", func(t *testing.T) {
		subst := NewSubstitution()
		trail := NewTrail()
		if Unify(NewInt(1), NewFloat(1.0), subst, trail, false) {
			t.Error("an integer and an equal-valued float must not unify")
		}
		if !Unify(NewInt(7), NewInt(7), subst, trail, false) {
			t.Error("equal integers should unify")
		}
	})
}
