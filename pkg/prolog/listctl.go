package prolog

// BootstrapLibrary asserts the small set of list predicates most Prolog
// programs expect to find already loaded (SPEC_FULL.md §C, "library
// clauses") — member/2, append/3 and reverse/2 — as ordinary clauses, so
// they get exactly the same indexing, backtracking and cut semantics as
// anything a user's program defines, with no special resolver-level case
// needed for them. length/2 is deliberately not bootstrapped here: it
// needs integer arithmetic (is/2), which this engine treats as an
// external collaborator (Non-goal) rather than a built-in.
func BootstrapLibrary(db *Database) {
	// Each clause gets its own set of variables, shared by pointer
	// identity between Head and Body exactly as repeating a variable
	// name within one source clause would share it; renameClause later
	// gives every retrieval a fresh, consistently-renamed copy.
	member1 := func() *Clause {
		x := NewVariable("X")
		return NewClause(NewCompound("member", x, Cons(x, NewVariable("_"))), nil)
	}
	member2 := func() *Clause {
		x, t := NewVariable("X"), NewVariable("T")
		return NewClause(
			NewCompound("member", x, Cons(NewVariable("_"), t)),
			NewCompound("member", x, t),
		)
	}
	append1 := func() *Clause {
		l := NewVariable("L")
		return NewClause(NewCompound("append", AtomEmptyList, l, l), nil)
	}
	append2 := func() *Clause {
		h, t, l, r := NewVariable("H"), NewVariable("T"), NewVariable("L"), NewVariable("R")
		return NewClause(
			NewCompound("append", Cons(h, t), l, Cons(h, r)),
			NewCompound("append", t, l, r),
		)
	}
	reverse1 := func() *Clause {
		l, r := NewVariable("L"), NewVariable("R")
		return NewClause(
			NewCompound("reverse", l, r),
			NewCompound("reverse3", l, AtomEmptyList, r),
		)
	}
	reverse3Base := func() *Clause {
		acc := NewVariable("Acc")
		return NewClause(NewCompound("reverse3", AtomEmptyList, acc, acc), nil)
	}
	reverse3Rec := func() *Clause {
		h, t, acc, r := NewVariable("H"), NewVariable("T"), NewVariable("Acc"), NewVariable("R")
		return NewClause(
			NewCompound("reverse3", Cons(h, t), acc, r),
			NewCompound("reverse3", t, Cons(h, acc), r),
		)
	}

	for _, make := range []func() *Clause{member1, member2, append1, append2, reverse1, reverse3Base, reverse3Rec} {
		db.AssertZ(make())
	}
}
