package prolog

import (
	"context"
	"testing"
)

func TestCatchMatchingCatcherRecovers(t *testing.T) {
	e := New()
	x := NewVariable("X")
	goal := NewCompound("catch",
		NewCompound("throw", NewCompound("err", Intern("bad"))),
		NewCompound("err", NewVariable("")),
		NewCompound("=", x, Intern("recovered")))

	sol, ok, err := e.QueryOnce(context.Background(), goal, x)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["X"].String() != "recovered" {
		t.Errorf("X = %v, want recovered", sol["X"])
	}
}

func TestCatchNonMatchingCatcherPropagates(t *testing.T) {
	e := New()
	goal := NewCompound("catch",
		NewCompound("throw", Intern("type_a")),
		Intern("type_b"),
		Intern("true"))

	_, _, err := e.QueryOnce(context.Background(), goal)
	if err == nil {
		t.Fatal("expected the mismatched catcher to let the exception propagate")
	}
	exc, ok := err.(*thrownException)
	if !ok {
		t.Fatalf("error type = %T, want *thrownException", err)
	}
	if exc.term.String() != "type_a" {
		t.Errorf("propagated term = %v, want type_a", exc.term)
	}
}

func TestNestedCatchInnerCatcherWins(t *testing.T) {
	e := New()
	x := NewVariable("X")
	inner := NewCompound("catch",
		NewCompound("throw", Intern("inner_ball")),
		Intern("inner_ball"),
		NewCompound("=", x, Intern("caught_inner")))
	outer := NewCompound("catch", inner, Intern("inner_ball"), NewCompound("=", x, Intern("caught_outer")))

	sol, ok, err := e.QueryOnce(context.Background(), outer, x)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["X"].String() != "caught_inner" {
		t.Errorf("X = %v, want caught_inner (the innermost matching catch should fire)", sol["X"])
	}
}

func TestCatchCleanupDoesNotReCatchAfterSuccess(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("safe", Intern("ok")))

	// catch(safe(X), _, true), throw(late) must NOT be caught by the
	// catch/3 frame above, since that frame's goal already succeeded.
	x := NewVariable("X")
	goal := NewCompound(",",
		NewCompound("catch", NewCompound("safe", x), NewVariable("_"), Intern("true")),
		NewCompound("throw", Intern("late")))

	_, _, err := e.QueryOnce(context.Background(), goal, x)
	if err == nil {
		t.Fatal("expected throw(late) to escape uncaught, not be intercepted by the already-succeeded catch frame")
	}
	exc, ok := err.(*thrownException)
	if !ok {
		t.Fatalf("error type = %T, want *thrownException", err)
	}
	if exc.term.String() != "late" {
		t.Errorf("propagated term = %v, want late", exc.term)
	}
}

func TestThrowUninstantiatedBallIsInstantiationError(t *testing.T) {
	e := New()
	goal := NewCompound("throw", NewVariable("Ball"))

	_, _, err := e.QueryOnce(context.Background(), goal)
	if err == nil {
		t.Fatal("expected throwing an unbound variable to raise instantiation_error")
	}
	exc, ok := err.(*thrownException)
	if !ok {
		t.Fatalf("error type = %T, want *thrownException", err)
	}
	if c, ok := exc.term.(*Compound); !ok || c.Functor != "error" {
		t.Errorf("expected an error/2 term, got %v", exc.term)
	}
}
