package prolog

import (
	"context"
	"testing"
)

func TestFunctorDecompose(t *testing.T) {
	e := New()
	name, arity := NewVariable("Name"), NewVariable("Arity")
	goal := NewCompound("functor", NewCompound("f", Intern("a"), Intern("b")), name, arity)

	sol, ok, err := e.QueryOnce(context.Background(), goal, name, arity)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Name"].String() != "f" || sol["Arity"].String() != "2" {
		t.Errorf("got Name=%v Arity=%v, want f/2", sol["Name"], sol["Arity"])
	}
}

func TestFunctorConstruct(t *testing.T) {
	e := New()
	term := NewVariable("Term")
	goal := NewCompound("functor", term, Intern("f"), NewInt(2))

	sol, ok, err := e.QueryOnce(context.Background(), goal, term)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok {
		t.Fatal("expected functor/3 to construct a fresh compound")
	}
	c, isCompound := sol["Term"].(*Compound)
	if !isCompound || c.Functor != "f" || len(c.Args) != 2 {
		t.Errorf("Term = %v, want a fresh f/2 compound", sol["Term"])
	}
}

func TestFunctorConstructsAtomicForZeroArity(t *testing.T) {
	e := New()
	term := NewVariable("Term")
	goal := NewCompound("functor", term, Intern("atom_value"), NewInt(0))

	sol, ok, err := e.QueryOnce(context.Background(), goal, term)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Term"].String() != "atom_value" {
		t.Errorf("Term = %v, want atom_value", sol["Term"])
	}
}

func TestArgExtractsOneBasedArgument(t *testing.T) {
	e := New()
	a := NewVariable("A")
	goal := NewCompound("arg", NewInt(2), NewCompound("f", Intern("x"), Intern("y"), Intern("z")), a)

	sol, ok, err := e.QueryOnce(context.Background(), goal, a)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["A"].String() != "y" {
		t.Errorf("A = %v, want y", sol["A"])
	}
}

func TestArgOutOfRangeFails(t *testing.T) {
	e := New()
	goal := NewCompound("arg", NewInt(5), NewCompound("f", Intern("x")), NewVariable("A"))
	_, ok, err := e.QueryOnce(context.Background(), goal)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if ok {
		t.Error("expected arg/3 to fail for an out-of-range index")
	}
}

func TestUnivDecompose(t *testing.T) {
	e := New()
	list := NewVariable("List")
	goal := NewCompound("=..", NewCompound("f", Intern("a"), Intern("b")), list)

	sol, ok, err := e.QueryOnce(context.Background(), goal, list)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["List"].String() != "[f,a,b]" {
		t.Errorf("List = %v, want [f,a,b]", sol["List"])
	}
}

func TestUnivConstruct(t *testing.T) {
	e := New()
	term := NewVariable("Term")
	goal := NewCompound("=..", term, MakeList(Intern("f"), Intern("a"), Intern("b")))

	sol, ok, err := e.QueryOnce(context.Background(), goal, term)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Term"].String() != "f(a,b)" {
		t.Errorf("Term = %v, want f(a,b)", sol["Term"])
	}
}

func TestUnivSingletonListIsAtomic(t *testing.T) {
	e := New()
	term := NewVariable("Term")
	goal := NewCompound("=..", term, MakeList(NewInt(42)))

	sol, ok, err := e.QueryOnce(context.Background(), goal, term)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Term"].String() != "42" {
		t.Errorf("Term = %v, want 42", sol["Term"])
	}
}
