package prolog

import (
	"context"
	"testing"
)

func TestFindallCollectsEveryInstance(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("num", NewInt(1)))
	mustAssert(t, e, NewCompound("num", NewInt(2)))
	mustAssert(t, e, NewCompound("num", NewInt(3)))

	bag := NewVariable("Bag")
	x := NewVariable("X")
	goal := NewCompound("findall", x, NewCompound("num", x), bag)
	sol, ok, err := e.QueryOnce(context.Background(), goal, bag)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Bag"].String() != "[1,2,3]" {
		t.Errorf("Bag = %v, want [1,2,3]", sol["Bag"])
	}
}

func TestSetofSortsAndDedupsWithinAGroup(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("score", Intern("alice"), NewInt(3)))
	mustAssert(t, e, NewCompound("score", Intern("alice"), NewInt(1)))
	mustAssert(t, e, NewCompound("score", Intern("alice"), NewInt(3)))
	mustAssert(t, e, NewCompound("score", Intern("alice"), NewInt(2)))

	bag := NewVariable("Bag")
	score := NewVariable("S")
	goal := NewCompound("setof", score,
		NewCompound("score", Intern("alice"), score), bag)

	sol, ok, err := e.QueryOnce(context.Background(), goal, bag)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Bag"].String() != "[1,2,3]" {
		t.Errorf("Bag = %v, want [1,2,3] (sorted, deduped)", sol["Bag"])
	}
}

func TestBagofFailsWithNoSolutions(t *testing.T) {
	e := New()
	bag := NewVariable("Bag")
	goal := NewCompound("bagof", NewVariable("X"), NewCompound("no_such_fact", NewVariable("X")), bag)

	_, ok, err := e.QueryOnce(context.Background(), goal, bag)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if ok {
		t.Error("expected bagof/3 to fail outright when its goal has zero solutions")
	}
}

func TestBagofExistentialQuantificationHidesFreeVariable(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("likes", Intern("mary"), Intern("wine")))
	mustAssert(t, e, NewCompound("likes", Intern("mary"), Intern("cheese")))
	mustAssert(t, e, NewCompound("likes", Intern("john"), Intern("wine")))

	who, what, bag := NewVariable("Who"), NewVariable("What"), NewVariable("Bag")
	// bagof(What, Who^likes(Who,What), Bag) groups by nothing but
	// collects across all Who, since Who^ quantifies it away.
	goal := NewCompound("bagof", what,
		NewCompound("^", who, NewCompound("likes", who, what)), bag)

	sol, ok, err := e.QueryOnce(context.Background(), goal, bag)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok {
		t.Fatal("expected one combined group across all Who")
	}
	if sol["Bag"].String() != "[wine,cheese,wine]" {
		t.Errorf("Bag = %v, want [wine,cheese,wine]", sol["Bag"])
	}
}
