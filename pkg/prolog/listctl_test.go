package prolog

import (
	"context"
	"testing"
)

func TestMemberBidirectional(t *testing.T) {
	e := New()

	t.Run("checks membership of a ground element", func(t *testing.T) {
		goal := NewCompound("member", NewInt(2), MakeList(NewInt(1), NewInt(2), NewInt(3)))
		_, ok, err := e.QueryOnce(context.Background(), goal)
		if err != nil {
			t.Fatalf("QueryOnce: %v", err)
		}
		if !ok {
			t.Error("expected member(2, [1,2,3]) to succeed")
		}
	})

	t.Run("binds the head of the list on the first solution", func(t *testing.T) {
		x := NewVariable("X")
		goal := NewCompound("member", x, Cons(NewInt(5), NewVariable("T")))
		sol, ok, err := e.QueryOnce(context.Background(), goal, x)
		if err != nil {
			t.Fatalf("QueryOnce: %v", err)
		}
		if !ok || sol["X"].String() != "5" {
			t.Errorf("X = %v, want 5 (the two X occurrences in member/2's fact must share identity)", sol["X"])
		}
	})

	t.Run("fails for a non-member", func(t *testing.T) {
		goal := NewCompound("member", NewInt(9), MakeList(NewInt(1), NewInt(2)))
		_, ok, err := e.QueryOnce(context.Background(), goal)
		if err != nil {
			t.Fatalf("QueryOnce: %v", err)
		}
		if ok {
			t.Error("expected member(9, [1,2]) to fail")
		}
	})
}

func TestAppendBidirectional(t *testing.T) {
	e := New()

	t.Run("concatenates two ground lists", func(t *testing.T) {
		r := NewVariable("R")
		goal := NewCompound("append", MakeList(NewInt(1), NewInt(2)), MakeList(NewInt(3), NewInt(4)), r)
		sol, ok, err := e.QueryOnce(context.Background(), goal, r)
		if err != nil {
			t.Fatalf("QueryOnce: %v", err)
		}
		if !ok || sol["R"].String() != "[1,2,3,4]" {
			t.Errorf("R = %v, want [1,2,3,4]", sol["R"])
		}
	})

	t.Run("enumerates every split of a ground list", func(t *testing.T) {
		a, b := NewVariable("A"), NewVariable("B")
		goal := NewCompound("append", a, b, MakeList(NewInt(1), NewInt(2)))
		solutions, err := e.QueryAll(context.Background(), goal, a, b)
		if err != nil {
			t.Fatalf("QueryAll: %v", err)
		}
		if len(solutions) != 3 {
			t.Fatalf("got %d splits, want 3 ([]/[1,2], [1]/[2], [1,2]/[])", len(solutions))
		}
		if solutions[0]["A"].String() != "[]" || solutions[2]["A"].String() != "[1,2]" {
			t.Errorf("unexpected split order: %v", solutions)
		}
	})
}

func TestReverse(t *testing.T) {
	e := New()
	r := NewVariable("R")
	goal := NewCompound("reverse", MakeList(NewInt(1), NewInt(2), NewInt(3)), r)
	sol, ok, err := e.QueryOnce(context.Background(), goal, r)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["R"].String() != "[3,2,1]" {
		t.Errorf("R = %v, want [3,2,1]", sol["R"])
	}
}
