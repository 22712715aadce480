package prolog

import (
	"context"
	"testing"
)

func TestSortDedupsAndOrders(t *testing.T) {
	e := New()
	sorted := NewVariable("Sorted")
	goal := NewCompound("sort", MakeList(NewInt(3), NewInt(1), NewInt(2), NewInt(1)), sorted)

	sol, ok, err := e.QueryOnce(context.Background(), goal, sorted)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Sorted"].String() != "[1,2,3]" {
		t.Errorf("Sorted = %v, want [1,2,3]", sol["Sorted"])
	}
}

func TestMsortKeepsDuplicates(t *testing.T) {
	e := New()
	sorted := NewVariable("Sorted")
	goal := NewCompound("msort", MakeList(NewInt(3), NewInt(1), NewInt(2), NewInt(1)), sorted)

	sol, ok, err := e.QueryOnce(context.Background(), goal, sorted)
	if err != nil {
		t.Fatalf("QueryOnce: %v", err)
	}
	if !ok || sol["Sorted"].String() != "[1,1,2,3]" {
		t.Errorf("Sorted = %v, want [1,1,2,3]", sol["Sorted"])
	}
}

func TestCompareOrder(t *testing.T) {
	e := New()
	order := NewVariable("Order")

	cases := []struct {
		a, b Term
		want string
	}{
		{NewInt(1), NewInt(2), "<"},
		{Intern("a"), Intern("a"), "="},
		{Intern("b"), Intern("a"), ">"},
		{NewVariable("X"), NewInt(1), "<"},
	}
	for _, c := range cases {
		goal := NewCompound("compare", order, c.a, c.b)
		sol, ok, err := e.QueryOnce(context.Background(), goal, order)
		if err != nil {
			t.Fatalf("QueryOnce: %v", err)
		}
		if !ok || sol["Order"].String() != c.want {
			t.Errorf("compare(%s,%s) = %v, want %s", c.a, c.b, sol["Order"], c.want)
		}
	}
}

func TestOrderComparisonOperators(t *testing.T) {
	e := New()

	t.Run("@< holds for standard order", func(t *testing.T) {
		goal := NewCompound("@<", NewInt(1), Intern("a"))
		_, ok, err := e.QueryOnce(context.Background(), goal)
		if err != nil {
			t.Fatalf("QueryOnce: %v", err)
		}
		if !ok {
			t.Error("expected a number to order before an atom")
		}
	})

	t.Run("@>= is reflexive", func(t *testing.T) {
		goal := NewCompound("@>=", Intern("a"), Intern("a"))
		_, ok, err := e.QueryOnce(context.Background(), goal)
		if err != nil {
			t.Fatalf("QueryOnce: %v", err)
		}
		if !ok {
			t.Error("expected @>= to hold for equal terms")
		}
	})
}
