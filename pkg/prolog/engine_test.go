package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertClauseInterceptsDCGRules(t *testing.T) {
	e := New()
	// greeting --> [hi].
	require.NoError(t, e.AssertClause(NewCompound("-->", Intern("greeting"), MakeList(Intern("hi")))))

	rest := NewVariable("Rest")
	goal := NewCompound("phrase", Intern("greeting"), MakeList(Intern("hi")), rest)
	_, ok, err := e.QueryOnce(context.Background(), goal, rest)
	require.NoError(t, err)
	assert.True(t, ok, "expected the DCG-translated clause to be directly queryable via phrase/2")
}

func TestAssertClauseSplitsRuleBody(t *testing.T) {
	e := New()
	x := NewVariable("X")
	err := e.AssertClause(NewCompound(":-",
		NewCompound("double", x, NewVariable("Y")),
		NewCompound("=", NewVariable("Y"), x)))
	require.NoError(t, err)

	clauses := e.Database().Retrieve(NewCompound("double", NewVariable("_"), NewVariable("_")))
	require.Len(t, clauses, 1)
	assert.False(t, clauses[0].IsFact(), "expected a rule clause with a non-empty body")
}

func TestAssertClauseRejectsNonCallableHead(t *testing.T) {
	e := New()
	err := e.AssertClause(NewInt(42))
	assert.Error(t, err, "expected asserting a non-callable head to return an error")
}

func TestAssertClauseFirstPrepends(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("p", Intern("old")))
	require.NoError(t, e.AssertClauseFirst(NewCompound("p", Intern("new"))))

	x := NewVariable("X")
	sol, ok, err := e.QueryOnce(context.Background(), NewCompound("p", x), x)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", sol["X"].String(), "asserta'd clause should be tried first")
}

func TestRetractAndRetractAll(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("q", Intern("a")))
	mustAssert(t, e, NewCompound("q", Intern("a")))
	mustAssert(t, e, NewCompound("q", Intern("b")))

	require.True(t, e.Retract(NewCompound("q", Intern("a"))))
	assert.Equal(t, 2, e.RetractAll(NewCompound("q", NewVariable("X"))))
}

func TestRegisterForeignIsCallable(t *testing.T) {
	e := New()
	e.RegisterForeign("double/2", func(args []Term, subst *Substitution, trail *Trail) (bool, error) {
		n, ok := args[0].(*Integer)
		if !ok {
			return false, nil
		}
		return Unify(args[1], NewInt(n.Value.Int64()*2), subst, trail, false), nil
	})

	result := NewVariable("R")
	sol, ok, err := e.QueryOnce(context.Background(), NewCompound("double", NewInt(21), result), result)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", sol["R"].String())
}

func TestQueryAutoDetectsNamedVariables(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("p", Intern("a"), Intern("b")))

	x, y := NewVariable("X"), NewVariable("Y")
	sol, ok, err := e.QueryOnce(context.Background(), NewCompound("p", x, y))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", sol["X"].String())
	assert.Equal(t, "b", sol["Y"].String())
}

func TestClearRemovesEveryClause(t *testing.T) {
	e := New()
	mustAssert(t, e, NewCompound("p", Intern("a")))
	e.Clear()

	_, ok, _ := e.QueryOnce(context.Background(), NewCompound("p", Intern("a")))
	assert.False(t, ok, "expected no clauses to remain after Clear")
}
