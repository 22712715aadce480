// Package prolog implements the hard core of an embeddable, ISO/IEC 13211-1
// (1995) compliant Prolog engine: term representation and unification, a
// clause database with first-argument indexing, an SLD resolution engine
// with cut, control constructs and catch/throw, and a DCG translator.
//
// The package deliberately excludes a lexer/parser, an arithmetic
// evaluator, and atom/list/IO builtin libraries — those are external
// collaborators that register predicates through the Registry (see
// registry.go) or hand the engine pre-built Term values directly.
package prolog

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Term is the algebraic term type of §3.1: every value the engine
// manipulates is one of Variable, Atom, Integer, Float, or Compound.
// Terms are immutable value objects; structural sharing is permitted.
type Term interface {
	// isTerm is unexported so Term cannot be implemented outside this
	// package — the resolver's type switches over the five variants are
	// exhaustive by construction.
	isTerm()

	// String renders the term for diagnostics and trace output. It does
	// not dereference through any substitution.
	String() string
}

// Variable is a logic variable. Identity is the monotonic id, never the
// cosmetic Name — two distinct Variable values are never Equal even if
// their Name happens to match.
type Variable struct {
	ID   int64
	Name string
}

func (*Variable) isTerm() {}

// String renders a variable as "_G<id>" or "_<Name>_<id>" when named.
func (v *Variable) String() string {
	if v.Name != "" {
		return fmt.Sprintf("_%s_%d", v.Name, v.ID)
	}
	return fmt.Sprintf("_G%d", v.ID)
}

// varCounter hands out the monotonic global variable ids required by
// §3.1. It is never reset, neither at engine construction nor between
// queries: ids keep increasing for the life of the process.
var varCounter int64

func nextVarID() int64 {
	varCounter++
	return varCounter
}

// NewVariable creates a fresh logic variable with a cosmetic debugging
// name (may be empty). Equality is by id, never by name (§3.1).
func NewVariable(name string) *Variable {
	return &Variable{ID: nextVarID(), Name: name}
}

// resetVarCounter sets the counter to the given value. Nothing in the
// package calls it; it is unexported because resetting while another
// engine or a live term graph holds higher ids would violate §8
// invariant 5 (mutual distinctness).
func resetVarCounter(to int64) {
	varCounter = to
}

// Atom is an interned symbolic constant. Two atoms with equal string
// values are always the same *Atom pointer (§3.1), so Atom identity can
// be compared with ==.
type Atom struct {
	Name string
}

func (*Atom) isTerm() {}

func (a *Atom) String() string {
	return a.Name
}

// Distinguished atoms named throughout §3.1 and used pervasively by the
// resolver and database.
var (
	AtomEmptyList = Intern("[]")
	AtomCut       = Intern("!")
	AtomDot       = Intern(".")
	AtomTrue      = Intern("true")
	AtomFalse     = Intern("false")
	AtomFail      = Intern("fail")
)

// Integer is an arbitrary-precision integer term (§3.1 prefers this over
// host-native width; *big.Int gives us it for free).
type Integer struct {
	Value *big.Int
}

func (*Integer) isTerm() {}

func (i *Integer) String() string {
	return i.Value.String()
}

// NewInt builds an Integer from a host int64.
func NewInt(v int64) *Integer {
	return &Integer{Value: big.NewInt(v)}
}

// Float is an IEEE-754 double term.
type Float struct {
	Value float64
}

func (*Float) isTerm() {}

func (f *Float) String() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

// NewFloat builds a Float term.
func NewFloat(v float64) *Float {
	return &Float{Value: v}
}

// Compound is a functor applied to one or more arguments. Arity is always
// >= 1 — a zero-arity "compound" is forbidden by §3.1; use Atom instead.
type Compound struct {
	Functor string
	Args    []Term
}

func (*Compound) isTerm() {}

func (c *Compound) String() string {
	if c.Functor == "." && len(c.Args) == 2 {
		return listString(c)
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Functor, strings.Join(parts, ","))
}

func listString(c *Compound) string {
	var b strings.Builder
	b.WriteByte('[')
	cur := Term(c)
	first := true
	for {
		cell, ok := cur.(*Compound)
		if !ok || cell.Functor != "." || len(cell.Args) != 2 {
			break
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(cell.Args[0].String())
		cur = cell.Args[1]
	}
	if at, ok := cur.(*Atom); !ok || at != AtomEmptyList {
		b.WriteByte('|')
		b.WriteString(cur.String())
	}
	b.WriteByte(']')
	return b.String()
}

// NewCompound builds a Compound term. With no args it returns the
// interned Atom for functor instead, since a zero-arity compound is not
// a valid term (§3.1).
func NewCompound(functor string, args ...Term) Term {
	if len(args) == 0 {
		return Intern(functor)
	}
	return &Compound{Functor: functor, Args: args}
}

// Cons builds a single list cell `.`(head, tail), i.e. `[head|tail]`.
func Cons(head, tail Term) Term {
	return &Compound{Functor: ".", Args: []Term{head, tail}}
}

// MakeList builds a proper list from the given elements, `[]`-terminated.
func MakeList(elems ...Term) Term {
	var list Term = AtomEmptyList
	for i := len(elems) - 1; i >= 0; i-- {
		list = Cons(elems[i], list)
	}
	return list
}

// Indicator returns the "<functor>/<arity>" string used throughout the
// database and registry (§3.4).
func Indicator(t Term) (string, bool) {
	switch v := t.(type) {
	case *Atom:
		return v.Name + "/0", true
	case *Compound:
		return fmt.Sprintf("%s/%d", v.Functor, len(v.Args)), true
	default:
		return "", false
	}
}

// --- derived predicates (§3.1) ---

// IsVariable reports whether t is a Variable.
func IsVariable(t Term) bool { _, ok := t.(*Variable); return ok }

// IsAtom reports whether t is an Atom.
func IsAtom(t Term) bool { _, ok := t.(*Atom); return ok }

// IsNumber reports whether t is an Integer or Float.
func IsNumber(t Term) bool {
	switch t.(type) {
	case *Integer, *Float:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is an Integer.
func IsInteger(t Term) bool { _, ok := t.(*Integer); return ok }

// IsFloat reports whether t is a Float.
func IsFloat(t Term) bool { _, ok := t.(*Float); return ok }

// IsCompound reports whether t is a Compound.
func IsCompound(t Term) bool { _, ok := t.(*Compound); return ok }

// IsAtomic reports whether t is atomic: an atom or a number.
func IsAtomic(t Term) bool {
	return IsAtom(t) || IsNumber(t)
}

// IsCallable reports whether t could be dispatched as a goal: an atom or
// a compound.
func IsCallable(t Term) bool {
	return IsAtom(t) || IsCompound(t)
}

// IsListCell reports whether t is a `.`/2 compound.
func IsListCell(t Term) bool {
	c, ok := t.(*Compound)
	return ok && c.Functor == "." && len(c.Args) == 2
}

// IsProperList walks the `.`/2 spine of t (without dereferencing — callers
// operating on live substitutions should deref each cdr first via
// Substitution.IsProperList) and reports whether it terminates in `[]`.
func IsProperList(t Term) bool {
	for {
		if a, ok := t.(*Atom); ok {
			return a == AtomEmptyList
		}
		c, ok := t.(*Compound)
		if !ok || c.Functor != "." || len(c.Args) != 2 {
			return false
		}
		t = c.Args[1]
	}
}

// IsGround reports whether t contains no variable, ignoring any
// substitution — use Substitution.IsGround to check groundness under a
// running binding environment.
func IsGround(t Term) bool {
	switch v := t.(type) {
	case *Variable:
		return false
	case *Compound:
		for _, a := range v.Args {
			if !IsGround(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// StructurallyEqual reports strict term equality: variables compare by
// id, atoms by interned identity, numbers by value and kind, compounds by
// functor/arity/arguments. It does not dereference through any
// substitution — use Substitution.Equal for that.
func StructurallyEqual(a, b Term) bool {
	switch av := a.(type) {
	case *Variable:
		bv, ok := b.(*Variable)
		return ok && av.ID == bv.ID
	case *Atom:
		bv, ok := b.(*Atom)
		return ok && av == bv
	case *Integer:
		bv, ok := b.(*Integer)
		return ok && av.Value.Cmp(bv.Value) == 0
	case *Float:
		bv, ok := b.(*Float)
		return ok && av.Value == bv.Value
	case *Compound:
		bv, ok := b.(*Compound)
		if !ok || av.Functor != bv.Functor || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !StructurallyEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
