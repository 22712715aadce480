package prolog

import "fmt"

// Clause is a pair of a head term and a (possibly empty) body goal
// sequence (§3.4). Facts have an empty Body. Clauses are immutable;
// retract removes the database's references to a clause, but any
// snapshot a caller already holds remains valid.
type Clause struct {
	Head Term
	Body []Term
}

// Indicator returns the "<functor>/<arity>" string for the clause's
// head, as required by §3.4.
func (c *Clause) Indicator() string {
	ind, ok := Indicator(c.Head)
	if !ok {
		return ""
	}
	return ind
}

// IsFact reports whether the clause has an empty body.
func (c *Clause) IsFact() bool {
	return len(c.Body) == 0
}

// String renders the clause in `Head :- G1, G2.` / `Head.` form for
// diagnostics.
func (c *Clause) String() string {
	if c.IsFact() {
		return fmt.Sprintf("%s.", c.Head.String())
	}
	body := ""
	for i, g := range c.Body {
		if i > 0 {
			body += ", "
		}
		body += g.String()
	}
	return fmt.Sprintf("%s :- %s.", c.Head.String(), body)
}

// NewClause builds a clause, flattening a conjunction-shaped body term
// (",'/2") into a goal sequence as §6.1 describes for rule parsing: "the
// body is flattened by walking `,`/2 into a goal sequence".
func NewClause(head Term, body Term) *Clause {
	if body == nil {
		return &Clause{Head: head}
	}
	return &Clause{Head: head, Body: flattenConjunction(body)}
}

func flattenConjunction(t Term) []Term {
	c, ok := t.(*Compound)
	if ok && c.Functor == "," && len(c.Args) == 2 {
		return append(flattenConjunction(c.Args[0]), flattenConjunction(c.Args[1])...)
	}
	if a, ok := t.(*Atom); ok && a == AtomTrue {
		return nil
	}
	return []Term{t}
}

// renameClause produces a copy of c with every variable in its head and
// body replaced by a fresh identity, preserving identity within the
// clause (§4.3.9). This is performed on every clause retrieval so the
// call site's variables can never unify with clause-scope variables by
// accident.
func renameClause(c *Clause) *Clause {
	mapping := make(map[int64]*Variable)
	return &Clause{
		Head: renameTerm(c.Head, mapping),
		Body: renameGoals(c.Body, mapping),
	}
}

func renameGoals(goals []Term, mapping map[int64]*Variable) []Term {
	if goals == nil {
		return nil
	}
	out := make([]Term, len(goals))
	for i, g := range goals {
		out[i] = renameTerm(g, mapping)
	}
	return out
}

func renameTerm(t Term, mapping map[int64]*Variable) Term {
	switch v := t.(type) {
	case *Variable:
		if nv, ok := mapping[v.ID]; ok {
			return nv
		}
		nv := NewVariable(v.Name)
		mapping[v.ID] = nv
		return nv
	case *Compound:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = renameTerm(a, mapping)
		}
		return &Compound{Functor: v.Functor, Args: args}
	default:
		return t
	}
}

// CopyTerm renames every variable reachable from t to a fresh id and
// returns the copy, without touching any live substitution — the
// resolver-level copy_term/2 operation of SPEC_FULL.md §C.2 shares this
// exact renaming machinery with clause retrieval.
func CopyTerm(t Term) Term {
	return renameTerm(t, make(map[int64]*Variable))
}
