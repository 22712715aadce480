package prolog

// Definite Clause Grammar translation (§4.4): a `Head --> Body` rule is
// rewritten into an ordinary clause over two extra "difference list"
// arguments threaded through Body's goals, S0 (what's left to consume on
// entry) and S (what's left on exit). Terminal lists splice themselves
// onto the difference list directly; `{Goal}` escapes run Goal with no
// list threading; a disjunction passes the same S0 and S to both of its
// branches, while a conjunction threads S0 through its left side into an
// intermediate list that its right side continues from to S.

// TranslateDCGRule rewrites a `-->`/2 term into an ordinary clause, per
// §4.4. head may itself carry pushback (`Head, PushbackList --> Body`),
// in which case the pushback list is appended back onto the remainder
// list on exit.
func TranslateDCGRule(head, body Term) *Clause {
	s0 := NewVariable("S0")
	s := NewVariable("S")

	realHead, pushback := splitPushback(head)
	headArgs := append(compoundArgs(realHead), s0, s)
	newHead := &Compound{Functor: functorOf(realHead), Args: headArgs}

	var goals []Term
	if pushback != nil {
		mid := NewVariable("S1")
		goals = dcgTranslateBody(body, s0, mid)
		goals = append(goals, NewCompound("=", s, appendListTerm(pushback, mid)))
	} else {
		goals = dcgTranslateBody(body, s0, s)
	}

	return &Clause{Head: newHead, Body: goals}
}

func splitPushback(head Term) (Term, Term) {
	if c, ok := head.(*Compound); ok && c.Functor == "," && len(c.Args) == 2 {
		return c.Args[0], c.Args[1]
	}
	return head, nil
}

func functorOf(t Term) string {
	switch v := t.(type) {
	case *Atom:
		return v.Name
	case *Compound:
		return v.Functor
	}
	return ""
}

func compoundArgs(t Term) []Term {
	if c, ok := t.(*Compound); ok {
		out := make([]Term, len(c.Args))
		copy(out, c.Args)
		return out
	}
	return nil
}

// dcgTranslateBody translates one DCG body term, threading s0 (input
// list) to s (output list), and returns the goal sequence it expands to.
func dcgTranslateBody(body Term, s0, s Term) []Term {
	switch v := body.(type) {
	case *Compound:
		switch {
		case v.Functor == "," && len(v.Args) == 2:
			mid := NewVariable("S")
			left := dcgTranslateBody(v.Args[0], s0, mid)
			right := dcgTranslateBody(v.Args[1], mid, s)
			return append(left, right...)
		case v.Functor == ";" && len(v.Args) == 2:
			left := flattenToGoal(dcgTranslateBody(v.Args[0], s0, s))
			right := flattenToGoal(dcgTranslateBody(v.Args[1], s0, s))
			return []Term{NewCompound(";", left, right)}
		case v.Functor == "->" && len(v.Args) == 2:
			mid := NewVariable("S")
			cond := flattenToGoal(dcgTranslateBody(v.Args[0], s0, mid))
			then := flattenToGoal(dcgTranslateBody(v.Args[1], mid, s))
			return []Term{NewCompound("->", cond, then)}
		case v.Functor == "{}" && len(v.Args) == 1:
			return append(flattenConjunction(v.Args[0]), NewCompound("=", s, s0))
		case v.Functor == "\\+" && len(v.Args) == 1:
			mid := NewVariable("_")
			inner := flattenToGoal(dcgTranslateBody(v.Args[0], s0, mid))
			return []Term{NewCompound("\\+", inner), NewCompound("=", s, s0)}
		case v.Functor == "." && len(v.Args) == 2:
			// Terminal list: splice it directly onto the difference list.
			return []Term{NewCompound("=", s0, appendListTerm(v, s))}
		case v.Functor == "call":
			args := append(append([]Term{}, v.Args...), s0, s)
			return []Term{&Compound{Functor: "call", Args: args}}
		default:
			args := append(compoundArgs(v), s0, s)
			return []Term{&Compound{Functor: v.Functor, Args: args}}
		}
	case *Atom:
		if v == AtomEmptyList {
			return []Term{NewCompound("=", s0, s)}
		}
		if v.Name == "!" {
			return []Term{AtomCut, NewCompound("=", s, s0)}
		}
		return []Term{NewCompound(v.Name, s0, s)}
	case *Variable:
		return []Term{NewCompound("phrase", v, s0, s)}
	}
	return []Term{NewCompound("=", s0, s)}
}

func flattenToGoal(goals []Term) Term {
	if len(goals) == 0 {
		return AtomTrue
	}
	g := goals[len(goals)-1]
	for i := len(goals) - 2; i >= 0; i-- {
		g = NewCompound(",", goals[i], g)
	}
	return g
}

// appendListTerm builds the term representing list ++ tail, where list
// is a terminal (proper-list) term appearing literally in a DCG body.
func appendListTerm(list, tail Term) Term {
	c, ok := list.(*Compound)
	if !ok || c.Functor != "." || len(c.Args) != 2 {
		if a, isAtom := list.(*Atom); isAtom && a == AtomEmptyList {
			return tail
		}
		return tail
	}
	return Cons(c.Args[0], appendListTerm(c.Args[1], tail))
}

// dispatchPhrase implements phrase/2 and phrase/3 (§4.4): runs body,
// translated with the same rules a `-->` rule's right-hand side uses, as
// a goal consuming list and leaving rest.
func (s *State) dispatchPhrase(g Goal, body, list, rest Term) (bool, error) {
	goals := dcgTranslateBody(s.subst.Deref(body), list, rest)
	barrier := s.choicePoints.Len()
	s.goals.PushGoals(goals, barrier)
	return true, nil
}
