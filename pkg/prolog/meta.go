package prolog

// findall/3, bagof/3 and setof/3 (§4.3.6): all-solutions meta-predicates
// built on top of subQuery, the same isolated-sub-proof mechanism \+/1
// uses. bagof/3 and setof/3 additionally group solutions by
// the bindings of "free" variables — those in Goal but not in Template
// and not existentially quantified away with `^/2` — backtracking over
// one answer per distinct witness rather than flattening everything
// into one bag the way findall/3 does.

// dispatchFindall implements findall/3: always succeeds, binding Bag to
// the (possibly empty) list of Template instances for every solution of
// Goal, with all of Goal's own bindings undone afterward.
func (s *State) dispatchFindall(template, goal, bagTerm Term) (bool, error) {
	mark := s.trail.Mark()
	sub := s.subQuery(goal)

	var results []Term
	for {
		ok, err := sub.NextSolution()
		if err != nil {
			s.trail.UndoTo(mark, s.subst)
			return false, err
		}
		if !ok {
			break
		}
		results = append(results, CopyTerm(s.subst.Apply(template)))
	}
	s.trail.UndoTo(mark, s.subst)

	return Unify(bagTerm, MakeList(results...), s.subst, s.trail, s.occurCheck), nil
}

// witnessGroup is one bagof/setof answer group: a frozen snapshot of the
// free variables' bindings for this group, plus every Template instance
// collected while Goal held those bindings.
type witnessGroup struct {
	witness Term
	items   []Term
}

// dispatchBagof implements bagof/3: fails outright with no solutions;
// otherwise commits to the first witness group (in standard order of
// terms, §4.6) now and leaves the rest as control choice points to
// retry on backtrack, each group's own items kept in first-encountered
// order.
func (s *State) dispatchBagof(g Goal, template, goal, bagTerm Term) (bool, error) {
	return s.dispatchGrouped(g, template, goal, bagTerm, false)
}

// dispatchSetof implements setof/3: like bagof/3 (witness groups visited
// in standard order), but each group's bag is sorted and duplicate-free.
func (s *State) dispatchSetof(g Goal, template, goal, bagTerm Term) (bool, error) {
	return s.dispatchGrouped(g, template, goal, bagTerm, true)
}

func (s *State) dispatchGrouped(g Goal, template, goalTerm, bagTerm Term, sorted bool) (bool, error) {
	freeVarsTerm, groups, err := s.collectWitnessGroups(template, goalTerm)
	if err != nil {
		return false, err
	}
	if len(groups) == 0 {
		return false, nil
	}

	// Witness groups are always visited in standard order of terms —
	// that is what keysort+group (the classic bagof/3 implementation)
	// produces — for both bagof/3 and setof/3; only the within-group
	// item order (sorted, deduplicated for setof/3; first-encountered
	// for bagof/3) differs between the two.
	sortGroupsByWitness(s, groups)
	if sorted {
		for _, grp := range groups {
			grp.items = sortAndDedupTerms(s, grp.items)
		}
	}

	for i := len(groups) - 1; i >= 1; i-- {
		grp := groups[i]
		synthetic := NewCompound("$bagof_commit", freeVarsTerm, grp.witness, bagTerm, MakeList(grp.items...))
		s.choicePoints.Push(&ChoicePoint{
			Goal:          synthetic,
			IsControl:     true,
			CutBarrier:    g.cutBarrier,
			TrailMark:     s.trail.Mark(),
			GoalStackSnap: s.goals.Snapshot(),
		})
	}

	first := groups[0]
	ok1 := Unify(freeVarsTerm, first.witness, s.subst, s.trail, s.occurCheck)
	ok2 := Unify(bagTerm, MakeList(first.items...), s.subst, s.trail, s.occurCheck)
	return ok1 && ok2, nil
}

// collectWitnessGroups strips leading `Var^Goal` existential
// quantifiers, runs the remaining goal to exhaustion in an isolated
// sub-query, and groups the collected Template instances by the
// bindings of every variable in Goal that is neither in Template nor
// quantified away.
func (s *State) collectWitnessGroups(template, goalTerm Term) (freeVarsTerm Term, groups []*witnessGroup, err error) {
	existVars := make(map[int64]bool)
	inner := s.subst.Deref(goalTerm)
	for {
		c, ok := inner.(*Compound)
		if !ok || c.Functor != "^" || len(c.Args) != 2 {
			break
		}
		collectVarIDs(s, c.Args[0], existVars)
		inner = s.subst.Deref(c.Args[1])
	}

	templateVars := make(map[int64]bool)
	collectVarIDs(s, template, templateVars)

	var freeVars []Term
	seen := make(map[int64]bool)
	collectFreeVars(s, inner, templateVars, existVars, seen, &freeVars)

	if len(freeVars) == 0 {
		freeVarsTerm = Intern("$free")
	} else {
		freeVarsTerm = &Compound{Functor: "$free", Args: freeVars}
	}

	mark := s.trail.Mark()
	sub := s.subQuery(inner)

	type rawSolution struct{ witness, item Term }
	var raws []rawSolution
	for {
		ok, serr := sub.NextSolution()
		if serr != nil {
			s.trail.UndoTo(mark, s.subst)
			return nil, nil, serr
		}
		if !ok {
			break
		}
		raws = append(raws, rawSolution{
			witness: CopyTerm(s.subst.Apply(freeVarsTerm)),
			item:    CopyTerm(s.subst.Apply(template)),
		})
	}
	s.trail.UndoTo(mark, s.subst)

	for _, r := range raws {
		placed := false
		for _, grp := range groups {
			if StructurallyEqual(grp.witness, r.witness) {
				grp.items = append(grp.items, r.item)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, &witnessGroup{witness: r.witness, items: []Term{r.item}})
		}
	}
	return freeVarsTerm, groups, nil
}

func collectVarIDs(s *State, t Term, into map[int64]bool) {
	d := s.subst.Deref(t)
	switch v := d.(type) {
	case *Variable:
		into[v.ID] = true
	case *Compound:
		for _, a := range v.Args {
			collectVarIDs(s, a, into)
		}
	}
}

func collectFreeVars(s *State, t Term, exclude, existVars map[int64]bool, seen map[int64]bool, out *[]Term) {
	d := s.subst.Deref(t)
	switch v := d.(type) {
	case *Variable:
		if !exclude[v.ID] && !existVars[v.ID] && !seen[v.ID] {
			seen[v.ID] = true
			*out = append(*out, v)
		}
	case *Compound:
		for _, a := range v.Args {
			collectFreeVars(s, a, exclude, existVars, seen, out)
		}
	}
}

func sortGroupsByWitness(s *State, groups []*witnessGroup) {
	for i := 1; i < len(groups); i++ {
		j := i
		for j > 0 && s.compareTerms(groups[j-1].witness, groups[j].witness) > 0 {
			groups[j-1], groups[j] = groups[j], groups[j-1]
			j--
		}
	}
}
