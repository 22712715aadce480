package prolog

// This file implements the ISO control constructs of §4.3.5: disjunction
// and if-then-else, negation-as-failure, and the once/1 and ignore/1
// commit wrappers. Each either pushes goals directly (deterministic
// rewrites like conjunction) or pushes a control ChoicePoint carrying the
// alternative to try on backtrack, tagged IsControl so State.backtrack
// knows to re-push its Goal rather than hunt for clause alternatives.

// dispatchDisjunction handles `;`/2 (§4.3.5). A left side shaped
// `Cond -> Then` is the if-then-else form; otherwise this is plain
// left-or-right disjunction with the right branch as a control
// alternative.
func (s *State) dispatchDisjunction(g Goal, c *Compound) (bool, error) {
	left := s.subst.Deref(c.Args[0])
	if ite, ok := left.(*Compound); ok && ite.Functor == "->" && len(ite.Args) == 2 {
		return s.dispatchIfThenElse(g, ite.Args[0], ite.Args[1], c.Args[1])
	}

	s.choicePoints.Push(&ChoicePoint{
		Goal:           c.Args[1],
		IsControl:      true,
		CutBarrier:     g.cutBarrier,
		TrailMark:      s.trail.Mark(),
		GoalStackSnap:  s.goals.Snapshot(),
		RemovableByCut: true,
	})
	s.goals.PushTermWithBarrier(c.Args[0], g.cutBarrier)
	return true, nil
}

// dispatchIfThenElse implements `(Cond -> Then ; Else)` and the bare
// `Cond -> Then` (Else defaulting to fail) per §4.3.5: Cond is proved
// with its own opaque cut scope and at most once — the first solution
// commits, discarding both Cond's own choice points and the Else
// alternative, via a markerIfThenCommit pushed right after Cond.
func (s *State) dispatchIfThenElse(g Goal, cond, then, els Term) (bool, error) {
	elseBarrier := s.choicePoints.Len()
	s.choicePoints.Push(&ChoicePoint{
		Goal:          els,
		IsControl:     true,
		CutBarrier:    g.cutBarrier,
		TrailMark:     s.trail.Mark(),
		GoalStackSnap: s.goals.Snapshot(),
	})

	condBarrier := s.choicePoints.Len()
	s.goals.PushTermWithBarrier(then, g.cutBarrier)
	s.goals.Push(newCommitMarkerGoal(markerIfThenCommit, elseBarrier))
	s.goals.PushTermWithBarrier(cond, condBarrier)
	return true, nil
}

// dispatchNegation implements `\+/1` (§4.3.5): succeeds iff goal has no
// solution, restoring the trail and goal stack exactly as they were
// beforehand either way (negation-as-failure never binds anything).
func (s *State) dispatchNegation(g Goal, goal Term) (bool, error) {
	trailMark := s.trail.Mark()
	sub := s.subQuery(goal)
	ok, err := sub.NextSolution()
	s.trail.UndoTo(trailMark, s.subst)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// dispatchOnce implements once/1 (§4.3.5): proves goal with a fresh cut
// scope and commits to its first solution, pruning any choice points
// goal itself created.
func (s *State) dispatchOnce(g Goal, goal Term) (bool, error) {
	barrier := s.choicePoints.Len()
	s.goals.Push(newCommitMarkerGoal(markerOnceCommit, barrier))
	s.goals.PushTermWithBarrier(goal, barrier)
	return true, nil
}

// dispatchIgnore implements ignore/1 (§4.3.5): like once/1, but succeeds
// even if goal fails, leaving bindings undone in that case.
func (s *State) dispatchIgnore(g Goal, goal Term) (bool, error) {
	trailMark := s.trail.Mark()
	barrier := s.choicePoints.Len()
	s.choicePoints.Push(&ChoicePoint{
		Goal:          AtomTrue,
		IsControl:     true,
		CutBarrier:    g.cutBarrier,
		TrailMark:     trailMark,
		GoalStackSnap: s.goals.Snapshot(),
	})
	s.goals.Push(newCommitMarkerGoal(markerIgnoreCommit, barrier))
	s.goals.PushTermWithBarrier(goal, barrier)
	return true, nil
}

// subQuery builds a nested State sharing this resolver's database,
// registry, and unification mode but proving goal in total isolation
// from the parent's goal/choice-point stacks — the mechanism behind
// \+/1 and the inner goal of findall/bagof/setof (§4.3.5, §4.3.6). The
// substitution is shared so bindings already in force are visible to the
// sub-proof, but bindings the sub-proof makes are undone by the caller
// via the trail, never by discarding the sub-state.
func (s *State) subQuery(goal Term) *State {
	sub := &State{
		db:            s.db,
		registry:      s.registry,
		subst:         s.subst,
		trail:         s.trail,
		goals:         NewGoalStack(),
		choicePoints:  NewChoicePointStack(),
		occurCheck:    s.occurCheck,
		tracer:        s.tracer,
		traceEnabled:  s.traceEnabled,
		maxInferences: s.maxInferences,
	}
	sub.goals.PushGoals([]Term{goal}, 0)
	return sub
}
