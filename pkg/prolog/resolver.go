package prolog

import (
	"fmt"
)

// thrownException wraps a Prolog term thrown by throw/1 (§4.3.7) so it
// can travel up through ordinary Go error returns until catch/3 or the
// top-level query loop intercepts it.
type thrownException struct {
	term Term
}

func (e *thrownException) Error() string {
	return fmt.Sprintf("uncaught exception: %s", e.term.String())
}

// Unwrap exposes the thrown term as an *ErrorTerm, so an embedder can
// recover it from an uncaught exception with errors.As.
func (e *thrownException) Unwrap() error {
	return &ErrorTerm{Term: e.term}
}

// State is one resolver's complete proof state (§3.6, §4.3.1): the
// running substitution and its undo trail, the pending-goal stack, the
// backtracking choice-point stack, and the collaborators a query needs
// (clause database, foreign-predicate registry, unification mode, an
// optional trace port, and an optional inference budget).
type State struct {
	db       *Database
	registry *Registry

	subst        *Substitution
	trail        *Trail
	goals        *GoalStack
	choicePoints *ChoicePointStack

	occurCheck bool
	tracer     *Tracer

	// traceEnabled gates whether tracer port crossings are actually
	// emitted (§4.3.2's trace_state): true from construction whenever a
	// Tracer is attached, and flipped in-query by the trace/0 and
	// notrace/0 goals (§6.4). With no Tracer attached this flag has no
	// observable effect.
	traceEnabled bool

	// maxInferences bounds total goal dispatches to guard an embedder
	// against a runaway query; zero means unbounded.
	maxInferences int
	inferences    int

	// solutionPending is set once NextSolution reports a success, so the
	// following call knows to backtrack before resuming the search
	// instead of re-reporting the same bindings.
	solutionPending bool
}

// NewState creates a resolver state proving goal against db, with fresh
// substitution/trail/goal-stack/choice-point-stack.
func NewState(goal Term, db *Database, registry *Registry, occurCheck bool, maxInferences int) *State {
	s := &State{
		db:            db,
		registry:      registry,
		subst:         NewSubstitution(),
		trail:         NewTrail(),
		goals:         NewGoalStack(),
		choicePoints:  NewChoicePointStack(),
		occurCheck:    occurCheck,
		maxInferences: maxInferences,
		traceEnabled:  true,
	}
	s.goals.PushGoals([]Term{goal}, 0)
	return s
}

// Substitution exposes the resolver's live binding environment, e.g. so
// an engine facade can render a solution with Subst.Apply.
func (s *State) Substitution() *Substitution { return s.subst }

// NextSolution drives the resolver forward to the next answer (§4.3.2,
// §4.3.3). It returns (true, nil) with s.Substitution() holding the
// bindings of a solution, (false, nil) when the search is exhausted, or
// (false, err) when an exception escaped uncaught or the inference
// budget was exceeded.
func (s *State) NextSolution() (bool, error) {
	if s.solutionPending {
		s.solutionPending = false
		if !s.backtrack() {
			return false, nil
		}
	}

	for {
		if s.goals.Empty() {
			s.solutionPending = true
			return true, nil
		}

		if s.maxInferences > 0 {
			s.inferences++
			if s.inferences > s.maxInferences {
				return false, fmt.Errorf("inference limit exceeded (%d)", s.maxInferences)
			}
		}

		g, _ := s.goals.Pop()
		if s.tracer != nil && s.traceEnabled && g.marker == nil {
			s.tracer.Call(g.Term, s.choicePoints.Len())
		}

		ok, err := s.dispatch(g)
		if err != nil {
			var ball Term
			switch e := err.(type) {
			case *thrownException:
				ball = e.term
			case *ErrorTerm:
				ball = e.Term
			}
			if ball != nil && s.handleThrow(ball) {
				continue
			}
			return false, err
		}
		if !ok {
			if s.tracer != nil && s.traceEnabled && g.marker == nil {
				s.tracer.Fail(g.Term, s.choicePoints.Len())
			}
			if !s.backtrack() {
				return false, nil
			}
			continue
		}
		if s.tracer != nil && s.traceEnabled && g.marker == nil {
			s.tracer.Exit(g.Term, s.choicePoints.Len())
		}
		if s.tracer != nil && s.tracer.Aborted() {
			return false, fmt.Errorf("query aborted by trace callback")
		}
	}
}

// backtrack pops choice points until one yields a retried alternative,
// restoring the trail and goal stack to exactly the state they had when
// that choice point was created (§4.3.3, §8 invariant 2).
func (s *State) backtrack() bool {
	for {
		cp, ok := s.choicePoints.Pop()
		if !ok {
			return false
		}

		if s.tracer != nil && s.traceEnabled {
			s.tracer.Redo(cp.Goal, s.choicePoints.Len())
		}

		s.trail.UndoTo(cp.TrailMark, s.subst)
		s.goals.RestoreFrom(cp.GoalStackSnap)

		if cp.IsControl {
			s.goals.PushTermWithBarrier(cp.Goal, cp.CutBarrier)
			return true
		}

		for len(cp.RemainingAlternatives) > 0 {
			clause := cp.RemainingAlternatives[0]
			cp.RemainingAlternatives = cp.RemainingAlternatives[1:]

			renamed := renameClause(clause)
			if Unify(cp.Goal, renamed.Head, s.subst, s.trail, s.occurCheck) {
				if len(cp.RemainingAlternatives) > 0 {
					s.choicePoints.Push(cp)
				}
				s.goals.PushGoals(renamed.Body, cp.GoalCount)
				return true
			}
			s.trail.UndoTo(cp.TrailMark, s.subst)
		}
		// Exhausted this choice point's alternatives; keep unwinding.
	}
}

// dispatch resolves exactly one popped goal (§4.3.2 step 2 onward). The
// dispatch order follows §4.3.2: internal commit markers first (they are
// never visible Prolog terms), then cut, unification, control
// constructs, meta-predicates, catch/throw, phrase/2,3, the remaining
// built-ins handled inline (term inspection, sorting, comparison,
// database updates), the foreign-predicate registry, and finally
// ordinary clause resolution.
func (s *State) dispatch(g Goal) (bool, error) {
	if g.marker != nil {
		return s.dispatchMarker(g.marker)
	}

	t := s.subst.Deref(g.Term)

	if v, isVar := t.(*Variable); isVar {
		return false, &thrownException{term: InstantiationError(v)}
	}

	if a, isAtom := t.(*Atom); isAtom {
		switch a {
		case AtomCut:
			s.choicePoints.CutTo(g.cutBarrier)
			return true, nil
		case AtomTrue:
			return true, nil
		case AtomFail, AtomFalse:
			return false, nil
		}
		if a.Name == "!" {
			s.choicePoints.CutTo(g.cutBarrier)
			return true, nil
		}
		if a.Name == "repeat" {
			s.pushRepeatChoicePoint(g)
			return true, nil
		}
		if a.Name == "trace" {
			s.traceEnabled = true
			return true, nil
		}
		if a.Name == "notrace" {
			s.traceEnabled = false
			return true, nil
		}
		if fn, ok := s.registry.Lookup(a.Name + "/0"); ok {
			return fn(nil, s.subst, s.trail)
		}
		return s.resolveAgainstDatabase(g, a.Name, nil)
	}

	c, isCompound := t.(*Compound)
	if !isCompound {
		return false, &thrownException{term: TypeError("callable", t, nil)}
	}

	switch c.Functor + "/" + itoa(len(c.Args)) {
	case "=/2":
		ok := Unify(c.Args[0], c.Args[1], s.subst, s.trail, s.occurCheck)
		return ok, nil
	case "\\=/2":
		mark := s.trail.Mark()
		ok := Unify(c.Args[0], c.Args[1], s.subst, s.trail, s.occurCheck)
		s.trail.UndoTo(mark, s.subst)
		return !ok, nil
	case "unify_with_occurs_check/2":
		ok := Unify(c.Args[0], c.Args[1], s.subst, s.trail, true)
		return ok, nil
	case "==/2":
		return s.subst.Equal(c.Args[0], c.Args[1]), nil
	case "\\==/2":
		return !s.subst.Equal(c.Args[0], c.Args[1]), nil
	case ",/2":
		s.goals.PushGoals([]Term{c.Args[0], c.Args[1]}, g.cutBarrier)
		return true, nil
	case ";/2":
		return s.dispatchDisjunction(g, c)
	case "->/2":
		return s.dispatchIfThenElse(g, c.Args[0], c.Args[1], AtomFail)
	case "\\+/1":
		return s.dispatchNegation(g, c.Args[0])
	case "not/1":
		return s.dispatchNegation(g, c.Args[0])
	case "call/1":
		s.goals.PushTermWithBarrier(c.Args[0], s.choicePoints.Len())
		return true, nil
	case "once/1":
		return s.dispatchOnce(g, c.Args[0])
	case "ignore/1":
		return s.dispatchIgnore(g, c.Args[0])
	case "findall/3":
		return s.dispatchFindall(c.Args[0], c.Args[1], c.Args[2])
	case "bagof/3":
		return s.dispatchBagof(g, c.Args[0], c.Args[1], c.Args[2])
	case "setof/3":
		return s.dispatchSetof(g, c.Args[0], c.Args[1], c.Args[2])
	case "$bagof_commit/4":
		ok1 := Unify(c.Args[0], c.Args[1], s.subst, s.trail, s.occurCheck)
		ok2 := Unify(c.Args[2], c.Args[3], s.subst, s.trail, s.occurCheck)
		return ok1 && ok2, nil
	case "copy_term/2":
		return Unify(c.Args[1], s.subst.Apply(CopyTerm(s.subst.Apply(c.Args[0]))), s.subst, s.trail, s.occurCheck), nil
	case "catch/3":
		return s.dispatchCatch(g, c.Args[0], c.Args[1], c.Args[2])
	case "throw/1":
		return s.dispatchThrow(c.Args[0])
	case "phrase/2":
		return s.dispatchPhrase(g, c.Args[0], c.Args[1], AtomEmptyList)
	case "phrase/3":
		return s.dispatchPhrase(g, c.Args[0], c.Args[1], c.Args[2])
	case "functor/3":
		return s.dispatchFunctor(c.Args[0], c.Args[1], c.Args[2])
	case "arg/3":
		return s.dispatchArg(c.Args[0], c.Args[1], c.Args[2])
	case "=../2":
		return s.dispatchUniv(c.Args[0], c.Args[1])
	case "sort/2":
		return s.dispatchSort(c.Args[0], c.Args[1], true)
	case "msort/2":
		return s.dispatchSort(c.Args[0], c.Args[1], false)
	case "compare/3":
		return s.dispatchCompare(c.Args[0], c.Args[1], c.Args[2])
	case "@</2", "@>/2", "@=</2", "@>=/2":
		return s.dispatchOrderOp(c.Functor, c.Args[0], c.Args[1])
	case "assert/1", "assertz/1":
		return s.dispatchAssert(c.Args[0], false)
	case "asserta/1":
		return s.dispatchAssert(c.Args[0], true)
	case "retract/1":
		return s.db.Retract(s.subst.Apply(c.Args[0])), nil
	case "retractall/1":
		s.db.RetractAll(s.subst.Apply(c.Args[0]))
		return true, nil
	case "dynamic/1":
		return s.dispatchDynamicDecl(c.Args[0])
	case "abolish/1":
		return s.dispatchAbolish(c.Args[0])
	}

	if fn, ok := s.registry.Lookup(c.Functor + "/" + itoa(len(c.Args))); ok {
		args := make([]Term, len(c.Args))
		for i, a := range c.Args {
			args[i] = s.subst.Apply(a)
		}
		return fn(args, s.subst, s.trail)
	}

	return s.resolveAgainstDatabase(g, c.Functor, c.Args)
}

// resolveAgainstDatabase implements §4.3.2 step 5 and §4.2's first-
// argument indexing: look up candidate clauses, push a choice point for
// the ones not yet tried, and commit to the first alternative that
// unifies. A predicate with no candidate clauses (including one that was
// never defined) simply fails.
func (s *State) resolveAgainstDatabase(g Goal, functor string, args []Term) (bool, error) {
	var callTerm Term = Intern(functor)
	if args != nil {
		callTerm = &Compound{Functor: functor, Args: args}
	}
	callTerm = s.subst.Apply(callTerm)

	clauses := s.db.Retrieve(callTerm)

	barrier := s.choicePoints.Len()
	trailMark := s.trail.Mark()

	for len(clauses) > 0 {
		clause := clauses[0]
		clauses = clauses[1:]

		renamed := renameClause(clause)
		if Unify(callTerm, renamed.Head, s.subst, s.trail, s.occurCheck) {
			if len(clauses) > 0 {
				s.choicePoints.Push(&ChoicePoint{
					Goal:                  callTerm,
					RemainingAlternatives: clauses,
					TrailMark:             trailMark,
					GoalStackSnap:         s.goals.Snapshot(),
					GoalCount:             barrier,
				})
			}
			s.goals.PushGoals(renamed.Body, barrier)
			return true, nil
		}
		s.trail.UndoTo(trailMark, s.subst)
	}

	return false, nil
}

// pushRepeatChoicePoint implements repeat/0: an infinitely retriable
// control choice point whose continuation is simply "repeat" again.
func (s *State) pushRepeatChoicePoint(g Goal) {
	s.choicePoints.Push(&ChoicePoint{
		Goal:          Intern("repeat"),
		IsControl:     true,
		CutBarrier:    g.cutBarrier,
		TrailMark:     s.trail.Mark(),
		GoalStackSnap: s.goals.Snapshot(),
	})
}

// dispatchMarker executes one of the §4.3.4 resolver-internal commit
// markers. Markers always "succeed" as goals — their only effect is
// pruning choice points (and, for catch-cleanup, removing a specific
// catch frame) before control returns to the goal that follows them.
func (s *State) dispatchMarker(m *commitMarker) (bool, error) {
	switch m.kind {
	case markerIfThenCommit, markerOnceCommit, markerIgnoreCommit:
		// Drop every choice point pushed since the snapshot; older ones,
		// whether cut-removable or not, are left in place.
		if m.choicePointCount < s.choicePoints.Len() {
			s.choicePoints.points = s.choicePoints.points[:m.choicePointCount]
		}
		return true, nil
	case markerCatchCleanup:
		s.choicePoints.RemoveCatchFrame(m.catchFrame)
		return true, nil
	}
	return true, nil
}

// dispatchAssert implements assert/1, assertz/1 and asserta/1
// (SPEC_FULL.md §C.5). A `Head --> Body` term is first translated by the
// DCG translator (§4.4) into an ordinary clause, matching how an
// embedder's clause loader treats DCG rules found in a source file
// (§4.2's "assert_term intercepts --> before ordinary clause parsing").
func (s *State) dispatchAssert(t Term, front bool) (bool, error) {
	applied := s.subst.Apply(t)

	var clause *Clause
	if c, ok := applied.(*Compound); ok && c.Functor == "-->" && len(c.Args) == 2 {
		clause = TranslateDCGRule(c.Args[0], c.Args[1])
	} else if c, ok := applied.(*Compound); ok && c.Functor == ":-" && len(c.Args) == 2 {
		clause = NewClause(c.Args[0], c.Args[1])
	} else {
		clause = NewClause(applied, nil)
	}

	if !IsCallable(clause.Head) {
		return false, &thrownException{term: TypeError("callable", clause.Head, nil)}
	}

	if front {
		s.db.AssertA(clause)
	} else {
		s.db.AssertZ(clause)
	}
	return true, nil
}

// dispatchDynamicDecl implements dynamic/1 (SPEC_FULL.md §C.5), which
// accepts a single Name/Arity indicator, a `,`-conjunction of them, or a
// list of them.
func (s *State) dispatchDynamicDecl(t Term) (bool, error) {
	for _, pi := range flattenIndicatorSpec(s, t) {
		ind, ok := piToIndicator(pi)
		if !ok {
			return false, &thrownException{term: TypeError("predicate_indicator", pi, nil)}
		}
		s.db.Dynamic(ind)
	}
	return true, nil
}

// dispatchAbolish implements abolish/1, taking a single Name/Arity
// indicator (ISO restricts abolish/1 to exactly one, unlike dynamic/1).
func (s *State) dispatchAbolish(t Term) (bool, error) {
	ind, ok := piToIndicator(s.subst.Deref(t))
	if !ok {
		return false, &thrownException{term: TypeError("predicate_indicator", s.subst.Apply(t), nil)}
	}
	s.db.Abolish(ind)
	return true, nil
}

func flattenIndicatorSpec(s *State, t Term) []Term {
	d := s.subst.Deref(t)
	if c, ok := d.(*Compound); ok && c.Functor == "," && len(c.Args) == 2 {
		return append(flattenIndicatorSpec(s, c.Args[0]), flattenIndicatorSpec(s, c.Args[1])...)
	}
	if elems, ok := s.subst.ListSlice(d); ok {
		out := make([]Term, len(elems))
		for i, e := range elems {
			out[i] = s.subst.Deref(e)
		}
		return out
	}
	return []Term{d}
}

func piToIndicator(t Term) (string, bool) {
	c, ok := t.(*Compound)
	if !ok || c.Functor != "/" || len(c.Args) != 2 {
		return "", false
	}
	name, ok := c.Args[0].(*Atom)
	if !ok {
		return "", false
	}
	arity, ok := c.Args[1].(*Integer)
	if !ok {
		return "", false
	}
	return name.Name + "/" + itoa(int(arity.Value.Int64())), true
}

func indicatorTerm(indicator string) Term {
	name, arity := splitIndicator(indicator)
	return NewCompound("/", Intern(name), NewInt(int64(arity)))
}

func splitIndicator(indicator string) (string, int) {
	for i := len(indicator) - 1; i >= 0; i-- {
		if indicator[i] == '/' {
			var arity int
			fmt.Sscanf(indicator[i+1:], "%d", &arity)
			return indicator[:i], arity
		}
	}
	return indicator, 0
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
