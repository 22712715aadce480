package prolog

// catch/3 and throw/1 (§4.3.7). A catch frame is an ordinary choice
// point carrying a CatchFrame, so it naturally unwinds like any other
// choice point if its goal simply fails; throw/1 instead walks the
// choice-point stack looking for a frame whose Catcher unifies with the
// (copied) ball, discarding everything newer than the match, exactly as
// the trail/goal-stack restore on an ordinary backtrack already does.

// dispatchCatch implements catch/3: goal is proved under a fresh catch
// frame; if it throws a ball unifying with catcher before any outer
// catch intercepts it first, recovery runs in goal's place. A
// catch-cleanup marker removes the frame once goal succeeds, so a throw
// from code executed *after* the catch/3 call is not mistakenly caught
// by it on a later backtrack into that stale frame.
func (s *State) dispatchCatch(g Goal, goal, catcher, recovery Term) (bool, error) {
	frame := &CatchFrame{Catcher: catcher, Recovery: recovery}
	cp := &ChoicePoint{
		Goal:          AtomFail,
		IsControl:     true,
		CutBarrier:    g.cutBarrier,
		TrailMark:     s.trail.Mark(),
		GoalStackSnap: s.goals.Snapshot(),
		Catch:         frame,
	}
	s.choicePoints.Push(cp)

	barrier := s.choicePoints.Len()
	s.goals.Push(newCatchCleanupGoal(cp))
	s.goals.PushTermWithBarrier(goal, barrier)
	return true, nil
}

// dispatchThrow implements throw/1: the argument must be sufficiently
// instantiated (§4.3.7); the ball is copied so later bindings elsewhere
// cannot retroactively change what a catcher further up matches against.
func (s *State) dispatchThrow(ball Term) (bool, error) {
	applied := s.subst.Apply(ball)
	if !s.subst.IsGround(applied) {
		if IsVariable(s.subst.Deref(applied)) {
			return false, &thrownException{term: InstantiationError(nil)}
		}
	}
	return false, &thrownException{term: CopyTerm(applied)}
}

// handleThrow searches the choice-point stack for a catch frame whose
// Catcher unifies with term, discarding every choice point above it
// (including ones that themselves are catch frames whose Catcher does
// not match) along the way. It reports whether the exception was caught.
func (s *State) handleThrow(term Term) bool {
	for {
		cp, ok := s.choicePoints.Pop()
		if !ok {
			return false
		}

		s.trail.UndoTo(cp.TrailMark, s.subst)
		s.goals.RestoreFrom(cp.GoalStackSnap)

		if cp.Catch == nil {
			continue
		}

		mark := s.trail.Mark()
		if Unify(cp.Catch.Catcher, term, s.subst, s.trail, s.occurCheck) {
			barrier := s.choicePoints.Len()
			s.goals.PushTermWithBarrier(cp.Catch.Recovery, barrier)
			return true
		}
		s.trail.UndoTo(mark, s.subst)
	}
}
