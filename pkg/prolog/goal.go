package prolog

// Goal wraps a Term representing a pending proof obligation (§3.6).
type Goal struct {
	Term Term

	// marker is non-nil for resolver-internal commit markers (§4.3.4):
	// sentinel goals recognised by identity before any builtin-registry
	// dispatch, never visible to user code or the clause database.
	marker *commitMarker

	// cutBarrier is the choice-point-stack depth a bare `!` popped as
	// this goal must cut back to. It is set once when a goal is pushed
	// (from a clause body, a control-construct decomposition inheriting
	// its parent's barrier, or a fresh opaque-call boundary for
	// call/1, \+/1, once/1, ignore/1, catch/3's Goal, and the inner
	// goal of findall/bagof/setof) and never changes afterward. This is
	// how §4.3.4's "goal_count comparison" barrier is threaded through
	// the goal stack without needing to read the live goal-stack depth
	// at cut time, which does not by itself identify the right barrier
	// once conjunctions have partially unwound.
	cutBarrier int
}

// GoalStack is the resolver's LIFO stack of pending goals. It is cheaply
// copyable via Snapshot (structural sharing of the backing slice is
// fine because Go slices never alias writes across independently grown
// copies once a Snapshot has taken a defensive copy) so choice points
// can each hold their own frozen view (§3.6).
type GoalStack struct {
	goals []Goal
}

// NewGoalStack creates an empty goal stack.
func NewGoalStack() *GoalStack {
	return &GoalStack{}
}

// Push adds a goal to the top of the stack.
func (s *GoalStack) Push(g Goal) {
	s.goals = append(s.goals, g)
}

// PushTerm is a convenience wrapper that pushes a plain Term goal with no
// cut barrier (only appropriate for goals that can never contain a bare
// `!`, such as markers and internally synthesised continuations that are
// never clause bodies).
func (s *GoalStack) PushTerm(t Term) {
	s.Push(Goal{Term: t})
}

// PushTermWithBarrier pushes a single goal tagged with the cut barrier
// that a bare `!` occurring in it must prune back to.
func (s *GoalStack) PushTermWithBarrier(t Term, barrier int) {
	s.Push(Goal{Term: t, cutBarrier: barrier})
}

// PushGoals pushes goal terms in reverse so the first element of goals
// is the next one popped (§4.3.5, conjunction semantics: "push right
// then left so that the left is popped first"), all sharing barrier as
// their cut scope.
func (s *GoalStack) PushGoals(goals []Term, barrier int) {
	for i := len(goals) - 1; i >= 0; i-- {
		s.PushTermWithBarrier(goals[i], barrier)
	}
}

// Pop removes and returns the top goal. ok is false if the stack is
// empty.
func (s *GoalStack) Pop() (Goal, bool) {
	n := len(s.goals)
	if n == 0 {
		return Goal{}, false
	}
	g := s.goals[n-1]
	s.goals = s.goals[:n-1]
	return g, true
}

// Empty reports whether the stack has no pending goals.
func (s *GoalStack) Empty() bool {
	return len(s.goals) == 0
}

// Len reports the number of pending goals.
func (s *GoalStack) Len() int {
	return len(s.goals)
}

// Snapshot returns an independent copy of the stack suitable for storing
// in a ChoicePoint — mutating the original after Snapshot never affects
// the copy or vice versa.
func (s *GoalStack) Snapshot() *GoalStack {
	cp := make([]Goal, len(s.goals))
	copy(cp, s.goals)
	return &GoalStack{goals: cp}
}

// RestoreFrom replaces this stack's contents with a copy of other's —
// used when backtracking restores a choice point's saved goal stack.
func (s *GoalStack) RestoreFrom(other *GoalStack) {
	s.goals = make([]Goal, len(other.goals))
	copy(s.goals, other.goals)
}

// commitMarkerKind distinguishes the four kinds of internal marker
// (§4.3.4): three commit markers (if-then, once, ignore) and the
// catch-cleanup marker.
type commitMarkerKind int

const (
	markerIfThenCommit commitMarkerKind = iota
	markerOnceCommit
	markerIgnoreCommit
	markerCatchCleanup
)

// commitMarker is a resolver-internal sentinel goal (§4.3.4, §9
// "Internal marker goals"). It is never a Prolog term a user can
// construct; the resolver recognises it by identity (via Goal.marker
// being non-nil) before consulting the builtin registry or the clause
// database.
type commitMarker struct {
	kind domainMarkerKind
	// choicePointCount is the snapshot the marker prunes back to.
	choicePointCount int
	// catchFrame identifies which catch choice point a markerCatchCleanup
	// should remove; unused by the other marker kinds.
	catchFrame *ChoicePoint
}

// domainMarkerKind avoids a naming collision with commitMarkerKind above
// while keeping both exported-looking concepts colocated for readers;
// it is the same enumeration.
type domainMarkerKind = commitMarkerKind

func newCommitMarkerGoal(kind commitMarkerKind, count int) Goal {
	return Goal{marker: &commitMarker{kind: kind, choicePointCount: count}}
}

func newCatchCleanupGoal(frame *ChoicePoint) Goal {
	return Goal{marker: &commitMarker{kind: markerCatchCleanup, catchFrame: frame}}
}

// CatchFrame records a catch/3 boundary (§3.6): the pattern a thrown
// term must unify with, and the recovery goal to run if it does.
type CatchFrame struct {
	Catcher  Term
	Recovery Term
}

// ChoicePoint is a saved decision in the search tree (§3.6). A clause
// choice point has clause alternatives; a control choice point has
// IsControl set, and a catch frame is a control choice point that also
// carries Catch.
type ChoicePoint struct {
	// Goal is the term that produced this choice point — for a clause
	// choice point, the call goal being resolved; for a control choice
	// point, the continuation goal to push on backtrack.
	Goal Term

	// RemainingAlternatives holds clauses not yet tried, for ordinary
	// clause-resolution choice points.
	RemainingAlternatives []*Clause

	TrailMark     int
	GoalStackSnap *GoalStack

	// GoalCount is, for an ordinary clause choice point, the
	// choice-point-stack depth at the call: the cut barrier every
	// alternative clause's own body goals are pushed with, since sibling
	// clauses of one call share one cut scope. CutTo does not read it; it
	// goes by each point's position in the stack.
	GoalCount int

	// CutBarrier is the barrier a control choice point's continuation
	// goal is re-pushed with on backtrack (disjunction/if-then-else/
	// repeat/catch alternatives are cut-transparent to their enclosing
	// clause, so this is normally equal to the barrier active when the
	// control construct itself was entered). Unused by clause choice
	// points, which use GoalCount instead.
	CutBarrier int

	IsControl      bool
	RemovableByCut bool
	Catch          *CatchFrame
}

// ChoicePointStack is the resolver's LIFO backtracking stack (§3.6).
type ChoicePointStack struct {
	points []*ChoicePoint
}

// NewChoicePointStack creates an empty choice-point stack.
func NewChoicePointStack() *ChoicePointStack {
	return &ChoicePointStack{}
}

// Push adds a choice point to the top of the stack.
func (s *ChoicePointStack) Push(cp *ChoicePoint) {
	s.points = append(s.points, cp)
}

// Pop removes and returns the top choice point. ok is false if empty.
func (s *ChoicePointStack) Pop() (*ChoicePoint, bool) {
	n := len(s.points)
	if n == 0 {
		return nil, false
	}
	cp := s.points[n-1]
	s.points = s.points[:n-1]
	return cp, true
}

// Len reports the number of choice points currently on the stack —
// this is the "goal_count"-comparable count a cut or commit marker
// snapshots and later prunes back to.
func (s *ChoicePointStack) Len() int {
	return len(s.points)
}

// CutTo removes every choice point above count, plus any choice point
// at or below count that is flagged RemovableByCut (§3.6, §4.3.4: a cut
// in the left branch of a disjunction also prunes that disjunction's
// own else-alternative choice point).
func (s *ChoicePointStack) CutTo(count int) {
	kept := s.points[:0]
	for i, cp := range s.points {
		if i >= count {
			continue // above the barrier: always pruned
		}
		if cp.RemovableByCut {
			continue // below the barrier but explicitly cut-removable
		}
		kept = append(kept, cp)
	}
	s.points = kept
}

// RemoveCatchFrame drops the given choice point from the stack outright
// (used by the catch-cleanup marker once the protected goal succeeds,
// §4.3.4), regardless of its position.
func (s *ChoicePointStack) RemoveCatchFrame(target *ChoicePoint) {
	kept := s.points[:0]
	for _, cp := range s.points {
		if cp == target {
			continue
		}
		kept = append(kept, cp)
	}
	s.points = kept
}
