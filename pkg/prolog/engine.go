package prolog

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Engine is the embeddable facade over a Database, Registry and the SLD
// resolver (§6.2): construct one with New, load clauses with Assert*,
// and run queries with Query/QueryOnce/QueryAll.
//
// Open Question decision (logical-update view, see DESIGN.md): a query
// already in progress sees assert/retract effects performed by its own
// continuation immediately, since Database.Retrieve always reads live
// buckets — this engine does not snapshot the database at query start.
// Embedders that need ISO's logical-update-view isolation per call
// should clone clauses defensively before mutating the database from
// within a running query.
type Engine struct {
	db       *Database
	registry *Registry

	occurCheck    bool
	maxInferences int
	logger        hclog.Logger
	traceCallback TraceCallback
}

// Option configures an Engine at construction (§6.2).
type Option func(*Engine)

// WithLogger attaches a structured logger (SPEC_FULL.md §A.1); nil (the
// default) disables logging entirely.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithOccurCheck makes every unification performed by the resolver's
// '='/2 use the occurs-check, matching unify_with_occurs_check/2's
// default rather than '='/2's ISO default of no occurs-check. Most
// callers should leave this off.
func WithOccurCheck(enabled bool) Option {
	return func(e *Engine) { e.occurCheck = enabled }
}

// WithMaxInferences bounds the number of goals a single query may
// dispatch before it errors out, guarding an embedder against a runaway
// or accidentally non-terminating program. Zero (the default) is
// unbounded.
func WithMaxInferences(n int) Option {
	return func(e *Engine) { e.maxInferences = n }
}

// WithTrace installs a trace-port callback (§6.4) applied to every query
// this engine subsequently runs.
func WithTrace(cb TraceCallback) Option {
	return func(e *Engine) { e.traceCallback = cb }
}

// New creates an Engine with an empty database and the standard bootstrap
// library (member/2, append/3, reverse/2) already loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		db:       NewDatabase(),
		registry: NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	BootstrapLibrary(e.db)
	return e
}

// Database exposes the engine's clause store directly, for embedders
// that want lower-level access than Assert*/Retract* provide.
func (e *Engine) Database() *Database { return e.db }

// Registry exposes the engine's foreign-predicate registry.
func (e *Engine) Registry() *Registry { return e.registry }

// RegisterForeign installs fn as a foreign predicate callable under
// indicator ("name/arity").
func (e *Engine) RegisterForeign(indicator string, fn Builtin) {
	e.registry.Register(indicator, fn)
}

// AssertClause asserts term as a clause, appending it (assertz
// semantics). A `Head --> Body` term is DCG-translated first; a `:-`/2
// term is split into head and body; anything else is asserted as a fact.
func (e *Engine) AssertClause(term Term) error {
	return e.assertOne(term, false)
}

// AssertClauseFirst asserts term with asserta semantics (prepended).
func (e *Engine) AssertClauseFirst(term Term) error {
	return e.assertOne(term, true)
}

func (e *Engine) assertOne(term Term, front bool) error {
	var clause *Clause
	switch c := term.(type) {
	case *Compound:
		switch {
		case c.Functor == "-->" && len(c.Args) == 2:
			clause = TranslateDCGRule(c.Args[0], c.Args[1])
		case c.Functor == ":-" && len(c.Args) == 2:
			clause = NewClause(c.Args[0], c.Args[1])
		default:
			clause = NewClause(term, nil)
		}
	default:
		clause = NewClause(term, nil)
	}

	if !IsCallable(clause.Head) {
		return fmt.Errorf("cannot assert non-callable head %s", clause.Head.String())
	}
	if front {
		e.db.AssertA(clause)
	} else {
		e.db.AssertZ(clause)
	}
	if e.logger != nil {
		e.logger.Debug("asserted clause", "indicator", clause.Indicator())
	}
	return nil
}

// AssertClauses loads many clauses at once via Database.AssertBulk,
// accumulating per-clause errors rather than stopping at the first.
func (e *Engine) AssertClauses(terms []Term) error {
	clauses := make([]*Clause, len(terms))
	for i, t := range terms {
		clauses[i] = NewClause(t, nil)
	}
	return e.db.AssertBulk(clauses)
}

// Retract removes the first clause whose head unifies with headPattern.
func (e *Engine) Retract(headPattern Term) bool {
	return e.db.Retract(headPattern)
}

// RetractAll removes every clause whose head unifies with headPattern.
func (e *Engine) RetractAll(headPattern Term) int {
	return e.db.RetractAll(headPattern)
}

// Clear removes every clause from the database.
func (e *Engine) Clear() {
	e.db.Clear()
}

// Query runs goal and returns a lazily-pulled AnswerStream over its
// solutions (§6.2). vars names the query's variables to report in each
// Solution; pass nil to auto-detect every named Variable reachable from
// goal.
func (e *Engine) Query(ctx context.Context, goal Term, vars ...*Variable) *AnswerStream {
	state := e.newState(goal)
	named := e.namedVars(goal, vars)
	return newAnswerStream(ctx, state, named)
}

// QueryOnce runs goal and returns its first solution only, equivalent to
// wrapping goal in once/1.
func (e *Engine) QueryOnce(ctx context.Context, goal Term, vars ...*Variable) (Solution, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	state := e.newState(goal)
	named := e.namedVars(goal, vars)
	ok, err := state.NextSolution()
	if err != nil || !ok {
		return nil, false, err
	}
	sol := make(Solution, len(named))
	for name, v := range named {
		sol[name] = state.subst.Apply(v)
	}
	return sol, true, nil
}

// QueryAll runs goal to exhaustion and collects every solution,
// equivalent to findall/3 over goal's named variables as the template.
func (e *Engine) QueryAll(ctx context.Context, goal Term, vars ...*Variable) ([]Solution, error) {
	as := e.Query(ctx, goal, vars...)
	defer as.Close()

	var out []Solution
	for {
		sol, ok, err := as.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, sol)
	}
}

func (e *Engine) newState(goal Term) *State {
	state := NewState(goal, e.db, e.registry, e.occurCheck, e.maxInferences)
	if e.traceCallback != nil || e.logger != nil {
		state.tracer = NewTracer(e.logger, e.traceCallback)
	}
	return state
}

func (e *Engine) namedVars(goal Term, explicit []*Variable) map[string]Term {
	if len(explicit) > 0 {
		out := make(map[string]Term, len(explicit))
		for _, v := range explicit {
			out[v.Name] = v
		}
		return out
	}
	out := make(map[string]Term)
	collectNamedVars(goal, out)
	return out
}

func collectNamedVars(t Term, into map[string]Term) {
	switch v := t.(type) {
	case *Variable:
		if v.Name != "" {
			if _, exists := into[v.Name]; !exists {
				into[v.Name] = v
			}
		}
	case *Compound:
		for _, a := range v.Args {
			collectNamedVars(a, into)
		}
	}
}
