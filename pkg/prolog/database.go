package prolog

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// clauseSlot holds one stored clause plus a tombstone flag so retract
// can remove a reference without perturbing the insertion-order indices
// other buckets hold into the same indicator's slot list — the same
// tombstone trick pldb.go uses for O(1)-ID-stable removal, adapted here
// from ground facts to head/body clauses.
type clauseSlot struct {
	clause  *Clause
	deleted bool
}

// indicatorBucket stores every clause for one functor/arity, plus the
// first-argument index of §3.5: a bucket of slot indices per first-arg
// key, and a separate bucket for clauses whose head has a variable (or
// no) first argument.
type indicatorBucket struct {
	slots    []*clauseSlot
	byKey    map[string][]int // first-arg key -> slot indices, insertion order
	varSlots []int            // slot indices with unbound/no first argument
	dynamic  bool             // declared via dynamic/1 (SPEC_FULL.md C.5)
}

func newIndicatorBucket() *indicatorBucket {
	return &indicatorBucket{byKey: make(map[string][]int)}
}

// rebuildIndex recomputes byKey/varSlots from scratch, dropping
// tombstoned slots. Used after asserta (which must prepend, shifting
// every existing index) and after retract/retractall (which must drop
// entries) — operations the spec does not require to be O(1), unlike
// assertz.
func (b *indicatorBucket) rebuildIndex() {
	b.byKey = make(map[string][]int)
	b.varSlots = b.varSlots[:0]
	for i, slot := range b.slots {
		if slot.deleted {
			continue
		}
		key, hasFirstArg := firstArgKey(slot.clause.Head)
		if !hasFirstArg || key == varBucketKey {
			b.varSlots = append(b.varSlots, i)
			continue
		}
		b.byKey[key] = append(b.byKey[key], i)
	}
}

const varBucketKey = "_VAR_"

// firstArgKey computes the §3.5 first-argument key for a clause head.
// ok is false when head has no first argument at all (arity-0 atom
// heads never participate in first-arg indexing).
func firstArgKey(head Term) (key string, ok bool) {
	c, isCompound := head.(*Compound)
	if !isCompound || len(c.Args) == 0 {
		return "", false
	}
	return keyForTerm(c.Args[0]), true
}

func keyForTerm(t Term) string {
	switch v := t.(type) {
	case *Variable:
		return varBucketKey
	case *Atom:
		return "atom:" + v.Name
	case *Compound:
		return fmt.Sprintf("compound:%s/%d", v.Functor, len(v.Args))
	case *Integer:
		return "num:" + v.Value.String()
	case *Float:
		return "num:" + v.String()
	default:
		return varBucketKey
	}
}

// Database is the ordered, runtime-mutable clause store of §3.5. All
// operations are safe for concurrent use; readers and writers are
// coordinated by a single RWMutex, matching pldb.go's Database.
type Database struct {
	mu      sync.RWMutex
	buckets map[string]*indicatorBucket
}

// NewDatabase creates an empty clause database.
func NewDatabase() *Database {
	return &Database{buckets: make(map[string]*indicatorBucket)}
}

func (db *Database) bucketFor(indicator string) *indicatorBucket {
	b, ok := db.buckets[indicator]
	if !ok {
		b = newIndicatorBucket()
		db.buckets[indicator] = b
	}
	return b
}

// AssertZ appends c to the end of its indicator's clause list (§4.2:
// "Append; O(1) amortised").
func (db *Database) AssertZ(c *Clause) {
	db.mu.Lock()
	defer db.mu.Unlock()

	ind := c.Indicator()
	b := db.bucketFor(ind)
	idx := len(b.slots)
	b.slots = append(b.slots, &clauseSlot{clause: c})

	key, hasFirstArg := firstArgKey(c.Head)
	if !hasFirstArg || key == varBucketKey {
		b.varSlots = append(b.varSlots, idx)
	} else {
		b.byKey[key] = append(b.byKey[key], idx)
	}
}

// AssertA prepends c to its indicator's clause list (§4.2).
func (db *Database) AssertA(c *Clause) {
	db.mu.Lock()
	defer db.mu.Unlock()

	ind := c.Indicator()
	b := db.bucketFor(ind)
	b.slots = append([]*clauseSlot{{clause: c}}, b.slots...)
	b.rebuildIndex()
}

// Dynamic pre-declares indicator as assertable (SPEC_FULL.md C.5), so a
// query against a still-empty predicate fails cleanly instead of being
// treated as wholly undefined by a future strict existence check.
func (db *Database) Dynamic(indicator string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.bucketFor(indicator).dynamic = true
}

// IsDeclared reports whether indicator has any clauses or was declared
// via Dynamic.
func (db *Database) IsDeclared(indicator string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	b, ok := db.buckets[indicator]
	if !ok {
		return false
	}
	if b.dynamic {
		return true
	}
	for _, s := range b.slots {
		if !s.deleted {
			return true
		}
	}
	return false
}

// Retrieve returns candidate clauses for goal using first-argument
// indexing (§4.2): if goal is a compound with a ground first argument,
// the indexed bucket and the variable bucket are merged back into one
// list in original insertion order; otherwise the full indicator list is
// returned. Retrieve never filters by unifiability beyond this shape
// check — that is the resolver's job.
func (db *Database) Retrieve(goal Term) []*Clause {
	ind, ok := Indicator(goal)
	if !ok {
		return nil
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	b, ok := db.buckets[ind]
	if !ok {
		return nil
	}

	if c, isCompound := goal.(*Compound); isCompound && len(c.Args) > 0 && IsGround(c.Args[0]) {
		key := keyForTerm(c.Args[0])
		indices := mergeIndices(b.byKey[key], b.varSlots)
		return slotsAt(b, indices)
	}

	return liveSlots(b)
}

func mergeIndices(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func slotsAt(b *indicatorBucket, indices []int) []*Clause {
	out := make([]*Clause, 0, len(indices))
	for _, i := range indices {
		if i < len(b.slots) && !b.slots[i].deleted {
			out = append(out, b.slots[i].clause)
		}
	}
	return out
}

func liveSlots(b *indicatorBucket) []*Clause {
	out := make([]*Clause, 0, len(b.slots))
	for _, s := range b.slots {
		if !s.deleted {
			out = append(out, s.clause)
		}
	}
	return out
}

// Retract removes the first clause whose head unifies with
// headPattern's clause head (not structural equality); unification is
// performed with a throwaway substitution/trail that is discarded
// whether or not a match is found, so it never leaks bindings into the
// caller (§4.2).
func (db *Database) Retract(headPattern Term) bool {
	ind, ok := Indicator(headPattern)
	if !ok {
		return false
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	b, ok := db.buckets[ind]
	if !ok {
		return false
	}

	for i, slot := range b.slots {
		if slot.deleted {
			continue
		}
		scratch := NewSubstitution()
		scratchTrail := NewTrail()
		renamed := renameClause(slot.clause)
		if Unify(headPattern, renamed.Head, scratch, scratchTrail, false) {
			b.slots[i].deleted = true
			b.rebuildIndex()
			return true
		}
	}
	return false
}

// RetractAll removes every clause whose head unifies with headPattern,
// returning the number removed. It always succeeds, even with zero
// matches (§4.2).
func (db *Database) RetractAll(headPattern Term) int {
	ind, ok := Indicator(headPattern)
	if !ok {
		return 0
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	b, ok := db.buckets[ind]
	if !ok {
		db.bucketFor(ind).dynamic = true
		return 0
	}

	count := 0
	for i, slot := range b.slots {
		if slot.deleted {
			continue
		}
		scratch := NewSubstitution()
		scratchTrail := NewTrail()
		renamed := renameClause(slot.clause)
		if Unify(headPattern, renamed.Head, scratch, scratchTrail, false) {
			b.slots[i].deleted = true
			count++
		}
	}
	b.dynamic = true
	b.rebuildIndex()
	return count
}

// Abolish removes an entire indicator bucket outright (SPEC_FULL.md
// C.5) — stronger than RetractAll, which only removes unifying heads
// one at a time.
func (db *Database) Abolish(indicator string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.buckets, indicator)
}

// Clear removes every clause from every indicator.
func (db *Database) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.buckets = make(map[string]*indicatorBucket)
}

// AssertBulk asserts every clause in cs with assertz semantics,
// accumulating any per-clause validation error via multierror rather
// than stopping at the first bad clause (SPEC_FULL.md A.2) — useful for
// embedders loading a whole program's worth of clauses in one call.
func (db *Database) AssertBulk(cs []*Clause) error {
	var errs error
	for i, c := range cs {
		if c == nil || c.Head == nil {
			errs = multierror.Append(errs, fmt.Errorf("clause %d: nil head", i))
			continue
		}
		db.AssertZ(c)
	}
	return errs
}
