package prolog

import "sync"

// atomPool is the process-wide atom interning table (§5, "Shared
// resources": "The atom pool is process-wide. Writers (interning) must
// synchronise; readers of an already-interned atom do not."). It is a
// package-level var rather than per-engine state; implementations that
// need per-engine isolation can fork this into a field on Engine, but a
// shared pool is the default this spec calls out.
var atomPool = struct {
	mu sync.Mutex
	m  map[string]*Atom
}{m: make(map[string]*Atom, 64)}

// Intern returns the unique *Atom for the given name, creating it on
// first use. Every call, including a lookup of an already-interned name,
// takes the pool mutex; once a caller holds the returned pointer it can
// use it without further locking, since an *Atom is immutable once
// published.
func Intern(name string) *Atom {
	atomPool.mu.Lock()
	defer atomPool.mu.Unlock()
	if a, ok := atomPool.m[name]; ok {
		return a
	}
	a := &Atom{Name: name}
	atomPool.m[name] = a
	return a
}
