// Package constraints implements the append-only constraint store:
// the Eq/Not/Implies formulas of spec.md §3 over qualifier atoms.
package constraints

import (
	"sort"
	"sync"

	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// Constraint is one of Eq, Not, or Implies.
type Constraint interface {
	constraintTag()
}

// Eq is the primitive equality relation a == b.
type Eq struct {
	A, B qual.AtomRef
	// Origin records where this constraint came from, used by the
	// solver to report qvar provenance in --dump-intermediate.
	Origin srcloc.Loc
	Reason string
}

func (Eq) constraintTag() {}

// Not wraps an Eq to mean "this equality does not hold" — used
// sparingly, only to express "qv is not Ptr" (spec.md §4.3's pointer
// arithmetic rule).
type Not struct {
	C      Eq
	Origin srcloc.Loc
	Reason string
}

func (Not) constraintTag() {}

// Implies is the conditional relation used for cast relationships:
// if If holds under the current assignment, Then is also asserted.
type Implies struct {
	If, Then Constraint
	Origin   srcloc.Loc
	Reason   string
}

func (Implies) constraintTag() {}

// Store is the process-wide (or, in parallel-generation mode,
// per-worker) append-only multiset of constraints plus the shared
// qvar allocator. Insertion order does not affect the solved
// assignment, only the determinism of diagnostic dumps.
type Store struct {
	mu          sync.Mutex
	alloc       *qual.Allocator
	constraints []Constraint
}

func NewStore() *Store {
	return &Store{alloc: qual.NewAllocator()}
}

func NewStoreWithAllocator(a *qual.Allocator) *Store {
	return &Store{alloc: a}
}

func (s *Store) Allocator() *qual.Allocator { return s.alloc }

func (s *Store) FreshQVar() qual.QVar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alloc.Fresh()
}

// AddEq appends an equality constraint. A constraint between two
// identical atoms is kept rather than elided: the solver treats it as
// a no-op, and keeping it preserves the append-only contract and a
// straightforward provenance trail.
func (s *Store) AddEq(a, b qual.AtomRef, origin srcloc.Loc, reason string) {
	s.add(Eq{A: a, B: b, Origin: origin, Reason: reason})
}

// AddNotPtr appends Not(Eq(qv, Ptr)) — "qv is at least Arr".
func (s *Store) AddNotPtr(v qual.QVar, origin srcloc.Loc, reason string) {
	s.add(Not{C: Eq{A: qual.Var(v), B: qual.Const(qual.Ptr)}, Origin: origin, Reason: reason})
}

func (s *Store) AddImplies(ifC, thenC Constraint, origin srcloc.Loc, reason string) {
	s.add(Implies{If: ifC, Then: thenC, Origin: origin, Reason: reason})
}

func (s *Store) add(c Constraint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.constraints = append(s.constraints, c)
}

// All returns every constraint currently in the store, in insertion
// order. Callers that need determinism independent of insertion
// order (the solver does not; dump-intermediate does) should sort by
// Origin themselves.
func (s *Store) All() []Constraint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// Merge absorbs another store's constraints. Merge is associative and
// commutative over Eq, Not, and Implies (none of the three carry
// state that depends on merge order), which is what lets the driver
// partition generation by translation unit and merge at link time.
func (s *Store) Merge(other *Store) {
	other.mu.Lock()
	cs := make([]Constraint, len(other.constraints))
	copy(cs, other.constraints)
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.constraints = append(s.constraints, cs...)
}

// SortedByOrigin returns a copy of the constraint list ordered by
// source location, for byte-identical dump-intermediate output across
// runs regardless of goroutine scheduling in parallel-generation mode.
func (s *Store) SortedByOrigin() []Constraint {
	cs := s.All()
	sort.SliceStable(cs, func(i, j int) bool {
		return originOf(cs[i]).Less(originOf(cs[j]))
	})
	return cs
}

func originOf(c Constraint) srcloc.Loc {
	switch v := c.(type) {
	case Eq:
		return v.Origin
	case Not:
		return v.Origin
	case Implies:
		return v.Origin
	default:
		return srcloc.Loc{}
	}
}
