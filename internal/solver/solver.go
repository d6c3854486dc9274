// Package solver implements spec.md §4.5: the monotone fixpoint that
// resolves every qualifier variable to a lattice atom. The algorithm
// takes the same shape as internal/analyzer/inference_solver.go's
// SolveConstraints iterate-to-fixpoint loop, adapted from unification
// over a subst map to a monotone join over a fixed four-point
// lattice — a strictly simpler fixpoint, since Join never fails the
// way Unify can.
package solver

import (
	"sort"

	"github.com/ccqual/ccqual/internal/constraints"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// Assignment maps every qvar the store knows about to its solved
// atom. Qvars the constraint set never mentions default to Ptr
// (spec.md's "unassigned variables default to Ptr" invariant).
type Assignment map[qual.QVar]qual.Atom

// Provenance records, for --dump-intermediate, which constraint last
// raised a qvar's value and why.
type Provenance struct {
	Reason string
	Origin string
}

// Result bundles the solved assignment with per-qvar provenance.
type Result struct {
	Assignment Assignment
	Provenance map[qual.QVar]Provenance
}

// Solve runs the store's constraints to a fixpoint. Constraints only
// ever raise a qvar's atom (never lower it), so the loop terminates:
// each qvar's value is bounded above by Wild and monotonically
// non-decreasing across iterations.
func Solve(store *constraints.Store, numQVars int) Result {
	asn := make(Assignment, numQVars)
	prov := make(map[qual.QVar]Provenance, numQVars)
	for i := 0; i < numQVars; i++ {
		asn[qual.QVar(i)] = qual.DefaultAtom
	}

	cs := store.SortedByOrigin()

	changed := true
	for changed {
		changed = false
		for _, c := range cs {
			if applyConstraint(c, asn, prov) {
				changed = true
			}
		}
	}

	return Result{Assignment: asn, Provenance: prov}
}

// applyConstraint raises whichever side of c is a variable to the
// join of its current value and the other side's resolved value, for
// each of the three constraint shapes. It reports whether it changed
// anything, which is what drives Solve's fixpoint loop.
func applyConstraint(c constraints.Constraint, asn Assignment, prov map[qual.QVar]Provenance) bool {
	switch v := c.(type) {
	case constraints.Eq:
		return applyEq(v.A, v.B, v.Reason, v.Origin, asn, prov)
	case constraints.Not:
		// Not(Eq(qv, Ptr)) means qv must be strictly above Ptr: raise it
		// to Arr if it is still sitting at Ptr.
		qv := v.C.A.Var_()
		if asn[qv] == qual.Ptr {
			asn[qv] = qual.Arr
			prov[qv] = Provenance{Reason: v.Reason, Origin: v.Origin.String()}
			return true
		}
		return false
	case constraints.Implies:
		// Then is asserted only while If holds under the current assignment.
		holds := false
		switch ic := v.If.(type) {
		case constraints.Eq:
			holds = resolve(ic.A, asn) == resolve(ic.B, asn)
		case constraints.Not:
			holds = resolve(ic.C.A, asn) != resolve(ic.C.B, asn)
		}
		if !holds {
			return false
		}
		return applyConstraint(v.Then, asn, prov)
	}
	return false
}

func applyEq(a, b qual.AtomRef, reason string, origin srcloc.Loc, asn Assignment, prov map[qual.QVar]Provenance) bool {
	changed := false
	if a.IsVar() {
		changed = raise(a.Var_(), resolve(b, asn), reason, origin.String(), asn, prov) || changed
	}
	if b.IsVar() {
		changed = raise(b.Var_(), resolve(a, asn), reason, origin.String(), asn, prov) || changed
	}
	return changed
}

func resolve(r qual.AtomRef, asn Assignment) qual.Atom {
	if r.IsVar() {
		return asn[r.Var_()]
	}
	return r.Const_()
}

func raise(qv qual.QVar, to qual.Atom, reason, origin string, asn Assignment, prov map[qual.QVar]Provenance) bool {
	joined := qual.Join(asn[qv], to)
	if joined == asn[qv] {
		return false
	}
	asn[qv] = joined
	prov[qv] = Provenance{Reason: reason, Origin: origin}
	return true
}

// SortedQVars returns every qvar in asn in ascending order, the
// iteration order --dump-intermediate and the planner both rely on.
func SortedQVars(asn Assignment) []qual.QVar {
	out := make([]qual.QVar, 0, len(asn))
	for qv := range asn {
		out = append(out, qv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
