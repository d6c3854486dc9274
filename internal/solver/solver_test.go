package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/constraints"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

func TestSolveDefaultsUnmentionedQVarsToPtr(t *testing.T) {
	s := constraints.NewStore()
	result := Solve(s, 3)
	for i := 0; i < 3; i++ {
		require.Equal(t, qual.Ptr, result.Assignment[qual.QVar(i)])
	}
}

func TestSolvePropagatesEqualityThroughAChain(t *testing.T) {
	s := constraints.NewStore()
	// q0 == Wild; q0 == q1; q1 == q2 — equality must chain across
	// iterations of the fixpoint loop, not just one pass.
	s.AddEq(qual.Var(0), qual.Const(qual.Wild), srcloc.Loc{}, "seed")
	s.AddEq(qual.Var(0), qual.Var(1), srcloc.Loc{}, "chain1")
	s.AddEq(qual.Var(1), qual.Var(2), srcloc.Loc{}, "chain2")

	result := Solve(s, 3)
	require.Equal(t, qual.Wild, result.Assignment[qual.QVar(0)])
	require.Equal(t, qual.Wild, result.Assignment[qual.QVar(1)])
	require.Equal(t, qual.Wild, result.Assignment[qual.QVar(2)])
}

func TestSolveNeverLowersAQVar(t *testing.T) {
	s := constraints.NewStore()
	s.AddEq(qual.Var(0), qual.Const(qual.Wild), srcloc.Loc{}, "raise to wild")
	s.AddEq(qual.Var(0), qual.Const(qual.Ptr), srcloc.Loc{}, "would-be lower")

	result := Solve(s, 1)
	require.Equal(t, qual.Wild, result.Assignment[qual.QVar(0)])
}

func TestSolveNotPtrRaisesToArr(t *testing.T) {
	s := constraints.NewStore()
	s.AddNotPtr(qual.QVar(0), srcloc.Loc{}, "pointer arithmetic")

	result := Solve(s, 1)
	require.Equal(t, qual.Arr, result.Assignment[qual.QVar(0)])
}

func TestSolveImpliesAppliesThenWhenIfHolds(t *testing.T) {
	s := constraints.NewStore()
	ifC := constraints.Eq{A: qual.Const(qual.Ptr), B: qual.Const(qual.Ptr)}
	thenC := constraints.Eq{A: qual.Var(0), B: qual.Const(qual.NTArr)}
	s.AddImplies(ifC, thenC, srcloc.Loc{}, "cast rule")

	result := Solve(s, 1)
	require.Equal(t, qual.NTArr, result.Assignment[qual.QVar(0)])
}

func TestSortedQVarsAscending(t *testing.T) {
	asn := Assignment{3: qual.Ptr, 1: qual.Wild, 2: qual.Arr}
	require.Equal(t, []qual.QVar{1, 2, 3}, SortedQVars(asn))
}

func TestProvenanceRecordsLastRaisingReason(t *testing.T) {
	s := constraints.NewStore()
	loc := srcloc.Loc{File: "a.c", Line: 4, Col: 2}
	s.AddEq(qual.Var(0), qual.Const(qual.Arr), loc, "subscripted")

	result := Solve(s, 1)
	prov, ok := result.Provenance[qual.QVar(0)]
	require.True(t, ok)
	require.Equal(t, "subscripted", prov.Reason)
	require.Equal(t, loc.String(), prov.Origin)
}
