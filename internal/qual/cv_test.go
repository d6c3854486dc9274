package qual

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/srcloc"
)

func TestPointerCVOuterIsFirstLevel(t *testing.T) {
	p := &PointerCV{Levels: []QVar{3, 4, 5}}
	require.Equal(t, QVar(3), p.Outer())
}

func TestPointerCVConstrainedMarking(t *testing.T) {
	p := &PointerCV{}
	require.False(t, p.IsConstrained(1))
	p.MarkConstrained(1)
	require.True(t, p.IsConstrained(1))
	require.False(t, p.IsConstrained(2))
}

func TestAllQVarsOrderOuterFirstThenNested(t *testing.T) {
	inner := &PointerCV{Levels: []QVar{10}}
	outer := &PointerCV{Levels: []QVar{1, 2}, NestedFV: &FunctionCV{
		ReturnCVs: []CV{inner},
		ParamCVs:  [][]CV{{&PointerCV{Levels: []QVar{20}}}},
	}}
	got := AllQVars(outer, nil)
	require.Equal(t, []QVar{1, 2, 10, 20}, got)
}

func TestFunctionCVArity(t *testing.T) {
	f := &FunctionCV{ParamCVs: [][]CV{{}, {}, {}}}
	require.Equal(t, 3, f.Arity())
}

func TestCVLocation(t *testing.T) {
	loc := srcloc.Loc{File: "a.c", Line: 1, Col: 1}
	var c CV = &PointerCV{Loc: loc}
	require.Equal(t, loc, c.Location())
}
