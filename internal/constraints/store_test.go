package constraints

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

func TestFreshQVarAllocatesThroughSharedAllocator(t *testing.T) {
	s := NewStore()
	v0 := s.FreshQVar()
	v1 := s.FreshQVar()
	require.Equal(t, qual.QVar(0), v0)
	require.Equal(t, qual.QVar(1), v1)
	require.Equal(t, 2, s.Allocator().Count())
}

func TestAddEqAndAll(t *testing.T) {
	s := NewStore()
	loc := srcloc.Loc{File: "a.c", Line: 3, Col: 1}
	s.AddEq(qual.Var(0), qual.Const(qual.Wild), loc, "test")

	all := s.All()
	require.Len(t, all, 1)
	eq, ok := all[0].(Eq)
	require.True(t, ok)
	require.Equal(t, qual.Wild, eq.B.Const_())
	require.Equal(t, loc, eq.Origin)
}

func TestAddNotPtrShape(t *testing.T) {
	s := NewStore()
	s.AddNotPtr(qual.QVar(5), srcloc.Loc{}, "pointer arithmetic")
	all := s.All()
	require.Len(t, all, 1)
	notC, ok := all[0].(Not)
	require.True(t, ok)
	require.Equal(t, qual.QVar(5), notC.C.A.Var_())
	require.Equal(t, qual.Ptr, notC.C.B.Const_())
}

func TestMergeAppendsOtherStoresConstraints(t *testing.T) {
	a := NewStore()
	b := NewStore()
	a.AddEq(qual.Var(0), qual.Const(qual.Arr), srcloc.Loc{}, "a")
	b.AddEq(qual.Var(1), qual.Const(qual.NTArr), srcloc.Loc{}, "b")

	a.Merge(b)
	require.Len(t, a.All(), 2)
	require.Len(t, b.All(), 1, "merge must not mutate the source store")
}

func TestSortedByOriginOrdersByLocation(t *testing.T) {
	s := NewStore()
	s.AddEq(qual.Var(0), qual.Const(qual.Wild), srcloc.Loc{File: "a.c", Line: 9}, "later")
	s.AddEq(qual.Var(1), qual.Const(qual.Wild), srcloc.Loc{File: "a.c", Line: 2}, "earlier")

	sorted := s.SortedByOrigin()
	require.Len(t, sorted, 2)
	require.Equal(t, "earlier", sorted[0].(Eq).Reason)
	require.Equal(t, "later", sorted[1].(Eq).Reason)
}
